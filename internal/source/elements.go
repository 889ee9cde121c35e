package source

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/roach88/chartpick/internal/ir"
)

// Distinct returns one element per distinct non-NULL value of table.field,
// ordered by value. Each element is labelled with its value's text form.
func (d *DB) Distinct(ctx context.Context, table, field string, ft ir.FieldType) ([]ir.Element, error) {
	t, f, err := quoteColumn(table, field)
	if err != nil {
		return nil, &Error{Op: "distinct", Table: table, Field: field, Err: err}
	}

	rows, err := d.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT DISTINCT %[2]s
		FROM %[1]s
		WHERE %[2]s IS NOT NULL
		ORDER BY %[2]s ASC
	`, t, f))
	if err != nil {
		return nil, &Error{Op: "distinct", Table: table, Field: field, Err: err}
	}
	defer rows.Close()

	var elems []ir.Element
	seen := make(map[string]bool)
	for rows.Next() {
		var raw any
		if err := rows.Scan(&raw); err != nil {
			return nil, &Error{Op: "distinct", Table: table, Field: field, Err: fmt.Errorf("scan: %w", err)}
		}
		v, err := convert(raw, ft)
		if err != nil {
			return nil, &Error{Op: "distinct", Table: table, Field: field, Err: err}
		}
		label := Label(v)
		if seen[label] {
			continue // e.g. 1 and 1.0 under a number type
		}
		seen[label] = true
		elems = append(elems, ir.Element{Label: label, Value: v})
	}
	if err := rows.Err(); err != nil {
		return nil, &Error{Op: "distinct", Table: table, Field: field, Err: fmt.Errorf("iterate: %w", err)}
	}

	// SQLite orders by storage class first; keep the chart in value order.
	slices.SortStableFunc(elems, func(a, b ir.Element) int {
		return ir.Compare(ir.Comparable(a.Value), ir.Comparable(b.Value))
	})
	return elems, nil
}

// Histogram buckets the numeric values of table.field into bins of the given
// width starting at multiples of width. Only non-empty bins are returned, in
// ascending order, each with BinWidth set.
func (d *DB) Histogram(ctx context.Context, table, field string, width float64) ([]ir.Element, error) {
	if width <= 0 || math.IsNaN(width) || math.IsInf(width, 0) {
		return nil, &Error{Op: "histogram", Table: table, Field: field,
			Err: fmt.Errorf("bin width must be a positive number, got %v", width)}
	}
	t, f, err := quoteColumn(table, field)
	if err != nil {
		return nil, &Error{Op: "histogram", Table: table, Field: field, Err: err}
	}

	rows, err := d.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT %[2]s
		FROM %[1]s
		WHERE typeof(%[2]s) IN ('integer', 'real')
	`, t, f))
	if err != nil {
		return nil, &Error{Op: "histogram", Table: table, Field: field, Err: err}
	}
	defer rows.Close()

	bins := make(map[float64]bool)
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, &Error{Op: "histogram", Table: table, Field: field, Err: fmt.Errorf("scan: %w", err)}
		}
		bins[math.Floor(v/width)*width] = true
	}
	if err := rows.Err(); err != nil {
		return nil, &Error{Op: "histogram", Table: table, Field: field, Err: fmt.Errorf("iterate: %w", err)}
	}

	starts := make([]float64, 0, len(bins))
	for start := range bins {
		starts = append(starts, start)
	}
	slices.Sort(starts)

	elems := make([]ir.Element, len(starts))
	for i, start := range starts {
		n := ir.Number(start)
		elems[i] = ir.Element{Label: n.String(), Value: n, BinWidth: width}
	}
	return elems, nil
}

// Label returns the element label for a value: its text form, with strings
// unquoted.
func Label(v ir.Value) string {
	if s, ok := v.(ir.String); ok {
		return string(s)
	}
	return v.String()
}
