package source

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/chartpick/internal/ir"
)

// dateLayouts are the text forms accepted for date columns, most specific first.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// convert maps a scanned SQLite value to a chart value of the field type.
// An unsupported field type keeps the storage class of the raw value.
func convert(raw any, ft ir.FieldType) (ir.Value, error) {
	if b, ok := raw.([]byte); ok && ft != ir.FieldObjectID && ft != ir.FieldUUID {
		raw = string(b)
	}

	switch ft {
	case ir.FieldBoolean:
		switch v := raw.(type) {
		case bool:
			return ir.Bool(v), nil
		case int64:
			return ir.Bool(v != 0), nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("boolean column: %w", err)
			}
			return ir.Bool(b), nil
		}
	case ir.FieldString:
		switch v := raw.(type) {
		case string:
			return ir.String(v), nil
		case int64:
			return ir.String(strconv.FormatInt(v, 10)), nil
		case float64:
			return ir.String(ir.Number(v).String()), nil
		case bool:
			return ir.String(strconv.FormatBool(v)), nil
		case time.Time:
			return ir.String(ir.NewDate(v).String()), nil
		}
	case ir.FieldNumber:
		switch v := raw.(type) {
		case int64:
			return ir.Number(float64(v)), nil
		case float64:
			return ir.Number(v), nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, fmt.Errorf("number column: %w", err)
			}
			return ir.Number(f), nil
		}
	case ir.FieldDate:
		switch v := raw.(type) {
		case time.Time:
			return ir.NewDate(v), nil
		case int64:
			return ir.NewDate(time.Unix(v, 0)), nil
		case string:
			return parseDate(v)
		}
	case ir.FieldObjectID:
		switch v := raw.(type) {
		case []byte:
			if len(v) == 12 {
				var oid ir.ObjectID
				copy(oid[:], v)
				return oid, nil
			}
			return ir.ParseObjectID(string(v))
		case string:
			return ir.ParseObjectID(v)
		}
	case ir.FieldUUID:
		switch v := raw.(type) {
		case []byte:
			if len(v) == 16 {
				var u ir.UUID
				copy(u[:], v)
				return u, nil
			}
			return ir.ParseUUID(string(v))
		case string:
			return ir.ParseUUID(v)
		}
	default:
		switch v := raw.(type) {
		case int64:
			return ir.Number(float64(v)), nil
		case float64:
			return ir.Number(v), nil
		case string:
			return ir.String(v), nil
		case bool:
			return ir.Bool(v), nil
		case time.Time:
			return ir.NewDate(v), nil
		}
	}
	return nil, fmt.Errorf("cannot use %T value as %s", raw, ft)
}

func parseDate(s string) (ir.Value, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return ir.NewDate(t), nil
		}
	}
	return nil, fmt.Errorf("unrecognized date %q", s)
}
