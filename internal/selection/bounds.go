package selection

import (
	"github.com/roach88/chartpick/internal/ir"
	"github.com/roach88/chartpick/internal/predicate"
)

// bounds are the first and last selected elements of a range, ordered by
// comparable value.
type bounds struct {
	first, last ir.Element
	extend      bool // add last.BinWidth to the upper edge
}

// resolveBounds resolves the range bounds of a non-empty selection. The
// result does not depend on which slot holds which element.
func resolveBounds(entries []ir.Element, field ir.FieldType) bounds {
	first, last := entries[0], entries[0]
	for _, e := range entries[1:] {
		key := ir.Comparable(e.Value)
		if ir.Compare(key, ir.Comparable(first.Value)) < 0 {
			first = e
		}
		if ir.Compare(key, ir.Comparable(last.Value)) > 0 {
			last = e
		}
	}
	return bounds{first: first, last: last, extend: field == ir.FieldNumber}
}

func (b bounds) upperInclusive() bool {
	return b.last.BinWidth == 0
}

func (b bounds) upper(v ir.Value) ir.Value {
	if b.extend {
		return ir.AddWidth(v, b.last.BinWidth)
	}
	return v
}

// classify marks every element inside [lower, upper] or [lower, upper) as
// Selected and the rest as Dimmed.
func (b bounds) classify(all []ir.Element) []ElementClass {
	lower := ir.Comparable(b.first.Value)
	upper := b.upper(ir.Comparable(b.last.Value))
	inclusive := b.upperInclusive()

	classes := make([]ElementClass, len(all))
	for i, e := range all {
		key := ir.Comparable(e.Value)
		in := ir.Compare(key, lower) >= 0
		if c := ir.Compare(key, upper); inclusive {
			in = in && c <= 0
		} else {
			in = in && c < 0
		}
		class := Dimmed
		if in {
			class = Selected
		}
		classes[i] = ElementClass{Label: e.Label, Class: class}
	}
	return classes
}

// predicate builds the range predicate from the raw bound values. Equal
// bounds collapse to Exact.
func (b bounds) predicate() (predicate.Predicate, error) {
	lower := b.first.Value
	upper := b.upper(b.last.Value)
	if ir.Equal(lower, upper) {
		return predicate.Exact{Value: lower}, nil
	}
	r := predicate.Range{Lower: lower, Upper: upper, UpperInclusive: b.upperInclusive()}
	if err := predicate.Validate(r); err != nil {
		return nil, err
	}
	return r, nil
}
