package predicate

import (
	"fmt"
	"strings"

	"github.com/roach88/chartpick/internal/ir"
)

// Kind names a predicate shape in encoded form.
type Kind string

const (
	KindExact Kind = "exact"
	KindSet   Kind = "set"
	KindRange Kind = "range"
)

// Predicate is a filter on a single field.
//
// This is a sealed interface - only Exact, Set and Range implement it.
type Predicate interface {
	Kind() Kind
	String() string
	predicateNode() // Marker method - seals interface to this package
}

// Exact matches a single value.
//
// Semantics:
//
//	<field> = <value>
//
// Exact is emitted for a one-element distinct selection and for a range whose
// bounds coincide.
type Exact struct {
	Value ir.Value
}

func (Exact) predicateNode() {}

// Kind returns KindExact.
func (Exact) Kind() Kind { return KindExact }

func (e Exact) String() string {
	return "= " + formatValue(e.Value)
}

// Set matches any of its values ("one of").
//
// Semantics:
//
//	<field> in (<v1>, <v2>, ...)
//
// Values keep selection order. Use NewSet to collapse duplicates.
type Set struct {
	Values []ir.Value
}

func (Set) predicateNode() {}

// Kind returns KindSet.
func (Set) Kind() Kind { return KindSet }

func (s Set) String() string {
	parts := make([]string, len(s.Values))
	for i, v := range s.Values {
		parts[i] = formatValue(v)
	}
	return "in [" + strings.Join(parts, ", ") + "]"
}

// NewSet builds a Set, dropping values equal to an earlier one.
// Number(1) and String("1") are distinct members.
func NewSet(values []ir.Value) (Set, error) {
	seen := make(map[string]bool, len(values))
	out := make([]ir.Value, 0, len(values))
	for i, v := range values {
		key, err := ir.ValueKey(v)
		if err != nil {
			return Set{}, fmt.Errorf("set member %d: %w", i, err)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return Set{Values: out}, nil
}

// Range matches a contiguous span of comparable values.
//
// Semantics:
//
//	<lower> <= <field> <  <upper>    (UpperInclusive false)
//	<lower> <= <field> <= <upper>    (UpperInclusive true)
//
// Bounds hold raw field values. Ordering goes through ir.Comparable, so a
// range over an ObjectID field orders its bounds by embedded timestamp.
type Range struct {
	Lower          ir.Value
	Upper          ir.Value
	UpperInclusive bool
}

func (Range) predicateNode() {}

// Kind returns KindRange.
func (Range) Kind() Kind { return KindRange }

func (r Range) String() string {
	closing := ")"
	if r.UpperInclusive {
		closing = "]"
	}
	return "[" + formatValue(r.Lower) + ", " + formatValue(r.Upper) + closing
}

func formatValue(v ir.Value) string {
	if v == nil {
		return "<nil>"
	}
	return v.String()
}

// Equal reports whether two predicates have the same shape and values.
// Set membership is compared in order.
func Equal(a, b Predicate) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch pa := a.(type) {
	case Exact:
		pb, ok := b.(Exact)
		return ok && ir.Equal(pa.Value, pb.Value)
	case Set:
		pb, ok := b.(Set)
		if !ok || len(pa.Values) != len(pb.Values) {
			return false
		}
		for i := range pa.Values {
			if !ir.Equal(pa.Values[i], pb.Values[i]) {
				return false
			}
		}
		return true
	case Range:
		pb, ok := b.(Range)
		return ok && pa.UpperInclusive == pb.UpperInclusive &&
			ir.Equal(pa.Lower, pb.Lower) && ir.Equal(pa.Upper, pb.Upper)
	}
	return false
}
