package predicate

import (
	"fmt"

	"github.com/roach88/chartpick/internal/ir"
)

// Validate checks that a predicate is well formed:
//   - Exact carries a value
//   - Set has at least one member, no nil members and no duplicates
//   - Range has distinct bounds of the same kind, lower not above upper
//
// A range with equal bounds is rejected; selections emit Exact for it.
// Validate is a pure function with no side effects.
func Validate(p Predicate) error {
	switch pred := p.(type) {
	case nil:
		return fmt.Errorf("nil predicate")
	case Exact:
		if pred.Value == nil {
			return fmt.Errorf("exact: missing value")
		}
	case Set:
		return validateSet(pred)
	case Range:
		return validateRange(pred)
	default:
		return fmt.Errorf("unknown predicate type %T", p)
	}
	return nil
}

func validateSet(s Set) error {
	if len(s.Values) == 0 {
		return fmt.Errorf("set: no values")
	}
	seen := make(map[string]int, len(s.Values))
	for i, v := range s.Values {
		key, err := ir.ValueKey(v)
		if err != nil {
			return fmt.Errorf("set: value %d: %w", i, err)
		}
		if j, dup := seen[key]; dup {
			return fmt.Errorf("set: value %d duplicates value %d (%s)", i, j, v)
		}
		seen[key] = i
	}
	return nil
}

func validateRange(r Range) error {
	if r.Lower == nil || r.Upper == nil {
		return fmt.Errorf("range: missing bound")
	}
	if r.Lower.Kind() != r.Upper.Kind() {
		return fmt.Errorf("range: bound kinds differ (%s, %s)", r.Lower.Kind(), r.Upper.Kind())
	}
	if ir.Equal(r.Lower, r.Upper) {
		return fmt.Errorf("range: degenerate bounds %s, use exact", r.Lower)
	}
	if ir.Compare(ir.Comparable(r.Lower), ir.Comparable(r.Upper)) > 0 {
		return fmt.Errorf("range: lower %s above upper %s", r.Lower, r.Upper)
	}
	return nil
}
