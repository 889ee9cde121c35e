package predicate

import "github.com/roach88/chartpick/internal/ir"

// Matches reports whether a field value satisfies the predicate.
//
// Both sides are reduced with ir.Comparable first, so ObjectIDs match by
// their embedded timestamps. A nil predicate matches
// everything, the same as a cleared filter.
func Matches(p Predicate, v ir.Value) bool {
	if p == nil {
		return true
	}
	key := ir.Comparable(v)
	switch pred := p.(type) {
	case Exact:
		return ir.Equal(key, ir.Comparable(pred.Value))
	case Set:
		for _, member := range pred.Values {
			if ir.Equal(key, ir.Comparable(member)) {
				return true
			}
		}
		return false
	case Range:
		if ir.Compare(key, ir.Comparable(pred.Lower)) < 0 {
			return false
		}
		c := ir.Compare(key, ir.Comparable(pred.Upper))
		if pred.UpperInclusive {
			return c <= 0
		}
		return c < 0
	}
	return false
}
