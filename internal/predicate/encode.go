package predicate

import (
	"fmt"

	"github.com/roach88/chartpick/internal/ir"
)

// ToMap converts a predicate to its canonical JSON object:
//
//	{"kind":"exact","value":"a"}
//	{"kind":"set","values":["a","b"]}
//	{"kind":"range","lower":20,"upper":50,"upper_inclusive":false}
func ToMap(p Predicate) (map[string]any, error) {
	if err := Validate(p); err != nil {
		return nil, err
	}
	switch pred := p.(type) {
	case Exact:
		return map[string]any{
			"kind":  string(KindExact),
			"value": pred.Value,
		}, nil
	case Set:
		values := make([]any, len(pred.Values))
		for i, v := range pred.Values {
			values[i] = v
		}
		return map[string]any{
			"kind":   string(KindSet),
			"values": values,
		}, nil
	case Range:
		return map[string]any{
			"kind":            string(KindRange),
			"lower":           pred.Lower,
			"upper":           pred.Upper,
			"upper_inclusive": pred.UpperInclusive,
		}, nil
	}
	return nil, fmt.Errorf("unknown predicate type %T", p)
}

// MarshalCanonical encodes a predicate as RFC 8785 canonical JSON.
func MarshalCanonical(p Predicate) ([]byte, error) {
	m, err := ToMap(p)
	if err != nil {
		return nil, fmt.Errorf("encode predicate: %w", err)
	}
	return ir.MarshalCanonical(m)
}

// MarshalJSON encodes the predicate in canonical form.
func (e Exact) MarshalJSON() ([]byte, error) { return MarshalCanonical(e) }

// MarshalJSON encodes the predicate in canonical form.
func (s Set) MarshalJSON() ([]byte, error) { return MarshalCanonical(s) }

// MarshalJSON encodes the predicate in canonical form.
func (r Range) MarshalJSON() ([]byte, error) { return MarshalCanonical(r) }
