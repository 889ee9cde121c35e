package ir

import (
	"bytes"
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Comparable returns the ordering key for a chart value.
//
// Identifiers that embed a creation time (ObjectID, version 7 UUID) are
// replaced by that time as a Date. Every other value is already ordered and is
// returned unchanged. Comparable is pure and O(1).
func Comparable(v Value) Value {
	switch val := v.(type) {
	case ObjectID:
		return NewDate(val.Timestamp())
	case UUID:
		if ts, ok := val.Timestamp(); ok {
			return NewDate(ts)
		}
		return val
	default:
		return v
	}
}

// Compare returns -1, 0 or +1 ordering a before, equal to, or after b.
//
// Values of different kinds order by Kind. Within a kind:
//   - Number: numeric order; NaN sorts before every other number
//   - String: byte order of the NFC-normalized forms
//   - Bool: false < true
//   - Date: chronological
//   - ObjectID, UUID: byte order
//
// A nil Value sorts before everything.
func Compare(a, b Value) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	if ka, kb := a.Kind(), b.Kind(); ka != kb {
		if ka < kb {
			return -1
		}
		return 1
	}

	switch av := a.(type) {
	case Number:
		return compareFloat(float64(av), float64(b.(Number)))
	case String:
		return strings.Compare(norm.NFC.String(string(av)), norm.NFC.String(string(b.(String))))
	case Bool:
		bv := b.(Bool)
		switch {
		case av == bv:
			return 0
		case !bool(av):
			return -1
		default:
			return 1
		}
	case Date:
		return av.Time().Compare(b.(Date).Time())
	case ObjectID:
		bv := b.(ObjectID)
		return bytes.Compare(av[:], bv[:])
	case UUID:
		bv := b.(UUID)
		return bytes.Compare(av[:], bv[:])
	}
	return 0
}

// Equal reports whether a and b are the same value under Compare.
func Equal(a, b Value) bool {
	return Compare(a, b) == 0
}

// AddWidth extends a Number by width. Other kinds are returned unchanged;
// only numeric bins carry a width that can be added to their value.
func AddWidth(v Value, width float64) Value {
	if n, ok := v.(Number); ok {
		return n + Number(width)
	}
	return v
}

func compareFloat(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return -1
	case bNaN:
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
