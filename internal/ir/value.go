package ir

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Kind identifies the concrete type behind a Value.
// The numeric order of kinds is the cross-kind order used by Compare.
type Kind int

const (
	KindBool Kind = iota
	KindNumber
	KindString
	KindDate
	KindObjectID
	KindUUID
)

// String returns the lower-case kind name used in specs and traces.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindDate:
		return "date"
	case KindObjectID:
		return "objectid"
	case KindUUID:
		return "uuid"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a sealed interface over the value kinds a chart element can carry.
// Only Number, String, Bool, Date, ObjectID and UUID implement it.
type Value interface {
	Kind() Kind
	String() string
	chartValue() // Sealed - only these types implement it
}

// Number is a numeric field value. Histogram bins are numbers too.
type Number float64

func (Number) chartValue() {}

// Kind returns KindNumber.
func (Number) Kind() Kind { return KindNumber }

// String formats the number in its shortest round-trip form.
func (n Number) String() string {
	s, err := formatNumber(float64(n))
	if err != nil {
		return strconv.FormatFloat(float64(n), 'g', -1, 64)
	}
	return s
}

// String is a string field value.
type String string

func (String) chartValue() {}

// Kind returns KindString.
func (String) Kind() Kind { return KindString }

// String returns the value quoted, so "1" and 1 render differently.
func (s String) String() string { return strconv.Quote(string(s)) }

// Bool is a boolean field value.
type Bool bool

func (Bool) chartValue() {}

// Kind returns KindBool.
func (Bool) Kind() Kind { return KindBool }

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

// Date is a point in time. Dates are always held in UTC.
type Date time.Time

func (Date) chartValue() {}

// NewDate creates a Date normalized to UTC.
func NewDate(t time.Time) Date {
	return Date(t.UTC())
}

// Kind returns KindDate.
func (Date) Kind() Kind { return KindDate }

// Time returns the underlying time.Time.
func (d Date) Time() time.Time { return time.Time(d) }

// String formats the date as RFC 3339 with nanoseconds trimmed.
func (d Date) String() string { return d.Time().Format(time.RFC3339Nano) }

// ObjectID is a 12-byte identifier whose first four bytes hold its creation
// time as big-endian Unix seconds.
type ObjectID [12]byte

func (ObjectID) chartValue() {}

// ParseObjectID decodes a 24-character hex string.
func ParseObjectID(s string) (ObjectID, error) {
	var oid ObjectID
	if len(s) != 24 {
		return oid, fmt.Errorf("objectid %q: must be 24 hex characters, got %d", s, len(s))
	}
	if _, err := hex.Decode(oid[:], []byte(s)); err != nil {
		return oid, fmt.Errorf("objectid %q: %w", s, err)
	}
	return oid, nil
}

// MustObjectID is like ParseObjectID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustObjectID(s string) ObjectID {
	oid, err := ParseObjectID(s)
	if err != nil {
		panic(err)
	}
	return oid
}

// ObjectIDAt builds an ObjectID for t, with the remaining eight bytes taken
// from suffix. Sub-second precision of t is dropped.
func ObjectIDAt(t time.Time, suffix uint64) ObjectID {
	var oid ObjectID
	binary.BigEndian.PutUint32(oid[0:4], uint32(t.Unix()))
	binary.BigEndian.PutUint64(oid[4:12], suffix)
	return oid
}

// Kind returns KindObjectID.
func (ObjectID) Kind() Kind { return KindObjectID }

// Timestamp returns the creation time embedded in the identifier.
func (oid ObjectID) Timestamp() time.Time {
	secs := binary.BigEndian.Uint32(oid[0:4])
	return time.Unix(int64(secs), 0).UTC()
}

// String returns the 24-character lower-case hex form.
func (oid ObjectID) String() string { return hex.EncodeToString(oid[:]) }

// UUID is a 16-byte identifier. Version 7 UUIDs embed a millisecond
// creation timestamp and are ordered by it.
type UUID uuid.UUID

func (UUID) chartValue() {}

// ParseUUID decodes any textual form accepted by uuid.Parse.
func ParseUUID(s string) (UUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, fmt.Errorf("uuid %q: %w", s, err)
	}
	return UUID(u), nil
}

// Kind returns KindUUID.
func (UUID) Kind() Kind { return KindUUID }

// String returns the canonical hyphenated form.
func (u UUID) String() string { return uuid.UUID(u).String() }

// Timestamp returns the embedded creation time for version 7 UUIDs.
// The second result is false for every other version.
func (u UUID) Timestamp() (time.Time, bool) {
	if uuid.UUID(u).Version() != 7 {
		return time.Time{}, false
	}
	// Top 48 bits are Unix milliseconds.
	var buf [8]byte
	copy(buf[2:], u[0:6])
	ms := int64(binary.BigEndian.Uint64(buf[:]))
	return time.UnixMilli(ms).UTC(), true
}

// formatNumber renders a float the way canonical JSON expects: integers
// without a fraction, no exponent inside [1e-6, 1e21).
func formatNumber(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("non-finite number %v has no JSON form", f)
	}
	if f == 0 {
		return "0", nil // also folds -0
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		return strconv.FormatFloat(f, 'e', -1, 64), nil
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

// MarshalJSON encodes the date as an RFC 3339 string.
func (d Date) MarshalJSON() ([]byte, error) { return marshalCanonicalString(d.String()) }

// MarshalJSON encodes the identifier as its hex string.
func (oid ObjectID) MarshalJSON() ([]byte, error) { return marshalCanonicalString(oid.String()) }

// MarshalJSON encodes the identifier in hyphenated form.
func (u UUID) MarshalJSON() ([]byte, error) { return marshalCanonicalString(u.String()) }
