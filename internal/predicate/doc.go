// Package predicate defines the query predicates a chart selection produces.
//
// A predicate is one of three shapes:
//
//	Exact{Value}                           field = value
//	Set{Values}                            field in (values...)
//	Range{Lower, Upper, UpperInclusive}    lower <= field < upper (or <= upper)
//
// SEALED INTERFACE:
//
// Predicate is sealed with a marker method, so a type switch over Exact, Set
// and Range is exhaustive:
//
//	switch p := pred.(type) {
//	case Exact:
//	case Set:
//	case Range:
//	}
//
// An empty selection has no predicate at all. Callers clear the field rather
// than emitting an empty Set.
//
// The lower bound of a Range is always inclusive. The upper bound is inclusive
// only when the range was built from exact values; a range ending on a
// histogram bin stops short of the bin's upper edge.
//
// Predicates are values. Nothing in this package mutates a predicate after it
// is built, and a new predicate replaces the previous one on every
// interaction.
//
// ToMap and MarshalCanonical give the transport encoding used by traces and
// CLI output. Translating a predicate into a database query language is left
// to the caller.
package predicate
