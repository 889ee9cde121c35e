// Package selection tracks which elements of one chart are selected and turns
// that selection into a classification list and a predicate.
//
// A Tracker applies clicks in one of two modes:
//
//   - Distinct: each click adds or removes a single value. One value emits
//     predicate.Exact, several emit predicate.Set.
//   - Range: a click sets the first bound, a modifier-click the second. The
//     bounds are ordered by ir.Comparable, so click order does not matter.
//     Everything between the bounds is selected.
//
// Range mode assumes the element list is sorted by value. Unsorted input is
// not detected or repaired.
//
// Classification is a pure function of the tracker state and the element
// list; Classify may be called again at any time to resynchronize a renderer.
package selection
