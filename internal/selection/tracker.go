package selection

import (
	"fmt"

	"github.com/roach88/chartpick/internal/ir"
	"github.com/roach88/chartpick/internal/predicate"
)

// Mode selects the click semantics a Tracker applies.
type Mode int

const (
	ModeDistinct Mode = iota
	ModeRange
)

func (m Mode) String() string {
	if m == ModeRange {
		return "range"
	}
	return "distinct"
}

// Result is the outcome of one toggle.
//
// Predicate is nil when the selection is empty; the caller clears the field's
// predicate in that case.
type Result struct {
	Classes   []ElementClass
	Predicate predicate.Predicate
}

// Cleared reports whether the toggle left no predicate.
func (r Result) Cleared() bool { return r.Predicate == nil }

// Tracker owns the selection of a single chart.
//
// A Tracker is not safe for concurrent use. It is driven by one chart and
// mutated only by that chart's interactions.
type Tracker struct {
	field ir.FieldType
	mode  Mode
	state State
}

// NewTracker creates an empty tracker for a field of the given type.
// The field type decides whether bin widths extend range bounds.
func NewTracker(field ir.FieldType) *Tracker {
	return &Tracker{field: field}
}

// State returns the current selection.
func (t *Tracker) State() State {
	return State{entries: t.state.Entries()}
}

// Mode returns the mode of the most recent toggle.
func (t *Tracker) Mode() Mode { return t.mode }

// Reset empties the selection.
func (t *Tracker) Reset() {
	t.state = State{}
}

// ToggleDistinct applies a click in distinct mode.
//
// Without modifier, reclicking the sole selected element clears the selection
// and any other click replaces it. With modifier, the clicked label is removed
// if present and appended otherwise. If the new selection has no predicate
// the tracker is left unchanged.
func (t *Tracker) ToggleDistinct(point ir.Element, all []ir.Element, modifier bool) (Result, error) {
	entries := t.state.entries

	if modifier {
		if i := t.state.indexOf(point.Label); i >= 0 {
			entries = append(entries[:i:i], entries[i+1:]...)
		} else {
			entries = append(entries[:len(entries):len(entries)], point)
		}
	} else {
		if len(entries) == 1 && entries[0].Label == point.Label {
			entries = nil
		} else {
			entries = []ir.Element{point}
		}
	}
	next := State{entries: entries}

	pred, err := distinctPredicate(next.entries)
	if err != nil {
		return Result{}, err
	}
	t.mode, t.state = ModeDistinct, next
	return Result{Classes: classifyDistinct(next, all), Predicate: pred}, nil
}

// ToggleRange applies a click in range mode.
//
// A modifier-click writes the second bound, replacing any previous one; with
// nothing selected it becomes the first bound. A plain click on the current
// first bound clears the selection; any other plain click starts over with the
// clicked element as the only bound. If the bounds cannot form a predicate
// the tracker is left unchanged.
func (t *Tracker) ToggleRange(point ir.Element, all []ir.Element, modifier bool) (Result, error) {
	entries := t.state.entries

	switch {
	case modifier && len(entries) == 0:
		entries = []ir.Element{point}
	case modifier:
		entries = []ir.Element{entries[0], point}
	case len(entries) > 0 && entries[0].Label == point.Label:
		entries = nil
	default:
		entries = []ir.Element{point}
	}

	if len(entries) == 0 {
		t.mode, t.state = ModeRange, State{}
		return Result{Classes: neutral(all)}, nil
	}
	b := resolveBounds(entries, t.field)
	pred, err := b.predicate()
	if err != nil {
		return Result{}, err
	}
	t.mode, t.state = ModeRange, State{entries: entries}
	return Result{Classes: b.classify(all), Predicate: pred}, nil
}

// Classify recomputes the classification list for the current state using the
// mode of the most recent toggle. It does not mutate the tracker.
func (t *Tracker) Classify(all []ir.Element) []ElementClass {
	if t.state.Empty() {
		return neutral(all)
	}
	if t.mode == ModeRange {
		return resolveBounds(t.state.entries, t.field).classify(all)
	}
	return classifyDistinct(t.state, all)
}

func classifyDistinct(s State, all []ir.Element) []ElementClass {
	if s.Empty() {
		return neutral(all)
	}
	classes := make([]ElementClass, len(all))
	for i, e := range all {
		c := Dimmed
		if s.Has(e.Label) {
			c = Selected
		}
		classes[i] = ElementClass{Label: e.Label, Class: c}
	}
	return classes
}

func distinctPredicate(entries []ir.Element) (predicate.Predicate, error) {
	switch len(entries) {
	case 0:
		return nil, nil
	case 1:
		return predicate.Exact{Value: entries[0].Value}, nil
	}
	values := make([]ir.Value, len(entries))
	for i, e := range entries {
		values[i] = e.Value
	}
	set, err := predicate.NewSet(values)
	if err != nil {
		return nil, fmt.Errorf("distinct selection: %w", err)
	}
	if len(set.Values) == 1 {
		return predicate.Exact{Value: set.Values[0]}, nil
	}
	return set, nil
}

func neutral(all []ir.Element) []ElementClass {
	classes := make([]ElementClass, len(all))
	for i, e := range all {
		classes[i] = ElementClass{Label: e.Label, Class: Neutral}
	}
	return classes
}
