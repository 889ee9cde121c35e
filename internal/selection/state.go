package selection

import "github.com/roach88/chartpick/internal/ir"

// Class is the visual classification of a chart element.
type Class int

const (
	// Neutral means no selection is active; nothing is dimmed.
	Neutral Class = iota
	Selected
	Dimmed
)

func (c Class) String() string {
	switch c {
	case Selected:
		return "selected"
	case Dimmed:
		return "dimmed"
	default:
		return "neutral"
	}
}

// MarshalText encodes the class by name.
func (c Class) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// ElementClass pairs an element label with its classification.
type ElementClass struct {
	Label string `json:"label"`
	Class Class  `json:"class"`
}

// State is the ordered list of selected elements.
//
// In distinct mode it holds up to one entry per label in insertion order. In
// range mode it holds at most two entries: slot 0 is the first bound, slot 1
// the second.
type State struct {
	entries []ir.Element
}

// Len returns the number of selected entries.
func (s State) Len() int { return len(s.entries) }

// Empty reports whether nothing is selected.
func (s State) Empty() bool { return len(s.entries) == 0 }

// Entries returns a copy of the selected elements.
func (s State) Entries() []ir.Element {
	out := make([]ir.Element, len(s.entries))
	copy(out, s.entries)
	return out
}

// Labels returns the labels of the selected elements in state order.
func (s State) Labels() []string {
	labels := make([]string, len(s.entries))
	for i, e := range s.entries {
		labels[i] = e.Label
	}
	return labels
}

// Has reports whether an element with the label is selected.
func (s State) Has(label string) bool {
	return s.indexOf(label) >= 0
}

func (s State) indexOf(label string) int {
	for i, e := range s.entries {
		if e.Label == label {
			return i
		}
	}
	return -1
}

// Labels extracts the labels of a classification list that carry class c.
func Labels(classes []ElementClass, c Class) []string {
	var labels []string
	for _, ec := range classes {
		if ec.Class == c {
			labels = append(labels, ec.Label)
		}
	}
	return labels
}
