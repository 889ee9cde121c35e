package chart

import (
	"github.com/roach88/chartpick/internal/ir"
	"github.com/roach88/chartpick/internal/predicate"
	"github.com/roach88/chartpick/internal/selection"
)

// Event is one click on a chart element.
type Event struct {
	Point    ir.Element   // Clicked element
	All      []ir.Element // Every element of the chart, in display order
	Modifier bool         // Shift (or platform equivalent) held
	Source   ir.Source    // Chart kind that raised the event; empty uses the chart default
	Ref      any          // Rendering handle of the clicked element
}

// Outcome reports what HandleInteraction did.
type Outcome struct {
	Seq       int64                    // Sequence number stamped on the event
	Handled   bool                     // Always true; the caller suppresses default behavior
	Mode      Mode                     // Handler the event was routed to
	Classes   []selection.ElementClass // Classification list in element order
	Predicate predicate.Predicate      // Current predicate; nil when cleared
	Emitted   bool                     // Sink received SetPredicate or ClearPredicate
}

// Cleared reports whether the field has no predicate after the event.
func (o Outcome) Cleared() bool { return o.Predicate == nil }

// Sink receives the predicate of a field after each qualifying interaction.
// It is the query-builder state that combines per-field predicates.
type Sink interface {
	SetPredicate(field string, p predicate.Predicate)
	ClearPredicate(field string)
}

// Renderer applies a classification list to the visual chart elements.
type Renderer interface {
	Apply(classes []selection.ElementClass)
}

type nopSink struct{}

func (nopSink) SetPredicate(string, predicate.Predicate) {}
func (nopSink) ClearPredicate(string)                    {}

type nopRenderer struct{}

func (nopRenderer) Apply([]selection.ElementClass) {}
