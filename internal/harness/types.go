package harness

import "github.com/roach88/chartpick/internal/predicate"

// Trace event types.
const (
	EventInteraction    = "interaction"
	EventReset          = "reset"
	EventSetPredicate   = "set_predicate"
	EventClearPredicate = "clear_predicate"
)

var validEventTypes = map[string]bool{
	EventInteraction:    true,
	EventReset:          true,
	EventSetPredicate:   true,
	EventClearPredicate: true,
}

// TraceEvent is one entry of a scenario trace: a click or reset delivered to
// the chart, or a predicate update the chart sent to its sink.
type TraceEvent struct {
	Type      string              `json:"type"`
	Seq       int64               `json:"seq"`
	Field     string              `json:"field,omitempty"`
	Label     string              `json:"label,omitempty"`
	Modifier  bool                `json:"modifier,omitempty"`
	Mode      string              `json:"mode,omitempty"`
	Selected  []string            `json:"selected,omitempty"`
	Predicate predicate.Predicate `json:"predicate,omitempty"`
	Error     string              `json:"error,omitempty"` // Chart error code of a failed click
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success.
	// True if every expect clause and assertion holds.
	Pass bool `json:"pass"`

	// ChartID is the instance ID of the driven chart.
	ChartID string `json:"chart_id"`

	// Trace contains interactions and predicate updates in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expectation and assertion failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Predicate is the field predicate after the last step; nil when cleared.
	Predicate predicate.Predicate `json:"predicate,omitempty"`

	// Selection is the selected labels after the last step, in state order.
	Selection []string `json:"selection"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:      true,
		Trace:     []TraceEvent{},
		Errors:    []string{},
		Selection: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends an event to the trace.
func (r *Result) AddTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}

// Emits returns the number of predicate updates in the trace.
func (r *Result) Emits() int {
	return r.count(EventSetPredicate) + r.count(EventClearPredicate)
}

func (r *Result) count(eventType string) int {
	n := 0
	for _, ev := range r.Trace {
		if ev.Type == eventType {
			n++
		}
	}
	return n
}
