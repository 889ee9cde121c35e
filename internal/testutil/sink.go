package testutil

import (
	"sync"

	"github.com/roach88/chartpick/internal/predicate"
	"github.com/roach88/chartpick/internal/selection"
)

// SinkCall is one predicate update received by RecordingSink.
type SinkCall struct {
	Seq       int64
	Op        string // "set" or "clear"
	Field     string
	Predicate predicate.Predicate // nil for "clear"
}

// RecordingSink records predicate updates in arrival order.
// Implements chart.Sink.
type RecordingSink struct {
	mu    sync.Mutex
	clock *DeterministicClock
	calls []SinkCall
}

// NewRecordingSink creates an empty sink with its own clock.
func NewRecordingSink() *RecordingSink {
	return &RecordingSink{clock: NewDeterministicClock()}
}

// SetPredicate records a "set" call.
func (s *RecordingSink) SetPredicate(field string, p predicate.Predicate) {
	s.record(SinkCall{Op: "set", Field: field, Predicate: p})
}

// ClearPredicate records a "clear" call.
func (s *RecordingSink) ClearPredicate(field string) {
	s.record(SinkCall{Op: "clear", Field: field})
}

func (s *RecordingSink) record(call SinkCall) {
	s.mu.Lock()
	defer s.mu.Unlock()
	call.Seq = s.clock.Next()
	s.calls = append(s.calls, call)
}

// Calls returns a copy of the recorded calls.
func (s *RecordingSink) Calls() []SinkCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SinkCall, len(s.calls))
	copy(out, s.calls)
	return out
}

// Last returns the most recent call and whether there was one.
func (s *RecordingSink) Last() (SinkCall, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return SinkCall{}, false
	}
	return s.calls[len(s.calls)-1], true
}

// Reset forgets all calls and rewinds the clock.
func (s *RecordingSink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
	s.clock.Reset()
}

// RecordingRenderer keeps every classification list it is asked to apply.
// Implements chart.Renderer.
type RecordingRenderer struct {
	mu      sync.Mutex
	applied [][]selection.ElementClass
}

// Apply records a classification list.
func (r *RecordingRenderer) Apply(classes []selection.ElementClass) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applied = append(r.applied, classes)
}

// Applied returns how many lists were applied.
func (r *RecordingRenderer) Applied() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.applied)
}

// Current returns the last applied list, or nil.
func (r *RecordingRenderer) Current() []selection.ElementClass {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.applied) == 0 {
		return nil
	}
	return r.applied[len(r.applied)-1]
}
