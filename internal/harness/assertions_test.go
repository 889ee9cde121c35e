package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/chartpick/internal/ir"
	"github.com/roach88/chartpick/internal/predicate"
)

func sampleResult() *Result {
	r := NewResult()
	r.AddTrace(TraceEvent{Type: EventInteraction, Seq: 1, Label: "20", Mode: "range", Selected: []string{"20"}})
	r.AddTrace(TraceEvent{Type: EventSetPredicate, Seq: 2, Field: "age", Predicate: predicate.Range{
		Lower: ir.Number(20), Upper: ir.Number(30),
	}})
	r.AddTrace(TraceEvent{Type: EventInteraction, Seq: 3, Label: "20", Mode: "range"})
	r.AddTrace(TraceEvent{Type: EventClearPredicate, Seq: 4, Field: "age"})
	return r
}

func TestAssertFinalPredicate(t *testing.T) {
	r := sampleResult()
	assert.NoError(t, assertFinalPredicate(r, Assertion{Cleared: true}))

	err := assertFinalPredicate(r, Assertion{Predicate: "[20, 30)"})
	require.Error(t, err)
	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, AssertFinalPredicate, ae.Type)
	assert.Equal(t, "[20, 30)", ae.Expected)
	assert.Equal(t, "cleared", ae.Actual)

	r.Predicate = predicate.Exact{Value: ir.String("a")}
	assert.NoError(t, assertFinalPredicate(r, Assertion{Predicate: `= "a"`}))
	assert.Error(t, assertFinalPredicate(r, Assertion{Cleared: true}))
}

func TestAssertFinalSelection(t *testing.T) {
	r := sampleResult()
	assert.NoError(t, assertFinalSelection(r, Assertion{}))
	assert.NoError(t, assertFinalSelection(r, Assertion{Labels: []string{}}))

	r.Selection = []string{"b", "a"}
	assert.NoError(t, assertFinalSelection(r, Assertion{Labels: []string{"b", "a"}}))
	assert.Error(t, assertFinalSelection(r, Assertion{Labels: []string{"a", "b"}}))
}

func TestAssertEmitCount(t *testing.T) {
	r := sampleResult()
	assert.NoError(t, assertEmitCount(r, Assertion{Count: 2}))

	err := assertEmitCount(r, Assertion{Count: 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected: 3 predicate updates")
	assert.Contains(t, err.Error(), "Actual: 2 predicate updates")
}

func TestAssertTraceCount(t *testing.T) {
	r := sampleResult()
	assert.NoError(t, assertTraceCount(r, Assertion{Event: EventInteraction, Count: 2}))
	assert.NoError(t, assertTraceCount(r, Assertion{Event: EventReset, Count: 0}))
	assert.Error(t, assertTraceCount(r, Assertion{Event: EventSetPredicate, Count: 2}))
}

func TestAssertionError_ShowsTrace(t *testing.T) {
	r := sampleResult()
	r.AddTrace(TraceEvent{Type: EventInteraction, Seq: 5, Label: "99", Modifier: true, Error: "ELEMENT_NOT_FOUND"})

	err := assertEmitCount(r, Assertion{Count: 0})
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: emit_count")
	assert.Contains(t, msg, "[1] click 20 (range) selected=[20]")
	assert.Contains(t, msg, "[2] set age [20, 30)")
	assert.Contains(t, msg, "[4] clear age")
	assert.Contains(t, msg, "[5] click +99: ELEMENT_NOT_FOUND")
}

func TestMarshalTrace(t *testing.T) {
	r := sampleResult()
	r.ChartID = "chart-age"

	data, err := MarshalTrace("sample", r)
	require.NoError(t, err)
	assert.Equal(t,
		`{"chart_id":"chart-age","scenario_name":"sample","trace":[`+
			`{"label":"20","mode":"range","modifier":false,"selected":["20"],"seq":1,"type":"interaction"},`+
			`{"field":"age","predicate":{"kind":"range","lower":20,"upper":30,"upper_inclusive":false},"seq":2,"type":"set_predicate"},`+
			`{"label":"20","mode":"range","modifier":false,"selected":[],"seq":3,"type":"interaction"},`+
			`{"field":"age","seq":4,"type":"clear_predicate"}]}`,
		string(data))
}
