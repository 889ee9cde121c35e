package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/roach88/chartpick/internal/chart"
	"github.com/roach88/chartpick/internal/compiler"
	"github.com/roach88/chartpick/internal/ir"
	"github.com/roach88/chartpick/internal/selection"
	"github.com/roach88/chartpick/internal/testutil"
)

// Harness is the scenario execution engine.
// It drives one chart with a deterministic clock and chart ID.
type Harness struct {
	chart   *chart.Chart
	sink    *testutil.RecordingSink
	clock   *testutil.DeterministicClock
	logger  *slog.Logger
	drained int // sink calls already copied into the trace
}

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Compile the chart spec files and find the scenario's chart
// 2. Create a chart wired to a recording sink
// 3. Execute flow steps, checking expect clauses
// 4. Evaluate assertions against the final state
//
// The returned error reports a scenario that could not run at all (bad
// specs, unknown chart). Failed expectations and assertions are reported in
// Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	spec, err := LoadChart(scenario.Specs, scenario.Chart)
	if err != nil {
		return nil, err
	}

	h := &Harness{
		sink:   testutil.NewRecordingSink(),
		clock:  testutil.NewDeterministicClock(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}
	h.chart = chart.New(*spec,
		chart.WithSink(h.sink),
		chart.WithIDGenerator(testutil.NewFixedChartID(scenario.ChartID)),
		chart.WithLogger(h.logger),
	)

	result := NewResult()
	result.ChartID = h.chart.ID()

	h.executeFlow(scenario.Flow, result)

	result.Predicate = h.chart.Predicate()
	result.Selection = h.chart.State().Labels()

	for _, assertion := range scenario.Assertions {
		if err := evaluateAssertion(result, assertion); err != nil {
			result.AddError(err.Error())
		}
	}

	h.logger.Info("scenario completed",
		"scenario", scenario.Name,
		"pass", result.Pass,
		"events", len(result.Trace),
	)
	return result, nil
}

// LoadChart compiles the given spec files and returns the chart called name.
// An empty name selects the only chart when the files define exactly one.
func LoadChart(specPaths []string, name string) (*ir.ChartSpec, error) {
	var all []ir.ChartSpec
	for _, path := range specPaths {
		specs, err := compiler.CompileFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to compile %s: %w", path, err)
		}
		all = append(all, specs...)
	}

	if name == "" {
		if len(all) != 1 {
			return nil, fmt.Errorf("chart name is required: specs define %d charts", len(all))
		}
		return &all[0], nil
	}
	for i := range all {
		if all[i].Name == name {
			return &all[i], nil
		}
	}
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = s.Name
	}
	return nil, fmt.Errorf("chart %q not found (have: %s)", name, strings.Join(names, ", "))
}

// executeFlow runs all flow steps and validates expect clauses.
// A failing step is recorded and the flow continues.
func (h *Harness) executeFlow(flow []FlowStep, result *Result) {
	for i, step := range flow {
		if step.Reset {
			h.chart.Reset()
			result.AddTrace(TraceEvent{Type: EventReset, Seq: h.clock.Next()})
			h.drainSink(result)
			h.logger.Info("flow step reset", "step", i)
			continue
		}

		out, err := h.chart.Click(step.Click, step.Modifier, ir.Source(step.Source))
		ev := TraceEvent{
			Type:     EventInteraction,
			Seq:      h.clock.Next(),
			Label:    step.Click,
			Modifier: step.Modifier,
		}
		if err != nil {
			ev.Error = errorCode(err)
			result.AddTrace(ev)
			h.drainSink(result)
			if msg := checkError(step.Expect, ev.Error, err); msg != "" {
				result.AddError(fmt.Sprintf("flow[%d] click %q: %s", i, step.Click, msg))
			}
			continue
		}

		ev.Mode = out.Mode.String()
		ev.Selected = selection.Labels(out.Classes, selection.Selected)
		result.AddTrace(ev)
		h.drainSink(result)

		if step.Expect != nil {
			for _, msg := range checkExpect(step.Expect, out) {
				result.AddError(fmt.Sprintf("flow[%d] click %q: %s", i, step.Click, msg))
			}
		}

		h.logger.Info("flow step completed",
			"step", i,
			"label", step.Click,
			"modifier", step.Modifier,
			"mode", ev.Mode,
			"emitted", out.Emitted,
		)
	}
}

// drainSink copies sink calls made since the last drain into the trace.
func (h *Harness) drainSink(result *Result) {
	calls := h.sink.Calls()
	for _, call := range calls[h.drained:] {
		ev := TraceEvent{Seq: h.clock.Next(), Field: call.Field}
		if call.Op == "set" {
			ev.Type = EventSetPredicate
			ev.Predicate = call.Predicate
		} else {
			ev.Type = EventClearPredicate
		}
		result.AddTrace(ev)
	}
	h.drained = len(calls)
}

func errorCode(err error) string {
	var ce *chart.Error
	if errors.As(err, &ce) {
		return string(ce.Code)
	}
	return "UNKNOWN"
}

// checkError returns a failure message for a click that returned err, or ""
// when the step expected that error.
func checkError(expect *ExpectClause, code string, err error) string {
	if expect == nil || expect.Error == "" {
		return fmt.Sprintf("unexpected error: %v", err)
	}
	if expect.Error != code {
		return fmt.Sprintf("expected error %s, got %s", expect.Error, code)
	}
	return ""
}

// checkExpect compares a click outcome against its expect clause.
func checkExpect(expect *ExpectClause, out chart.Outcome) []string {
	var msgs []string
	if expect.Error != "" {
		msgs = append(msgs, fmt.Sprintf("expected error %s, got none", expect.Error))
	}
	if expect.Cleared && !out.Cleared() {
		msgs = append(msgs, fmt.Sprintf("expected cleared predicate, got %s", out.Predicate))
	}
	if expect.Predicate != "" {
		switch {
		case out.Predicate == nil:
			msgs = append(msgs, fmt.Sprintf("expected predicate %s, got cleared", expect.Predicate))
		case out.Predicate.String() != expect.Predicate:
			msgs = append(msgs, fmt.Sprintf("expected predicate %s, got %s", expect.Predicate, out.Predicate))
		}
	}
	if expect.Selected != nil {
		got := selection.Labels(out.Classes, selection.Selected)
		if !slices.Equal(got, expect.Selected) {
			msgs = append(msgs, fmt.Sprintf("expected selected %v, got %v", expect.Selected, got))
		}
	}
	if expect.Dimmed != nil {
		got := selection.Labels(out.Classes, selection.Dimmed)
		if !slices.Equal(got, expect.Dimmed) {
			msgs = append(msgs, fmt.Sprintf("expected dimmed %v, got %v", expect.Dimmed, got))
		}
	}
	return msgs
}
