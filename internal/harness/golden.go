package harness

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/chartpick/internal/ir"
	"github.com/roach88/chartpick/internal/predicate"
)

// TraceSnapshot captures the trace of a scenario execution.
// It serializes to canonical JSON for byte-exact golden comparison.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	ChartID      string       `json:"chart_id,omitempty"`
	Trace        []TraceEvent `json:"trace"`
}

// toCanonicalMap converts a TraceSnapshot to a map[string]any for canonical JSON serialization.
// This is required because ir.MarshalCanonical only handles IR types and primitives.
func (s *TraceSnapshot) toCanonicalMap() (map[string]any, error) {
	traceList := make([]any, len(s.Trace))
	for i, ev := range s.Trace {
		m := map[string]any{
			"type": ev.Type,
			"seq":  ev.Seq,
		}
		if ev.Field != "" {
			m["field"] = ev.Field
		}
		if ev.Type == EventInteraction {
			m["label"] = ev.Label
			m["modifier"] = ev.Modifier
			if ev.Error != "" {
				m["error"] = ev.Error
			} else {
				m["mode"] = ev.Mode
				m["selected"] = ev.Selected
			}
		}
		if ev.Predicate != nil {
			pm, err := predicate.ToMap(ev.Predicate)
			if err != nil {
				return nil, fmt.Errorf("trace[%d]: %w", i, err)
			}
			m["predicate"] = pm
		}
		traceList[i] = m
	}

	out := map[string]any{
		"scenario_name": s.ScenarioName,
		"trace":         traceList,
	}
	if s.ChartID != "" {
		out["chart_id"] = s.ChartID
	}
	return out, nil
}

// MarshalTrace encodes a scenario result's trace as canonical JSON.
func MarshalTrace(name string, result *Result) ([]byte, error) {
	snapshot := TraceSnapshot{
		ScenarioName: name,
		ChartID:      result.ChartID,
		Trace:        result.Trace,
	}
	m, err := snapshot.toCanonicalMap()
	if err != nil {
		return nil, err
	}
	return ir.MarshalCanonical(m)
}

// RunWithGolden runs a scenario and compares its trace against
// testdata/golden/<scenario name>.golden.
//
// Update golden files with:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the given result's trace against a golden file.
// This is useful when a scenario has already been run.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	traceJSON, err := MarshalTrace(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)

	return nil
}
