package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/chartpick/internal/ir"
)

// Scenario defines an interaction scenario.
// It drives one chart through a flow of clicks and asserts on the outcome.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Specs lists paths to CUE chart spec files.
	// LoadScenario resolves them relative to the scenario file.
	Specs []string `yaml:"specs"`

	// Chart is the name of the chart to drive. It may be omitted when the
	// specs define exactly one chart.
	Chart string `yaml:"chart,omitempty"`

	// ChartID is an optional fixed chart instance ID.
	// If empty, defaults to "test-chart-default".
	ChartID string `yaml:"chart_id,omitempty"`

	// Flow is the click sequence.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the final state and trace.
	// Supported types: final_predicate, final_selection, emit_count, trace_count
	Assertions []Assertion `yaml:"assertions"`
}

// FlowStep is one click, or a reset of the chart.
type FlowStep struct {
	// Click is the label of the clicked element.
	Click string `yaml:"click,omitempty"`

	// Modifier marks a shift-click.
	Modifier bool `yaml:"modifier,omitempty"`

	// Source overrides the chart's default interaction source.
	Source string `yaml:"source,omitempty"`

	// Reset drops the selection instead of clicking.
	Reset bool `yaml:"reset,omitempty"`

	// Expect specifies the expected outcome of the step.
	// If nil, no validation is performed beyond the step not failing.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected outcome of a click.
// Only the fields that are set are checked.
type ExpectClause struct {
	// Predicate is the expected predicate in its String form,
	// e.g. `in ["a", "b"]` or `[20, 50)`.
	Predicate string `yaml:"predicate,omitempty"`

	// Cleared expects the click to leave the field without a predicate.
	Cleared bool `yaml:"cleared,omitempty"`

	// Selected and Dimmed are the expected labels of each class,
	// in element order.
	Selected []string `yaml:"selected,omitempty"`
	Dimmed   []string `yaml:"dimmed,omitempty"`

	// Error is the expected chart error code, e.g. "ELEMENT_NOT_FOUND".
	Error string `yaml:"error,omitempty"`
}

// Assertion validates the final state or the trace.
type Assertion struct {
	// Type specifies the assertion type:
	// - "final_predicate": the predicate after the last step
	// - "final_selection": the selected labels after the last step
	// - "emit_count": number of predicate updates sent to the sink
	// - "trace_count": number of trace events of a given type
	Type string `yaml:"type"`

	// Predicate is the expected predicate string (final_predicate).
	Predicate string `yaml:"predicate,omitempty"`

	// Cleared expects no predicate (final_predicate).
	Cleared bool `yaml:"cleared,omitempty"`

	// Labels are the expected selected labels in state order (final_selection).
	Labels []string `yaml:"labels,omitempty"`

	// Event is the trace event type (trace_count).
	Event string `yaml:"event,omitempty"`

	// Count is the expected number of occurrences (emit_count, trace_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertFinalPredicate = "final_predicate"
	AssertFinalSelection = "final_selection"
	AssertEmitCount      = "emit_count"
	AssertTraceCount     = "trace_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Spec paths are resolved relative to the scenario file's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving spec paths relative to the provided base path.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve spec paths relative to base path BEFORE validation
	for i, specPath := range scenario.Specs {
		if !filepath.IsAbs(specPath) && basePath != "" {
			scenario.Specs[i] = filepath.Join(basePath, specPath)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Specs) == 0 {
		return fmt.Errorf("specs list is required and must be non-empty")
	}

	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for _, specPath := range s.Specs {
		if _, err := os.Stat(specPath); os.IsNotExist(err) {
			return fmt.Errorf("spec file not found: %s", specPath)
		}
	}

	for i, step := range s.Flow {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(index int, step *FlowStep) error {
	switch {
	case step.Reset && step.Click != "":
		return fmt.Errorf("flow[%d]: click and reset are mutually exclusive", index)
	case !step.Reset && step.Click == "":
		return fmt.Errorf("flow[%d]: click is required", index)
	case step.Reset && step.Modifier:
		return fmt.Errorf("flow[%d]: modifier has no meaning on reset", index)
	}
	if step.Source != "" && !ir.ValidSources[ir.Source(step.Source)] {
		return fmt.Errorf("flow[%d]: invalid source %q", index, step.Source)
	}
	if e := step.Expect; e != nil {
		if e.Cleared && e.Predicate != "" {
			return fmt.Errorf("flow[%d].expect: cleared and predicate are mutually exclusive", index)
		}
		if e.Error != "" && (e.Cleared || e.Predicate != "" || e.Selected != nil || e.Dimmed != nil) {
			return fmt.Errorf("flow[%d].expect: error cannot be combined with other expectations", index)
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertFinalPredicate:
		if a.Cleared == (a.Predicate != "") {
			return fmt.Errorf("assertions[%d]: exactly one of predicate or cleared is required for final_predicate", index)
		}
	case AssertFinalSelection:
		// An empty labels list asserts an empty selection.
	case AssertEmitCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for emit_count", index)
		}
	case AssertTraceCount:
		if !validEventTypes[a.Event] {
			return fmt.Errorf("assertions[%d]: unknown event type %q for trace_count", index, a.Event)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
