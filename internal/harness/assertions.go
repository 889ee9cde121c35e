package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes the trace to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, ev := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s\n", ev.Seq, describeEvent(ev))
	}

	return buf.String()
}

func describeEvent(ev TraceEvent) string {
	switch ev.Type {
	case EventInteraction:
		click := ev.Label
		if ev.Modifier {
			click = "+" + click
		}
		if ev.Error != "" {
			return fmt.Sprintf("click %s: %s", click, ev.Error)
		}
		return fmt.Sprintf("click %s (%s) selected=%v", click, ev.Mode, ev.Selected)
	case EventSetPredicate:
		return fmt.Sprintf("set %s %s", ev.Field, ev.Predicate)
	case EventClearPredicate:
		return fmt.Sprintf("clear %s", ev.Field)
	default:
		return ev.Type
	}
}

// evaluateAssertion dispatches on the assertion type.
func evaluateAssertion(result *Result, a Assertion) error {
	switch a.Type {
	case AssertFinalPredicate:
		return assertFinalPredicate(result, a)
	case AssertFinalSelection:
		return assertFinalSelection(result, a)
	case AssertEmitCount:
		return assertEmitCount(result, a)
	case AssertTraceCount:
		return assertTraceCount(result, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertFinalPredicate checks the predicate left after the last step.
func assertFinalPredicate(result *Result, a Assertion) error {
	actual := "cleared"
	if result.Predicate != nil {
		actual = result.Predicate.String()
	}
	expected := "cleared"
	if !a.Cleared {
		expected = a.Predicate
	}
	if actual != expected {
		return &AssertionError{
			Type:     AssertFinalPredicate,
			Expected: expected,
			Actual:   actual,
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertFinalSelection checks the selected labels in state order.
func assertFinalSelection(result *Result, a Assertion) error {
	if !slices.Equal(result.Selection, a.Labels) {
		return &AssertionError{
			Type:     AssertFinalSelection,
			Expected: fmt.Sprintf("%v", a.Labels),
			Actual:   fmt.Sprintf("%v", result.Selection),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertEmitCount checks how many predicate updates reached the sink.
func assertEmitCount(result *Result, a Assertion) error {
	if n := result.Emits(); n != a.Count {
		return &AssertionError{
			Type:     AssertEmitCount,
			Expected: fmt.Sprintf("%d predicate updates", a.Count),
			Actual:   fmt.Sprintf("%d predicate updates", n),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertTraceCount checks how many trace events have the given type.
func assertTraceCount(result *Result, a Assertion) error {
	if n := result.count(a.Event); n != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", a.Count, a.Event),
			Actual:   fmt.Sprintf("%d occurrences", n),
			Trace:    result.Trace,
		}
	}
	return nil
}
