// Package harness runs interaction scenarios against compiled charts.
//
// A scenario names a chart from one or more CUE spec files and a flow of
// clicks. Run builds a real chart.Chart for it, delivers every click, checks
// each step's expect clause, and evaluates the scenario assertions against
// the final state. The trace of interactions and predicate updates carries
// deterministic sequence numbers so it can be compared against golden files:
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/age_binned.yaml")
//	if err != nil {
//	    return err
//	}
//	result, err := harness.Run(scenario)
//
// Runs are isolated: each one compiles its specs and creates a fresh chart,
// sink and clock. Logging goes to io.Discard.
package harness
