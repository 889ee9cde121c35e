package testutil

// FixedChartID returns the same chart ID on every call.
//
// Scenarios set it so traces do not depend on generated UUIDs:
//
//	chart_id: "chart-age"
//
// An empty id yields "test-chart-default".
type FixedChartID struct {
	id string
}

// NewFixedChartID creates a generator for id.
func NewFixedChartID(id string) *FixedChartID {
	if id == "" {
		id = "test-chart-default"
	}
	return &FixedChartID{id: id}
}

// Generate returns the fixed ID. Implements chart.IDGenerator.
func (g *FixedChartID) Generate() string {
	return g.id
}
