package ir

// Version constants for the chart spec schema and engine.
const (
	// SpecVersion is the chart spec schema version.
	SpecVersion = "1"

	// EngineVersion is the chartpick engine version.
	EngineVersion = "0.1.0"
)
