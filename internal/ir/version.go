package ir

// Version constants for the model and engine.
const (
	// IRVersion is the canonical encoding version.
	IRVersion = "1"

	// EngineVersion is the almanac engine version.
	EngineVersion = "0.2.0"
)
