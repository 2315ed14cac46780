package ir

// Version constants for the model schema and the compiler.
const (
	// ModelVersion is the compiled model schema version.
	ModelVersion = "1"

	// CompilerVersion is the canforge compiler version.
	CompilerVersion = "0.1.0"
)
