package config

// IsTestMode indicates if the program is running in test mode.
// Set once at startup when handling the test command; normalizes
// inference-variable names in formatted output for determinism.
var IsTestMode = false

// Recursion and iteration ceilings shared by every traversal in the
// type system. Cyclic interned types are legal inputs, so all recursive
// walks carry a visited-set plus this hard depth cap and return a safe
// default past it.
const (
	// MaxTypeRecursionDepth bounds containment/occurs/subtype walks.
	MaxTypeRecursionDepth = 100

	// MaxConstraintIterations bounds the constraint-strengthening
	// fixed-point loop.
	MaxConstraintIterations = 100
)

// Upper-bound validation heuristics. Bound sets up to the fast-path
// limit are validated with one combined intersection check before
// falling back to per-bound checks; very large sets attempt the same
// combined check only when every bound is object-like. The set of
// bounds validated is identical either way.
const (
	UpperBoundIntersectionFastPathLimit = 8
	UpperBoundIntersectionLargeSetLimit = 64
)

// FixtureFileExt is the extension of conformance fixture archives.
const FixtureFileExt = ".txtar"

// ScenarioFileName is the txtar member holding the scenario description.
const ScenarioFileName = "case.yaml"
