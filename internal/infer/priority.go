package infer

// Priority orders inference candidates by the reliability of their
// source. Lower values win: a candidate inferred from a naked type
// variable position beats one recovered from a return position, and
// resolution only considers the best-priority tier present.
type Priority uint16

const (
	// PriorityNakedTypeVariable - source flowed directly into a bare
	// type parameter position.
	PriorityNakedTypeVariable Priority = 1 << iota
	// PriorityHomomorphicMappedType - mapped type that preserves the
	// source structure.
	PriorityHomomorphicMappedType
	// PriorityPartialHomomorphicMappedType - mapped type with mixed
	// properties.
	PriorityPartialHomomorphicMappedType
	// PriorityMappedType - generic mapped-type constraint position.
	PriorityMappedType
	// PriorityContravariantConditional - conditional type in a
	// contravariant position.
	PriorityContravariantConditional
	// PriorityReturnType - contextual inference from a return position
	// (round two).
	PriorityReturnType
	// PriorityLowPriority - fallback inference.
	PriorityLowPriority
	// PriorityCircular - candidate propagated across a circular
	// constraint; never beats a direct observation.
	PriorityCircular
)

func (p Priority) String() string {
	switch p {
	case PriorityNakedTypeVariable:
		return "naked-type-variable"
	case PriorityHomomorphicMappedType:
		return "homomorphic-mapped-type"
	case PriorityPartialHomomorphicMappedType:
		return "partial-homomorphic-mapped-type"
	case PriorityMappedType:
		return "mapped-type"
	case PriorityContravariantConditional:
		return "contravariant-conditional"
	case PriorityReturnType:
		return "return-type"
	case PriorityLowPriority:
		return "low-priority"
	case PriorityCircular:
		return "circular"
	default:
		return "unknown"
	}
}
