package infer

import (
	"fmt"

	"github.com/tycho-lang/tycho/internal/types"
)

// ConflictError reports that two incompatible types were unified for
// the same inference variable.
type ConflictError struct {
	Existing types.TypeID
	Incoming types.TypeID
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("inference conflict: %d and %d are incompatible", e.Existing, e.Incoming)
}

// UnresolvedError reports an inference variable that never received a
// resolution.
type UnresolvedError struct {
	Var Var
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("inference variable %d was not resolved", e.Var)
}

// OccursCheckError reports a variable whose resolution contains the
// variable itself (infinite type).
type OccursCheckError struct {
	Var  Var
	Type types.TypeID
}

func (e *OccursCheckError) Error() string {
	return fmt.Sprintf("occurs check failed: variable %d appears in type %d", e.Var, e.Type)
}

// BoundsViolationError reports a resolved type that is not assignable
// to one of the variable's upper bounds.
type BoundsViolationError struct {
	Var   Var
	Lower types.TypeID
	Upper types.TypeID
}

func (e *BoundsViolationError) Error() string {
	return fmt.Sprintf("bounds violation: inferred type %d for variable %d does not satisfy bound %d",
		e.Lower, e.Var, e.Upper)
}

// VarianceViolationError reports a resolved type used against the
// declared variance of its position. Reserved for callers that enforce
// declared variance; the solver itself only raises occurs failures.
type VarianceViolationError struct {
	Var      Var
	Expected string
	Position types.TypeID
}

func (e *VarianceViolationError) Error() string {
	return fmt.Sprintf("variance violation: variable %d used against %s position %d",
		e.Var, e.Expected, e.Position)
}
