package infer

import (
	"errors"
	"testing"

	"github.com/tycho-lang/tycho/internal/types"
)

func TestResolveWidensFreshLiterals(t *testing.T) {
	in := types.NewInterner()
	c := NewContext(in)
	v := c.FreshTypeParam("T", false)

	c.AddCandidate(v, in.NumberLiteral(42), PriorityNakedTypeVariable)

	got, err := c.ResolveWithConstraints(v)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got != types.Number {
		t.Errorf("resolved = %s, want number", types.FormatType(in, got))
	}
}

func TestResolveConstPreservesLiterals(t *testing.T) {
	in := types.NewInterner()
	c := NewContext(in)
	v := c.FreshTypeParam("T", true)

	lit := in.NumberLiteral(42)
	c.AddCandidate(v, lit, PriorityNakedTypeVariable)

	got, err := c.ResolveWithConstraints(v)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got != lit {
		t.Errorf("resolved = %s, want 42", types.FormatType(in, got))
	}
}

func TestResolveConstArrayBecomesReadonlyTuple(t *testing.T) {
	in := types.NewInterner()
	c := NewContext(in)
	v := c.FreshTypeParam("T", true)

	c.AddCandidate(v, in.NewArray(types.Number), PriorityNakedTypeVariable)

	got, err := c.ResolveWithConstraints(v)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	want := in.NewReadonly(in.NewTuple([]types.TupleElement{{Type: types.Number}}))
	if got != want {
		t.Errorf("resolved = %s, want %s", types.FormatType(in, got), types.FormatType(in, want))
	}
}

func TestResolveConstraintImpliesLiterals(t *testing.T) {
	in := types.NewInterner()
	c := NewContext(in)
	v := c.FreshTypeParam("T", false)

	litA := in.StringLiteral("a")
	bound := in.NewUnion([]types.TypeID{litA, in.StringLiteral("b")})
	c.AddUpperBound(v, bound)
	c.AddCandidate(v, litA, PriorityNakedTypeVariable)

	got, err := c.ResolveWithConstraints(v)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	// Widening "a" to string would escape the constraint.
	if got != litA {
		t.Errorf("resolved = %s, want \"a\"", types.FormatType(in, got))
	}
}

func TestResolvePicksBestPriorityTier(t *testing.T) {
	in := types.NewInterner()
	c := NewContext(in)
	v := c.FreshTypeParam("T", false)

	c.AddCandidate(v, types.String, PriorityReturnType)
	c.AddCandidate(v, types.Number, PriorityNakedTypeVariable)

	got, err := c.ResolveWithConstraints(v)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got != types.Number {
		t.Errorf("resolved = %s, want number (direct observation beats return position)", types.FormatType(in, got))
	}
}

func TestResolveBoundsViolation(t *testing.T) {
	in := types.NewInterner()
	c := NewContext(in)
	v := c.FreshTypeParam("T", false)

	c.AddUpperBound(v, types.String)
	c.AddCandidate(v, types.Number, PriorityNakedTypeVariable)

	_, err := c.ResolveWithConstraints(v)
	var bv *BoundsViolationError
	if !errors.As(err, &bv) {
		t.Fatalf("err = %v, want BoundsViolationError", err)
	}
	if bv.Lower != types.Number || bv.Upper != types.String {
		t.Errorf("violation = (%d, %d), want (number, string)", bv.Lower, bv.Upper)
	}
}

func TestResolveFallsBackToConstraint(t *testing.T) {
	in := types.NewInterner()
	c := NewContext(in)
	v := c.FreshTypeParam("T", false)

	c.AddUpperBound(v, types.String)

	got, err := c.ResolveWithConstraints(v)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got != types.String {
		t.Errorf("resolved = %s, want string", types.FormatType(in, got))
	}
}

func TestResolveMultipleConstraintsIntersect(t *testing.T) {
	in := types.NewInterner()
	c := NewContext(in)
	v := c.FreshTypeParam("T", false)

	objA := in.NewObject([]types.Property{{Name: "a", Type: types.Number}}, nil, nil)
	objB := in.NewObject([]types.Property{{Name: "b", Type: types.String}}, nil, nil)
	c.AddUpperBound(v, objA)
	c.AddUpperBound(v, objB)

	got, err := c.ResolveWithConstraints(v)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got != in.NewIntersection([]types.TypeID{objA, objB}) {
		t.Errorf("resolved = %s, want the intersection of both bounds", types.FormatType(in, got))
	}
}

func TestResolveUnconstrainedIsUnknown(t *testing.T) {
	in := types.NewInterner()
	c := NewContext(in)
	v := c.FreshTypeParam("T", false)

	got, err := c.ResolveWithConstraints(v)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got != types.Unknown {
		t.Errorf("resolved = %s, want unknown", types.FormatType(in, got))
	}
}

func TestResolveOccursCheck(t *testing.T) {
	in := types.NewInterner()
	c := NewContext(in)
	v := c.FreshTypeParam("T", false)

	selfArray := in.NewArray(in.NewTypeParameter(types.TypeParamInfo{Name: "T"}))
	c.AddCandidate(v, selfArray, PriorityNakedTypeVariable)

	_, err := c.ResolveWithConstraints(v)
	var oc *OccursCheckError
	if !errors.As(err, &oc) {
		t.Fatalf("err = %v, want OccursCheckError", err)
	}
}

func TestResolveAllWithConstraints(t *testing.T) {
	in := types.NewInterner()
	c := NewContext(in)
	tv := c.FreshTypeParam("T", false)
	uv := c.FreshTypeParam("U", false)

	c.AddCandidate(tv, types.String, PriorityNakedTypeVariable)
	c.AddCandidate(uv, in.NumberLiteral(1), PriorityNakedTypeVariable)

	got, err := c.ResolveAllWithConstraints()
	if err != nil {
		t.Fatalf("resolve all failed: %v", err)
	}
	want := []Binding{
		{Name: "T", Type: types.String},
		{Name: "U", Type: types.Number},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d bindings, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("binding %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestFixCurrentVariablesBlocksRoundTwo(t *testing.T) {
	in := types.NewInterner()
	c := NewContext(in)
	v := c.FreshTypeParam("T", false)

	// Round 1: a plain argument observed.
	c.AddCandidate(v, in.NumberLiteral(1), PriorityNakedTypeVariable)
	if err := c.FixCurrentVariables(); err != nil {
		t.Fatalf("fix failed: %v", err)
	}
	if got := c.Probe(v); got != types.Number {
		t.Fatalf("fixed type = %s, want number", types.FormatType(in, got))
	}

	// Round 2: a contextual observation must not override the fix.
	c.AddCandidate(v, types.String, PriorityReturnType)
	got, err := c.ResolveWithConstraints(v)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got != types.Number {
		t.Errorf("resolved = %s, want number (round 2 overrode a fixed variable)", types.FormatType(in, got))
	}
}

func TestFixSkipsVariablesWithoutCandidates(t *testing.T) {
	in := types.NewInterner()
	c := NewContext(in)
	v := c.FreshTypeParam("T", false)

	if err := c.FixCurrentVariables(); err != nil {
		t.Fatalf("fix failed: %v", err)
	}
	if got := c.Probe(v); got != types.None {
		t.Errorf("variable without candidates was fixed to %s", types.FormatType(in, got))
	}
}

func TestCurrentSubstitution(t *testing.T) {
	in := types.NewInterner()
	c := NewContext(in)
	tv := c.FreshTypeParam("T", false)
	uv := c.FreshTypeParam("U", false)
	c.FreshTypeParam("W", false)

	c.AddCandidate(tv, in.StringLiteral("x"), PriorityNakedTypeVariable)
	c.AddUpperBound(uv, types.Number)

	subst := c.CurrentSubstitution()
	if subst["T"] != types.String {
		t.Errorf("subst[T] = %s, want string", types.FormatType(in, subst["T"]))
	}
	if subst["U"] != types.Number {
		t.Errorf("subst[U] = %s, want number (constraint fallback)", types.FormatType(in, subst["U"]))
	}
	if subst["W"] != types.Unknown {
		t.Errorf("subst[W] = %s, want unknown", types.FormatType(in, subst["W"]))
	}
}

func TestInferFromContextAddsBound(t *testing.T) {
	in := types.NewInterner()
	c := NewContext(in)
	v := c.FreshTypeParam("T", false)

	if err := c.InferFromContext(v, types.String); err != nil {
		t.Fatalf("infer from context failed: %v", err)
	}
	set := c.Constraints(v)
	if set == nil || len(set.UpperBounds) != 1 || set.UpperBounds[0] != types.String {
		t.Errorf("upper bounds = %+v, want [string]", set)
	}
}

func TestInferFromContextRejectsRecursiveContext(t *testing.T) {
	in := types.NewInterner()
	c := NewContext(in)
	v := c.FreshTypeParam("T", false)

	recursive := in.NewArray(in.NewTypeParameter(types.TypeParamInfo{Name: "T"}))
	err := c.InferFromContext(v, recursive)
	var oc *OccursCheckError
	if !errors.As(err, &oc) {
		t.Fatalf("err = %v, want OccursCheckError", err)
	}
}

func TestInferFromConditionalExtractsExtends(t *testing.T) {
	in := types.NewInterner()
	c := NewContext(in)
	v := c.FreshTypeParam("T", false)

	check := in.NewTypeParameter(types.TypeParamInfo{Name: "T"})
	cond := types.Conditional{
		Check:   check,
		Extends: types.String,
		True:    check,
		False:   types.Never,
	}
	c.InferFromConditional(v, cond)

	set := c.Constraints(v)
	if set == nil {
		t.Fatal("no constraints collected")
	}
	found := false
	for _, b := range set.UpperBounds {
		if b == types.String {
			found = true
		}
	}
	if !found {
		t.Errorf("upper bounds = %v, want string from the extends clause", set.UpperBounds)
	}
}

func TestInferFromConditionalMinesBranches(t *testing.T) {
	in := types.NewInterner()
	c := NewContext(in)
	v := c.FreshTypeParam("T", false)

	constrained := in.NewTypeParameter(types.TypeParamInfo{Name: "T", Constraint: types.Number})
	cond := types.Conditional{
		Check:   types.String,
		Extends: types.String,
		True:    in.NewArray(constrained),
		False:   types.Never,
	}
	c.InferFromConditional(v, cond)

	set := c.Constraints(v)
	if set == nil {
		t.Fatal("no constraints collected")
	}
	found := false
	for _, b := range set.UpperBounds {
		if b == types.Number {
			found = true
		}
	}
	if !found {
		t.Errorf("upper bounds = %v, want the declared constraint from the true branch", set.UpperBounds)
	}
}
