package infer

import (
	"testing"

	"github.com/tycho-lang/tycho/internal/types"
)

func TestInferIdentity(t *testing.T) {
	in := types.NewInterner()
	c := NewContext(in)
	v := c.FreshTypeParam("T", false)
	target := in.NewTypeParameter(types.TypeParamInfo{Name: "T"})

	if err := c.InferFromTypes(types.String, target, PriorityNakedTypeVariable); err != nil {
		t.Fatalf("infer failed: %v", err)
	}
	got, err := c.ResolveWithConstraints(v)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got != types.String {
		t.Errorf("T = %s, want string", types.FormatType(in, got))
	}
}

func TestInferObjectProperties(t *testing.T) {
	in := types.NewInterner()
	c := NewContext(in)
	v := c.FreshTypeParam("T", false)

	target := in.NewObject([]types.Property{
		{Name: "value", Type: in.NewTypeParameter(types.TypeParamInfo{Name: "T"})},
	}, nil, nil)
	source := in.NewObject([]types.Property{
		{Name: "value", Type: types.Boolean},
		{Name: "extra", Type: types.String},
	}, nil, nil)

	if err := c.InferFromTypes(source, target, PriorityNakedTypeVariable); err != nil {
		t.Fatalf("infer failed: %v", err)
	}
	got, err := c.ResolveWithConstraints(v)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got != types.Boolean {
		t.Errorf("T = %s, want boolean", types.FormatType(in, got))
	}
}

func TestInferArrayElement(t *testing.T) {
	in := types.NewInterner()
	c := NewContext(in)
	v := c.FreshTypeParam("T", false)

	target := in.NewArray(in.NewTypeParameter(types.TypeParamInfo{Name: "T"}))
	source := in.NewArray(types.Number)

	if err := c.InferFromTypes(source, target, PriorityNakedTypeVariable); err != nil {
		t.Fatalf("infer failed: %v", err)
	}
	got, err := c.ResolveWithConstraints(v)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got != types.Number {
		t.Errorf("T = %s, want number", types.FormatType(in, got))
	}
}

func TestInferFunctionPositions(t *testing.T) {
	in := types.NewInterner()
	c := NewContext(in)
	av := c.FreshTypeParam("A", false)
	bv := c.FreshTypeParam("B", false)

	paramA := in.NewTypeParameter(types.TypeParamInfo{Name: "A"})
	paramB := in.NewTypeParameter(types.TypeParamInfo{Name: "B"})
	target := in.NewFunction(&types.FunctionShape{
		Params: []types.Param{{Name: "x", Type: paramA}},
		Return: paramB,
	})
	source := in.NewFunction(&types.FunctionShape{
		Params: []types.Param{{Name: "x", Type: types.Number}},
		Return: types.String,
	})

	if err := c.InferFromTypes(source, target, PriorityNakedTypeVariable); err != nil {
		t.Fatalf("infer failed: %v", err)
	}

	// Parameter position is contravariant, so A picks up an upper
	// bound rather than a candidate.
	setA := c.Constraints(av)
	if setA == nil || len(setA.UpperBounds) != 1 || setA.UpperBounds[0] != types.Number {
		t.Errorf("A constraints = %+v, want upper bound number", setA)
	}

	gotB, err := c.ResolveWithConstraints(bv)
	if err != nil {
		t.Fatalf("resolve B failed: %v", err)
	}
	if gotB != types.String {
		t.Errorf("B = %s, want string", types.FormatType(in, gotB))
	}
}

func TestInferRestTupleCapture(t *testing.T) {
	in := types.NewInterner()
	c := NewContext(in)
	v := c.FreshTypeParam("A", false)

	rest := in.NewTypeParameter(types.TypeParamInfo{Name: "A"})
	target := in.NewFunction(&types.FunctionShape{
		Params: []types.Param{{Name: "args", Type: rest, Rest: true}},
		Return: types.Void,
	})
	source := in.NewFunction(&types.FunctionShape{
		Params: []types.Param{
			{Name: "a", Type: types.Number},
			{Name: "b", Type: types.String},
		},
		Return: types.Void,
	})

	if err := c.InferFromTypes(source, target, PriorityNakedTypeVariable); err != nil {
		t.Fatalf("infer failed: %v", err)
	}
	got, err := c.ResolveWithConstraints(v)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	tup, ok := in.Lookup(got).(types.Tuple)
	if !ok {
		t.Fatalf("A = %s, want a tuple", types.FormatType(in, got))
	}
	if len(tup.Elems) != 2 || tup.Elems[0].Type != types.Number || tup.Elems[1].Type != types.String {
		t.Errorf("A = %s, want [number, string]", types.FormatType(in, got))
	}
}

func TestInferUnionPartition(t *testing.T) {
	in := types.NewInterner()
	c := NewContext(in)
	v := c.FreshTypeParam("T", false)

	param := in.NewTypeParameter(types.TypeParamInfo{Name: "T"})
	target := in.NewUnion([]types.TypeID{param, types.Undefined})
	source := in.NewUnion([]types.TypeID{types.Number, types.Undefined})

	if err := c.InferFromTypes(source, target, PriorityNakedTypeVariable); err != nil {
		t.Fatalf("infer failed: %v", err)
	}
	got, err := c.ResolveWithConstraints(v)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	// undefined is absorbed by the fixed member, not attributed to T.
	if got != types.Number {
		t.Errorf("T = %s, want number", types.FormatType(in, got))
	}
}

func TestNoInferBlocksInference(t *testing.T) {
	in := types.NewInterner()
	c := NewContext(in)
	v := c.FreshTypeParam("T", false)

	target := in.NewNoInfer(in.NewTypeParameter(types.TypeParamInfo{Name: "T"}))
	if err := c.InferFromTypes(types.String, target, PriorityNakedTypeVariable); err != nil {
		t.Fatalf("infer failed: %v", err)
	}
	if set := c.Constraints(v); set != nil {
		t.Errorf("constraints = %+v, want none behind NoInfer", set)
	}
}

func TestInferMappedType(t *testing.T) {
	in := types.NewInterner()
	c := NewContext(in)
	kv := c.FreshTypeParam("K", false)
	vv := c.FreshTypeParam("V", false)

	target := in.NewMapped(types.Mapped{
		Param:      types.TypeParamInfo{Name: "P"},
		Constraint: in.NewTypeParameter(types.TypeParamInfo{Name: "K"}),
		Template:   in.NewTypeParameter(types.TypeParamInfo{Name: "V"}),
	})
	source := in.NewObject([]types.Property{
		{Name: "a", Type: types.Number},
		{Name: "b", Type: types.Number},
	}, nil, nil)

	if err := c.InferFromTypes(source, target, PriorityNakedTypeVariable); err != nil {
		t.Fatalf("infer failed: %v", err)
	}

	gotK, err := c.ResolveWithConstraints(kv)
	if err != nil {
		t.Fatalf("resolve K failed: %v", err)
	}
	wantK := in.NewUnion([]types.TypeID{in.StringLiteral("a"), in.StringLiteral("b")})
	if gotK != wantK {
		t.Errorf("K = %s, want %s", types.FormatType(in, gotK), types.FormatType(in, wantK))
	}

	gotV, err := c.ResolveWithConstraints(vv)
	if err != nil {
		t.Fatalf("resolve V failed: %v", err)
	}
	if gotV != types.Number {
		t.Errorf("V = %s, want number", types.FormatType(in, gotV))
	}
}

func TestInferReadonlyUnwrap(t *testing.T) {
	in := types.NewInterner()
	c := NewContext(in)
	v := c.FreshTypeParam("T", false)

	target := in.NewReadonly(in.NewArray(in.NewTypeParameter(types.TypeParamInfo{Name: "T"})))
	source := in.NewArray(types.String)

	if err := c.InferFromTypes(source, target, PriorityNakedTypeVariable); err != nil {
		t.Fatalf("infer failed: %v", err)
	}
	got, err := c.ResolveWithConstraints(v)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if got != types.String {
		t.Errorf("T = %s, want string", types.FormatType(in, got))
	}
}
