package infer

import (
	"testing"

	"github.com/tycho-lang/tycho/internal/types"
)

func TestClassifyVariance(t *testing.T) {
	in := types.NewInterner()
	c := NewContext(in)
	tp := in.NewTypeParameter(types.TypeParamInfo{Name: "T"})

	covariantFn := in.NewFunction(&types.FunctionShape{
		Params: []types.Param{{Name: "x", Type: types.Number}},
		Return: tp,
	})
	contravariantFn := in.NewFunction(&types.FunctionShape{
		Params: []types.Param{{Name: "x", Type: tp}},
		Return: types.Void,
	})
	invariantFn := in.NewFunction(&types.FunctionShape{
		Params: []types.Param{{Name: "x", Type: tp}},
		Return: tp,
	})

	tests := []struct {
		name string
		ty   types.TypeID
		want Variance
	}{
		{"array element", in.NewArray(tp), VarianceCovariant},
		{"return position", covariantFn, VarianceCovariant},
		{"parameter position", contravariantFn, VarianceContravariant},
		{"both positions", invariantFn, VarianceInvariant},
		{"unused", types.String, VarianceUnused},
		{"union member", in.NewUnion([]types.TypeID{tp, types.Undefined}), VarianceCovariant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.ClassifyVariance(tt.ty, "T")
			if got != tt.want {
				t.Errorf("variance = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestVarianceMutableWriteType(t *testing.T) {
	in := types.NewInterner()
	c := NewContext(in)
	tp := in.NewTypeParameter(types.TypeParamInfo{Name: "T"})

	// A distinct mutable write type is a contravariant occurrence.
	obj := in.NewObject([]types.Property{
		{Name: "value", Type: types.Number, WriteType: tp},
	}, nil, nil)

	counts := c.ComputeVariance(obj, "T")
	if counts.Contravariant != 1 || counts.Covariant != 0 {
		t.Errorf("counts = %+v, want one contravariant occurrence", counts)
	}

	// A readonly property never counts its write type.
	roObj := in.NewObject([]types.Property{
		{Name: "value", Type: types.Number, WriteType: tp, Readonly: true},
	}, nil, nil)
	counts = c.ComputeVariance(roObj, "T")
	if counts.Contravariant != 0 {
		t.Errorf("counts = %+v, want no occurrences for readonly write type", counts)
	}
}

func TestVarianceConditionalPositions(t *testing.T) {
	in := types.NewInterner()
	c := NewContext(in)
	tp := in.NewTypeParameter(types.TypeParamInfo{Name: "T"})

	cond := in.NewConditional(tp, types.String, types.Number, types.Never, false)
	counts := c.ComputeVariance(cond, "T")
	// The check clause is a matching position, counted contravariant.
	if counts.Contravariant != 1 || counts.Covariant != 0 {
		t.Errorf("counts = %+v, want one contravariant occurrence in the check clause", counts)
	}

	branch := in.NewConditional(types.String, types.String, tp, tp, false)
	counts = c.ComputeVariance(branch, "T")
	if counts.Covariant != 2 {
		t.Errorf("counts = %+v, want two covariant occurrences in the branches", counts)
	}
}

func TestValidateVarianceRejectsSelfReference(t *testing.T) {
	in := types.NewInterner()
	c := NewContext(in)
	v := c.FreshTypeParam("T", false)

	selfArray := in.NewArray(in.NewTypeParameter(types.TypeParamInfo{Name: "T"}))
	c.rootInfo(v).Resolved = selfArray

	if err := c.ValidateVariance(); err == nil {
		t.Error("self-referential resolution passed variance validation")
	}
}

func TestValidateVarianceAcceptsCleanResolutions(t *testing.T) {
	in := types.NewInterner()
	c := NewContext(in)
	v := c.FreshTypeParam("T", false)
	c.rootInfo(v).Resolved = types.String

	if err := c.ValidateVariance(); err != nil {
		t.Errorf("validate failed: %v", err)
	}
}
