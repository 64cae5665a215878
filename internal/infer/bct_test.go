package infer

import (
	"testing"

	"github.com/tycho-lang/tycho/internal/types"
)

// stubResolver answers nominal base-type queries for tests.
type stubResolver struct {
	refs  map[string]types.TypeID
	bases map[types.TypeID][]types.TypeID
}

func (r *stubResolver) ResolveRef(name string) types.TypeID {
	return r.refs[name]
}

func (r *stubResolver) BaseTypes(id types.TypeID) []types.TypeID {
	return r.bases[id]
}

func TestBestCommonTypeBasics(t *testing.T) {
	in := types.NewInterner()
	c := NewContext(in)

	litHello := in.StringLiteral("hello")
	numUnion := in.NewUnion([]types.TypeID{types.Number, types.String})

	tests := []struct {
		name       string
		candidates []types.TypeID
		want       types.TypeID
	}{
		{"empty", nil, types.Unknown},
		{"single", []types.TypeID{types.Number}, types.Number},
		{"homogeneous", []types.TypeID{litHello, litHello, litHello}, litHello},
		{"any wins", []types.TypeID{types.Number, types.Any}, types.Any},
		{"never dropped", []types.TypeID{types.Never, types.String}, types.String},
		{"all never", []types.TypeID{types.Never, types.Never}, types.Never},
		{"literal and base", []types.TypeID{types.String, litHello}, types.String},
		{"two literals share base", []types.TypeID{in.StringLiteral("a"), in.StringLiteral("b")}, types.String},
		{"member and union", []types.TypeID{types.Number, numUnion}, numUnion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.BestCommonType(tt.candidates)
			if got != tt.want {
				t.Errorf("BestCommonType = %s, want %s",
					types.FormatType(in, got), types.FormatType(in, tt.want))
			}
		})
	}
}

func TestBestCommonTypeFallsBackToUnion(t *testing.T) {
	in := types.NewInterner()
	c := NewContext(in)

	obj := in.NewObject([]types.Property{{Name: "a", Type: types.Number}}, nil, nil)
	got := c.BestCommonType([]types.TypeID{types.Number, obj})
	want := in.NewUnion([]types.TypeID{types.Number, obj})
	if got != want {
		t.Errorf("BestCommonType = %s, want %s",
			types.FormatType(in, got), types.FormatType(in, want))
	}
}

func TestBestCommonTypeCommonBaseClass(t *testing.T) {
	in := types.NewInterner()
	animal := in.NewLazy("Animal")
	dog := in.NewLazy("Dog")
	cat := in.NewLazy("Cat")
	r := &stubResolver{
		refs: map[string]types.TypeID{},
		bases: map[types.TypeID][]types.TypeID{
			dog: {animal},
			cat: {animal},
		},
	}
	c := NewContextWithResolver(in, r)

	got := c.BestCommonType([]types.TypeID{dog, cat})
	if got != animal {
		t.Errorf("BestCommonType(Dog, Cat) = %s, want Animal", types.FormatType(in, got))
	}
}
