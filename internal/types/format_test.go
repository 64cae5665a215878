package types

import "testing"

func TestFormatType(t *testing.T) {
	in := NewInterner()

	fn := in.NewFunction(&FunctionShape{
		Params: []Param{
			{Name: "x", Type: Number},
			{Name: "rest", Type: in.NewArray(String), Rest: true},
		},
		Return: Boolean,
	})
	obj := in.NewObject([]Property{
		{Name: "b", Type: String, Optional: true},
		{Name: "a", Type: Number, Readonly: true},
	}, nil, nil)
	tmpl := in.NewTemplateLiteral([]TemplateSpan{
		{Kind: SpanText, Text: "on"},
		{Kind: SpanType, Type: String},
	})

	tests := []struct {
		name string
		id   TypeID
		want string
	}{
		{"intrinsic", String, "string"},
		{"string literal", in.StringLiteral("a"), `"a"`},
		{"number literal", in.NumberLiteral(42), "42"},
		{"bigint literal", in.BigintLiteral("10"), "10n"},
		{"union sorted", in.NewUnion([]TypeID{String, Number}), "number | string"},
		{"array", in.NewArray(Number), "number[]"},
		{"array of union", in.NewArray(in.NewUnion([]TypeID{String, Number})), "(number | string)[]"},
		{"tuple", in.NewTuple([]TupleElement{{Type: Number}, {Type: String, Optional: true}}), "[number, string?]"},
		{"tuple rest", in.NewTuple([]TupleElement{{Type: Number}, {Type: in.NewArray(String), Rest: true}}), "[number, ...string[]]"},
		{"function", fn, "(x: number, ...rest: string[]) => boolean"},
		{"object sorted", obj, "{ readonly a: number; b?: string }"},
		{"empty object", in.NewObject(nil, nil, nil), "{}"},
		{"keyof", in.NewKeyOf(obj), "keyof { readonly a: number; b?: string }"},
		{"readonly array", in.NewReadonly(in.NewArray(Number)), "readonly number[]"},
		{"template", tmpl, "`on${string}`"},
		{"noinfer", in.NewNoInfer(String), "NoInfer<string>"},
		{"string intrinsic", in.NewStringIntrinsic(StrUppercase, String), "Uppercase<string>"},
		{"index access", in.NewIndexAccess(obj, in.StringLiteral("a")), `{ readonly a: number; b?: string }["a"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatType(in, tt.id); got != tt.want {
				t.Errorf("FormatType = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatTypeParameter(t *testing.T) {
	in := NewInterner()
	tp := in.NewTypeParameter(TypeParamInfo{Name: "T", Constraint: String})
	if got := FormatType(in, tp); got != "T" {
		t.Errorf("FormatType = %q, want %q", got, "T")
	}
	iv := in.NewInfer(TypeParamInfo{Name: "R"})
	if got := FormatType(in, iv); got != "infer R" {
		t.Errorf("FormatType = %q, want %q", got, "infer R")
	}
}

func TestFormatFunctionInsideUnion(t *testing.T) {
	in := NewInterner()
	fn := in.NewFunction(&FunctionShape{Return: Void})
	u := in.NewUnion([]TypeID{fn, String})
	got := FormatType(in, u)
	want := "string | (() => void)"
	if got != want {
		t.Errorf("FormatType = %q, want %q", got, want)
	}
}
