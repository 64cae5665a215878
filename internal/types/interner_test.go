package types

import (
	"testing"
)

func TestInternCanonicalizes(t *testing.T) {
	in := NewInterner()

	a := in.StringLiteral("hello")
	b := in.StringLiteral("hello")
	if a != b {
		t.Errorf("identical string literals interned to %d and %d", a, b)
	}
	if a < FirstUserID {
		t.Errorf("user type got sentinel ID %d", a)
	}

	c := in.StringLiteral("world")
	if a == c {
		t.Error("distinct string literals share an ID")
	}
}

func TestBooleanLiteralsAreSentinels(t *testing.T) {
	in := NewInterner()
	if got := in.BooleanLiteral(true); got != True {
		t.Errorf("BooleanLiteral(true) = %d, want %d", got, True)
	}
	if got := in.BooleanLiteral(false); got != False {
		t.Errorf("BooleanLiteral(false) = %d, want %d", got, False)
	}
}

func TestNewUnionNormalization(t *testing.T) {
	in := NewInterner()
	litA := in.StringLiteral("a")
	litB := in.StringLiteral("b")

	tests := []struct {
		name    string
		members []TypeID
		want    TypeID
	}{
		{"empty is never", nil, Never},
		{"singleton collapses", []TypeID{String}, String},
		{"never dropped", []TypeID{String, Never}, String},
		{"any absorbs", []TypeID{String, Any, Number}, Any},
		{"unknown absorbs", []TypeID{String, Unknown}, Unknown},
		{"duplicates collapse", []TypeID{litA, litA}, litA},
		{"order independent", []TypeID{litB, litA}, in.NewUnion([]TypeID{litA, litB})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := in.NewUnion(tt.members); got != tt.want {
				t.Errorf("NewUnion(%v) = %d, want %d", tt.members, got, tt.want)
			}
		})
	}
}

func TestNewUnionFlattens(t *testing.T) {
	in := NewInterner()
	inner := in.NewUnion([]TypeID{Number, String})
	outer := in.NewUnion([]TypeID{inner, Boolean})

	u, ok := in.Lookup(outer).(Union)
	if !ok {
		t.Fatalf("expected Union, got %T", in.Lookup(outer))
	}
	if len(u.Members) != 3 {
		t.Fatalf("expected 3 flattened members, got %v", u.Members)
	}
	for _, m := range u.Members {
		if _, nested := in.Lookup(m).(Union); nested {
			t.Errorf("member %d is still a union", m)
		}
	}
}

func TestNewIntersectionNormalization(t *testing.T) {
	in := NewInterner()
	objA := in.NewObject([]Property{{Name: "a", Type: Number}}, nil, nil)
	objB := in.NewObject([]Property{{Name: "b", Type: String}}, nil, nil)

	tests := []struct {
		name    string
		members []TypeID
		want    TypeID
	}{
		{"empty is unknown", nil, Unknown},
		{"singleton collapses", []TypeID{objA}, objA},
		{"unknown dropped", []TypeID{objA, Unknown}, objA},
		{"any absorbs", []TypeID{objA, Any}, Any},
		{"never absorbs", []TypeID{objA, Never}, Never},
		{"order independent", []TypeID{objB, objA}, in.NewIntersection([]TypeID{objA, objB})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := in.NewIntersection(tt.members); got != tt.want {
				t.Errorf("NewIntersection(%v) = %d, want %d", tt.members, got, tt.want)
			}
		})
	}
}

func TestNewObjectSortsProperties(t *testing.T) {
	in := NewInterner()
	ab := in.NewObject([]Property{
		{Name: "a", Type: Number},
		{Name: "b", Type: String},
	}, nil, nil)
	ba := in.NewObject([]Property{
		{Name: "b", Type: String},
		{Name: "a", Type: Number},
	}, nil, nil)
	if ab != ba {
		t.Errorf("property order changed identity: %d vs %d", ab, ba)
	}
	obj := in.Lookup(ab).(Object)
	if obj.Properties[0].Name != "a" {
		t.Errorf("properties not sorted: first is %q", obj.Properties[0].Name)
	}
	if obj.Properties[0].WriteType != Number {
		t.Errorf("WriteType not defaulted to Type: %d", obj.Properties[0].WriteType)
	}
}

func TestNewTemplateLiteralNormalization(t *testing.T) {
	in := NewInterner()

	// Text-only templates collapse to string literals.
	textOnly := in.NewTemplateLiteral([]TemplateSpan{
		{Kind: SpanText, Text: "ab"},
		{Kind: SpanText, Text: "cd"},
	})
	if textOnly != in.StringLiteral("abcd") {
		t.Errorf("text-only template did not collapse to a string literal")
	}

	// Adjacent text spans merge, empty text spans vanish.
	tmpl := in.NewTemplateLiteral([]TemplateSpan{
		{Kind: SpanText, Text: "a"},
		{Kind: SpanText, Text: ""},
		{Kind: SpanText, Text: "b"},
		{Kind: SpanType, Type: String},
	})
	spans := in.Lookup(tmpl).(TemplateLiteral).Spans
	if len(spans) != 2 || spans[0].Text != "ab" {
		t.Errorf("unexpected spans: %+v", spans)
	}
}

func TestNewReadonlyCollapses(t *testing.T) {
	in := NewInterner()
	arr := in.NewArray(Number)
	once := in.NewReadonly(arr)
	twice := in.NewReadonly(once)
	if once != twice {
		t.Errorf("readonly wrapping did not collapse: %d vs %d", once, twice)
	}
}

func TestLookupOutOfRange(t *testing.T) {
	in := NewInterner()
	if data := in.Lookup(TypeID(1 << 20)); data != nil {
		t.Errorf("expected nil for unknown ID, got %T", data)
	}
}
