package types

// TypeData is the structural description behind a TypeID. The set of
// variants is closed: every walker in the solver switches exhaustively
// over these shapes, and a new variant means revisiting each switch.
//
// Shapes reference other types by TypeID only, never by nesting
// TypeData, so structural sharing falls out of interning.
type TypeData interface {
	typeData()
}

// IntrinsicKind distinguishes the built-in primitive types.
type IntrinsicKind uint8

const (
	KindAny IntrinsicKind = iota
	KindUnknown
	KindNever
	KindVoid
	KindUndefined
	KindNull
	KindBoolean
	KindNumber
	KindString
	KindBigint
	KindSymbol
	KindObject
	KindFunction
	KindError
	KindNone
)

// Intrinsic is a built-in primitive. All intrinsics are pre-interned
// at the sentinel TypeIDs; the interner never mints new ones.
type Intrinsic struct {
	Kind IntrinsicKind
}

// LiteralKind distinguishes literal value categories.
type LiteralKind uint8

const (
	LiteralString LiteralKind = iota
	LiteralNumber
	LiteralBoolean
	LiteralBigint
)

// LiteralValue carries the value of a literal type. Num is only
// meaningful for number literals, Bool for booleans, Text otherwise
// (and as the canonical rendering for numbers and bigints).
type LiteralValue struct {
	Kind LiteralKind
	Text string
	Num  float64
	Bool bool
}

// Literal is a literal type such as "a", 42, true or 10n. Freshness
// (widening eligibility) is not part of the interned identity; the
// solver tracks it per candidate.
type Literal struct {
	Value LiteralValue
}

// Property is one named member of an object type. WriteType differs
// from Type when getter and setter disagree; it equals Type otherwise.
type Property struct {
	Name      string
	Type      TypeID
	WriteType TypeID
	Optional  bool
	Readonly  bool
}

// IndexSignature is a string or number index signature.
type IndexSignature struct {
	Key   TypeID
	Value TypeID
}

// Object is a structural object type. Properties are sorted by name at
// intern time so identical shapes intern to the same ID.
type Object struct {
	Properties  []Property
	StringIndex *IndexSignature
	NumberIndex *IndexSignature
}

// Union is a normalized union: flattened, deduplicated, `never`
// dropped, members sorted by ID. Singleton unions never exist - the
// constructor collapses them.
type Union struct {
	Members []TypeID
}

// Intersection is a normalized intersection (flattened, deduplicated,
// sorted; see Interner.Intersection for the absorption rules).
type Intersection struct {
	Members []TypeID
}

// Array is T[].
type Array struct {
	Elem TypeID
}

// TupleElement is one slot of a tuple, possibly optional or a rest
// spread. Name is the optional label.
type TupleElement struct {
	Type     TypeID
	Name     string
	Optional bool
	Rest     bool
}

// Tuple is a fixed-shape tuple type.
type Tuple struct {
	Elems []TupleElement
}

// Param is one function parameter.
type Param struct {
	Name     string
	Type     TypeID
	Optional bool
	Rest     bool
}

// TypeParamInfo describes a declared type parameter: its constraint
// and default (None when absent) and whether it was declared `const`.
type TypeParamInfo struct {
	Name       string
	Constraint TypeID
	Default    TypeID
	IsConst    bool
}

// TypePredicate is a `param is T` return annotation. Param names the
// discriminated parameter.
type TypePredicate struct {
	Param string
	Type  TypeID
}

// FunctionShape is the common body of function and callable types.
// ThisType and Return are None when absent.
type FunctionShape struct {
	TypeParams []TypeParamInfo
	Params     []Param
	ThisType   TypeID
	Return     TypeID
	Predicate  *TypePredicate
}

// Function is a single-signature function type.
type Function struct {
	Shape *FunctionShape
}

// Callable is an overloaded callable: multiple call signatures plus
// optional construct signatures and properties.
type Callable struct {
	CallSignatures      []*FunctionShape
	ConstructSignatures []*FunctionShape
	Properties          []Property
}

// TypeParameter is a reference to a declared type parameter.
type TypeParameter struct {
	Info TypeParamInfo
}

// Infer is an `infer X` capture position inside a conditional type or
// template literal pattern.
type Infer struct {
	Info TypeParamInfo
}

// Application is Base<Args...> before instantiation.
type Application struct {
	Base TypeID
	Args []TypeID
}

// Conditional is Check extends Extends ? True : False.
type Conditional struct {
	Check        TypeID
	Extends      TypeID
	True         TypeID
	False        TypeID
	Distributive bool
}

// Modifier is a mapped-type +/- readonly or optional modifier.
type Modifier uint8

const (
	ModifierNone Modifier = iota
	ModifierAdd
	ModifierRemove
)

// Mapped is { [P in C as N]: T } with modifiers. NameType is None when
// there is no `as` clause.
type Mapped struct {
	Param       TypeParamInfo
	Constraint  TypeID
	NameType    TypeID
	Template    TypeID
	ReadonlyMod Modifier
	OptionalMod Modifier
}

// IndexAccess is Object[Index].
type IndexAccess struct {
	Object TypeID
	Index  TypeID
}

// KeyOf is keyof Operand.
type KeyOf struct {
	Operand TypeID
}

// Readonly wraps an array or tuple type.
type Readonly struct {
	Inner TypeID
}

// TemplateSpanKind distinguishes text from typed holes in a template
// literal type.
type TemplateSpanKind uint8

const (
	SpanText TemplateSpanKind = iota
	SpanType
)

// TemplateSpan is one segment of a template literal type: either
// verbatim text or a typed hole.
type TemplateSpan struct {
	Kind TemplateSpanKind
	Text string
	Type TypeID
}

// TemplateLiteral is a template literal type like `a${T}b`.
type TemplateLiteral struct {
	Spans []TemplateSpan
}

// StringIntrinsicKind names the built-in string-manipulation types.
type StringIntrinsicKind uint8

const (
	StrUppercase StringIntrinsicKind = iota
	StrLowercase
	StrCapitalize
	StrUncapitalize
)

// StringIntrinsic is Uppercase<T> and friends.
type StringIntrinsic struct {
	Kind StringIntrinsicKind
	Arg  TypeID
}

// NoInfer marks a position excluded from inference; the wrapped type
// still participates in checking.
type NoInfer struct {
	Inner TypeID
}

// Lazy is a symbolic reference resolved on demand through a Resolver.
type Lazy struct {
	Ref string
}

// Recursive is a back-reference used when interning cyclic structures;
// Depth counts binders outward.
type Recursive struct {
	Depth uint32
}

func (Intrinsic) typeData()       {}
func (Literal) typeData()         {}
func (Object) typeData()          {}
func (Union) typeData()           {}
func (Intersection) typeData()    {}
func (Array) typeData()           {}
func (Tuple) typeData()           {}
func (Function) typeData()        {}
func (Callable) typeData()        {}
func (TypeParameter) typeData()   {}
func (Infer) typeData()           {}
func (Application) typeData()     {}
func (Conditional) typeData()     {}
func (Mapped) typeData()          {}
func (IndexAccess) typeData()     {}
func (KeyOf) typeData()           {}
func (Readonly) typeData()        {}
func (TemplateLiteral) typeData() {}
func (StringIntrinsic) typeData() {}
func (NoInfer) typeData()         {}
func (Lazy) typeData()            {}
func (Recursive) typeData()       {}
