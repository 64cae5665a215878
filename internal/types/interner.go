package types

import (
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Resolver supplies semantic lookups the type database cannot answer
// structurally: resolving symbolic (Lazy) references and the declared
// base types of nominal declarations. Implementations may return None
// when nothing is known.
type Resolver interface {
	ResolveRef(name string) TypeID
	BaseTypes(id TypeID) []TypeID
}

// Interner is an append-only canonicalizing store for types.
// Structurally identical TypeData intern to the same TypeID, so ID
// equality is structural equality for anything built through the
// constructors below. Safe for concurrent readers; interning takes the
// write lock only on a miss.
type Interner struct {
	mu      sync.RWMutex
	entries []TypeData
	index   map[string]TypeID
}

// NewInterner returns a store with all sentinel types pre-registered.
func NewInterner() *Interner {
	in := &Interner{
		entries: make([]TypeData, FirstUserID),
		index:   make(map[string]TypeID, 64),
	}
	sentinels := map[TypeID]TypeData{
		None:            Intrinsic{Kind: KindNone},
		Error:           Intrinsic{Kind: KindError},
		Never:           Intrinsic{Kind: KindNever},
		Unknown:         Intrinsic{Kind: KindUnknown},
		Any:             Intrinsic{Kind: KindAny},
		Void:            Intrinsic{Kind: KindVoid},
		Undefined:       Intrinsic{Kind: KindUndefined},
		Null:            Intrinsic{Kind: KindNull},
		Boolean:         Intrinsic{Kind: KindBoolean},
		Number:          Intrinsic{Kind: KindNumber},
		String:          Intrinsic{Kind: KindString},
		Bigint:          Intrinsic{Kind: KindBigint},
		Symbol:          Intrinsic{Kind: KindSymbol},
		ObjectKeyword:   Intrinsic{Kind: KindObject},
		FunctionKeyword: Intrinsic{Kind: KindFunction},
		True:            Literal{Value: LiteralValue{Kind: LiteralBoolean, Text: "true", Bool: true}},
		False:           Literal{Value: LiteralValue{Kind: LiteralBoolean, Text: "false", Bool: false}},
	}
	for id, data := range sentinels {
		in.entries[id] = data
		in.index[keyFor(data)] = id
	}
	return in
}

// Lookup returns the data behind id, or nil for an unknown ID.
// Returned shapes are shared; callers must not mutate them.
func (in *Interner) Lookup(id TypeID) TypeData {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(id) >= len(in.entries) {
		return nil
	}
	return in.entries[id]
}

// Len reports how many IDs have been handed out (sentinel range
// included).
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.entries)
}

// Intern stores data and returns its canonical ID, reusing an existing
// ID when an identical shape was interned before.
func (in *Interner) Intern(data TypeData) TypeID {
	key := keyFor(data)
	in.mu.RLock()
	id, ok := in.index[key]
	in.mu.RUnlock()
	if ok {
		return id
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	if id, ok := in.index[key]; ok {
		return id
	}
	id = TypeID(len(in.entries))
	in.entries = append(in.entries, data)
	in.index[key] = id
	return id
}

// StringLiteral interns the literal type for s.
func (in *Interner) StringLiteral(s string) TypeID {
	return in.Intern(Literal{Value: LiteralValue{Kind: LiteralString, Text: s}})
}

// NumberLiteral interns the literal type for n.
func (in *Interner) NumberLiteral(n float64) TypeID {
	text := strconv.FormatFloat(n, 'g', -1, 64)
	return in.Intern(Literal{Value: LiteralValue{Kind: LiteralNumber, Text: text, Num: n}})
}

// BigintLiteral interns the literal type for the bigint with the given
// decimal text (without the trailing n).
func (in *Interner) BigintLiteral(text string) TypeID {
	return in.Intern(Literal{Value: LiteralValue{Kind: LiteralBigint, Text: text}})
}

// BooleanLiteral returns the sentinel for true or false.
func (in *Interner) BooleanLiteral(b bool) TypeID {
	if b {
		return True
	}
	return False
}

// NewUnion interns a normalized union of members: nested unions are
// flattened, never is dropped, duplicates removed, members sorted.
// Any member absorbs the union to any, unknown to unknown. An empty
// result is never; a singleton collapses to its member.
func (in *Interner) NewUnion(members []TypeID) TypeID {
	flat := make([]TypeID, 0, len(members))
	hasUnknown := false
	for _, m := range members {
		switch data := in.Lookup(m).(type) {
		case Union:
			flat = append(flat, data.Members...)
		default:
			flat = append(flat, m)
		}
	}
	seen := make(map[TypeID]bool, len(flat))
	out := flat[:0]
	for _, m := range flat {
		if m == Any {
			return Any
		}
		if m == Unknown {
			hasUnknown = true
			continue
		}
		if m == Never || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	if hasUnknown {
		return Unknown
	}
	if len(out) == 0 {
		return Never
	}
	if len(out) == 1 {
		return out[0]
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	ms := make([]TypeID, len(out))
	copy(ms, out)
	return in.Intern(Union{Members: ms})
}

// NewIntersection interns a normalized intersection: flattened,
// deduplicated, sorted. Any absorbs to any, never to never, unknown
// members are dropped. Empty is unknown; a singleton collapses.
func (in *Interner) NewIntersection(members []TypeID) TypeID {
	flat := make([]TypeID, 0, len(members))
	for _, m := range members {
		switch data := in.Lookup(m).(type) {
		case Intersection:
			flat = append(flat, data.Members...)
		default:
			flat = append(flat, m)
		}
	}
	seen := make(map[TypeID]bool, len(flat))
	out := flat[:0]
	for _, m := range flat {
		if m == Any {
			return Any
		}
		if m == Never {
			return Never
		}
		if m == Unknown || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	if len(out) == 0 {
		return Unknown
	}
	if len(out) == 1 {
		return out[0]
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	ms := make([]TypeID, len(out))
	copy(ms, out)
	return in.Intern(Intersection{Members: ms})
}

// NewArray interns elem[].
func (in *Interner) NewArray(elem TypeID) TypeID {
	return in.Intern(Array{Elem: elem})
}

// NewTuple interns a tuple with the given elements.
func (in *Interner) NewTuple(elems []TupleElement) TypeID {
	es := make([]TupleElement, len(elems))
	copy(es, elems)
	return in.Intern(Tuple{Elems: es})
}

// NewObject interns an object shape; properties are copied and sorted
// by name so identical shapes share an ID. Properties without a
// distinct write type get WriteType set to Type.
func (in *Interner) NewObject(props []Property, strIndex, numIndex *IndexSignature) TypeID {
	ps := make([]Property, len(props))
	copy(ps, props)
	for i := range ps {
		if ps[i].WriteType == None {
			ps[i].WriteType = ps[i].Type
		}
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].Name < ps[j].Name })
	return in.Intern(Object{Properties: ps, StringIndex: strIndex, NumberIndex: numIndex})
}

// NewFunction interns a single-signature function type.
func (in *Interner) NewFunction(shape *FunctionShape) TypeID {
	return in.Intern(Function{Shape: shape})
}

// NewCallable interns an overloaded callable.
func (in *Interner) NewCallable(calls, constructs []*FunctionShape, props []Property) TypeID {
	return in.Intern(Callable{CallSignatures: calls, ConstructSignatures: constructs, Properties: props})
}

// NewTypeParameter interns a reference to a declared type parameter.
func (in *Interner) NewTypeParameter(info TypeParamInfo) TypeID {
	return in.Intern(TypeParameter{Info: info})
}

// NewInfer interns an infer capture position.
func (in *Interner) NewInfer(info TypeParamInfo) TypeID {
	return in.Intern(Infer{Info: info})
}

// NewApplication interns Base<Args...>.
func (in *Interner) NewApplication(base TypeID, args []TypeID) TypeID {
	as := make([]TypeID, len(args))
	copy(as, args)
	return in.Intern(Application{Base: base, Args: as})
}

// NewConditional interns a conditional type.
func (in *Interner) NewConditional(check, extends, whenTrue, whenFalse TypeID, distributive bool) TypeID {
	return in.Intern(Conditional{
		Check:        check,
		Extends:      extends,
		True:         whenTrue,
		False:        whenFalse,
		Distributive: distributive,
	})
}

// NewMapped interns a mapped type.
func (in *Interner) NewMapped(m Mapped) TypeID {
	return in.Intern(m)
}

// NewIndexAccess interns Object[Index].
func (in *Interner) NewIndexAccess(obj, index TypeID) TypeID {
	return in.Intern(IndexAccess{Object: obj, Index: index})
}

// NewKeyOf interns keyof operand.
func (in *Interner) NewKeyOf(operand TypeID) TypeID {
	return in.Intern(KeyOf{Operand: operand})
}

// NewReadonly interns readonly inner; double wrapping collapses.
func (in *Interner) NewReadonly(inner TypeID) TypeID {
	if _, ok := in.Lookup(inner).(Readonly); ok {
		return inner
	}
	return in.Intern(Readonly{Inner: inner})
}

// NewNoInfer interns NoInfer<inner>; double wrapping collapses.
func (in *Interner) NewNoInfer(inner TypeID) TypeID {
	if _, ok := in.Lookup(inner).(NoInfer); ok {
		return inner
	}
	return in.Intern(NoInfer{Inner: inner})
}

// NewStringIntrinsic interns Uppercase<arg> and friends.
func (in *Interner) NewStringIntrinsic(kind StringIntrinsicKind, arg TypeID) TypeID {
	return in.Intern(StringIntrinsic{Kind: kind, Arg: arg})
}

// NewLazy interns a symbolic reference.
func (in *Interner) NewLazy(ref string) TypeID {
	return in.Intern(Lazy{Ref: ref})
}

// NewTemplateLiteral interns a template literal type. Adjacent text
// spans are merged and empty text spans dropped; a template with no
// typed holes collapses to a string literal.
func (in *Interner) NewTemplateLiteral(spans []TemplateSpan) TypeID {
	norm := make([]TemplateSpan, 0, len(spans))
	for _, sp := range spans {
		if sp.Kind == SpanText {
			if sp.Text == "" {
				continue
			}
			if n := len(norm); n > 0 && norm[n-1].Kind == SpanText {
				norm[n-1].Text += sp.Text
				continue
			}
		}
		norm = append(norm, sp)
	}
	hasHole := false
	for _, sp := range norm {
		if sp.Kind == SpanType {
			hasHole = true
			break
		}
	}
	if !hasHole {
		text := ""
		if len(norm) == 1 {
			text = norm[0].Text
		}
		return in.StringLiteral(text)
	}
	return in.Intern(TemplateLiteral{Spans: norm})
}

// keyFor renders a canonical, collision-free key for an interned
// shape. Child types appear by ID, strings are quoted.
func keyFor(data TypeData) string {
	var b strings.Builder
	writeKey(&b, data)
	return b.String()
}

func writeKey(b *strings.Builder, data TypeData) {
	switch d := data.(type) {
	case Intrinsic:
		b.WriteString("in:")
		writeInt(b, int(d.Kind))
	case Literal:
		b.WriteString("li:")
		writeInt(b, int(d.Value.Kind))
		b.WriteByte(':')
		b.WriteString(strconv.Quote(d.Value.Text))
	case Object:
		b.WriteString("ob{")
		for _, p := range d.Properties {
			b.WriteString(strconv.Quote(p.Name))
			b.WriteByte(':')
			writeID(b, p.Type)
			b.WriteByte('/')
			writeID(b, p.WriteType)
			if p.Optional {
				b.WriteByte('?')
			}
			if p.Readonly {
				b.WriteByte('r')
			}
			b.WriteByte(',')
		}
		writeIndexKey(b, 's', d.StringIndex)
		writeIndexKey(b, 'n', d.NumberIndex)
		b.WriteByte('}')
	case Union:
		b.WriteString("un(")
		writeIDs(b, d.Members)
		b.WriteByte(')')
	case Intersection:
		b.WriteString("is(")
		writeIDs(b, d.Members)
		b.WriteByte(')')
	case Array:
		b.WriteString("ar(")
		writeID(b, d.Elem)
		b.WriteByte(')')
	case Tuple:
		b.WriteString("tu(")
		for _, e := range d.Elems {
			writeID(b, e.Type)
			if e.Name != "" {
				b.WriteByte('=')
				b.WriteString(strconv.Quote(e.Name))
			}
			if e.Optional {
				b.WriteByte('?')
			}
			if e.Rest {
				b.WriteByte('*')
			}
			b.WriteByte(',')
		}
		b.WriteByte(')')
	case Function:
		b.WriteString("fn")
		writeShapeKey(b, d.Shape)
	case Callable:
		b.WriteString("ca[")
		for _, s := range d.CallSignatures {
			writeShapeKey(b, s)
		}
		b.WriteByte(';')
		for _, s := range d.ConstructSignatures {
			writeShapeKey(b, s)
		}
		b.WriteByte(';')
		for _, p := range d.Properties {
			b.WriteString(strconv.Quote(p.Name))
			b.WriteByte(':')
			writeID(b, p.Type)
			b.WriteByte(',')
		}
		b.WriteByte(']')
	case TypeParameter:
		b.WriteString("tp")
		writeParamInfoKey(b, d.Info)
	case Infer:
		b.WriteString("iv")
		writeParamInfoKey(b, d.Info)
	case Application:
		b.WriteString("ap(")
		writeID(b, d.Base)
		b.WriteByte(';')
		writeIDs(b, d.Args)
		b.WriteByte(')')
	case Conditional:
		b.WriteString("co(")
		writeID(b, d.Check)
		b.WriteByte(',')
		writeID(b, d.Extends)
		b.WriteByte(',')
		writeID(b, d.True)
		b.WriteByte(',')
		writeID(b, d.False)
		if d.Distributive {
			b.WriteByte('d')
		}
		b.WriteByte(')')
	case Mapped:
		b.WriteString("ma(")
		writeParamInfoKey(b, d.Param)
		b.WriteByte(',')
		writeID(b, d.Constraint)
		b.WriteByte(',')
		writeID(b, d.NameType)
		b.WriteByte(',')
		writeID(b, d.Template)
		b.WriteByte(',')
		writeInt(b, int(d.ReadonlyMod))
		writeInt(b, int(d.OptionalMod))
		b.WriteByte(')')
	case IndexAccess:
		b.WriteString("ix(")
		writeID(b, d.Object)
		b.WriteByte(',')
		writeID(b, d.Index)
		b.WriteByte(')')
	case KeyOf:
		b.WriteString("ko(")
		writeID(b, d.Operand)
		b.WriteByte(')')
	case Readonly:
		b.WriteString("ro(")
		writeID(b, d.Inner)
		b.WriteByte(')')
	case TemplateLiteral:
		b.WriteString("tl(")
		for _, sp := range d.Spans {
			if sp.Kind == SpanText {
				b.WriteString(strconv.Quote(sp.Text))
			} else {
				writeID(b, sp.Type)
			}
			b.WriteByte(',')
		}
		b.WriteByte(')')
	case StringIntrinsic:
		b.WriteString("si(")
		writeInt(b, int(d.Kind))
		b.WriteByte(',')
		writeID(b, d.Arg)
		b.WriteByte(')')
	case NoInfer:
		b.WriteString("ni(")
		writeID(b, d.Inner)
		b.WriteByte(')')
	case Lazy:
		b.WriteString("la:")
		b.WriteString(strconv.Quote(d.Ref))
	case Recursive:
		b.WriteString("re:")
		writeInt(b, int(d.Depth))
	}
}

func writeShapeKey(b *strings.Builder, s *FunctionShape) {
	b.WriteByte('(')
	for _, tp := range s.TypeParams {
		writeParamInfoKey(b, tp)
		b.WriteByte(',')
	}
	b.WriteByte(';')
	for _, p := range s.Params {
		writeID(b, p.Type)
		if p.Optional {
			b.WriteByte('?')
		}
		if p.Rest {
			b.WriteByte('*')
		}
		b.WriteByte(',')
	}
	b.WriteByte(';')
	writeID(b, s.ThisType)
	b.WriteByte(';')
	writeID(b, s.Return)
	if s.Predicate != nil {
		b.WriteByte(';')
		b.WriteString(strconv.Quote(s.Predicate.Param))
		b.WriteByte(':')
		writeID(b, s.Predicate.Type)
	}
	b.WriteByte(')')
}

func writeParamInfoKey(b *strings.Builder, info TypeParamInfo) {
	b.WriteByte('<')
	b.WriteString(strconv.Quote(info.Name))
	b.WriteByte(',')
	writeID(b, info.Constraint)
	b.WriteByte(',')
	writeID(b, info.Default)
	if info.IsConst {
		b.WriteByte('c')
	}
	b.WriteByte('>')
}

func writeIndexKey(b *strings.Builder, tag byte, sig *IndexSignature) {
	if sig == nil {
		return
	}
	b.WriteByte('[')
	b.WriteByte(tag)
	b.WriteByte(':')
	writeID(b, sig.Key)
	b.WriteByte(',')
	writeID(b, sig.Value)
	b.WriteByte(']')
}

func writeIDs(b *strings.Builder, ids []TypeID) {
	for _, id := range ids {
		writeID(b, id)
		b.WriteByte(',')
	}
}

func writeID(b *strings.Builder, id TypeID) {
	b.WriteString(strconv.FormatUint(uint64(id), 10))
}

func writeInt(b *strings.Builder, n int) {
	b.WriteString(strconv.Itoa(n))
}
