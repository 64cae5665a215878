package types

import (
	"strconv"
	"strings"

	"github.com/tycho-lang/tycho/internal/config"
)

// FormatType renders a type back to source notation. Output is
// deterministic: object properties and union members are already
// canonically ordered by the interner. In test mode, uniquifying
// "#n" suffixes on type-parameter names are stripped so baselines stay
// stable across solver runs.
func FormatType(in *Interner, id TypeID) string {
	var b strings.Builder
	f := &formatter{in: in, depth: 0}
	f.write(&b, id, precTop)
	return b.String()
}

type precedence int

const (
	precTop precedence = iota
	precUnion
	precIntersection
	precPostfix
)

type formatter struct {
	in    *Interner
	depth int
}

func (f *formatter) write(b *strings.Builder, id TypeID, prec precedence) {
	if f.depth > config.MaxTypeRecursionDepth {
		b.WriteString("...")
		return
	}
	f.depth++
	defer func() { f.depth-- }()

	switch d := f.in.Lookup(id).(type) {
	case nil:
		b.WriteString("<invalid>")
	case Intrinsic:
		b.WriteString(intrinsicName(d.Kind))
	case Literal:
		writeLiteral(b, d.Value)
	case Union:
		f.writeJoined(b, d.Members, " | ", precUnion, prec > precUnion)
	case Intersection:
		f.writeJoined(b, d.Members, " & ", precIntersection, prec > precIntersection)
	case Array:
		f.write(b, d.Elem, precPostfix)
		b.WriteString("[]")
	case Tuple:
		b.WriteByte('[')
		for i, e := range d.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			if e.Rest {
				b.WriteString("...")
			}
			if e.Name != "" {
				b.WriteString(e.Name)
				if e.Optional {
					b.WriteByte('?')
				}
				b.WriteString(": ")
				f.write(b, e.Type, precTop)
				continue
			}
			f.write(b, e.Type, precTop)
			if e.Optional {
				b.WriteByte('?')
			}
		}
		b.WriteByte(']')
	case Object:
		f.writeObject(b, d)
	case Function:
		if prec > precTop {
			b.WriteByte('(')
			f.writeSignature(b, d.Shape, " => ")
			b.WriteByte(')')
		} else {
			f.writeSignature(b, d.Shape, " => ")
		}
	case Callable:
		b.WriteString("{ ")
		for i, s := range d.CallSignatures {
			if i > 0 {
				b.WriteString("; ")
			}
			f.writeSignature(b, s, ": ")
		}
		for i, s := range d.ConstructSignatures {
			if i > 0 || len(d.CallSignatures) > 0 {
				b.WriteString("; ")
			}
			b.WriteString("new ")
			f.writeSignature(b, s, ": ")
		}
		for _, p := range d.Properties {
			b.WriteString("; ")
			b.WriteString(p.Name)
			b.WriteString(": ")
			f.write(b, p.Type, precTop)
		}
		b.WriteString(" }")
	case TypeParameter:
		b.WriteString(paramName(d.Info.Name))
	case Infer:
		b.WriteString("infer ")
		b.WriteString(paramName(d.Info.Name))
	case Application:
		f.write(b, d.Base, precPostfix)
		b.WriteByte('<')
		for i, a := range d.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			f.write(b, a, precTop)
		}
		b.WriteByte('>')
	case Conditional:
		f.write(b, d.Check, precUnion)
		b.WriteString(" extends ")
		f.write(b, d.Extends, precUnion)
		b.WriteString(" ? ")
		f.write(b, d.True, precTop)
		b.WriteString(" : ")
		f.write(b, d.False, precTop)
	case Mapped:
		b.WriteString("{ ")
		writeModifier(b, d.ReadonlyMod, "readonly ")
		b.WriteString("[")
		b.WriteString(paramName(d.Param.Name))
		b.WriteString(" in ")
		f.write(b, d.Constraint, precTop)
		if d.NameType != None {
			b.WriteString(" as ")
			f.write(b, d.NameType, precTop)
		}
		b.WriteByte(']')
		writeModifier(b, d.OptionalMod, "?")
		b.WriteString(": ")
		f.write(b, d.Template, precTop)
		b.WriteString(" }")
	case IndexAccess:
		f.write(b, d.Object, precPostfix)
		b.WriteByte('[')
		f.write(b, d.Index, precTop)
		b.WriteByte(']')
	case KeyOf:
		b.WriteString("keyof ")
		f.write(b, d.Operand, precPostfix)
	case Readonly:
		b.WriteString("readonly ")
		f.write(b, d.Inner, precPostfix)
	case TemplateLiteral:
		b.WriteByte('`')
		for _, sp := range d.Spans {
			if sp.Kind == SpanText {
				b.WriteString(sp.Text)
			} else {
				b.WriteString("${")
				f.write(b, sp.Type, precTop)
				b.WriteByte('}')
			}
		}
		b.WriteByte('`')
	case StringIntrinsic:
		b.WriteString(stringIntrinsicName(d.Kind))
		b.WriteByte('<')
		f.write(b, d.Arg, precTop)
		b.WriteByte('>')
	case NoInfer:
		b.WriteString("NoInfer<")
		f.write(b, d.Inner, precTop)
		b.WriteByte('>')
	case Lazy:
		b.WriteString(d.Ref)
	case Recursive:
		b.WriteString("...")
	}
}

func (f *formatter) writeJoined(b *strings.Builder, members []TypeID, sep string, prec precedence, parens bool) {
	if parens {
		b.WriteByte('(')
	}
	for i, m := range members {
		if i > 0 {
			b.WriteString(sep)
		}
		f.write(b, m, prec+1)
	}
	if parens {
		b.WriteByte(')')
	}
}

func (f *formatter) writeObject(b *strings.Builder, d Object) {
	if len(d.Properties) == 0 && d.StringIndex == nil && d.NumberIndex == nil {
		b.WriteString("{}")
		return
	}
	b.WriteString("{ ")
	first := true
	for _, p := range d.Properties {
		if !first {
			b.WriteString("; ")
		}
		first = false
		if p.Readonly {
			b.WriteString("readonly ")
		}
		b.WriteString(p.Name)
		if p.Optional {
			b.WriteByte('?')
		}
		b.WriteString(": ")
		f.write(b, p.Type, precTop)
	}
	for _, sig := range []*IndexSignature{d.StringIndex, d.NumberIndex} {
		if sig == nil {
			continue
		}
		if !first {
			b.WriteString("; ")
		}
		first = false
		b.WriteString("[key: ")
		f.write(b, sig.Key, precTop)
		b.WriteString("]: ")
		f.write(b, sig.Value, precTop)
	}
	b.WriteString(" }")
}

func (f *formatter) writeSignature(b *strings.Builder, s *FunctionShape, arrow string) {
	if len(s.TypeParams) > 0 {
		b.WriteByte('<')
		for i, tp := range s.TypeParams {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(paramName(tp.Name))
			if tp.Constraint != None {
				b.WriteString(" extends ")
				f.write(b, tp.Constraint, precTop)
			}
		}
		b.WriteByte('>')
	}
	b.WriteByte('(')
	first := true
	if s.ThisType != None {
		b.WriteString("this: ")
		f.write(b, s.ThisType, precTop)
		first = false
	}
	for _, p := range s.Params {
		if !first {
			b.WriteString(", ")
		}
		first = false
		if p.Rest {
			b.WriteString("...")
		}
		name := p.Name
		if name == "" {
			name = "_"
		}
		b.WriteString(name)
		if p.Optional {
			b.WriteByte('?')
		}
		b.WriteString(": ")
		f.write(b, p.Type, precTop)
	}
	b.WriteByte(')')
	b.WriteString(arrow)
	if s.Predicate != nil {
		b.WriteString(s.Predicate.Param)
		b.WriteString(" is ")
		f.write(b, s.Predicate.Type, precTop)
		return
	}
	ret := s.Return
	if ret == None {
		ret = Void
	}
	f.write(b, ret, precTop)
}

func writeModifier(b *strings.Builder, m Modifier, text string) {
	switch m {
	case ModifierAdd:
		b.WriteString(text)
	case ModifierRemove:
		b.WriteByte('-')
		b.WriteString(text)
	}
}

func writeLiteral(b *strings.Builder, v LiteralValue) {
	switch v.Kind {
	case LiteralString:
		b.WriteString(strconv.Quote(v.Text))
	case LiteralBigint:
		b.WriteString(v.Text)
		b.WriteByte('n')
	default:
		b.WriteString(v.Text)
	}
}

// paramName strips the solver's "#n" uniquifying suffix in test mode.
func paramName(name string) string {
	if !config.IsTestMode {
		return name
	}
	if i := strings.IndexByte(name, '#'); i >= 0 {
		return name[:i]
	}
	return name
}

func intrinsicName(k IntrinsicKind) string {
	switch k {
	case KindAny:
		return "any"
	case KindUnknown:
		return "unknown"
	case KindNever:
		return "never"
	case KindVoid:
		return "void"
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBigint:
		return "bigint"
	case KindSymbol:
		return "symbol"
	case KindObject:
		return "object"
	case KindFunction:
		return "Function"
	case KindError:
		return "<error>"
	default:
		return "<none>"
	}
}

func stringIntrinsicName(k StringIntrinsicKind) string {
	switch k {
	case StrUppercase:
		return "Uppercase"
	case StrLowercase:
		return "Lowercase"
	case StrCapitalize:
		return "Capitalize"
	case StrUncapitalize:
		return "Uncapitalize"
	default:
		return "<string-intrinsic>"
	}
}
