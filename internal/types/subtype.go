package types

import (
	"github.com/tycho-lang/tycho/internal/config"
)

// IsSubtype reports whether a is structurally assignable to b.
func IsSubtype(in *Interner, a, b TypeID) bool {
	return IsSubtypeWith(in, nil, a, b)
}

// IsSubtypeWith is IsSubtype with an optional Resolver for symbolic
// references and nominal base types.
//
// The relation is deliberately compact: it covers what candidate
// merging, best-common-type selection and bound validation need. Every
// recursion goes through a visited-pair set plus the shared depth
// ceiling; a revisited pair is assumed to hold so recursive types
// compare co-inductively.
func IsSubtypeWith(in *Interner, r Resolver, a, b TypeID) bool {
	w := &subtypeWalker{in: in, r: r, seen: make(map[typePair]bool)}
	return w.check(a, b, 0)
}

type typePair struct {
	a, b TypeID
}

type subtypeWalker struct {
	in   *Interner
	r    Resolver
	seen map[typePair]bool
}

func (w *subtypeWalker) check(a, b TypeID, depth int) bool {
	if a == b {
		return true
	}
	if depth > config.MaxTypeRecursionDepth {
		return false
	}
	// Error suppresses cascading failures in both directions.
	if a == Error || b == Error {
		return true
	}
	if b == Any || b == Unknown || a == Any {
		return true
	}
	if a == Never {
		return true
	}
	if b == Never {
		return false
	}
	pair := typePair{a, b}
	if w.seen[pair] {
		return true
	}
	w.seen[pair] = true

	da := w.in.Lookup(a)
	db := w.in.Lookup(b)

	// Unwrap inference blockers; they do not affect assignability.
	if ni, ok := da.(NoInfer); ok {
		return w.check(ni.Inner, b, depth+1)
	}
	if ni, ok := db.(NoInfer); ok {
		return w.check(a, ni.Inner, depth+1)
	}

	// Symbolic references resolve through the Resolver when available.
	if lz, ok := da.(Lazy); ok {
		if w.r != nil {
			if resolved := w.r.ResolveRef(lz.Ref); resolved != None && resolved != a {
				if w.check(resolved, b, depth+1) {
					return true
				}
			}
			for _, base := range w.r.BaseTypes(a) {
				if w.check(base, b, depth+1) {
					return true
				}
			}
		}
		return false
	}
	if lz, ok := db.(Lazy); ok {
		if w.r != nil {
			if resolved := w.r.ResolveRef(lz.Ref); resolved != None && resolved != b {
				return w.check(a, resolved, depth+1)
			}
		}
		return false
	}

	// A source union is assignable when every member is.
	if u, ok := da.(Union); ok {
		for _, m := range u.Members {
			if !w.check(m, b, depth+1) {
				return false
			}
		}
		return true
	}
	// A target intersection requires every member.
	if ix, ok := db.(Intersection); ok {
		for _, m := range ix.Members {
			if !w.check(a, m, depth+1) {
				return false
			}
		}
		return true
	}
	// A target union requires some member.
	if u, ok := db.(Union); ok {
		for _, m := range u.Members {
			if w.check(a, m, depth+1) {
				return true
			}
		}
		return false
	}
	// A source intersection is assignable when some member is.
	if ix, ok := da.(Intersection); ok {
		for _, m := range ix.Members {
			if w.check(m, b, depth+1) {
				return true
			}
		}
		return false
	}

	// A source type parameter stands for anything within its
	// constraint, so assignability flows through the constraint.
	if tp, ok := da.(TypeParameter); ok {
		return tp.Info.Constraint != None && w.check(tp.Info.Constraint, b, depth+1)
	}
	if _, ok := db.(TypeParameter); ok {
		return false
	}

	switch bd := db.(type) {
	case Intrinsic:
		return w.checkIntrinsicTarget(da, a, bd, depth)
	case Literal:
		return false
	case Array:
		switch ad := da.(type) {
		case Array:
			return w.check(ad.Elem, bd.Elem, depth+1)
		case Tuple:
			for _, e := range ad.Elems {
				if !w.check(e.Type, bd.Elem, depth+1) {
					return false
				}
			}
			return true
		}
		return false
	case Tuple:
		ad, ok := da.(Tuple)
		if !ok {
			return false
		}
		return w.checkTuple(ad, bd, depth)
	case Readonly:
		inner := a
		if ar, ok := da.(Readonly); ok {
			inner = ar.Inner
		}
		return w.check(inner, bd.Inner, depth+1)
	case Object:
		return w.checkObject(da, bd, depth)
	case Function:
		af := w.callSignatures(da)
		if len(af) == 0 {
			return false
		}
		for _, sig := range af {
			if w.checkSignature(sig, bd.Shape, depth) {
				return true
			}
		}
		return false
	case Callable:
		for _, target := range bd.CallSignatures {
			matched := false
			for _, src := range w.callSignatures(da) {
				if w.checkSignature(src, target, depth) {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		}
		return len(bd.CallSignatures) > 0
	case Application:
		ad, ok := da.(Application)
		if !ok || ad.Base != bd.Base || len(ad.Args) != len(bd.Args) {
			return w.nominalFallback(a, b, depth)
		}
		for i := range ad.Args {
			if !w.check(ad.Args[i], bd.Args[i], depth+1) {
				return false
			}
		}
		return true
	case TemplateLiteral:
		lit, ok := da.(Literal)
		if !ok || lit.Value.Kind != LiteralString {
			return false
		}
		return w.matchTemplateText(lit.Value.Text, bd.Spans, depth)
	default:
		return w.nominalFallback(a, b, depth)
	}
}

// checkIntrinsicTarget handles assignment to a primitive target.
func (w *subtypeWalker) checkIntrinsicTarget(da TypeData, a TypeID, target Intrinsic, depth int) bool {
	switch target.Kind {
	case KindString:
		if lit, ok := da.(Literal); ok {
			return lit.Value.Kind == LiteralString
		}
		switch da.(type) {
		case TemplateLiteral, StringIntrinsic:
			return true
		}
		return false
	case KindNumber:
		lit, ok := da.(Literal)
		return ok && lit.Value.Kind == LiteralNumber
	case KindBoolean:
		return a == True || a == False
	case KindBigint:
		lit, ok := da.(Literal)
		return ok && lit.Value.Kind == LiteralBigint
	case KindVoid:
		return a == Undefined
	case KindObject:
		return IsObjectLike(w.in, a) || IsFunctionType(w.in, a)
	case KindFunction:
		return IsFunctionType(w.in, a)
	default:
		return false
	}
}

func (w *subtypeWalker) checkTuple(src, dst Tuple, depth int) bool {
	di := 0
	for si := 0; si < len(src.Elems); si++ {
		if di >= len(dst.Elems) {
			return false
		}
		d := dst.Elems[di]
		if d.Rest {
			// A rest slot absorbs the remainder; its type is the
			// element type of the spread array.
			elem := d.Type
			if arr, ok := w.in.Lookup(d.Type).(Array); ok {
				elem = arr.Elem
			}
			for ; si < len(src.Elems); si++ {
				if !w.check(src.Elems[si].Type, elem, depth+1) {
					return false
				}
			}
			return true
		}
		if !w.check(src.Elems[si].Type, d.Type, depth+1) {
			return false
		}
		di++
	}
	for ; di < len(dst.Elems); di++ {
		if !dst.Elems[di].Optional && !dst.Elems[di].Rest {
			return false
		}
	}
	return true
}

// checkObject applies width subtyping: the source must supply every
// required target property with a covariant type.
func (w *subtypeWalker) checkObject(da TypeData, target Object, depth int) bool {
	if ro, isRO := da.(Readonly); isRO {
		da = w.in.Lookup(ro.Inner)
	}
	src, ok := da.(Object)
	if !ok {
		return false
	}
	return w.checkObjectProps(src, target, depth)
}

func (w *subtypeWalker) checkObjectProps(src, target Object, depth int) bool {
	byName := make(map[string]Property, len(src.Properties))
	for _, p := range src.Properties {
		byName[p.Name] = p
	}
	for _, tp := range target.Properties {
		sp, found := byName[tp.Name]
		if !found {
			if tp.Optional {
				continue
			}
			if src.StringIndex != nil && w.check(src.StringIndex.Value, tp.Type, depth+1) {
				continue
			}
			return false
		}
		if !w.check(sp.Type, tp.Type, depth+1) {
			return false
		}
	}
	if target.StringIndex != nil {
		for _, sp := range src.Properties {
			if !w.check(sp.Type, target.StringIndex.Value, depth+1) {
				return false
			}
		}
		if src.StringIndex != nil && !w.check(src.StringIndex.Value, target.StringIndex.Value, depth+1) {
			return false
		}
	}
	if target.NumberIndex != nil {
		if src.NumberIndex == nil || !w.check(src.NumberIndex.Value, target.NumberIndex.Value, depth+1) {
			return false
		}
	}
	return true
}

func (w *subtypeWalker) callSignatures(d TypeData) []*FunctionShape {
	switch fd := d.(type) {
	case Function:
		return []*FunctionShape{fd.Shape}
	case Callable:
		return fd.CallSignatures
	}
	return nil
}

// checkSignature: parameters contravariant, return covariant. The
// source may declare fewer parameters than the target supplies.
func (w *subtypeWalker) checkSignature(src, dst *FunctionShape, depth int) bool {
	srcRequired := 0
	for _, p := range src.Params {
		if !p.Optional && !p.Rest {
			srcRequired++
		}
	}
	dstCount := len(dst.Params)
	hasRest := len(src.Params) > 0 && src.Params[len(src.Params)-1].Rest
	if srcRequired > dstCount && !hasRest {
		return false
	}
	n := len(src.Params)
	if dstCount < n {
		n = dstCount
	}
	for i := 0; i < n; i++ {
		if src.Params[i].Rest {
			break
		}
		if !w.check(dst.Params[i].Type, src.Params[i].Type, depth+1) {
			return false
		}
	}
	if dst.Return == None || dst.Return == Void {
		return true
	}
	if src.Return == None {
		return false
	}
	return w.check(src.Return, dst.Return, depth+1)
}

// nominalFallback consults declared base types when structure alone
// cannot decide.
func (w *subtypeWalker) nominalFallback(a, b TypeID, depth int) bool {
	if w.r == nil {
		return false
	}
	for _, base := range w.r.BaseTypes(a) {
		if w.check(base, b, depth+1) {
			return true
		}
	}
	return false
}

// matchTemplateText reports whether text is producible by the template
// spans when every typed hole accepts any matching content. Holes are
// non-greedy up to the next text anchor; the final hole consumes the
// rest.
func (w *subtypeWalker) matchTemplateText(text string, spans []TemplateSpan, depth int) bool {
	pos := 0
	for i, sp := range spans {
		if sp.Kind == SpanText {
			end := pos + len(sp.Text)
			if end > len(text) || text[pos:end] != sp.Text {
				return false
			}
			pos = end
			continue
		}
		// Find the next text anchor to bound this hole.
		anchor := ""
		for j := i + 1; j < len(spans); j++ {
			if spans[j].Kind == SpanText {
				anchor = spans[j].Text
				break
			}
		}
		var segment string
		if anchor == "" {
			segment = text[pos:]
			pos = len(text)
		} else {
			idx := indexFrom(text, anchor, pos)
			if idx < 0 {
				return false
			}
			segment = text[pos:idx]
			pos = idx
		}
		if !w.holeAccepts(sp.Type, segment, depth) {
			return false
		}
	}
	return pos == len(text)
}

func (w *subtypeWalker) holeAccepts(hole TypeID, segment string, depth int) bool {
	switch hole {
	case Any, String, Unknown:
		return true
	case Number:
		return isNumericText(segment)
	case Bigint:
		return isIntegerText(segment)
	case Boolean:
		return segment == "true" || segment == "false"
	}
	return w.check(w.in.StringLiteral(segment), hole, depth+1)
}

func indexFrom(s, sub string, from int) int {
	for i := from; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func isNumericText(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[0] == '-' || s[0] == '+' {
		i++
	}
	digits, dot := 0, false
	for ; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			digits++
		case s[i] == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return digits > 0
}

func isIntegerText(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[0] == '-' {
		i++
	}
	if i == len(s) {
		return false
	}
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
