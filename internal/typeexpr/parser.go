package typeexpr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tycho-lang/tycho/internal/types"
)

// Parse interns the type denoted by src. Bare identifiers that are not
// keywords become symbolic references.
func Parse(in *types.Interner, src string) (types.TypeID, error) {
	return ParseWith(in, src, nil)
}

// ParseWith is Parse with a scope binding type-parameter names to
// already interned parameters, the way a fixture declares them.
func ParseWith(in *types.Interner, src string, scope map[string]types.TypeID) (types.TypeID, error) {
	p, err := newParser(in, src, scope)
	if err != nil {
		return types.None, err
	}
	ty, err := p.parseType()
	if err != nil {
		return types.None, err
	}
	if p.cur().kind != tokEOF {
		return types.None, p.errorf("unexpected %q after type", p.cur().text)
	}
	return ty, nil
}

type parser struct {
	in     *types.Interner
	scope  map[string]types.TypeID
	tokens []token
	pos    int
}

func newParser(in *types.Interner, src string, scope map[string]types.TypeID) (*parser, error) {
	lx := newLexer(src)
	var tokens []token
	for {
		t := lx.nextToken()
		if t.kind == tokIllegal {
			return nil, &ParseError{Pos: t.pos, Msg: "illegal token " + strconv.Quote(t.text)}
		}
		tokens = append(tokens, t)
		if t.kind == tokEOF {
			break
		}
	}
	return &parser{in: in, scope: scope, tokens: tokens}, nil
}

func (p *parser) cur() token { return p.tokens[p.pos] }

func (p *parser) peek() token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}
func (p *parser) next() { p.pos++ }

func (p *parser) errorf(format string, args ...interface{}) error {
	return &ParseError{Pos: p.cur().pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(kind tokenKind, what string) error {
	if p.cur().kind != kind {
		return p.errorf("expected %s, found %q", what, p.cur().text)
	}
	p.next()
	return nil
}

func (p *parser) parseType() (types.TypeID, error) {
	return p.parseUnion()
}

func (p *parser) parseUnion() (types.TypeID, error) {
	if p.cur().kind == tokPipe {
		p.next()
	}
	first, err := p.parseIntersection()
	if err != nil {
		return types.None, err
	}
	if p.cur().kind != tokPipe {
		return first, nil
	}
	members := []types.TypeID{first}
	for p.cur().kind == tokPipe {
		p.next()
		m, err := p.parseIntersection()
		if err != nil {
			return types.None, err
		}
		members = append(members, m)
	}
	return p.in.NewUnion(members), nil
}

func (p *parser) parseIntersection() (types.TypeID, error) {
	first, err := p.parsePostfix()
	if err != nil {
		return types.None, err
	}
	if p.cur().kind != tokAmp {
		return first, nil
	}
	members := []types.TypeID{first}
	for p.cur().kind == tokAmp {
		p.next()
		m, err := p.parsePostfix()
		if err != nil {
			return types.None, err
		}
		members = append(members, m)
	}
	return p.in.NewIntersection(members), nil
}

// parsePostfix handles T[] arrays and T[K] index accesses.
func (p *parser) parsePostfix() (types.TypeID, error) {
	ty, err := p.parsePrimary()
	if err != nil {
		return types.None, err
	}
	for p.cur().kind == tokLBracket {
		p.next()
		if p.cur().kind == tokRBracket {
			p.next()
			ty = p.in.NewArray(ty)
			continue
		}
		index, err := p.parseType()
		if err != nil {
			return types.None, err
		}
		if err := p.expect(tokRBracket, "']'"); err != nil {
			return types.None, err
		}
		ty = p.in.NewIndexAccess(ty, index)
	}
	return ty, nil
}

func (p *parser) parsePrimary() (types.TypeID, error) {
	switch t := p.cur(); t.kind {
	case tokString:
		p.next()
		return p.in.StringLiteral(t.text), nil
	case tokNumber:
		n, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return types.None, p.errorf("bad number %q", t.text)
		}
		p.next()
		return p.in.NumberLiteral(n), nil
	case tokBigint:
		p.next()
		return p.in.BigintLiteral(t.text), nil
	case tokTemplate:
		p.next()
		return p.parseTemplate(t)
	case tokLBracket:
		return p.parseTuple()
	case tokLBrace:
		return p.parseObject()
	case tokLParen:
		return p.parseParenOrFunction()
	case tokIdent:
		return p.parseIdent()
	default:
		return types.None, p.errorf("unexpected %q", t.text)
	}
}

func (p *parser) parseIdent() (types.TypeID, error) {
	name := p.cur().text
	switch name {
	case "keyof":
		p.next()
		operand, err := p.parsePostfix()
		if err != nil {
			return types.None, err
		}
		return p.in.NewKeyOf(operand), nil
	case "readonly":
		p.next()
		inner, err := p.parsePostfix()
		if err != nil {
			return types.None, err
		}
		return p.in.NewReadonly(inner), nil
	case "infer":
		p.next()
		if p.cur().kind != tokIdent {
			return types.None, p.errorf("expected capture name after infer")
		}
		capture := p.cur().text
		p.next()
		return p.in.NewInfer(types.TypeParamInfo{Name: capture}), nil
	}

	p.next()
	if p.cur().kind != tokLAngle {
		return p.resolveName(name), nil
	}

	p.next()
	var args []types.TypeID
	for {
		arg, err := p.parseType()
		if err != nil {
			return types.None, err
		}
		args = append(args, arg)
		if p.cur().kind == tokComma {
			p.next()
			continue
		}
		break
	}
	if err := p.expect(tokRAngle, "'>'"); err != nil {
		return types.None, err
	}

	if kind, ok := stringIntrinsicKinds[name]; ok {
		if len(args) != 1 {
			return types.None, p.errorf("%s takes exactly one argument", name)
		}
		return p.in.NewStringIntrinsic(kind, args[0]), nil
	}
	if name == "NoInfer" {
		if len(args) != 1 {
			return types.None, p.errorf("NoInfer takes exactly one argument")
		}
		return p.in.NewNoInfer(args[0]), nil
	}
	return p.in.NewApplication(p.resolveName(name), args), nil
}

var stringIntrinsicKinds = map[string]types.StringIntrinsicKind{
	"Uppercase":    types.StrUppercase,
	"Lowercase":    types.StrLowercase,
	"Capitalize":   types.StrCapitalize,
	"Uncapitalize": types.StrUncapitalize,
}

var keywordTypes = map[string]types.TypeID{
	"any":       types.Any,
	"unknown":   types.Unknown,
	"never":     types.Never,
	"void":      types.Void,
	"undefined": types.Undefined,
	"null":      types.Null,
	"boolean":   types.Boolean,
	"number":    types.Number,
	"string":    types.String,
	"bigint":    types.Bigint,
	"symbol":    types.Symbol,
	"object":    types.ObjectKeyword,
	"true":      types.True,
	"false":     types.False,
	"Function":  types.FunctionKeyword,
}

// resolveName maps keywords to sentinels, scenario-bound names to
// their type parameters, and anything else to a symbolic reference.
func (p *parser) resolveName(name string) types.TypeID {
	if id, ok := keywordTypes[name]; ok {
		return id
	}
	if id, ok := p.scope[name]; ok {
		return id
	}
	return p.in.NewLazy(name)
}

func (p *parser) parseTuple() (types.TypeID, error) {
	p.next() // consume '['
	var elems []types.TupleElement
	for p.cur().kind != tokRBracket {
		var elem types.TupleElement
		if p.cur().kind == tokEllipsis {
			elem.Rest = true
			p.next()
		}
		ty, err := p.parseType()
		if err != nil {
			return types.None, err
		}
		elem.Type = ty
		if p.cur().kind == tokQuestion {
			elem.Optional = true
			p.next()
		}
		elems = append(elems, elem)
		if p.cur().kind == tokComma {
			p.next()
			continue
		}
		break
	}
	if err := p.expect(tokRBracket, "']'"); err != nil {
		return types.None, err
	}
	return p.in.NewTuple(elems), nil
}

func (p *parser) parseObject() (types.TypeID, error) {
	p.next() // consume '{'
	var props []types.Property
	var strIndex, numIndex *types.IndexSignature

	for p.cur().kind != tokRBrace {
		if p.cur().kind == tokLBracket {
			sig, key, err := p.parseIndexSignature()
			if err != nil {
				return types.None, err
			}
			if key == types.String {
				strIndex = sig
			} else {
				numIndex = sig
			}
		} else {
			prop, err := p.parseProperty()
			if err != nil {
				return types.None, err
			}
			props = append(props, prop)
		}
		if p.cur().kind == tokComma || p.cur().kind == tokSemi {
			p.next()
			continue
		}
		break
	}
	if err := p.expect(tokRBrace, "'}'"); err != nil {
		return types.None, err
	}
	return p.in.NewObject(props, strIndex, numIndex), nil
}

func (p *parser) parseProperty() (types.Property, error) {
	var prop types.Property
	if p.cur().kind == tokIdent && p.cur().text == "readonly" && p.peek().kind == tokIdent {
		prop.Readonly = true
		p.next()
	}
	if p.cur().kind != tokIdent && p.cur().kind != tokString {
		return prop, p.errorf("expected property name, found %q", p.cur().text)
	}
	prop.Name = p.cur().text
	p.next()
	if p.cur().kind == tokQuestion {
		prop.Optional = true
		p.next()
	}
	if err := p.expect(tokColon, "':'"); err != nil {
		return prop, err
	}
	ty, err := p.parseType()
	if err != nil {
		return prop, err
	}
	prop.Type = ty
	return prop, nil
}

func (p *parser) parseIndexSignature() (*types.IndexSignature, types.TypeID, error) {
	p.next() // consume '['
	if p.cur().kind != tokIdent {
		return nil, types.None, p.errorf("expected index parameter name")
	}
	p.next()
	if err := p.expect(tokColon, "':'"); err != nil {
		return nil, types.None, err
	}
	if p.cur().kind != tokIdent || (p.cur().text != "string" && p.cur().text != "number") {
		return nil, types.None, p.errorf("index key must be string or number")
	}
	key := keywordTypes[p.cur().text]
	p.next()
	if err := p.expect(tokRBracket, "']'"); err != nil {
		return nil, types.None, err
	}
	if err := p.expect(tokColon, "':'"); err != nil {
		return nil, types.None, err
	}
	value, err := p.parseType()
	if err != nil {
		return nil, types.None, err
	}
	return &types.IndexSignature{Key: key, Value: value}, key, nil
}

// parseParenOrFunction disambiguates (T | U) from (x: T) => R by
// looking at what follows the opening parenthesis.
func (p *parser) parseParenOrFunction() (types.TypeID, error) {
	if p.looksLikeParams() {
		return p.parseFunction()
	}
	p.next() // consume '('
	ty, err := p.parseType()
	if err != nil {
		return types.None, err
	}
	if err := p.expect(tokRParen, "')'"); err != nil {
		return types.None, err
	}
	return ty, nil
}

func (p *parser) looksLikeParams() bool {
	switch p.peek().kind {
	case tokRParen, tokEllipsis:
		return true
	case tokIdent:
		if p.pos+2 < len(p.tokens) {
			after := p.tokens[p.pos+2].kind
			return after == tokColon || after == tokQuestion
		}
	}
	return false
}

func (p *parser) parseFunction() (types.TypeID, error) {
	p.next() // consume '('
	var params []types.Param
	for p.cur().kind != tokRParen {
		var param types.Param
		if p.cur().kind == tokEllipsis {
			param.Rest = true
			p.next()
		}
		if p.cur().kind != tokIdent {
			return types.None, p.errorf("expected parameter name, found %q", p.cur().text)
		}
		param.Name = p.cur().text
		p.next()
		if p.cur().kind == tokQuestion {
			param.Optional = true
			p.next()
		}
		if err := p.expect(tokColon, "':'"); err != nil {
			return types.None, err
		}
		ty, err := p.parseType()
		if err != nil {
			return types.None, err
		}
		param.Type = ty
		params = append(params, param)
		if p.cur().kind == tokComma {
			p.next()
			continue
		}
		break
	}
	if err := p.expect(tokRParen, "')'"); err != nil {
		return types.None, err
	}
	if err := p.expect(tokArrow, "'=>'"); err != nil {
		return types.None, err
	}
	ret, err := p.parseType()
	if err != nil {
		return types.None, err
	}
	return p.in.NewFunction(&types.FunctionShape{Params: params, Return: ret}), nil
}

// parseTemplate splits the raw backtick body into text and ${...}
// spans; each hole is a full type expression.
func (p *parser) parseTemplate(t token) (types.TypeID, error) {
	raw := t.text
	var spans []types.TemplateSpan
	for len(raw) > 0 {
		open := strings.Index(raw, "${")
		if open < 0 {
			spans = append(spans, types.TemplateSpan{Kind: types.SpanText, Text: raw})
			break
		}
		if open > 0 {
			spans = append(spans, types.TemplateSpan{Kind: types.SpanText, Text: raw[:open]})
		}
		end := matchingBrace(raw, open+2)
		if end < 0 {
			return types.None, &ParseError{Pos: t.pos, Msg: "unterminated ${ in template literal"}
		}
		inner, err := ParseWith(p.in, raw[open+2:end], p.scope)
		if err != nil {
			return types.None, err
		}
		spans = append(spans, types.TemplateSpan{Kind: types.SpanType, Type: inner})
		raw = raw[end+1:]
	}
	return p.in.NewTemplateLiteral(spans), nil
}

// matchingBrace finds the '}' closing a hole, skipping nested braces
// from object literals inside the hole.
func matchingBrace(s string, from int) int {
	depth := 0
	for i := from; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}
