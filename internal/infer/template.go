package infer

import (
	"strings"

	"github.com/tycho-lang/tycho/internal/types"
)

// inferFromTemplateLiteral deconstructs a source against a template
// literal pattern, extracting candidates for infer captures:
//
//	type GetID<T> = T extends `user_${infer ID}` ? ID : never
//	GetID<"user_123">  infers ID = "123"
//
// Shortcuts: a source of any or string assigns itself to every
// capture, and a union source matches member by member. Anything else
// only contributes when it is a string literal that fully matches the
// pattern.
func (c *Context) inferFromTemplateLiteral(source types.TypeID, sourceData types.TypeData, target types.TemplateLiteral, priority Priority) error {
	if source == types.Any || source == types.String {
		for _, sp := range target.Spans {
			if sp.Kind != types.SpanType {
				continue
			}
			if iv, ok := c.in.Lookup(sp.Type).(types.Infer); ok {
				if v, registered := c.FindTypeParam(iv.Info.Name); registered {
					c.AddCandidate(v, source, priority)
				}
			}
		}
		return nil
	}

	if u, ok := sourceData.(types.Union); ok {
		for _, m := range u.Members {
			if err := c.inferFromTemplateLiteral(m, c.in.Lookup(m), target, priority); err != nil {
				return err
			}
		}
		return nil
	}

	text, ok := extractStringLiteral(c.in, source)
	if !ok {
		return nil
	}
	captures, matched := c.matchTemplatePattern(text, target.Spans)
	if !matched {
		return nil
	}
	for _, cap := range captures {
		c.AddCandidate(cap.v, c.in.StringLiteral(cap.text), priority)
	}
	return nil
}

func extractStringLiteral(in *types.Interner, id types.TypeID) (string, bool) {
	lit, ok := in.Lookup(id).(types.Literal)
	if !ok || lit.Value.Kind != types.LiteralString {
		return "", false
	}
	return lit.Value.Text, true
}

type templateCapture struct {
	v    Var
	text string
}

// matchTemplatePattern matches source against the spans, binding infer
// captures. Text spans must appear verbatim at the current position.
// Captures are non-greedy up to the next text anchor; with no anchor
// ahead a non-final capture binds the empty string, and the final
// capture takes everything left. The whole source must be consumed.
func (c *Context) matchTemplatePattern(source string, spans []types.TemplateSpan) ([]templateCapture, bool) {
	var captures []templateCapture
	pos := 0

	for i, span := range spans {
		last := i == len(spans)-1

		if span.Kind == types.SpanText {
			if !strings.HasPrefix(source[pos:], span.Text) {
				return nil, false
			}
			pos += len(span.Text)
			continue
		}

		iv, ok := c.in.Lookup(span.Type).(types.Infer)
		if !ok {
			continue
		}
		v, registered := c.FindTypeParam(iv.Info.Name)
		if !registered {
			continue
		}

		if last {
			captures = append(captures, templateCapture{v: v, text: source[pos:]})
			pos = len(source)
			continue
		}
		anchor, found := nextTextAnchor(spans, i)
		if !found {
			// Adjacent captures: the earlier one binds empty.
			captures = append(captures, templateCapture{v: v, text: ""})
			continue
		}
		idx := strings.Index(source[pos:], anchor)
		if idx < 0 {
			return nil, false
		}
		captures = append(captures, templateCapture{v: v, text: source[pos : pos+idx]})
		pos += idx
	}

	if pos != len(source) {
		return nil, false
	}
	return captures, true
}

func nextTextAnchor(spans []types.TemplateSpan, start int) (string, bool) {
	for _, span := range spans[start+1:] {
		if span.Kind == types.SpanText {
			return span.Text, true
		}
	}
	return "", false
}
