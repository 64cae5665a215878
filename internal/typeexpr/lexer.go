package typeexpr

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString   // "..." or '...'
	tokNumber   // 42, 3.14
	tokBigint   // 10n
	tokTemplate // `...` raw body, spans split by the parser
	tokLBracket // [
	tokRBracket // ]
	tokLBrace   // {
	tokRBrace   // }
	tokLParen   // (
	tokRParen   // )
	tokLAngle   // <
	tokRAngle   // >
	tokComma    // ,
	tokColon    // :
	tokSemi     // ;
	tokQuestion // ?
	tokPipe     // |
	tokAmp      // &
	tokArrow    // =>
	tokEllipsis // ...
	tokIllegal
)

type token struct {
	kind tokenKind
	text string
	pos  int // byte offset in the source
}

// ParseError reports a malformed type expression with its byte offset.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("type expression: %s at offset %d", e.Msg, e.Pos)
}

type lexer struct {
	input        string
	position     int
	readPosition int
	ch           rune
}

func newLexer(input string) *lexer {
	l := &lexer{input: input}
	l.readChar()
	return l
}

func (l *lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.readPosition++
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
}

func (l *lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *lexer) nextToken() token {
	l.skipWhitespace()
	pos := l.position

	switch l.ch {
	case 0:
		return token{kind: tokEOF, pos: pos}
	case '[':
		l.readChar()
		return token{kind: tokLBracket, text: "[", pos: pos}
	case ']':
		l.readChar()
		return token{kind: tokRBracket, text: "]", pos: pos}
	case '{':
		l.readChar()
		return token{kind: tokLBrace, text: "{", pos: pos}
	case '}':
		l.readChar()
		return token{kind: tokRBrace, text: "}", pos: pos}
	case '(':
		l.readChar()
		return token{kind: tokLParen, text: "(", pos: pos}
	case ')':
		l.readChar()
		return token{kind: tokRParen, text: ")", pos: pos}
	case '<':
		l.readChar()
		return token{kind: tokLAngle, text: "<", pos: pos}
	case '>':
		l.readChar()
		return token{kind: tokRAngle, text: ">", pos: pos}
	case ',':
		l.readChar()
		return token{kind: tokComma, text: ",", pos: pos}
	case ':':
		l.readChar()
		return token{kind: tokColon, text: ":", pos: pos}
	case ';':
		l.readChar()
		return token{kind: tokSemi, text: ";", pos: pos}
	case '?':
		l.readChar()
		return token{kind: tokQuestion, text: "?", pos: pos}
	case '|':
		l.readChar()
		return token{kind: tokPipe, text: "|", pos: pos}
	case '&':
		l.readChar()
		return token{kind: tokAmp, text: "&", pos: pos}
	case '=':
		if l.peekChar() == '>' {
			l.readChar()
			l.readChar()
			return token{kind: tokArrow, text: "=>", pos: pos}
		}
		l.readChar()
		return token{kind: tokIllegal, text: "=", pos: pos}
	case '.':
		if l.peekChar() == '.' {
			l.readChar()
			if l.peekChar() != '.' {
				l.readChar()
				return token{kind: tokIllegal, text: "..", pos: pos}
			}
			l.readChar()
			l.readChar()
			return token{kind: tokEllipsis, text: "...", pos: pos}
		}
		l.readChar()
		return token{kind: tokIllegal, text: ".", pos: pos}
	case '"', '\'':
		return l.readString(pos)
	case '`':
		return l.readTemplate(pos)
	case '-':
		l.readChar()
		if !unicode.IsDigit(l.ch) {
			return token{kind: tokIllegal, text: "-", pos: pos}
		}
		t := l.readNumber(pos)
		t.text = "-" + t.text
		return t
	}

	if unicode.IsDigit(l.ch) {
		return l.readNumber(pos)
	}
	if isIdentStart(l.ch) {
		return l.readIdent(pos)
	}

	ch := string(l.ch)
	l.readChar()
	return token{kind: tokIllegal, text: ch, pos: pos}
}

func (l *lexer) readString(pos int) token {
	quote := l.ch
	l.readChar()
	start := l.position
	for l.ch != quote && l.ch != 0 {
		l.readChar()
	}
	if l.ch == 0 {
		return token{kind: tokIllegal, text: "unterminated string", pos: pos}
	}
	text := l.input[start:l.position]
	l.readChar()
	return token{kind: tokString, text: text, pos: pos}
}

// readTemplate captures the raw body between backticks; the parser
// splits it into text and ${...} spans, since the holes contain full
// type expressions.
func (l *lexer) readTemplate(pos int) token {
	l.readChar()
	start := l.position
	depth := 0
	for l.ch != 0 {
		if l.ch == '`' && depth == 0 {
			break
		}
		if l.ch == '$' && l.peekChar() == '{' {
			depth++
			l.readChar()
		} else if l.ch == '}' && depth > 0 {
			depth--
		}
		l.readChar()
	}
	if l.ch == 0 {
		return token{kind: tokIllegal, text: "unterminated template literal", pos: pos}
	}
	text := l.input[start:l.position]
	l.readChar()
	return token{kind: tokTemplate, text: text, pos: pos}
}

func (l *lexer) readNumber(pos int) token {
	start := l.position
	for unicode.IsDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && unicode.IsDigit(l.peekChar()) {
		l.readChar()
		for unicode.IsDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'n' {
		text := l.input[start:l.position]
		l.readChar()
		return token{kind: tokBigint, text: text, pos: pos}
	}
	return token{kind: tokNumber, text: l.input[start:l.position], pos: pos}
}

func (l *lexer) readIdent(pos int) token {
	start := l.position
	for isIdentPart(l.ch) {
		l.readChar()
	}
	return token{kind: tokIdent, text: l.input[start:l.position], pos: pos}
}

func isIdentStart(ch rune) bool {
	return ch == '_' || ch == '$' || ch == '#' || unicode.IsLetter(ch)
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || unicode.IsDigit(ch)
}
