package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

type tokKind uint8

const (
	tokIdent tokKind = iota
	tokKeyword
	tokNumber
	tokString
	tokTemplate
	tokRegex
	tokPunct
)

type token struct {
	kind  tokKind
	start int
	end   int
	text  string
	// value is the decoded content of a string token.
	value string
	tmpl  *templateTok
}

type quasiTok struct {
	start, end int
	raw        string
	cooked     string
	valid      bool
}

type exprTok struct {
	start, end int
	toks       []token
}

type templateTok struct {
	quasis []quasiTok
	exprs  []exprTok
}

// SyntaxError reports an unterminated or otherwise unreadable token.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Offset, e.Msg)
}

// ErrorList holds the syntax errors Parse recovered from, in source order.
type ErrorList []*SyntaxError

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", l[0], len(l)-1)
}

func (l ErrorList) Unwrap() []error {
	out := make([]error, len(l))
	for i, e := range l {
		out[i] = e
	}
	return out
}

var keywords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true, "do": true,
	"else": true, "export": true, "extends": true, "finally": true, "for": true,
	"function": true, "if": true, "import": true, "in": true, "instanceof": true,
	"let": true, "new": true, "return": true, "switch": true, "throw": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true,
	"with": true, "yield": true, "await": true,
}

type lexer struct {
	src  string
	pos  int
	errs ErrorList
}

// tokenize reads tokens from the current position. With untilBrace set it
// stops at the '}' closing a template substitution and leaves pos on it.
func (l *lexer) tokenize(untilBrace bool) ([]token, error) {
	var toks []token
	depth := 0
	for {
		l.skipTrivia()
		if l.pos >= len(l.src) {
			if untilBrace {
				return nil, &SyntaxError{Offset: l.pos, Msg: "unterminated template substitution"}
			}
			return toks, nil
		}
		c := l.src[l.pos]
		if untilBrace && c == '}' && depth == 0 {
			return toks, nil
		}

		var prev *token
		if len(toks) > 0 {
			prev = &toks[len(toks)-1]
		}

		var (
			tok  token
			err  error
			mark = len(l.errs)
			at   = l.pos
		)
		switch {
		case c == '"' || c == '\'':
			tok, err = l.lexString(c)
		case c == '`':
			tok, err = l.lexTemplate()
		case isIdentStart(c):
			tok = l.lexIdent()
		case isDigit(c) || (c == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1])):
			tok = l.lexNumber()
		case c == '/' && regexAllowed(prev):
			tok, err = l.lexRegex()
		default:
			tok = l.lexPunct()
			switch tok.text {
			case "{":
				depth++
			case "}":
				depth--
			}
		}
		if err != nil {
			// An unterminated string, template or regex is read as its
			// opening character alone and lexing resumes right after it.
			var se *SyntaxError
			if !errors.As(err, &se) {
				return nil, err
			}
			l.errs = append(l.errs[:mark], se)
			l.pos = at
			tok = l.lexPunct()
		}
		toks = append(toks, tok)
	}
}

func (l *lexer) skipTrivia() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			l.pos++
		case c == '/' && l.peek(1) == '/':
			nl := strings.IndexByte(l.src[l.pos:], '\n')
			if nl < 0 {
				l.pos = len(l.src)
			} else {
				l.pos += nl + 1
			}
		case c == '/' && l.peek(1) == '*':
			end := strings.Index(l.src[l.pos+2:], "*/")
			if end < 0 {
				// The rest of the source is comment.
				l.errs = append(l.errs, &SyntaxError{Offset: l.pos, Msg: "unterminated comment"})
				l.pos = len(l.src)
				return
			}
			l.pos += 2 + end + 2
		case c >= utf8.RuneSelf:
			r, size := utf8.DecodeRuneInString(l.src[l.pos:])
			if r != '\u00a0' && r != '\ufeff' && r != '\u2028' && r != '\u2029' {
				return
			}
			l.pos += size
		default:
			return
		}
	}
}

func (l *lexer) peek(n int) byte {
	if l.pos+n < len(l.src) {
		return l.src[l.pos+n]
	}
	return 0
}

func (l *lexer) lexIdent() token {
	start := l.pos
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	text := l.src[start:l.pos]
	kind := tokIdent
	if keywords[text] {
		kind = tokKeyword
	}
	return token{kind: kind, start: start, end: l.pos, text: text}
}

func (l *lexer) lexNumber() token {
	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if isIdentPart(c) || c == '.' {
			l.pos++
			continue
		}
		if (c == '+' || c == '-') && (l.src[l.pos-1] == 'e' || l.src[l.pos-1] == 'E') &&
			!strings.HasPrefix(l.src[start:], "0x") && !strings.HasPrefix(l.src[start:], "0X") {
			l.pos++
			continue
		}
		break
	}
	return token{kind: tokNumber, start: start, end: l.pos, text: l.src[start:l.pos]}
}

func (l *lexer) lexString(quote byte) (token, error) {
	start := l.pos
	l.pos++
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch c {
		case quote:
			l.pos++
			raw := l.src[start+1 : l.pos-1]
			value, _ := decodeEscapes(raw)
			return token{kind: tokString, start: start, end: l.pos, text: l.src[start:l.pos], value: value}, nil
		case '\\':
			l.pos += 2
			if l.pos <= len(l.src) && l.src[l.pos-1] == '\r' && l.peek(0) == '\n' {
				l.pos++
			}
		case '\n', '\r':
			return token{}, &SyntaxError{Offset: start, Msg: "unterminated string literal"}
		default:
			l.pos++
		}
	}
	return token{}, &SyntaxError{Offset: start, Msg: "unterminated string literal"}
}

func (l *lexer) lexTemplate() (token, error) {
	start := l.pos
	l.pos++
	tmpl := &templateTok{}
	qStart := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '`':
			tmpl.quasis = append(tmpl.quasis, newQuasi(l.src, qStart, l.pos))
			l.pos++
			return token{kind: tokTemplate, start: start, end: l.pos, text: l.src[start:l.pos], tmpl: tmpl}, nil
		case c == '\\':
			l.pos += 2
		case c == '$' && l.peek(1) == '{':
			tmpl.quasis = append(tmpl.quasis, newQuasi(l.src, qStart, l.pos))
			l.pos += 2
			exprStart := l.pos
			toks, err := l.tokenize(true)
			if err != nil {
				return token{}, err
			}
			tmpl.exprs = append(tmpl.exprs, exprTok{start: exprStart, end: l.pos, toks: toks})
			l.pos++
			qStart = l.pos
		default:
			l.pos++
		}
	}
	return token{}, &SyntaxError{Offset: start, Msg: "unterminated template literal"}
}

func newQuasi(src string, start, end int) quasiTok {
	raw := src[start:end]
	cooked, ok := decodeEscapes(raw)
	return quasiTok{start: start, end: end, raw: raw, cooked: cooked, valid: ok}
}

func (l *lexer) lexRegex() (token, error) {
	start := l.pos
	l.pos++
	inClass := false
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\n' || c == '\r':
			return token{}, &SyntaxError{Offset: start, Msg: "unterminated regular expression"}
		case c == '\\':
			l.pos += 2
			continue
		case c == '[':
			inClass = true
		case c == ']':
			inClass = false
		case c == '/' && !inClass:
			l.pos++
			for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
				l.pos++
			}
			return token{kind: tokRegex, start: start, end: l.pos, text: l.src[start:l.pos]}, nil
		}
		l.pos++
	}
	return token{}, &SyntaxError{Offset: start, Msg: "unterminated regular expression"}
}

var multiPunct = []string{"...", "??=", "?.", "??", "=>", "++", "--"}

func (l *lexer) lexPunct() token {
	start := l.pos
	rest := l.src[l.pos:]
	for _, p := range multiPunct {
		if strings.HasPrefix(rest, p) {
			// "a?.5:b" is a conditional, not optional chaining.
			if p == "?." && len(rest) > 2 && isDigit(rest[2]) {
				continue
			}
			l.pos += len(p)
			return token{kind: tokPunct, start: start, end: l.pos, text: p}
		}
	}
	_, size := utf8.DecodeRuneInString(rest)
	l.pos += size
	return token{kind: tokPunct, start: start, end: l.pos, text: rest[:size]}
}

// regexAllowed decides whether a '/' after prev starts a regular expression
// rather than a division.
func regexAllowed(prev *token) bool {
	if prev == nil {
		return true
	}
	switch prev.kind {
	case tokIdent, tokNumber, tokString, tokTemplate, tokRegex:
		return false
	case tokPunct:
		switch prev.text {
		case ")", "]", "++", "--":
			return false
		}
		return true
	}
	return true
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || c == '#' || (c|0x20 >= 'a' && c|0x20 <= 'z') || c >= utf8.RuneSelf
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// decodeEscapes returns the cooked value of a string or template chunk. The
// boolean is false when an escape sequence is malformed.
func decodeEscapes(raw string) (string, bool) {
	if !strings.ContainsAny(raw, "\\\r") {
		return raw, true
	}
	var b strings.Builder
	b.Grow(len(raw))
	ok := true
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c == '\r' {
			b.WriteByte('\n')
			if i+1 < len(raw) && raw[i+1] == '\n' {
				i++
			}
			continue
		}
		if c != '\\' || i+1 >= len(raw) {
			b.WriteByte(c)
			continue
		}
		i++
		switch e := raw[i]; e {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\n':
		case '\r':
			if i+1 < len(raw) && raw[i+1] == '\n' {
				i++
			}
		case 'x':
			if i+2 < len(raw) {
				if v, err := strconv.ParseUint(raw[i+1:i+3], 16, 8); err == nil {
					b.WriteRune(rune(v))
					i += 2
					continue
				}
			}
			ok = false
		case 'u':
			r, n := decodeUnicodeEscape(raw[i+1:])
			if n == 0 {
				ok = false
				continue
			}
			i += n
			if utf16.IsSurrogate(r) && strings.HasPrefix(raw[i+1:], "\\u") {
				if lo, m := decodeUnicodeEscape(raw[i+3:]); m > 0 {
					if pair := utf16.DecodeRune(r, lo); pair != utf8.RuneError {
						r = pair
						i += 2 + m
					}
				}
			}
			b.WriteRune(r)
		default:
			b.WriteByte(e)
		}
	}
	return b.String(), ok
}

// decodeUnicodeEscape parses the part after "\u" and returns the rune and the
// number of bytes consumed, or 0 when malformed.
func decodeUnicodeEscape(s string) (rune, int) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 2 {
			return 0, 0
		}
		v, err := strconv.ParseUint(s[1:end], 16, 32)
		if err != nil || v > utf8.MaxRune {
			return 0, 0
		}
		return rune(v), end + 1
	}
	if len(s) < 4 {
		return 0, 0
	}
	v, err := strconv.ParseUint(s[:4], 16, 16)
	if err != nil {
		return 0, 0
	}
	return rune(v), 4
}
