// Package parser builds the node tree consumed by the lint rules from
// JavaScript and TypeScript sources. It recognises only the node kinds the
// rules dispatch on: string and template literals, calls, computed member
// accesses, tagged templates and optional chains. Everything else is skipped
// at the token level.
package parser

import (
	"errors"
	"fmt"

	"fortio.org/safecast"
	"github.com/rafabd1/LintHound/core/ast"
)

// ErrSourceTooLarge is returned for sources whose offsets do not fit a Span.
var ErrSourceTooLarge = errors.New("source exceeds 4GiB")

// Parse tokenizes src and returns its tree.
//
// An unterminated string, template or regular expression does not abort the
// parse: its opening character is read as punctuation and the rest of the
// source is tokenized normally. In that case Parse returns the tree together
// with an ErrorList describing every recovered error. A nil tree means the
// source could not be parsed at all.
func Parse(src string) (*ast.Tree, error) {
	if _, err := safecast.Conv[uint32](len(src)); err != nil {
		return nil, ErrSourceTooLarge
	}
	lx := &lexer{src: src}
	toks, err := lx.tokenize(false)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	p := &builder{}
	p.parseTokens(toks)
	tree := ast.NewTree(src, p.out)
	if len(lx.errs) > 0 {
		return tree, lx.errs
	}
	return tree, nil
}

type builder struct {
	out []ast.Payload
}

// span converts offsets already bounded by the source length.
func span(start, end int) ast.Span {
	return ast.Span{Start: uint32(start), End: uint32(end)}
}

func (b *builder) emit(p ast.Payload) {
	b.out = append(b.out, p)
}

func (b *builder) parseTokens(toks []token) {
	b.parseRange(toks, matchBrackets(toks), 0, len(toks))
}

// matchBrackets pairs every opening bracket with its closer. Unpaired
// brackets map to -1.
func matchBrackets(toks []token) []int {
	match := make([]int, len(toks))
	var stack []int
	for i := range toks {
		match[i] = -1
		if toks[i].kind != tokPunct {
			continue
		}
		switch toks[i].text {
		case "(", "[", "{":
			stack = append(stack, i)
		case ")", "]", "}":
			want := opener(toks[i].text)
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if toks[top].text == want {
					match[top] = i
					match[i] = top
					break
				}
			}
		}
	}
	return match
}

func opener(closer string) string {
	switch closer {
	case ")":
		return "("
	case "]":
		return "["
	}
	return "{"
}

// groupKeywords take a parenthesised operand that is never a callee.
var groupKeywords = map[string]bool{
	"if": true, "while": true, "for": true, "switch": true, "catch": true, "with": true,
}

func (b *builder) parseRange(toks []token, match []int, lo, hi int) {
	for i := lo; i < hi; {
		i = b.parseExpr(toks, match, i, hi)
	}
}

// parseExpr consumes one primary expression with its postfix chain, or a
// single token that cannot start one, and returns the next index.
func (b *builder) parseExpr(toks []token, match []int, i, hi int) int {
	t := toks[i]
	switch t.kind {
	case tokIdent, tokNumber, tokRegex:
		return b.parseChain(toks, match, i+1, hi, t.start, t.end)
	case tokString:
		b.emit(&ast.StringLiteral{Span: span(t.start, t.end), Value: t.value})
		return b.parseChain(toks, match, i+1, hi, t.start, t.end)
	case tokTemplate:
		b.emitTemplate(t)
		return b.parseChain(toks, match, i+1, hi, t.start, t.end)
	case tokKeyword:
		j := i + 1
		if t.text == "function" {
			if j < hi && toks[j].kind == tokPunct && toks[j].text == "*" {
				j++
			}
			if j < hi && toks[j].kind == tokIdent {
				j++
			}
		} else if !groupKeywords[t.text] {
			return i + 1
		}
		if j < hi && toks[j].kind == tokPunct && toks[j].text == "(" {
			if closer := match[j]; closer >= 0 && closer < hi {
				b.parseRange(toks, match, j+1, closer)
				return closer + 1
			}
		}
		return j
	case tokPunct:
		switch t.text {
		case "(", "[":
			closer := match[i]
			if closer < 0 || closer >= hi {
				return i + 1
			}
			b.parseRange(toks, match, i+1, closer)
			return b.parseChain(toks, match, closer+1, hi, t.start, toks[closer].end)
		case "{":
			closer := match[i]
			if closer < 0 || closer >= hi {
				return i + 1
			}
			b.parseRange(toks, match, i+1, closer)
			return closer + 1
		}
	}
	return i + 1
}

// parseChain consumes postfix operations after a primary expression that
// spans [start, end).
func (b *builder) parseChain(toks []token, match []int, i, hi, start, end int) int {
	optional := false
	inChain := false
	for i < hi {
		t := toks[i]
		switch {
		case t.kind == tokPunct && t.text == ".":
			if i+1 < hi && (toks[i+1].kind == tokIdent || toks[i+1].kind == tokKeyword) {
				end = toks[i+1].end
				i += 2
				continue
			}
			return b.closeChain(i+1, inChain, start, end)

		case t.kind == tokPunct && t.text == "?.":
			inChain = true
			if i+1 < hi && (toks[i+1].kind == tokIdent || toks[i+1].kind == tokKeyword) {
				end = toks[i+1].end
				i += 2
				continue
			}
			optional = true
			i++
			continue

		case t.kind == tokPunct && (t.text == "(" || t.text == "["):
			closer := match[i]
			if closer < 0 || closer >= hi {
				return b.closeChain(i, inChain, start, end)
			}
			b.parseRange(toks, match, i+1, closer)
			full := span(start, toks[closer].end)
			if t.text == "(" {
				b.emit(&ast.CallExpression{Span: full, Callee: span(start, end), Optional: optional})
			} else {
				b.emit(&ast.MemberExpression{Span: full, Object: span(start, end), Computed: true, Optional: optional})
			}
			optional = false
			end = toks[closer].end
			i = closer + 1

		case t.kind == tokTemplate:
			b.emitTemplate(t)
			b.emit(&ast.TaggedTemplateExpression{Span: span(start, t.end), Tag: span(start, end)})
			end = t.end
			i++

		case t.kind == tokPunct && t.text == "<":
			closer, ok := typeArguments(toks, i, hi)
			if !ok || closer+1 >= hi || toks[closer+1].kind != tokTemplate {
				return b.closeChain(i, inChain, start, end)
			}
			tmpl := toks[closer+1]
			params := span(t.start, toks[closer].end)
			b.emitTemplate(tmpl)
			b.emit(&ast.TaggedTemplateExpression{Span: span(start, tmpl.end), Tag: span(start, end), TypeParameters: &params})
			end = tmpl.end
			i = closer + 2

		default:
			return b.closeChain(i, inChain, start, end)
		}
	}
	return b.closeChain(i, inChain, start, end)
}

func (b *builder) closeChain(next int, inChain bool, start, end int) int {
	if inChain {
		b.emit(&ast.ChainExpression{Span: span(start, end)})
	}
	return next
}

// typeArguments recognises "<T, U.V>" starting at toks[i] and returns the index
// of the closing '>'.
func typeArguments(toks []token, i, hi int) (int, bool) {
	depth := 0
	for j := i; j < hi; j++ {
		t := toks[j]
		switch {
		case t.kind == tokIdent || t.kind == tokKeyword:
		case t.kind != tokPunct:
			return 0, false
		case t.text == "<":
			depth++
		case t.text == ">":
			depth--
			if depth == 0 {
				return j, true
			}
		case t.text == "," || t.text == "." || t.text == "|" || t.text == "&" || t.text == "[" || t.text == "]":
		default:
			return 0, false
		}
	}
	return 0, false
}

func (b *builder) emitTemplate(t token) {
	lit := &ast.TemplateLiteral{Span: span(t.start, t.end)}
	for _, q := range t.tmpl.quasis {
		lit.Quasis = append(lit.Quasis, ast.TemplateElement{
			Span:   span(q.start, q.end),
			Raw:    q.raw,
			Cooked: q.cooked,
			Valid:  q.valid,
		})
	}
	for _, e := range t.tmpl.exprs {
		lit.Expressions = append(lit.Expressions, span(e.start, e.end))
	}
	b.emit(lit)
	for _, e := range t.tmpl.exprs {
		b.parseTokens(e.toks)
	}
}
