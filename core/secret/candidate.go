package secret

import "github.com/rafabd1/LintHound/core/ast"

// Candidate is a literal value under evaluation. Its entropy is computed once
// on construction.
type Candidate struct {
	text       string
	span       ast.Span
	identifier string
	entropy    float32
}

// NewCandidate wraps text found at span. identifier is the name the value is
// assigned to, or "" when unknown.
func NewCandidate(text string, span ast.Span, identifier string) Candidate {
	return Candidate{
		text:       text,
		span:       span,
		identifier: identifier,
		entropy:    Entropy(text),
	}
}

func (c Candidate) Text() string {
	return c.text
}

// Len is the byte length of the text.
func (c Candidate) Len() int {
	return len(c.text)
}

func (c Candidate) Span() ast.Span {
	return c.span
}

func (c Candidate) Identifier() (string, bool) {
	return c.identifier, c.identifier != ""
}

func (c Candidate) Entropy() float32 {
	return c.entropy
}
