package secret

import "github.com/rafabd1/LintHound/core/ast"

// Violation is a candidate matched by a detector.
type Violation struct {
	Candidate Candidate
	RuleName  string
	Message   string
}

func NewViolation(c Candidate, d Detector) Violation {
	return Violation{Candidate: c, RuleName: d.RuleName(), Message: d.Message()}
}

func (v Violation) Span() ast.Span {
	return v.Candidate.Span()
}
