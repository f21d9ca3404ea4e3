package secret

import (
	"errors"
	"fmt"
	"math"

	"github.com/rafabd1/LintHound/core/ast"
	"github.com/rafabd1/LintHound/core/lint"
)

// RuleName is the lint rule the aggregator registers as.
const RuleName = "api-keys"

// Help is the remediation attached to every api-keys diagnostic.
const Help = "Use a secrets manager to store your API keys securely, then read them at runtime."

var (
	ErrNoDetectors      = errors.New("no secret detectors configured")
	ErrInvalidThreshold = errors.New("invalid detector threshold")
	ErrInvalidRuleName  = errors.New("invalid detector rule name")
	ErrDuplicateRule    = errors.New("duplicate detector rule name")
)

// Aggregator runs an ordered list of detectors over literal values. It is
// immutable once built and may be shared between goroutines.
type Aggregator struct {
	minLen     uint32
	minEntropy float32
	detectors  []Detector
}

// NewAggregator validates the detectors and records the smallest length and
// entropy thresholds among them. Order is kept: the first detector that
// accepts a candidate wins.
func NewAggregator(detectors ...Detector) (*Aggregator, error) {
	if len(detectors) == 0 {
		return nil, ErrNoDetectors
	}
	a := &Aggregator{
		minLen:     math.MaxUint32,
		minEntropy: float32(math.Inf(1)),
		detectors:  make([]Detector, 0, len(detectors)),
	}
	seen := make(map[string]bool, len(detectors))
	for i, d := range detectors {
		if d == nil {
			return nil, fmt.Errorf("%w: detector %d is nil", ErrNoDetectors, i)
		}
		name := d.RuleName()
		if name == "" {
			return nil, fmt.Errorf("%w: detector %d has no name", ErrInvalidRuleName, i)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRule, name)
		}
		seen[name] = true

		minLen, minEntropy := d.MinLen(), d.MinEntropy()
		if minLen == 0 {
			return nil, fmt.Errorf("%w: %s min_len must be at least 1", ErrInvalidThreshold, name)
		}
		if minEntropy < 0 || math.IsNaN(float64(minEntropy)) {
			return nil, fmt.Errorf("%w: %s min_entropy must be non-negative", ErrInvalidThreshold, name)
		}
		a.minLen = min(a.minLen, minLen)
		a.minEntropy = min(a.minEntropy, minEntropy)
		a.detectors = append(a.detectors, d)
	}
	return a, nil
}

func (a *Aggregator) MinLen() uint32 {
	return a.minLen
}

func (a *Aggregator) MinEntropy() float32 {
	return a.minEntropy
}

// Detectors returns a copy of the detectors in evaluation order.
func (a *Aggregator) Detectors() []Detector {
	out := make([]Detector, len(a.detectors))
	copy(out, a.detectors)
	return out
}

// Scan checks a single value with no assignment context.
func (a *Aggregator) Scan(text string, span ast.Span) (Violation, bool) {
	if !a.longEnough(text) {
		return Violation{}, false
	}
	return a.Evaluate(NewCandidate(text, span, ""))
}

// Evaluate runs the detector cascade on c and returns the first verified
// match.
func (a *Aggregator) Evaluate(c Candidate) (Violation, bool) {
	if c.Len() < int(a.minLen) || c.Entropy() < a.minEntropy {
		return Violation{}, false
	}
	for _, d := range a.detectors {
		if c.Len() < int(d.MinLen()) || c.Entropy() < d.MinEntropy() || !d.Detect(c) {
			continue
		}
		v := NewViolation(c, d)
		if d.Verify(v) {
			return v, true
		}
	}
	return Violation{}, false
}

func (a *Aggregator) longEnough(text string) bool {
	return len(text) >= int(a.minLen)
}

func (a *Aggregator) Meta() lint.Meta {
	return lint.Meta{
		Name:     RuleName,
		Category: lint.CategorySecurity,
		Summary:  "Detects hard-coded API keys and other credentials.",
	}
}

// Run reports a string literal or a template literal without
// substitutions when one of the detectors recognises its value.
func (a *Aggregator) Run(node *ast.Node, ctx *lint.Context) {
	text, ok := literalValue(node)
	if !ok || !a.longEnough(text) {
		return
	}
	span := node.Span()
	if !span.Valid() {
		return
	}
	c := NewCandidate(text, span, assignedName(ctx.Tree().Source(), span.Start))
	v, ok := a.Evaluate(c)
	if !ok {
		return
	}
	ctx.Diagnostic(Diagnostic(v))
}

// Diagnostic renders v the way the api-keys rule reports it.
func Diagnostic(v Violation) lint.Diagnostic {
	return lint.Warn(v.Message).
		WithCode(RuleName, v.RuleName).
		WithLabel(v.Span()).
		WithHelp(Help)
}

func literalValue(node *ast.Node) (string, bool) {
	switch n := node.Data.(type) {
	case *ast.StringLiteral:
		return n.Value, true
	case *ast.TemplateLiteral:
		return n.Quasi()
	}
	return "", false
}
