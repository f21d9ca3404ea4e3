package lint

import (
	"sync"

	"github.com/rafabd1/LintHound/core/ast"
)

// Linter runs a fixed rule set over trees. The rule set is captured when the
// Linter is built, so a Linter may be shared by concurrent workers.
type Linter struct {
	rules     []Rule
	overrides []*Severity
}

func NewLinter(reg *Registry) *Linter {
	rules := reg.List()
	l := &Linter{rules: rules, overrides: make([]*Severity, len(rules))}
	for i, rule := range rules {
		if s, ok := reg.Severity(rule.Meta().Name); ok {
			l.overrides[i] = &s
		}
	}
	return l
}

func (l *Linter) Rules() []Rule {
	return l.rules
}

// Lint visits every node of tree once in document order and hands it to each
// rule. Diagnostics come back in emission order.
func (l *Linter) Lint(path string, tree *ast.Tree) []Diagnostic {
	ctx := NewContext(path, tree)
	nodes := tree.Nodes()
	for i := range nodes {
		for j, rule := range l.rules {
			ctx.enter(rule.Meta().Name, l.overrides[j])
			rule.Run(&nodes[i], ctx)
		}
	}
	return ctx.Diagnostics()
}

// FileDiagnostics groups the findings of one file.
type FileDiagnostics struct {
	Path        string
	Source      string
	Diagnostics []Diagnostic
}

// Collector is a diagnostic sink shared by concurrent file workers. Order
// across files is whatever the workers produce; order within a file is kept.
type Collector struct {
	mu    sync.Mutex
	files []FileDiagnostics
}

func (c *Collector) Add(fd FileDiagnostics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files = append(c.files, fd)
}

// Files returns a copy of everything collected so far.
func (c *Collector) Files() []FileDiagnostics {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]FileDiagnostics, len(c.files))
	copy(out, c.files)
	return out
}

func (c *Collector) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, f := range c.files {
		n += len(f.Diagnostics)
	}
	return n
}
