package lint

import "github.com/rafabd1/LintHound/core/ast"

// Context is handed to every rule invocation for one file. It is not safe
// for concurrent use; each file gets its own Context.
type Context struct {
	path  string
	tree  *ast.Tree
	diags []Diagnostic

	rule     string
	override *Severity
}

func NewContext(path string, tree *ast.Tree) *Context {
	return &Context{path: path, tree: tree}
}

func (c *Context) Path() string {
	return c.path
}

func (c *Context) Tree() *ast.Tree {
	return c.tree
}

// SourceRange returns the source text covered by sp, or "" when sp is
// malformed.
func (c *Context) SourceRange(sp ast.Span) string {
	return c.tree.SourceRange(sp)
}

func (c *Context) ParentKind(id ast.NodeID) (ast.Kind, bool) {
	return c.tree.ParentKind(id)
}

// Diagnostic records d for the rule currently running.
func (c *Context) Diagnostic(d Diagnostic) {
	d.Rule = c.rule
	if c.override != nil {
		d.Severity = *c.override
	}
	c.diags = append(c.diags, d)
}

// Diagnostics returns what has been recorded so far, in emission order.
func (c *Context) Diagnostics() []Diagnostic {
	return c.diags
}

func (c *Context) enter(rule string, override *Severity) {
	c.rule = rule
	c.override = override
}
