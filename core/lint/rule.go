package lint

import "github.com/rafabd1/LintHound/core/ast"

type Category string

const (
	CategoryCorrectness Category = "correctness"
	CategorySuspicious  Category = "suspicious"
	CategorySecurity    Category = "security"
)

// Meta describes a rule for listing and configuration.
type Meta struct {
	Name     string
	Category Category
	Summary  string
}

// Rule inspects one node at a time. Run is called for every node kind and
// must ignore the kinds it does not handle. Implementations must not keep
// per-file state between calls.
type Rule interface {
	Meta() Meta
	Run(node *ast.Node, ctx *Context)
}
