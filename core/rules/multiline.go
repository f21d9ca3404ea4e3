package rules

import (
	"strings"

	"github.com/rafabd1/LintHound/core/ast"
	"github.com/rafabd1/LintHound/core/lint"
)

const multilineName = "no-unexpected-multiline"

// NoUnexpectedMultiline reports a line break between a callee and its
// argument list, an object and its computed property, or a tag and its
// template. Automatic semicolon insertion does not split these, which is
// rarely what the author meant.
type NoUnexpectedMultiline struct{}

func (NoUnexpectedMultiline) Meta() lint.Meta {
	return lint.Meta{
		Name:     multilineName,
		Category: lint.CategorySuspicious,
		Summary:  "Disallow confusing multiline expressions.",
	}
}

func (NoUnexpectedMultiline) Run(node *ast.Node, ctx *lint.Context) {
	switch n := node.Data.(type) {
	case *ast.CallExpression:
		if n.Optional {
			return
		}
		if kind, ok := ctx.ParentKind(node.ID); ok && kind == ast.KindChainExpression {
			return
		}
		report(ctx, n.Callee.End, n.Span.End, '(',
			"Unexpected newline between function name and open parenthesis of function call")
	case *ast.MemberExpression:
		if !n.Computed || n.Optional {
			return
		}
		report(ctx, n.Object.End, n.Span.End, '[',
			"Unexpected newline between object and open bracket of property access")
	case *ast.TaggedTemplateExpression:
		start := n.Tag.End
		if n.TypeParameters != nil {
			start = n.TypeParameters.End
		}
		report(ctx, start, n.Span.End, '`',
			"Unexpected newline between template tag and template literal")
	}
}

// report flags the first open character in [start, end) when a newline comes
// before it.
func report(ctx *lint.Context, start, end uint32, open byte, msg string) {
	src := ctx.SourceRange(ast.Span{Start: start, End: end})
	at := strings.IndexByte(src, open)
	if at < 0 {
		return
	}
	nl := strings.IndexByte(src, '\n')
	if nl < 0 || nl > at {
		return
	}
	pos := start + uint32(at)
	ctx.Diagnostic(lint.Warn(msg).
		WithCode("eslint", multilineName).
		WithLabel(ast.Span{Start: pos, End: pos + 1}))
}
