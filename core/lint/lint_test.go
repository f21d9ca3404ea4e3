package lint

import (
	"sync"
	"testing"

	"github.com/rafabd1/LintHound/core/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// literalRule reports every string literal and records the visit order.
type literalRule struct {
	name    string
	visited []ast.Kind
}

func (r *literalRule) Meta() Meta {
	return Meta{Name: r.name, Category: CategoryCorrectness, Summary: "reports literals"}
}

func (r *literalRule) Run(node *ast.Node, ctx *Context) {
	r.visited = append(r.visited, node.Kind())
	lit, ok := node.Data.(*ast.StringLiteral)
	if !ok {
		return
	}
	ctx.Diagnostic(Warn("literal " + ctx.SourceRange(lit.Span)).
		WithCode("test", r.name).
		WithLabel(lit.Span).
		WithHelp("remove it"))
}

func sampleTree() *ast.Tree {
	src := `f("a", "b")`
	return ast.NewTree(src, []ast.Payload{
		&ast.CallExpression{Span: ast.Span{Start: 0, End: 11}, Callee: ast.Span{Start: 0, End: 1}},
		&ast.StringLiteral{Span: ast.Span{Start: 2, End: 5}, Value: "a"},
		&ast.StringLiteral{Span: ast.Span{Start: 7, End: 10}, Value: "b"},
	})
}

func TestParseSeverity(t *testing.T) {
	for in, want := range map[string]Severity{"warn": SeverityWarn, "Warning": SeverityWarn, "ERROR": SeverityError, " deny ": SeverityError} {
		got, err := ParseSeverity(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseSeverity("fatal")
	assert.Error(t, err)
}

func TestDiagnosticBuilders(t *testing.T) {
	d := Error("boom").WithCode("security", "api-keys").WithLabel(ast.Span{Start: 1, End: 4}).WithHelp("fix")
	assert.Equal(t, SeverityError, d.Severity)
	assert.Equal(t, "security/api-keys", d.Code)
	assert.Equal(t, ast.Span{Start: 1, End: 4}, d.Label)
	assert.Equal(t, "fix", d.Help)
}

func TestRegistryListSortedAndDisabled(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(&literalRule{name: "zeta"}))
	require.NoError(t, reg.Register(&literalRule{name: "alpha"}))
	require.NoError(t, reg.Register(&literalRule{name: "mid"}))

	err := reg.Register(&literalRule{name: "ALPHA"})
	assert.ErrorIs(t, err, ErrDuplicateRule)

	names := func(rs []Rule) []string {
		var out []string
		for _, r := range rs {
			out = append(out, r.Meta().Name)
		}
		return out
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names(reg.List()))

	require.NoError(t, reg.Disable("mid"))
	assert.Equal(t, []string{"alpha", "zeta"}, names(reg.List()))
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names(reg.All()))
	assert.False(t, reg.Enabled("mid"))
	assert.True(t, reg.Enabled("Zeta"))

	assert.ErrorIs(t, reg.Disable("nope"), ErrUnknownRule)
	assert.ErrorIs(t, reg.SetSeverity("nope", SeverityError), ErrUnknownRule)

	_, ok := reg.Get(" Alpha ")
	assert.True(t, ok)
}

func TestLinterVisitsEveryNodeOncePerRule(t *testing.T) {
	first := &literalRule{name: "first"}
	second := &literalRule{name: "second"}
	reg := NewRegistry()
	require.NoError(t, reg.Register(second))
	require.NoError(t, reg.Register(first))

	tree := sampleTree()
	diags := NewLinter(reg).Lint("a.js", tree)

	want := []ast.Kind{ast.KindProgram, ast.KindCallExpression, ast.KindStringLiteral, ast.KindStringLiteral}
	assert.Equal(t, want, first.visited)
	assert.Equal(t, want, second.visited)

	require.Len(t, diags, 4)
	assert.Equal(t, `literal "a"`, diags[0].Message)
	assert.Equal(t, "first", diags[0].Rule)
	assert.Equal(t, "second", diags[1].Rule)
	assert.Equal(t, `literal "b"`, diags[2].Message)
	assert.Equal(t, "test/first", diags[2].Code)
}

func TestLinterAppliesSeverityOverride(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(&literalRule{name: "lits"}))
	require.NoError(t, reg.SetSeverity("lits", SeverityError))

	diags := NewLinter(reg).Lint("a.js", sampleTree())
	require.Len(t, diags, 2)
	for _, d := range diags {
		assert.Equal(t, SeverityError, d.Severity)
	}
}

func TestContextLookups(t *testing.T) {
	tree := sampleTree()
	ctx := NewContext("x.ts", tree)
	assert.Equal(t, "x.ts", ctx.Path())
	assert.Equal(t, `"b"`, ctx.SourceRange(ast.Span{Start: 7, End: 10}))
	assert.Equal(t, "", ctx.SourceRange(ast.Span{Start: 10, End: 7}))

	kind, ok := ctx.ParentKind(tree.Nodes()[2].ID)
	require.True(t, ok)
	assert.Equal(t, ast.KindCallExpression, kind)
}

func TestCollectorConcurrentAdd(t *testing.T) {
	var c Collector
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Add(FileDiagnostics{Path: "f.js", Diagnostics: []Diagnostic{Warn("a"), Warn("b")}})
		}()
	}
	wg.Wait()
	assert.Len(t, c.Files(), 50)
	assert.Equal(t, 100, c.Count())
}
