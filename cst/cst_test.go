package cst

import (
	"strings"
	"testing"

	"github.com/dhamidi/pegast/ast"
	"github.com/dhamidi/pegast/grammar"
	"github.com/dhamidi/pegast/peg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const assignments = `
Program    = { Assign } .
Assign     = name "=" Value ";" .
Value      = name | number .
name       = letter { letter } .
number     = digit { digit } .
letter     = "a" … "z" .
digit      = "0" … "9" .
WhiteSpace = " " | "\n" .
`

func newParser(t *testing.T, opts ...Option) *Parser {
	t.Helper()
	g, err := grammar.Parse("assign.ebnf", strings.NewReader(assignments))
	require.NoError(t, err)
	p, err := NewParser(g, "Program", opts...)
	require.NoError(t, err)
	return p
}

func kinds(n *Node) []string {
	var out []string
	n.Walk(func(n *Node, depth int) bool {
		out = append(out, strings.Repeat(".", depth)+n.Rule)
		return true
	})
	return out
}

func TestParseTree(t *testing.T) {
	p := newParser(t)

	root, diags, err := p.Parse(peg.NewInput("x = 1;\ny = x;"))
	require.NoError(t, err)
	assert.Empty(t, diags)

	assert.Equal(t, []string{
		"Program",
		".Assign",
		"..name",
		"..Value",
		"...number",
		".Assign",
		"..name",
		"..Value",
		"...name",
	}, kinds(root))

	second := root.Children.At(1)
	assert.Equal(t, "y = x;", second.Text())
	assert.Equal(t, "2:1", second.Range.Begin.String())
	assert.False(t, second.IsToken())

	tok := second.Children.At(0)
	assert.True(t, tok.IsToken())
	assert.True(t, tok.IsLeaf())
	assert.Equal(t, "y", tok.Text())
}

func TestTokensHaveNoChildren(t *testing.T) {
	p := newParser(t)

	root, _, err := p.Parse(peg.NewInput("abc = 123;"))
	require.NoError(t, err)

	name := root.Children.At(0).Children.At(0)
	assert.Equal(t, "name", name.Rule)
	assert.Equal(t, 0, name.Children.Len(), "letters are folded into the token")
}

func TestSkip(t *testing.T) {
	p := newParser(t, Skip("Value"))

	root, _, err := p.Parse(peg.NewInput("a = 1;"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Program", ".Assign", "..name", "..number"}, kinds(root))
}

func TestWalkPrunes(t *testing.T) {
	p := newParser(t)

	root, _, err := p.Parse(peg.NewInput("a = 1; b = 2;"))
	require.NoError(t, err)

	var seen []string
	root.Walk(func(n *Node, depth int) bool {
		seen = append(seen, n.Rule)
		return n.Rule != "Assign"
	})
	assert.Equal(t, []string{"Program", "Assign", "Assign"}, seen)
}

func TestEmptyProgram(t *testing.T) {
	p := newParser(t)

	root, _, err := p.Parse(peg.NewInput("  "))
	require.NoError(t, err)
	assert.True(t, root.IsLeaf())
}

func TestSyntaxError(t *testing.T) {
	p := newParser(t)

	root, diags, err := p.Parse(peg.NewInput("a = 1;\nb = ;"))
	assert.ErrorIs(t, err, ast.ErrSyntax)
	assert.Nil(t, root)
	require.Len(t, diags, 1)
	assert.Equal(t, "2:5", diags[0].Range.Begin.String())
}

func TestStartMustBeBound(t *testing.T) {
	g, err := grammar.Parse("assign.ebnf", strings.NewReader(assignments))
	require.NoError(t, err)

	_, err = NewParser(g, "Missing")
	assert.ErrorIs(t, err, grammar.ErrUnknownProduction)

	_, err = NewParser(g, "Program", Skip("Program"))
	assert.Error(t, err)
}
