package cst

import (
	"fmt"

	"github.com/dhamidi/pegast/ast"
	"github.com/dhamidi/pegast/grammar"
	"github.com/dhamidi/pegast/peg"
)

// Parser parses documents with a loaded grammar. A Parser can be used from
// several goroutines at once.
type Parser struct {
	grammar *grammar.Grammar
	start   *peg.Rule
	d       *ast.Delegate
}

// NewParser binds every production of g and parses from the production
// named start.
func NewParser(g *grammar.Grammar, start string, opts ...Option) (*Parser, error) {
	r, err := g.Rule(start)
	if err != nil {
		return nil, fmt.Errorf("start production: %w", err)
	}
	d := ast.NewDelegate()
	BindAll(d, g, opts...)
	if !d.Bound(r) {
		return nil, fmt.Errorf("start production %s is not bound", start)
	}
	return &Parser{grammar: g, start: r, d: d}, nil
}

// Grammar returns the grammar the parser was built from.
func (p *Parser) Grammar() *grammar.Grammar {
	return p.grammar
}

// Parse builds the tree for in. Diagnostics are returned alongside the error.
func (p *Parser) Parse(in *peg.Input) (*Node, peg.Diagnostics, error) {
	var diags peg.Diagnostics
	root, err := ast.ParseAs[*Node](in, p.start, p.grammar.Whitespace(), diags.Report, p.d)
	if err != nil {
		return nil, diags, err
	}
	return root, diags, nil
}
