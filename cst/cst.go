// Package cst builds concrete syntax trees for any grammar loaded with
// package grammar. Every bound production becomes a Node whose children are
// the nodes of the bound productions matched inside it.
package cst

import (
	"fmt"

	"github.com/dhamidi/pegast/ast"
	"github.com/dhamidi/pegast/grammar"
	"github.com/dhamidi/pegast/peg"
)

// Node is a node in the concrete syntax tree.
// Tokens, the nodes of lexical productions, have no children.
type Node struct {
	ast.Container
	Rule     string
	Range    peg.Range
	Children ast.List[*Node]
	token    bool
}

func (n *Node) Construct(r peg.Range, st *ast.Stack, rep peg.ErrorReporter) bool {
	n.Range = r
	if !n.Container.Construct(r, st, rep) {
		return false
	}
	if n.token {
		n.Children.Reset()
	}
	return true
}

// IsToken reports whether n was built from a lexical production.
func (n *Node) IsToken() bool {
	return n.token
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return n.Children.Len() == 0
}

// Text returns the source text covered by n.
func (n *Node) Text() string {
	return n.Range.Text()
}

func (n *Node) String() string {
	return fmt.Sprintf("%s@%s", n.Rule, n.Range)
}

// Walk calls fn for n and its descendants in source order. Children of a
// node are skipped when fn returns false for it.
func (n *Node) Walk(fn func(n *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children.All() {
		c.walk(fn, depth+1)
	}
}

type Option func(*config)

type config struct {
	skip map[string]bool
}

// Skip leaves the named productions unbound. Their matches produce no node,
// and the nodes built inside them become children of the enclosing node.
func Skip(names ...string) Option {
	return func(c *config) {
		for _, name := range names {
			c.skip[name] = true
		}
	}
}

// BindAll binds every production of g except whitespace to Node.
func BindAll(d *ast.Delegate, g *grammar.Grammar, opts ...Option) {
	cfg := &config{skip: make(map[string]bool)}
	if ws := g.Whitespace(); ws != nil {
		cfg.skip[ws.Name()] = true
	}
	for _, opt := range opts {
		opt(cfg)
	}
	for _, name := range g.Names() {
		if cfg.skip[name] {
			continue
		}
		r, _ := g.Rule(name)
		token := g.Lexical(name)
		ast.BindFunc(d, r, func() ast.Node {
			return &Node{Rule: name, token: token}
		})
	}
}
