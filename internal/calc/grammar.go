// Package calc is a small arithmetic language built on ast. It is used by
// the calc command and as an end to end exercise of every slot type.
//
//	Program <- (Assign ';')* Sum
//	Assign  <- Name '=' Sum
//	Sum     <- Term ('+' Term)*
//	Term    <- Factor ('*' Factor)*
//	Factor  <- Number / Name / '(' Sum ')'
//	Number  <- [0-9]+
//	Name    <- [a-z]+
package calc

import (
	"github.com/dhamidi/pegast/ast"
	"github.com/dhamidi/pegast/peg"
)

// Grammar holds the rules of the language.
type Grammar struct {
	Program *peg.Rule
	Assign  *peg.Rule
	Sum     *peg.Rule
	Term    *peg.Rule
	Factor  *peg.Rule
	Number  *peg.Rule
	Name    *peg.Rule
	WS      *peg.Rule
}

func NewGrammar() *Grammar {
	g := &Grammar{
		Program: peg.NewRule("Program"),
		Assign:  peg.NewRule("Assign"),
		Sum:     peg.NewRule("Sum"),
		Term:    peg.NewRule("Term"),
		Factor:  peg.NewRule("Factor"),
		Number:  peg.NewRule("Number"),
		Name:    peg.NewRule("Name"),
		WS:      peg.NewRule("WhiteSpace"),
	}
	g.WS.Define(peg.ZeroOrMore(peg.Set(" \t\r\n")))
	g.Number.Define(peg.Lexeme(peg.OneOrMore(peg.Between('0', '9'))))
	g.Name.Define(peg.Lexeme(peg.OneOrMore(peg.Between('a', 'z'))))
	g.Factor.Define(peg.Choice(
		g.Number,
		g.Name,
		peg.Seq(peg.Lit("("), g.Sum, peg.Lit(")")),
	))
	g.Term.Define(peg.Seq(g.Factor, peg.ZeroOrMore(peg.Seq(peg.Lit("*"), g.Factor))))
	g.Sum.Define(peg.Seq(g.Term, peg.ZeroOrMore(peg.Seq(peg.Lit("+"), g.Term))))
	g.Assign.Define(peg.Seq(g.Name, peg.Lit("="), g.Sum))
	g.Program.Define(peg.Seq(peg.ZeroOrMore(peg.Seq(g.Assign, peg.Lit(";"))), g.Sum))
	return g
}

// Bind binds every rule of g to its node type.
func (g *Grammar) Bind(d *ast.Delegate) {
	ast.Bind[Program](d, g.Program)
	ast.Bind[Assign](d, g.Assign)
	ast.Bind[Sum](d, g.Sum)
	ast.Bind[Term](d, g.Term)
	ast.Bind[Factor](d, g.Factor)
	ast.Bind[Number](d, g.Number)
	ast.Bind[ast.String](d, g.Name)
}

// Parser parses calc programs. It is safe for concurrent use.
type Parser struct {
	grammar  *Grammar
	delegate *ast.Delegate
}

func NewParser() *Parser {
	g := NewGrammar()
	d := ast.NewDelegate()
	g.Bind(d)
	return &Parser{grammar: g, delegate: d}
}

func (p *Parser) Grammar() *Grammar {
	return p.grammar
}

func (p *Parser) Delegate() *ast.Delegate {
	return p.delegate
}

// Parse parses a whole program. Diagnostics are returned even on success.
func (p *Parser) Parse(src string, opts ...peg.InputOption) (*Program, peg.Diagnostics, error) {
	return parse[*Program](p, p.grammar.Program, src, opts)
}

// ParseSum parses a single expression.
func (p *Parser) ParseSum(src string, opts ...peg.InputOption) (*Sum, peg.Diagnostics, error) {
	return parse[*Sum](p, p.grammar.Sum, src, opts)
}

func parse[T any](p *Parser, root *peg.Rule, src string, opts []peg.InputOption) (T, peg.Diagnostics, error) {
	var diags peg.Diagnostics
	n, err := ast.ParseAs[T](peg.NewInput(src, opts...), root, p.grammar.WS, diags.Report, p.delegate)
	return n, diags, err
}
