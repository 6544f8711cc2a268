package peg

import "fmt"

// Rule is a named grammar production. Its identity is its address, which is
// what delegates use as a key, so a Rule must never be copied.
type Rule struct {
	name string
	expr Expr
}

// NewRule creates an undefined rule. Rules are defined in a second step so
// that grammars can refer to rules before they are complete.
func NewRule(name string) *Rule {
	return &Rule{name: name}
}

// Define sets the expression the rule matches and returns the rule.
func (r *Rule) Define(e Expr) *Rule {
	r.expr = e
	return r
}

// Name returns the name the rule was created with.
func (r *Rule) Name() string {
	return r.name
}

// Defined reports whether Define has been called.
func (r *Rule) Defined() bool {
	return r.expr != nil
}

// Expr returns the rule's definition.
func (r *Rule) Expr() Expr {
	return r.expr
}

func (r *Rule) String() string {
	return r.name
}

func (r *Rule) match(p *parser, pos int) (int, bool) {
	if r.expr == nil {
		panic(fmt.Sprintf("peg: rule %s used before it was defined", r.name))
	}
	pos = p.skip(pos)
	mark := p.mark()
	p.rules = append(p.rules, active{rule: r, begin: pos})
	end, ok := r.expr.match(p, pos)
	p.rules = p.rules[:len(p.rules)-1]
	if !ok {
		p.reset(mark)
		return pos, false
	}
	p.record(r, pos, end)
	return end, true
}
