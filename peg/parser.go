package peg

import (
	"fmt"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("pegast.peg")

// ErrorReporter receives diagnostics found while parsing. Reporting does not
// abort the parse.
type ErrorReporter func(r Range, message string)

// DefaultErrorReporter logs each diagnostic as an error.
func DefaultErrorReporter(r Range, message string) {
	log.Errorf("%s: %s", r, message)
}

// ParseProc is called once for every completed match of the rule it is
// registered for. data is the opaque value handed to Parse. Returning false
// fails the whole parse.
type ParseProc func(r Range, data any) bool

// Delegate maps rules to the procedures run when they match.
type Delegate interface {
	ParseProc(r *Rule) ParseProc
}

// DelegateFunc adapts a function to the Delegate interface.
type DelegateFunc func(r *Rule) ParseProc

func (f DelegateFunc) ParseProc(r *Rule) ParseProc {
	return f(r)
}

type match struct {
	rule  *Rule
	begin int
	end   int
}

// active is a rule match in progress.
type active struct {
	rule  *Rule
	begin int
}

type parser struct {
	in  *Input
	src string
	ws  *Rule

	matches []match
	rules   []active // innermost last

	lexical    int
	predicates int
	skipping   bool

	furthest int
	expected *Rule
}

func (p *parser) mark() int {
	return len(p.matches)
}

func (p *parser) reset(mark int) {
	p.matches = p.matches[:mark]
}

func (p *parser) record(r *Rule, begin, end int) {
	if p.skipping || p.predicates > 0 {
		return
	}
	p.matches = append(p.matches, match{rule: r, begin: begin, end: end})
}

// skip consumes whitespace at pos unless whitespace is currently significant.
func (p *parser) skip(pos int) int {
	if p.ws == nil || p.lexical > 0 || p.skipping {
		return pos
	}
	p.skipping = true
	defer func() { p.skipping = false }()
	for {
		end, ok := p.ws.expr.match(p, pos)
		if !ok || end == pos {
			return pos
		}
		pos = end
	}
}

// fail records a failed terminal at pos for error reporting.
func (p *parser) fail(pos int) (int, bool) {
	if p.skipping || p.predicates > 0 {
		return pos, false
	}
	if pos > p.furthest {
		p.furthest = pos
		p.expected = p.expectedAt(pos)
	}
	return pos, false
}

// expectedAt names the largest construct that could have started at pos:
// the outermost rule below the root that began there. Failures in the middle
// of a rule are blamed on the innermost rule.
func (p *parser) expectedAt(pos int) *Rule {
	if len(p.rules) == 0 {
		return nil
	}
	for _, a := range p.rules[1:] {
		if a.begin == pos {
			return a.rule
		}
	}
	return p.rules[len(p.rules)-1].rule
}

func (p *parser) syntaxError() string {
	if p.expected != nil {
		return fmt.Sprintf("syntax error, expected %s", p.expected.name)
	}
	return "syntax error"
}

// Parse matches root against the whole input, skipping ws between terminals.
// If the input matches, every recorded rule match is replayed through d in
// the order the matches completed, innermost and leftmost first, and data is
// handed to each procedure. On a syntax error exactly one diagnostic is
// reported, at the furthest position the engine reached.
func Parse(in *Input, root, ws *Rule, rep ErrorReporter, d Delegate, data any) bool {
	if rep == nil {
		rep = DefaultErrorReporter
	}
	p := &parser{in: in, src: in.src, ws: ws, furthest: -1}

	end, ok := root.match(p, 0)
	if ok {
		end = p.skip(end)
		if end != len(p.src) {
			p.fail(end)
			ok = false
		}
	}
	if !ok {
		pos := max(p.furthest, 0)
		rep(in.Range(pos, pos), p.syntaxError())
		return false
	}

	log.Debugf("%s matched %d bytes with %d reductions", root.name, end, len(p.matches))
	if d == nil {
		return true
	}
	for _, m := range p.matches {
		proc := d.ParseProc(m.rule)
		if proc == nil {
			continue
		}
		if !proc(in.Range(m.begin, m.end), data) {
			log.Debugf("reduction of %s at %s rejected", m.rule.name, in.Position(m.begin))
			return false
		}
	}
	return true
}
