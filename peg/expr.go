package peg

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Expr is a parsing expression. Expressions are immutable once built and may
// be shared between rules and between concurrent parses.
type Expr interface {
	fmt.Stringer
	match(p *parser, pos int) (int, bool)
}

type literal string

// Lit matches the string s exactly.
func Lit(s string) Expr {
	return literal(s)
}

func (e literal) String() string { return fmt.Sprintf("%q", string(e)) }

func (e literal) match(p *parser, pos int) (int, bool) {
	pos = p.skip(pos)
	if strings.HasPrefix(p.src[pos:], string(e)) {
		return pos + len(e), true
	}
	return p.fail(pos)
}

type charSet string

// Set matches any single character contained in chars.
func Set(chars string) Expr {
	return charSet(chars)
}

func (e charSet) String() string { return fmt.Sprintf("[%s]", string(e)) }

func (e charSet) match(p *parser, pos int) (int, bool) {
	pos = p.skip(pos)
	c, n := utf8.DecodeRuneInString(p.src[pos:])
	if n > 0 && strings.ContainsRune(string(e), c) {
		return pos + n, true
	}
	return p.fail(pos)
}

type charRange struct {
	lo, hi rune
}

// Between matches any single character in [lo, hi].
func Between(lo, hi rune) Expr {
	return charRange{lo: lo, hi: hi}
}

func (e charRange) String() string { return fmt.Sprintf("%q…%q", e.lo, e.hi) }

func (e charRange) match(p *parser, pos int) (int, bool) {
	pos = p.skip(pos)
	c, n := utf8.DecodeRuneInString(p.src[pos:])
	if n > 0 && c >= e.lo && c <= e.hi {
		return pos + n, true
	}
	return p.fail(pos)
}

type anyChar struct{}

// Any matches any single character.
func Any() Expr {
	return anyChar{}
}

func (anyChar) String() string { return "." }

func (anyChar) match(p *parser, pos int) (int, bool) {
	pos = p.skip(pos)
	_, n := utf8.DecodeRuneInString(p.src[pos:])
	if n > 0 {
		return pos + n, true
	}
	return p.fail(pos)
}

type eof struct{}

// EOF matches the end of the input.
func EOF() Expr {
	return eof{}
}

func (eof) String() string { return "EOF" }

func (eof) match(p *parser, pos int) (int, bool) {
	pos = p.skip(pos)
	if pos == len(p.src) {
		return pos, true
	}
	return p.fail(pos)
}

type sequence []Expr

// Seq matches each expression in turn.
func Seq(exprs ...Expr) Expr {
	return sequence(exprs)
}

func (e sequence) String() string { return "(" + join(e, " ") + ")" }

func (e sequence) match(p *parser, pos int) (int, bool) {
	mark := p.mark()
	cur := pos
	for _, sub := range e {
		next, ok := sub.match(p, cur)
		if !ok {
			p.reset(mark)
			return pos, false
		}
		cur = next
	}
	return cur, true
}

type choice []Expr

// Choice tries each alternative in order and takes the first that matches.
func Choice(exprs ...Expr) Expr {
	return choice(exprs)
}

func (e choice) String() string { return "(" + join(e, " | ") + ")" }

func (e choice) match(p *parser, pos int) (int, bool) {
	mark := p.mark()
	for _, sub := range e {
		if end, ok := sub.match(p, pos); ok {
			return end, true
		}
		p.reset(mark)
	}
	return pos, false
}

type longest []Expr

// Longest tries every alternative and takes the one that consumes the most
// input. Ties go to the earlier alternative.
func Longest(exprs ...Expr) Expr {
	return longest(exprs)
}

func (e longest) String() string { return "(" + join(e, " || ") + ")" }

func (e longest) match(p *parser, pos int) (int, bool) {
	mark := p.mark()
	best, found := pos, false
	var kept []match
	for _, sub := range e {
		end, ok := sub.match(p, pos)
		if ok && (!found || end > best) {
			best, found = end, true
			kept = append(kept[:0], p.matches[mark:]...)
		}
		p.reset(mark)
	}
	if !found {
		return pos, false
	}
	p.matches = append(p.matches, kept...)
	return best, true
}

type repetition struct {
	body Expr
	min  int
}

// ZeroOrMore matches e as many times as possible, including zero times.
func ZeroOrMore(e Expr) Expr {
	return repetition{body: e}
}

// OneOrMore matches e at least once and then as many times as possible.
func OneOrMore(e Expr) Expr {
	return repetition{body: e, min: 1}
}

func (e repetition) String() string {
	if e.min == 0 {
		return e.body.String() + "*"
	}
	return e.body.String() + "+"
}

func (e repetition) match(p *parser, pos int) (int, bool) {
	start := p.mark()
	cur := pos
	for n := 0; ; n++ {
		mark := p.mark()
		next, ok := e.body.match(p, cur)
		if !ok || next == cur {
			if !ok {
				p.reset(mark)
			}
			if n < e.min && !ok {
				p.reset(start)
				return pos, false
			}
			return cur, true
		}
		cur = next
	}
}

type optional struct {
	body Expr
}

// Opt matches e or nothing.
func Opt(e Expr) Expr {
	return optional{body: e}
}

func (e optional) String() string { return e.body.String() + "?" }

func (e optional) match(p *parser, pos int) (int, bool) {
	mark := p.mark()
	if end, ok := e.body.match(p, pos); ok {
		return end, true
	}
	p.reset(mark)
	return pos, true
}

type predicate struct {
	body   Expr
	negate bool
}

// And succeeds if e matches, without consuming input.
func And(e Expr) Expr {
	return predicate{body: e}
}

// Not succeeds if e does not match, without consuming input.
func Not(e Expr) Expr {
	return predicate{body: e, negate: true}
}

func (e predicate) String() string {
	if e.negate {
		return "!" + e.body.String()
	}
	return "&" + e.body.String()
}

func (e predicate) match(p *parser, pos int) (int, bool) {
	mark := p.mark()
	p.predicates++
	_, ok := e.body.match(p, pos)
	p.predicates--
	p.reset(mark)
	if ok != e.negate {
		return pos, true
	}
	return pos, false
}

type lexeme struct {
	body Expr
}

// Lexeme matches e without skipping whitespace inside it.
// Whitespace before the lexeme is still skipped.
func Lexeme(e Expr) Expr {
	return lexeme{body: e}
}

func (e lexeme) String() string { return "lexeme" + e.body.String() }

func (e lexeme) match(p *parser, pos int) (int, bool) {
	pos = p.skip(pos)
	p.lexical++
	defer func() { p.lexical-- }()
	return e.body.match(p, pos)
}

func join(exprs []Expr, sep string) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, sep)
}
