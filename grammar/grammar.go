// Package grammar loads EBNF grammars and compiles their productions into
// peg rules.
//
// Grammars use the notation of golang.org/x/exp/ebnf. Alternatives are
// tried in source order, except in lexical productions, where the longest
// alternative wins. Productions whose names start with a lower-case letter
// are lexical: whitespace is not skipped inside them.
package grammar

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/pegast/peg"
	"github.com/tliron/commonlog"
	"golang.org/x/exp/ebnf"
)

var log = commonlog.GetLogger("pegast.grammar")

// ErrUnknownProduction is returned when a production refers to a name the
// grammar does not define.
var ErrUnknownProduction = errors.New("unknown production")

type Option func(*config)

type config struct {
	whitespace string
	lexical    func(name string) bool
}

// WithWhitespace names the production skipped between terminals.
// The default is "WhiteSpace"; if the grammar has no such production,
// whitespace is not skipped.
func WithWhitespace(name string) Option {
	return func(c *config) {
		c.whitespace = name
	}
}

// WithUppercaseTokens treats productions whose names start with an
// upper-case letter as lexical, as grammars that spell tokens in capitals
// do.
func WithUppercaseTokens() Option {
	return func(c *config) {
		c.lexical = func(name string) bool {
			r, _ := utf8.DecodeRuneInString(name)
			return unicode.IsUpper(r)
		}
	}
}

func isLowercase(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(r)
}

// Grammar is a compiled EBNF grammar.
type Grammar struct {
	source  ebnf.Grammar
	rules   map[string]*peg.Rule
	lexical map[string]bool
	ws      *peg.Rule
}

// Load reads and compiles a grammar file.
func Load(filename string, opts ...Option) (*Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()
	return Parse(filename, f, opts...)
}

// Parse reads and compiles a grammar from r.
func Parse(filename string, r io.Reader, opts ...Option) (*Grammar, error) {
	src, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return Compile(src, opts...)
}

// Compile turns every production of src into a peg rule.
func Compile(src ebnf.Grammar, opts ...Option) (*Grammar, error) {
	cfg := &config{whitespace: "WhiteSpace", lexical: isLowercase}
	for _, opt := range opts {
		opt(cfg)
	}

	g := &Grammar{
		source:  src,
		rules:   make(map[string]*peg.Rule, len(src)),
		lexical: make(map[string]bool),
	}
	for name := range src {
		g.rules[name] = peg.NewRule(name)
	}
	for _, name := range g.Names() {
		prod := src[name]
		lexical := cfg.lexical(name) || name == cfg.whitespace
		expr, err := g.compile(prod.Expr, lexical)
		if err != nil {
			return nil, fmt.Errorf("production %s: %w", name, err)
		}
		if lexical {
			expr = peg.Lexeme(expr)
			g.lexical[name] = true
		}
		g.rules[name].Define(expr)
	}
	g.ws = g.rules[cfg.whitespace]
	log.Debugf("compiled %d productions", len(g.rules))
	return g, nil
}

func (g *Grammar) compile(expr ebnf.Expression, lexical bool) (peg.Expr, error) {
	switch e := expr.(type) {
	case nil:
		return peg.Seq(), nil
	case *ebnf.Token:
		return peg.Lit(e.String), nil
	case *ebnf.Range:
		lo, _ := utf8.DecodeRuneInString(e.Begin.String)
		hi, _ := utf8.DecodeRuneInString(e.End.String)
		return peg.Between(lo, hi), nil
	case *ebnf.Name:
		r, ok := g.rules[e.String]
		if !ok {
			return nil, fmt.Errorf("%s: %w %s", e.StringPos, ErrUnknownProduction, e.String)
		}
		return r, nil
	case ebnf.Sequence:
		subs, err := g.compileAll(e, lexical)
		if err != nil {
			return nil, err
		}
		return peg.Seq(subs...), nil
	case ebnf.Alternative:
		subs, err := g.compileAll(e, lexical)
		if err != nil {
			return nil, err
		}
		if lexical {
			return peg.Longest(subs...), nil
		}
		return peg.Choice(subs...), nil
	case *ebnf.Group:
		return g.compile(e.Body, lexical)
	case *ebnf.Option:
		body, err := g.compile(e.Body, lexical)
		if err != nil {
			return nil, err
		}
		return peg.Opt(body), nil
	case *ebnf.Repetition:
		body, err := g.compile(e.Body, lexical)
		if err != nil {
			return nil, err
		}
		return peg.ZeroOrMore(body), nil
	case *ebnf.Bad:
		return nil, fmt.Errorf("%s: %s", e.TokPos, e.Error)
	default:
		return nil, fmt.Errorf("unsupported expression %T", expr)
	}
}

func (g *Grammar) compileAll(exprs []ebnf.Expression, lexical bool) ([]peg.Expr, error) {
	out := make([]peg.Expr, len(exprs))
	for i, e := range exprs {
		sub, err := g.compile(e, lexical)
		if err != nil {
			return nil, err
		}
		out[i] = sub
	}
	return out, nil
}

// Rule returns the rule compiled from the named production.
func (g *Grammar) Rule(name string) (*peg.Rule, error) {
	r, ok := g.rules[name]
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrUnknownProduction, name)
	}
	return r, nil
}

// Names returns the production names in sorted order.
func (g *Grammar) Names() []string {
	names := make([]string, 0, len(g.rules))
	for name := range g.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lexical reports whether the named production is matched as a single
// token, without skipping whitespace inside it.
func (g *Grammar) Lexical(name string) bool {
	return g.lexical[name]
}

// Whitespace returns the whitespace rule, or nil.
func (g *Grammar) Whitespace() *peg.Rule {
	return g.ws
}

// Source returns the parsed EBNF productions.
func (g *Grammar) Source() ebnf.Grammar {
	return g.source
}

// Errors splits an error returned by Parse or Load into the individual
// errors it carries.
func Errors(err error) []error {
	if err == nil {
		return nil
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	if u := errors.Unwrap(err); u != nil {
		if errs := Errors(u); len(errs) > 1 {
			return errs
		}
		return []error{err}
	}
	v := reflect.ValueOf(err)
	if v.Kind() != reflect.Slice {
		return []error{err}
	}
	errs := make([]error, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		if e, ok := v.Index(i).Interface().(error); ok {
			errs = append(errs, e)
		}
	}
	return errs
}
