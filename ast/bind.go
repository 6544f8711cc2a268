package ast

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dhamidi/pegast/peg"
)

// Delegate maps grammar rules to the node types built when they reduce.
//
// Bind all rules before the first parse. After that a Delegate is only read,
// so one Delegate can serve any number of concurrent parses as long as each
// parse has its own input and reporter.
type Delegate struct {
	procs map[*peg.Rule]peg.ParseProc
	count map[*peg.Rule]int
}

// NewDelegate returns a Delegate with no bindings.
func NewDelegate() *Delegate {
	return &Delegate{
		procs: make(map[*peg.Rule]peg.ParseProc),
		count: make(map[*peg.Rule]int),
	}
}

// ParseProc implements peg.Delegate.
func (d *Delegate) ParseProc(r *peg.Rule) peg.ParseProc {
	return d.procs[r]
}

// Bound reports whether r has a binding.
func (d *Delegate) Bound(r *peg.Rule) bool {
	return d.count[r] > 0
}

// set registers proc for r. A second binding for the same rule does not
// replace the first: both run, in binding order.
func (d *Delegate) set(r *peg.Rule, proc peg.ParseProc) {
	d.count[r]++
	prev, ok := d.procs[r]
	if !ok {
		d.procs[r] = proc
		return
	}
	log.Warningf("rule %s bound %d times", r.Name(), d.count[r])
	d.procs[r] = func(rng peg.Range, data any) bool {
		return prev(rng, data) && proc(rng, data)
	}
}

// Check reports rules that were bound more than once. Such rules push more
// than one node per reduction, which leaves extra entries on the stack.
func (d *Delegate) Check() error {
	var names []string
	for r, n := range d.count {
		if n > 1 {
			names = append(names, fmt.Sprintf("%s (%d bindings)", r.Name(), n))
		}
	}
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)
	return fmt.Errorf("%w: %s", ErrDuplicateBinding, strings.Join(names, ", "))
}

// ErrDuplicateBinding is returned by Check.
var ErrDuplicateBinding = errors.New("ast: rule bound more than once")

type binding struct {
	rep peg.ErrorReporter
}

type BindOption func(*binding)

// WithReporter sends the diagnostics of this binding to rep instead of the
// reporter given to Parse.
func WithReporter(rep peg.ErrorReporter) BindOption {
	return func(b *binding) {
		b.rep = rep
	}
}

// Bind makes every reduction of r allocate a new T, construct it from the
// stack and push it. The type argument is the node type without pointer:
//
//	ast.Bind[Sum](d, sumRule)
func Bind[T any, PT interface {
	*T
	Node
}](d *Delegate, r *peg.Rule, opts ...BindOption) {
	BindFunc(d, r, func() Node { return PT(new(T)) }, opts...)
}

// BindFunc is like Bind but allocates nodes with newNode.
func BindFunc(d *Delegate, r *peg.Rule, newNode func() Node, opts ...BindOption) {
	b := &binding{}
	for _, opt := range opts {
		opt(b)
	}
	d.set(r, func(rng peg.Range, data any) bool {
		s, ok := data.(*session)
		if !ok {
			panic(fmt.Sprintf("ast: rule %s reduced outside ast.Parse", r.Name()))
		}
		rep := s.rep
		if b.rep != nil {
			rep = b.rep
		}
		return reduce(s.stack, rng, newNode(), rep)
	})
}

// reduce builds n from the stack and pushes it. A node that fails to build
// is dropped and leaves nothing behind.
func reduce(st *Stack, r peg.Range, n Node, rep peg.ErrorReporter) bool {
	if err := Assemble(n); err != nil {
		rep(r, err.Error())
		return false
	}
	log.Debugf("[%d] constructing %s", st.Len(), KindOf(n))
	if !n.Construct(r, st, rep) {
		log.Debugf("[%d] failed %s", st.Len(), KindOf(n))
		return false
	}
	st.Push(r, n)
	log.Debugf("[%d] constructed %s", st.Len()-1, KindOf(n))
	return true
}
