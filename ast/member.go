package ast

import (
	"github.com/dhamidi/pegast/peg"
)

// Member is a child slot of a Container. A slot registers itself with the
// Assembly of the container that declares it and later claims its child
// from the stack when the container is constructed.
type Member interface {
	Node
	Register(a *Assembly)
	// Reset drops whatever the slot claimed.
	Reset()
}

// singleRequired is implemented by slots that need exactly one entry.
type singleRequired interface {
	requiresOne()
}

// reserving is implemented by slots that must leave entries for the
// required slots declared before them.
type reserving interface {
	reserve(n int)
}

// Ptr is a required child of type T.
type Ptr[T Node] struct {
	node T
}

func (p *Ptr[T]) Register(a *Assembly) { a.add(p) }

func (p *Ptr[T]) requiresOne() {}

func (p *Ptr[T]) Construct(r peg.Range, st *Stack, rep peg.ErrorReporter) bool {
	v, out := claim[T](r, st, rep, false)
	if out != claimed {
		return false
	}
	p.node = v
	return true
}

// Get returns the claimed child.
func (p *Ptr[T]) Get() T { return p.node }

func (p *Ptr[T]) Reset() {
	var zero T
	p.node = zero
}

// Optional is a child of type T that may be absent.
type Optional[T Node] struct {
	node T
	set  bool
}

func (o *Optional[T]) Register(a *Assembly) { a.add(o) }

func (o *Optional[T]) Construct(r peg.Range, st *Stack, rep peg.ErrorReporter) bool {
	v, out := claim[T](r, st, rep, true)
	if out == claimed {
		o.node, o.set = v, true
	}
	return true
}

// Get returns the child and whether one was claimed.
func (o *Optional[T]) Get() (T, bool) { return o.node, o.set }

// Present reports whether a child was claimed.
func (o *Optional[T]) Present() bool { return o.set }

func (o *Optional[T]) Reset() {
	var zero T
	o.node, o.set = zero, false
}

// Child adopts a required child by value. It claims a *T from the stack and
// copies the pointed-to value into itself, which suits small leaves such as
// String. *T must implement Node.
type Child[T any] struct {
	value T
}

func (c *Child[T]) Register(a *Assembly) { a.add(c) }

func (c *Child[T]) requiresOne() {}

func (c *Child[T]) Construct(r peg.Range, st *Stack, rep peg.ErrorReporter) bool {
	v, out := claim[*T](r, st, rep, false)
	if out != claimed {
		return false
	}
	c.value = *v
	return true
}

// Get returns the adopted value.
func (c *Child[T]) Get() T { return c.value }

func (c *Child[T]) Reset() {
	var zero T
	c.value = zero
}

// List claims consecutive children of type T, keeping their source order.
//
// It is greedy: it takes every entry at the tail that lies within the
// claimer's range, and fails if one of them is not a T. Entries claimed
// before such a failure are not returned to the stack. Slots declared before
// a List find nothing left in range, so a required one fails. Use Rest when
// the grammar puts mandatory children of type T ahead of the list.
type List[T Node] struct {
	items []T
}

func (l *List[T]) Register(a *Assembly) { a.add(l) }

func (l *List[T]) Construct(r peg.Range, st *Stack, rep peg.ErrorReporter) bool {
	return l.claim(r, st, rep, st.run(r))
}

// claim takes up to limit entries from the tail.
func (l *List[T]) claim(r peg.Range, st *Stack, rep peg.ErrorReporter, limit int) bool {
	var items []T
	for n := 0; n < limit; n++ {
		v, out := claim[T](r, st, rep, false)
		if out != claimed {
			return false
		}
		items = append(items, v)
	}
	// Entries came off the tail last-first.
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	l.items = items
	return true
}

// All returns the claimed children in source order.
func (l *List[T]) All() []T { return l.items }

// Len returns the number of claimed children.
func (l *List[T]) Len() int { return len(l.items) }

// At returns the i-th child.
func (l *List[T]) At(i int) T { return l.items[i] }

func (l *List[T]) Reset() {
	l.items = nil
}

// Rest is a List that leaves one in-range entry for each required single
// slot (Ptr or Child) declared before it, so that
//
//	Sum <- Term ('+' Term)*
//
// yields the first Term in LHS and the others in a Rest.
//
// Rest counts entries; it does not look at where they start. If the grammar
// lets the leading child be absent, as in Term? ('+' Term)*, a missing
// leading child is not detected: the first list element moves into the
// required slot. Use Rest only where the grammar makes the leading children
// mandatory.
type Rest[T Node] struct {
	List[T]
	reserved int
}

func (l *Rest[T]) Register(a *Assembly) { a.add(l) }

func (l *Rest[T]) reserve(n int) { l.reserved = n }

func (l *Rest[T]) Construct(r peg.Range, st *Stack, rep peg.ErrorReporter) bool {
	return l.claim(r, st, rep, st.run(r)-l.reserved)
}
