package ast

import "github.com/dhamidi/pegast/peg"

// Entry is a reduced production that has not been claimed by a parent yet.
type Entry struct {
	Range peg.Range
	Node  Node
}

// Stack holds unclaimed entries in ascending source order. Entries are only
// ever removed from the tail.
type Stack struct {
	entries []Entry
}

// NewStack returns an empty stack.
func NewStack() *Stack {
	return &Stack{}
}

// Len returns the number of unclaimed entries.
func (s *Stack) Len() int {
	return len(s.entries)
}

// Push appends a finished node.
func (s *Stack) Push(r peg.Range, n Node) {
	s.entries = append(s.entries, Entry{Range: r, Node: n})
}

// Tail returns the most recently pushed entry.
func (s *Stack) Tail() (Entry, bool) {
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	return s.entries[len(s.entries)-1], true
}

// Entries returns a copy of the unclaimed entries, bottom first.
func (s *Stack) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// take removes the tail entry and hands its node to the caller.
func (s *Stack) take() Node {
	last := len(s.entries) - 1
	n := s.entries[last].Node
	s.entries[last] = Entry{}
	s.entries = s.entries[:last]
	return n
}

// run counts the entries at the tail that lie within r.
func (s *Stack) run(r peg.Range) int {
	n := 0
	for i := len(s.entries) - 1; i >= 0; i-- {
		if !r.Contains(s.entries[i].Range) {
			break
		}
		n++
	}
	return n
}
