package ast

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dhamidi/pegast/peg"
)

var (
	// ErrSyntax is returned when the input does not match the grammar or a
	// bound node could not be constructed. Details went to the reporter.
	ErrSyntax = errors.New("ast: parse failed")
	// ErrEmptyStack is returned when the input matched but no bound rule
	// produced a node.
	ErrEmptyStack = errors.New("ast: parse produced no node")
	// ErrRootType is returned by ParseAs when the root has another type.
	ErrRootType = errors.New("ast: unexpected root node type")
)

// RootArityError is returned when more than one entry is left on the stack
// after a successful parse. It means some bound rule does not claim all of
// the nodes reduced inside it.
type RootArityError struct {
	Residual []Entry
}

func (e *RootArityError) Error() string {
	kinds := make([]string, len(e.Residual))
	for i, entry := range e.Residual {
		kinds[i] = fmt.Sprintf("[%d] %s at %s", i, KindOf(entry.Node), entry.Range)
	}
	return fmt.Sprintf("ast: %d unclaimed nodes after parsing: %s", len(e.Residual), strings.Join(kinds, ", "))
}

// session is the opaque value handed through peg.Parse to the bound rules.
type session struct {
	stack *Stack
	rep   peg.ErrorReporter
}

// Parse parses in starting at root, with ws as whitespace, and returns the
// single node left on the stack.
func Parse(in *peg.Input, root, ws *peg.Rule, rep peg.ErrorReporter, d peg.Delegate) (Node, error) {
	if rep == nil {
		rep = peg.DefaultErrorReporter
	}
	s := &session{stack: NewStack(), rep: rep}
	if !peg.Parse(in, root, ws, rep, d, s) {
		return nil, ErrSyntax
	}
	switch s.stack.Len() {
	case 0:
		return nil, ErrEmptyStack
	case 1:
		return s.stack.take(), nil
	}
	residual := s.stack.Entries()
	for i, e := range residual {
		log.Errorf("[%d] %s left on the stack at %s", i, KindOf(e.Node), e.Range)
	}
	return nil, &RootArityError{Residual: residual}
}

// ParseAs is Parse followed by a checked downcast of the root to T.
func ParseAs[T any](in *peg.Input, root, ws *peg.Rule, rep peg.ErrorReporter, d peg.Delegate) (T, error) {
	var zero T
	n, err := Parse(in, root, ws, rep, d)
	if err != nil {
		return zero, err
	}
	t, ok := As[T](n)
	if !ok {
		return zero, fmt.Errorf("%w: want %s, got %s", ErrRootType, kindFor[T](), KindOf(n))
	}
	return t, nil
}
