package ast

import (
	"fmt"

	"github.com/dhamidi/pegast/peg"
)

// ErrorKind classifies why a slot could not claim an entry.
type ErrorKind int

const (
	// StructuralMismatch: the tail entry lies outside the claimer's range.
	StructuralMismatch ErrorKind = iota
	// TypeMismatch: the tail entry is in range but has the wrong type.
	TypeMismatch
	// StarvedStack: a required slot found the stack empty. This points at a
	// grammar whose bindings do not match its node types.
	StarvedStack
)

var errorKindNames = map[ErrorKind]string{
	StructuralMismatch: "StructuralMismatch",
	TypeMismatch:       "TypeMismatch",
	StarvedStack:       "StarvedStack",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ClaimError describes a failed claim. Its message is what the reporter sees.
type ClaimError struct {
	Kind     ErrorKind
	Range    peg.Range
	Expected string
	Found    string
}

func (e *ClaimError) Error() string {
	if e.Kind == TypeMismatch {
		return fmt.Sprintf("Expected %s, found %s.", e.Expected, e.Found)
	}
	return fmt.Sprintf("Non-optional %s expected.", e.Expected)
}

func (e *ClaimError) report(rep peg.ErrorReporter) {
	log.Debugf("%s: %s at %s", e.Kind, e.Error(), e.Range)
	if rep != nil {
		rep(e.Range, e.Error())
	}
}

type outcome int

const (
	claimed outcome = iota
	absent
	failed
)

// claim takes the tail entry of st if it lies within r and is a T.
//
// An optional claim never fails: an empty stack, an out-of-range tail and a
// tail of another type all leave the stack untouched and yield absent.
func claim[T any](r peg.Range, st *Stack, rep peg.ErrorReporter, optional bool) (T, outcome) {
	var zero T
	e, ok := st.Tail()
	if !ok {
		if optional {
			return zero, absent
		}
		(&ClaimError{Kind: StarvedStack, Range: r, Expected: kindFor[T]()}).report(rep)
		return zero, failed
	}
	if !r.Contains(e.Range) {
		if optional {
			return zero, absent
		}
		(&ClaimError{Kind: StructuralMismatch, Range: e.Range, Expected: kindFor[T]()}).report(rep)
		return zero, failed
	}
	v, ok := any(e.Node).(T)
	if !ok {
		if optional {
			return zero, absent
		}
		(&ClaimError{Kind: TypeMismatch, Range: e.Range, Expected: kindFor[T](), Found: KindOf(e.Node)}).report(rep)
		return zero, failed
	}
	log.Debugf("[%d] popped %s", st.Len()-1, KindOf(e.Node))
	st.take()
	return v, claimed
}
