// Package ast turns the flat, bottom-up stream of rule reductions produced by
// package peg into a nested tree of typed nodes.
//
// Every reduction allocates a node for its rule and lets that node claim its
// children from the tail of a shared Stack. Composite nodes embed Container
// and declare their children as slot fields:
//
//	type Sum struct {
//		ast.Container
//		LHS ast.Ptr[*Term]
//		RHS ast.Rest[*Term]
//	}
//
// Slots are claimed in reverse declaration order, because the last declared
// child was reduced last and sits on top of the stack. A claimed entry must
// lie within the claiming node's own range, and must have the slot's type.
package ast

import (
	"reflect"

	"github.com/dhamidi/pegast/peg"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("pegast.ast")

// Node is the capability every tree element provides: building itself from
// the range its rule matched and the entries already on the stack.
//
// Construct must not keep a reference to st. It returns false if the node
// could not be built; diagnostics are sent to rep.
type Node interface {
	Construct(r peg.Range, st *Stack, rep peg.ErrorReporter) bool
}

// As downcasts n to T. T may be a concrete node type or any interface that
// n's dynamic type implements.
func As[T any](n Node) (T, bool) {
	t, ok := n.(T)
	return t, ok
}

// KindOf returns the unqualified type name of v, as used in diagnostics.
func KindOf(v any) string {
	if v == nil {
		return "nil"
	}
	return typeName(reflect.TypeOf(v))
}

func kindFor[T any]() string {
	return typeName(reflect.TypeFor[T]())
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}
