package ast

import (
	"fmt"

	"github.com/dhamidi/pegast/peg"
)

// String is a leaf node holding the text its rule matched. Bind it directly
// to a lexical rule and adopt it with Child[String], or claim it with
// Ptr[*String].
type String string

func (s *String) Construct(r peg.Range, _ *Stack, _ peg.ErrorReporter) bool {
	*s = String(r.Text())
	return true
}

func (s String) String() string { return string(s) }

// Value is a slot that claims nothing from the stack. It scans the text of
// the range its container matched into a T, the way fmt.Sscan does. Text
// that does not scan leaves the zero value.
type Value[T any] struct {
	value T
}

func (v *Value[T]) Register(a *Assembly) { a.add(v) }

func (v *Value[T]) Construct(r peg.Range, _ *Stack, _ peg.ErrorReporter) bool {
	if _, err := fmt.Sscan(r.Text(), &v.value); err != nil {
		log.Debugf("scanning %q as %s: %s", r.Text(), kindFor[T](), err)
	}
	return true
}

// Get returns the scanned value.
func (v *Value[T]) Get() T { return v.value }

func (v *Value[T]) Reset() {
	var zero T
	v.value = zero
}
