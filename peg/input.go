// Package peg provides the grammar side of pegast: input positions and
// ranges, rules built from PEG combinators, and a small backtracking engine
// that reports every completed rule match to a Delegate.
package peg

import (
	"fmt"
	"iter"
	"sort"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Position represents a location in an Input.
// Line and Column are 1-based; Column counts runes.
type Position struct {
	Offset int
	Line   int
	Column int
}

// Less reports whether p comes before q in the input.
func (p Position) Less(q Position) bool {
	return p.Offset < q.Offset
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Range is a half-open interval [Begin, End) of an Input.
type Range struct {
	Begin Position
	End   Position
	input *Input
}

// Contains reports whether o lies entirely within r.
// A range that starts before r or ends after r is not contained.
func (r Range) Contains(o Range) bool {
	return !o.Begin.Less(r.Begin) && !r.End.Less(o.End)
}

// Len returns the length of the range in bytes.
func (r Range) Len() int {
	return r.End.Offset - r.Begin.Offset
}

// Input returns the input the range was taken from.
func (r Range) Input() *Input {
	return r.input
}

// Text returns the covered source text.
func (r Range) Text() string {
	if r.input == nil {
		return ""
	}
	return r.input.src[r.Begin.Offset:r.End.Offset]
}

// Runes iterates over the covered characters.
func (r Range) Runes() iter.Seq[rune] {
	text := r.Text()
	return func(yield func(rune) bool) {
		for _, c := range text {
			if !yield(c) {
				return
			}
		}
	}
}

func (r Range) String() string {
	if r.input != nil && r.input.filename != "" {
		return fmt.Sprintf("%s:%s-%s", r.input.filename, r.Begin, r.End)
	}
	return fmt.Sprintf("%s-%s", r.Begin, r.End)
}

type InputOption func(*Input)

// WithFilename sets the name used when printing positions.
func WithFilename(name string) InputOption {
	return func(in *Input) {
		in.filename = name
	}
}

// WithNormalization normalizes the source text once, before any position
// is computed, so that grammars only ever see one form of each character.
func WithNormalization(form norm.Form) InputOption {
	return func(in *Input) {
		in.form = &form
	}
}

// Input is the source text being parsed.
type Input struct {
	filename string
	src      string
	form     *norm.Form
	lines    []int // byte offset of the start of each line
}

// NewInput creates an input over src.
func NewInput(src string, opts ...InputOption) *Input {
	in := &Input{src: src}
	for _, opt := range opts {
		opt(in)
	}
	if in.form != nil {
		in.src = in.form.String(in.src)
	}
	in.lines = []int{0}
	for i := 0; i < len(in.src); i++ {
		if in.src[i] == '\n' {
			in.lines = append(in.lines, i+1)
		}
	}
	return in
}

func (in *Input) Filename() string {
	return in.filename
}

// Text returns the whole (possibly normalized) source.
func (in *Input) Text() string {
	return in.src
}

// Len returns the input length in bytes.
func (in *Input) Len() int {
	return len(in.src)
}

// Position converts a byte offset into a Position.
func (in *Input) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(in.src) {
		offset = len(in.src)
	}
	line := sort.Search(len(in.lines), func(i int) bool { return in.lines[i] > offset }) - 1
	col := utf8.RuneCountInString(in.src[in.lines[line]:offset]) + 1
	return Position{Offset: offset, Line: line + 1, Column: col}
}

// Range returns the range between two byte offsets.
func (in *Input) Range(begin, end int) Range {
	return Range{Begin: in.Position(begin), End: in.Position(end), input: in}
}
