package ast

import (
	"testing"

	"github.com/dhamidi/pegast/peg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type leaf struct{ id int }

func (*leaf) Construct(peg.Range, *Stack, peg.ErrorReporter) bool { return true }

type other struct{}

func (*other) Construct(peg.Range, *Stack, peg.ErrorReporter) bool { return true }

// labeled is implemented by leaf only.
type labeled interface {
	Node
	label() int
}

func (l *leaf) label() int { return l.id }

var digits = peg.NewInput("0123456789")

func span(begin, end int) peg.Range {
	return digits.Range(begin, end)
}

func TestClaimRequired(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		want    outcome
		message string
		left    int
	}{
		{
			name:    "in range",
			entries: []Entry{{span(3, 4), &leaf{1}}},
			want:    claimed,
		},
		{
			name:    "equal range",
			entries: []Entry{{span(2, 6), &leaf{1}}},
			want:    claimed,
		},
		{
			name:    "empty stack",
			want:    failed,
			message: "Non-optional leaf expected.",
		},
		{
			name:    "starts before",
			entries: []Entry{{span(1, 4), &leaf{1}}},
			want:    failed,
			message: "Non-optional leaf expected.",
			left:    1,
		},
		{
			name:    "ends after",
			entries: []Entry{{span(3, 7), &leaf{1}}},
			want:    failed,
			message: "Non-optional leaf expected.",
			left:    1,
		},
		{
			name:    "wrong type",
			entries: []Entry{{span(3, 4), &other{}}},
			want:    failed,
			message: "Expected leaf, found other.",
			left:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := NewStack()
			for _, e := range tt.entries {
				st.Push(e.Range, e.Node)
			}
			var diags peg.Diagnostics

			got, out := claim[*leaf](span(2, 6), st, diags.Report, false)
			assert.Equal(t, tt.want, out)
			assert.Equal(t, tt.left, st.Len())
			if tt.message == "" {
				assert.Empty(t, diags)
				require.NotNil(t, got)
				assert.Equal(t, 1, got.id)
				return
			}
			require.Len(t, diags, 1)
			assert.Equal(t, tt.message, diags[0].Message)
			assert.Nil(t, got)
		})
	}
}

func TestClaimOptionalLeavesStackUntouched(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
	}{
		{"empty stack", nil},
		{"sibling", []Entry{{span(0, 2), &leaf{1}}}},
		{"wrong type", []Entry{{span(3, 4), &other{}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := NewStack()
			for _, e := range tt.entries {
				st.Push(e.Range, e.Node)
			}
			var diags peg.Diagnostics

			_, out := claim[*leaf](span(2, 6), st, diags.Report, true)
			assert.Equal(t, absent, out)
			assert.Equal(t, len(tt.entries), st.Len())
			assert.Empty(t, diags)
		})
	}
}

func TestClaimInterfaceTarget(t *testing.T) {
	st := NewStack()
	st.Push(span(2, 3), &leaf{7})

	got, out := claim[labeled](span(0, 9), st, nil, false)
	require.Equal(t, claimed, out)
	assert.Equal(t, 7, got.label())

	st.Push(span(2, 3), &other{})
	_, out = claim[labeled](span(0, 9), st, func(peg.Range, string) {}, false)
	assert.Equal(t, failed, out)
}

func TestClaimErrorKinds(t *testing.T) {
	assert.Equal(t, "StructuralMismatch", StructuralMismatch.String())
	assert.Equal(t, "TypeMismatch", TypeMismatch.String())
	assert.Equal(t, "StarvedStack", StarvedStack.String())
	assert.Equal(t, "ErrorKind(9)", ErrorKind(9).String())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, "leaf", KindOf(&leaf{}))
	assert.Equal(t, "String", KindOf(new(String)))
	assert.Equal(t, "nil", KindOf(nil))
	assert.Equal(t, "labeled", kindFor[labeled]())
}

func TestAs(t *testing.T) {
	var n Node = &leaf{3}

	l, ok := As[*leaf](n)
	require.True(t, ok)
	assert.Equal(t, 3, l.id)

	_, ok = As[*other](n)
	assert.False(t, ok)

	_, ok = As[*leaf](nil)
	assert.False(t, ok)
}
