package grammar

import (
	"errors"
	"strings"
	"testing"

	"github.com/dhamidi/pegast/peg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listGrammar = `
List       = "[" [ Item { "," Item } ] "]" .
Item       = ident | number | List .
ident      = letter { letter | digit } .
number     = digit { digit } .
letter     = "a" … "z" .
digit      = "0" … "9" .
WhiteSpace = " " | "\t" | "\n" .
`

func mustParse(t *testing.T, src string, opts ...Option) *Grammar {
	t.Helper()
	g, err := Parse("test.ebnf", strings.NewReader(src), opts...)
	require.NoError(t, err)
	return g
}

// matches reports whether the production named start matches all of src.
func matches(t *testing.T, g *Grammar, start, src string) bool {
	t.Helper()
	r, err := g.Rule(start)
	require.NoError(t, err)
	return peg.Parse(peg.NewInput(src), r, g.Whitespace(), func(peg.Range, string) {}, nil, nil)
}

func TestCompileAndMatch(t *testing.T) {
	g := mustParse(t, listGrammar)

	tests := []struct {
		input string
		want  bool
	}{
		{"[]", true},
		{"[a]", true},
		{"[ abc , 12, [x1] ]", true},
		{"[a b]", false},
		{"[a,]", false},
		{"[ab c]", false},
		{"[1a]", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, matches(t, g, "List", tt.input))
		})
	}
}

func TestLexicalProductionsKeepWhitespace(t *testing.T) {
	g := mustParse(t, listGrammar)

	assert.True(t, g.Lexical("ident"))
	assert.True(t, g.Lexical("WhiteSpace"))
	assert.False(t, g.Lexical("List"))
	assert.False(t, matches(t, g, "ident", "a b"))
	assert.True(t, matches(t, g, "ident", " ab "))
}

func TestLexicalAlternativesPreferLongest(t *testing.T) {
	g := mustParse(t, `
Op = op .
op = "<" | "<=" | "<<=" .
`)

	for _, in := range []string{"<", "<=", "<<="} {
		assert.True(t, matches(t, g, "Op", in), in)
	}
}

func TestUppercaseTokens(t *testing.T) {
	g := mustParse(t, `
Word = Letter { Letter } .
Letter = "a" … "z" .
`, WithUppercaseTokens())

	assert.True(t, g.Lexical("Word"))
	assert.True(t, matches(t, g, "Word", "abc"))
}

func TestCustomWhitespace(t *testing.T) {
	g := mustParse(t, `
Pair = "a" "b" .
blank = "_" .
`, WithWhitespace("blank"))

	require.NotNil(t, g.Whitespace())
	assert.Equal(t, "blank", g.Whitespace().Name())
	assert.True(t, matches(t, g, "Pair", "_a__b_"))
	assert.False(t, matches(t, g, "Pair", "a b"))
}

func TestNoWhitespaceProduction(t *testing.T) {
	g := mustParse(t, `Pair = "a" "b" .`)

	assert.Nil(t, g.Whitespace())
	assert.False(t, matches(t, g, "Pair", "a b"))
}

func TestUnknownProduction(t *testing.T) {
	_, err := Parse("test.ebnf", strings.NewReader(`Start = Missing .`))
	assert.ErrorIs(t, err, ErrUnknownProduction)

	g := mustParse(t, listGrammar)
	_, err = g.Rule("Nope")
	assert.ErrorIs(t, err, ErrUnknownProduction)
}

func TestNames(t *testing.T) {
	g := mustParse(t, listGrammar)

	assert.Equal(t, []string{"Item", "List", "WhiteSpace", "digit", "ident", "letter", "number"}, g.Names())
	assert.Len(t, g.Source(), 7)
}

func TestErrors(t *testing.T) {
	a, b := errors.New("a"), errors.New("b")

	_, err := Parse("bad.ebnf", strings.NewReader("A = . B = ( ."))
	require.Error(t, err)
	assert.NotEmpty(t, Errors(err))

	assert.Nil(t, Errors(nil))
	assert.Equal(t, []error{a}, Errors(a))
	assert.Equal(t, []error{a, b}, Errors(errors.Join(a, b)))
}
