package lsp

import (
	"strings"
	"testing"

	"github.com/dhamidi/pegast/cst"
	"github.com/dhamidi/pegast/grammar"
	"github.com/dhamidi/pegast/peg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const words = `
Words      = { word } .
word       = "a" … "z" { "a" … "z" } .
WhiteSpace = " " | "\n" .
`

func newServer(t *testing.T) *Server {
	t.Helper()
	g, err := grammar.Parse("words.ebnf", strings.NewReader(words))
	require.NoError(t, err)
	p, err := cst.NewParser(g, "Words")
	require.NoError(t, err)
	return NewServer(p, "test")
}

type notification struct {
	method string
	params protocol.PublishDiagnosticsParams
}

func recorder(t *testing.T, sent *[]notification) *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			p, ok := params.(protocol.PublishDiagnosticsParams)
			require.True(t, ok)
			*sent = append(*sent, notification{method: method, params: p})
		},
	}
}

func TestDiagnoseClean(t *testing.T) {
	s := newServer(t)

	diags := s.Diagnose("file:///tmp/a.txt", "abc def\nghi")
	assert.NotNil(t, diags)
	assert.Empty(t, diags)
}

func TestDiagnoseSyntaxError(t *testing.T) {
	s := newServer(t)

	diags := s.Diagnose("file:///tmp/a.txt", "abc\nde 1")
	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, protocol.Position{Line: 1, Character: 3}, d.Range.Start)
	assert.Equal(t, protocol.DiagnosticSeverityError, *d.Severity)
	assert.Equal(t, "pegast", *d.Source)
	assert.Contains(t, d.Message, "syntax error")
}

func TestToPositionCountsUTF16(t *testing.T) {
	text := "x\n\U0001F600\u00e9!"
	in := peg.NewInput(text)

	// The emoji takes two UTF-16 code units, é one.
	pos := toPosition(text, in.Position(len(text)-1))
	assert.Equal(t, protocol.Position{Line: 1, Character: 3}, pos)

	assert.Equal(t, protocol.Position{Line: 0, Character: 0}, toPosition(text, in.Position(0)))
}

func TestDocumentLifecycle(t *testing.T) {
	s := newServer(t)
	var sent []notification
	ctx := recorder(t, &sent)
	uri := protocol.DocumentUri("file:///tmp/doc.txt")

	require.NoError(t, s.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: "ok 1"},
	}))
	require.NoError(t, s.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "ok"}},
	}))
	require.NoError(t, s.textDocumentDidSave(ctx, &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))
	require.NoError(t, s.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))

	require.Len(t, sent, 4)
	for _, n := range sent {
		assert.Equal(t, protocol.ServerTextDocumentPublishDiagnostics, n.method)
		assert.Equal(t, uri, n.params.URI)
	}
	assert.Len(t, sent[0].params.Diagnostics, 1)
	assert.Empty(t, sent[1].params.Diagnostics)
	assert.Empty(t, sent[2].params.Diagnostics)
	assert.Empty(t, sent[3].params.Diagnostics)

	// Saving a closed document without text publishes nothing.
	require.NoError(t, s.textDocumentDidSave(ctx, &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))
	assert.Len(t, sent, 4)
}

func TestURIToPath(t *testing.T) {
	assert.Equal(t, "/tmp/a b.txt", uriToPath("file:///tmp/a%20b.txt"))
	assert.Equal(t, "untitled:1", uriToPath("untitled:1"))
}
