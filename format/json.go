package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/pegast/cst"
	"github.com/dhamidi/pegast/peg"
)

type JSONEncoder struct {
	w    io.Writer
	root *cst.Node
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(root *cst.Node) error {
	e.root = root
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(nodeToJSON(e.root), "", "  ")
}

type jsonNode struct {
	Kind     string      `json:"kind"`
	Span     jsonSpan    `json:"span"`
	Text     string      `json:"text,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

type jsonSpan struct {
	Start jsonPosition `json:"start"`
	End   jsonPosition `json:"end"`
}

type jsonPosition struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

func positionToJSON(p peg.Position) jsonPosition {
	return jsonPosition{Offset: p.Offset, Line: p.Line, Column: p.Column}
}

func nodeToJSON(n *cst.Node) *jsonNode {
	if n == nil {
		return nil
	}
	jn := &jsonNode{
		Kind: n.Rule,
		Span: jsonSpan{
			Start: positionToJSON(n.Range.Begin),
			End:   positionToJSON(n.Range.End),
		},
	}

	if n.IsLeaf() {
		jn.Text = n.Text()
	}

	if n.Children.Len() > 0 {
		jn.Children = make([]*jsonNode, n.Children.Len())
		for i, child := range n.Children.All() {
			jn.Children[i] = nodeToJSON(child)
		}
	}

	return jn
}
