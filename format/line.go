package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/pegast/cst"
)

// LineEncoder writes one line per node, indented by depth:
//
//	Assign	1:1-1:7
//	  name	1:1-1:2	"x"
type LineEncoder struct {
	w    io.Writer
	root *cst.Node
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(root *cst.Node) error {
	e.root = root
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	if e.root == nil {
		return nil, nil
	}
	e.root.Walk(func(n *cst.Node, depth int) bool {
		fmt.Fprintf(&sb, "%s%s\t%s-%s", strings.Repeat("  ", depth), n.Rule, n.Range.Begin, n.Range.End)
		if n.IsLeaf() {
			fmt.Fprintf(&sb, "\t%s", strconv.Quote(n.Text()))
		}
		sb.WriteByte('\n')
		return true
	})
	return []byte(sb.String()), nil
}
