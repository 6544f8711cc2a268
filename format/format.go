// Package format encodes concrete syntax trees for output.
package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/pegast/cst"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(root *cst.Node) error
}

// New returns the encoder registered under name: "json" or "tree".
func New(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "json":
		return NewJSONEncoder(w), nil
	case "tree":
		return NewLineEncoder(w), nil
	default:
		return nil, fmt.Errorf("unknown format %q", name)
	}
}
