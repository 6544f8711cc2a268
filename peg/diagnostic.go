package peg

import "fmt"

// Diagnostic is a message attached to a range of the input.
type Diagnostic struct {
	Range   Range
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Range, d.Message)
}

// Diagnostics collects reported diagnostics in order.
// Its Report method can be used as an ErrorReporter.
type Diagnostics []Diagnostic

func (d *Diagnostics) Report(r Range, message string) {
	*d = append(*d, Diagnostic{Range: r, Message: message})
}

// Messages returns the message of every diagnostic.
func (d Diagnostics) Messages() []string {
	msgs := make([]string, len(d))
	for i, diag := range d {
		msgs[i] = diag.Message
	}
	return msgs
}
