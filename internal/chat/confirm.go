package chat

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// TerminalConfirmer asks the user to approve a dangerous operation with a
// [y/N] prompt. Anything other than an explicit yes declines.
type TerminalConfirmer struct {
	in  *LineReader
	out io.Writer
}

// NewTerminalConfirmer builds a confirmer sharing the assistant's line reader.
func NewTerminalConfirmer(in *LineReader, out io.Writer) *TerminalConfirmer {
	return &TerminalConfirmer{in: in, out: out}
}

// Confirm prints the action and reads the answer.
func (c *TerminalConfirmer) Confirm(_ context.Context, action string) (bool, error) {
	fmt.Fprintf(c.out, "%s\n%s ", warnStyle.Render("About to "+action+"."), promptStyle.Render("Proceed? [y/N]"))

	line, ok := c.in.ReadLine()
	if !ok {
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
