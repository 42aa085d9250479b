package chat

import (
	"bufio"
	"io"
)

// LineReader reads input lines. The assistant and the confirmation prompt
// share one instance so buffered input is never split between them.
type LineReader struct {
	scanner *bufio.Scanner
}

// NewLineReader wraps r, normally os.Stdin.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{scanner: bufio.NewScanner(r)}
}

// ReadLine returns the next line. ok is false on EOF or read error.
func (l *LineReader) ReadLine() (string, bool) {
	if !l.scanner.Scan() {
		return "", false
	}
	return l.scanner.Text(), true
}
