package inventory

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// LineReader shows a prompt and returns the next operator line without its
// line terminator. It returns io.EOF once input is exhausted.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// PromptReader is a LineReader over a stream, writing prompts to out.
type PromptReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewPromptReader creates a PromptReader.
func NewPromptReader(in io.Reader, out io.Writer) *PromptReader {
	return &PromptReader{scanner: bufio.NewScanner(in), out: out}
}

// ReadLine implements LineReader. Surrounding whitespace is trimmed.
func (r *PromptReader) ReadLine(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", fmt.Errorf("inventory: read input: %w", err)
		}
		fmt.Fprintln(r.out)
		return "", io.EOF
	}
	return strings.TrimSpace(r.scanner.Text()), nil
}
