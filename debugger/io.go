package debugger

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// ReadFunc shows a prompt and returns one line of input without the line
// terminator. It returns io.EOF when there is no more input.
type ReadFunc func(prompt string) (string, error)

// WriteFunc writes output text.
type WriteFunc func(text string) error

// NewReader returns a ReadFunc that prompts on w and reads lines from r.
func NewReader(r io.Reader, w io.Writer) ReadFunc {
	scanner := bufio.NewScanner(r)
	return func(prompt string) (string, error) {
		if prompt != "" {
			if _, err := io.WriteString(w, prompt); err != nil {
				return "", err
			}
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		return strings.TrimRight(scanner.Text(), "\r"), nil
	}
}

// NewWriter returns a WriteFunc that writes to w.
func NewWriter(w io.Writer) WriteFunc {
	return func(text string) error {
		_, err := fmt.Fprint(w, text)
		return err
	}
}

// StdinRead reads commands from standard input.
func StdinRead() ReadFunc {
	return NewReader(os.Stdin, os.Stdout)
}

// StdoutWrite writes output to standard output.
func StdoutWrite() WriteFunc {
	return NewWriter(os.Stdout)
}

// IsTerminal reports whether standard output is a terminal, which is when
// color is enabled by default.
func IsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
