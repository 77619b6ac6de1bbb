package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/risor-io/risordbg/internal/token"
)

// SyntaxError describes a single problem found while parsing.
type SyntaxError struct {
	Message  string
	File     string
	Position token.Position
	Source   string // text of the offending line
	Cause    error  // lexer error, if any
}

func (e *SyntaxError) Error() string {
	file := e.File
	if file == "" {
		file = "<input>"
	}
	return fmt.Sprintf("syntax error: %s:%d:%d: %s",
		file, e.Position.LineNumber(), e.Position.ColumnNumber(), e.Message)
}

func (e *SyntaxError) Unwrap() error { return e.Cause }

// Line returns the 1-indexed line of the error.
func (e *SyntaxError) Line() int { return e.Position.LineNumber() }

// FriendlyErrorMessage renders the error with the offending source line and
// a caret under the column.
func (e *SyntaxError) FriendlyErrorMessage() string {
	var b strings.Builder
	b.WriteString(e.Error())
	if e.Source != "" {
		col := e.Position.Column
		if col < 0 {
			col = 0
		}
		fmt.Fprintf(&b, "\n  %d | %s\n", e.Position.LineNumber(), e.Source)
		gutter := len(fmt.Sprintf("  %d | ", e.Position.LineNumber()))
		b.WriteString(strings.Repeat(" ", gutter+col))
		b.WriteString("^")
	}
	return b.String()
}

// newErrors aggregates the collected syntax errors into one error value.
func newErrors(errs []*SyntaxError) error {
	var result *multierror.Error
	for _, err := range errs {
		result = multierror.Append(result, err)
	}
	if result == nil {
		return nil
	}
	result.ErrorFormat = formatErrors
	return result
}

func formatErrors(errs []error) string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	parts := make([]string, 0, len(errs))
	for _, err := range errs {
		parts = append(parts, err.Error())
	}
	return fmt.Sprintf("%d syntax errors: %s", len(errs), strings.Join(parts, "; "))
}

// SyntaxErrors returns the individual syntax errors held by err.
func SyntaxErrors(err error) []*SyntaxError {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		var out []*SyntaxError
		for _, e := range merr.Errors {
			var serr *SyntaxError
			if errors.As(e, &serr) {
				out = append(out, serr)
			}
		}
		return out
	}
	var serr *SyntaxError
	if errors.As(err, &serr) {
		return []*SyntaxError{serr}
	}
	return nil
}
