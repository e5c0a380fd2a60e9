package script

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/cockroachdb/errors"
	"github.com/pmezard/go-difflib/difflib"
)

var (
	// ErrExpectationFailed is matched by every *ExpectationError.
	ErrExpectationFailed = errors.New("expectation failed")
	// ErrEmptyStatement is returned for a statement with no alternative set.
	ErrEmptyStatement = errors.New("empty statement")
)

// ExpectationError describes an expect statement that did not hold.
type ExpectationError struct {
	Pos     lexer.Position
	Subject string // nodes, helper, active or len
	Want    string
	Got     string
	Diff    string // unified diff of the node lists, only for nodes
}

func (e *ExpectationError) Error() string {
	msg := fmt.Sprintf("%s: expect %s: want %s, got %s", e.Pos, e.Subject, e.Want, e.Got)
	if e.Diff != "" {
		msg += "\n" + e.Diff
	}
	return msg
}

// Unwrap lets errors.Is match ErrExpectationFailed.
func (e *ExpectationError) Unwrap() error {
	return ErrExpectationFailed
}

// nodesDiff renders want and got one node per line as a unified diff.
func nodesDiff(want, got []string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        lines(want),
		B:        lines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  1,
	})
	if err != nil {
		return ""
	}
	return strings.TrimRight(diff, "\n")
}

func lines(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%q\n", v)
	}
	return out
}

// formatNodes renders values the way they are written in a script.
func formatNodes(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
