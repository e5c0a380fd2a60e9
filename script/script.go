// Package script parses and runs tracker scripts: short, line-oriented
// programs that drive a tracker.NodeTracker[string] and check its state.
//
//	-- build ["c", "a", "b"]
//	add 0 "a"
//	add 1 "b"
//	add 0 "c"
//	expect nodes ["c", "a", "b"]
//	helper "h"; unset
//	expect active false
package script

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/cockroachdb/errors"

	scriptlexer "github.com/lukeod/nodetracker/script/lexer"
)

var scriptParser = participle.MustBuild[Script](
	participle.Lexer(&scriptlexer.LexerDefinition{}),
	participle.UseLookahead(2),
)

// Script is a parsed tracker script.
type Script struct {
	Pos lexer.Position

	Statements []*Statement `parser:"( @@ \";\"? )*"`
}

// Statement is exactly one of its fields.
type Statement struct {
	Pos lexer.Position

	Add    *Add    `parser:"  @@"`
	Remove *Remove `parser:"| @@"`
	Helper *Helper `parser:"| @@"`
	Unset  *Unset  `parser:"| @@"`
	Expect *Expect `parser:"| @@"`
	Dump   *Dump   `parser:"| @@"`
}

// Add inserts Node at Index.
type Add struct {
	Pos lexer.Position

	Index Int    `parser:"\"add\":Ident @Int"`
	Node  string `parser:"@( Text | Ident )"`
}

// Remove deletes the node at Index.
type Remove struct {
	Pos lexer.Position

	Index Int `parser:"\"remove\":Ident @Int"`
}

// Helper sets the helper node.
type Helper struct {
	Pos lexer.Position

	Node string `parser:"\"helper\":Ident @( Text | Ident )"`
}

// Unset deactivates the helper node.
type Unset struct {
	Pos lexer.Position

	Keyword string `parser:"@\"unset\":Ident"`
}

// Dump records a snapshot of the tracker.
type Dump struct {
	Pos lexer.Position

	Keyword string `parser:"@\"dump\":Ident"`
}

// Expect checks one aspect of the tracker state. Exactly one field is set.
type Expect struct {
	Pos lexer.Position

	Nodes  *NodeList `parser:"\"expect\":Ident ( \"nodes\":Ident @@"`
	Helper *string   `parser:"| \"helper\":Ident @( Text | Ident )"`
	Active *Bool     `parser:"| \"active\":Ident @( \"true\":Ident | \"false\":Ident )"`
	Len    *Int      `parser:"| \"len\":Ident @Int )"`
}

// NodeList is a bracketed, comma separated list of node values.
type NodeList struct {
	Pos lexer.Position

	Open   string   `parser:"@\"[\""`
	Values []string `parser:"( @( Text | Ident ) ( \",\" @( Text | Ident ) )* \",\"? )? \"]\""`
}

// Int captures a decimal integer literal. Leading zeros do not select
// another base.
type Int int

// Capture implements participle.Capture.
func (i *Int) Capture(values []string) error {
	n, err := strconv.Atoi(values[0])
	if err != nil {
		return errors.Wrapf(err, "integer %q", values[0])
	}
	*i = Int(n)
	return nil
}

// Bool captures the literals true and false.
type Bool bool

// Capture implements participle.Capture.
func (b *Bool) Capture(values []string) error {
	*b = values[0] == "true"
	return nil
}

// Parse reads a script from r. filename is used in positions and errors.
func Parse(filename string, r io.Reader) (*Script, error) {
	s, err := scriptParser.Parse(filename, r)
	if err != nil {
		return nil, errors.Wrap(err, "parse script")
	}
	return s, nil
}

// ParseString parses src as a script.
func ParseString(filename, src string) (*Script, error) {
	return Parse(filename, strings.NewReader(src))
}

// ParseFile opens and parses the script at path.
func ParseFile(path string) (*Script, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open script")
	}
	defer r.Close()

	s, err := Parse(path, r)
	if err != nil {
		return nil, errors.Wrapf(err, "script file %q", path)
	}
	return s, nil
}
