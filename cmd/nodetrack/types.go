package main

import (
	"time"
	"unicode/utf8"

	"github.com/lukeod/nodetracker/tracker"
)

const (
	outputJSON = "json"
	outputRepr = "repr"
	outputAll  = "all"
)

// scriptExt is the extension picked up in directory mode.
const scriptExt = ".nts"

// maxErrorWidth bounds error strings in the summary table.
const maxErrorWidth = 50

// ScriptReport is the outcome of running a single script file.
type ScriptReport struct {
	InputFile  string                     `json:"inputFile"`
	Statements int                        `json:"statements"`
	Executed   int                        `json:"executed"`
	Final      *tracker.Snapshot[string]  `json:"final,omitempty"`
	Dumps      []tracker.Snapshot[string] `json:"dumps,omitempty"`
	ParseError string                     `json:"parseError,omitempty"`
	RunError   string                     `json:"runError,omitempty"`
}

// Passed reports whether the script parsed and every expectation held.
func (r *ScriptReport) Passed() bool {
	return r.ParseError == "" && r.RunError == ""
}

// DirResult holds the result for a single file within a directory scan.
type DirResult struct {
	FilePath   string
	Passed     bool
	Statements int
	Err        error
	Duration   time.Duration
}

// truncate shortens s to at most width runes for table readability.
func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	return string([]rune(s)[:width-3]) + "..."
}
