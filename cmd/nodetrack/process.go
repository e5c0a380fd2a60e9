package main

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"runtime/debug"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/repr"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/lukeod/nodetracker/script"
	"github.com/lukeod/nodetracker/tracker"
)

// runScriptFile parses the script at path and runs it against a fresh tracker.
// Parse and run failures are recorded in the report, not returned.
func runScriptFile(log *zap.SugaredLogger, path string) *ScriptReport {
	report := &ScriptReport{InputFile: path}

	s, err := script.ParseFile(path)
	if err != nil {
		log.Warnw("parse failed", "file", path, "error", err)
		report.ParseError = err.Error()
		return report
	}
	report.Statements = len(s.Statements)

	r := script.NewRunner(tracker.New[string](), script.WithLogger(log.Named("runner")))
	if err := r.Run(s); err != nil {
		log.Warnw("run failed", "file", path, "error", err)
		report.RunError = err.Error()
	}
	report.Executed = r.Executed()
	final := r.Tracker().Snapshot()
	report.Final = &final
	report.Dumps = r.Snapshots()
	return report
}

// writeReport prints report to w in the requested output format.
func writeReport(w io.Writer, report *ScriptReport, output string) error {
	if output == outputJSON || output == outputAll {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return errors.Wrap(err, "marshal report")
		}
		if _, err := fmt.Fprintln(w, string(data)); err != nil {
			return errors.Wrap(err, "write report")
		}
	}
	if output == outputRepr || output == outputAll {
		repr.New(w, repr.Indent("  "), repr.OmitEmpty(true)).Println(report)
	}
	return nil
}

// processSingleFile runs one script and prints its report. It returns
// whether the script passed.
func processSingleFile(log *zap.SugaredLogger, w io.Writer, path, output string) (bool, error) {
	log.Infow("running script", "file", path)
	report := runScriptFile(log, path)
	if err := writeReport(w, report, output); err != nil {
		return false, err
	}
	return report.Passed(), nil
}

// runForDir runs one script for directory mode. A panic is recorded as the
// file's error so the scan can continue.
func runForDir(log *zap.SugaredLogger, path string) (result DirResult) {
	result = DirResult{FilePath: path}
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Errorw("panic recovered", "file", path, "panic", r, "stack", string(debug.Stack()))
			result.Passed = false
			result.Err = errors.Newf("panic: %v", r)
			result.Duration = time.Since(start)
		}
	}()

	report := runScriptFile(log, path)
	result.Statements = report.Statements
	result.Passed = report.Passed()
	switch {
	case report.ParseError != "":
		result.Err = errors.New(report.ParseError)
	case report.RunError != "":
		result.Err = errors.New(report.RunError)
	}
	result.Duration = time.Since(start)
	return result
}

// processDirectory walks dirPath for scripts, runs each and returns the results in walk order.
func processDirectory(log *zap.SugaredLogger, dirPath string) ([]DirResult, error) {
	log.Infow("processing directory", "dir", dirPath)
	var results []DirResult

	err := filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), scriptExt) {
			return nil
		}
		log.Debugw("found script", "file", path)
		results = append(results, runForDir(log, path))
		return nil
	})
	if err != nil {
		return results, errors.Wrapf(err, "walk directory %q", dirPath)
	}

	log.Infow("finished processing", "scripts", len(results))
	return results, nil
}

// printSummary writes a table of results to w.
func printSummary(w io.Writer, dirPath string, results []DirResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "File\tPassed\tStatements\tError\tTime (ms)")
	fmt.Fprintln(tw, "----\t------\t----------\t-----\t---------")

	for _, res := range results {
		errStr := "nil"
		if res.Err != nil {
			// only the first line, expectation diffs span several
			errStr = truncate(strings.SplitN(res.Err.Error(), "\n", 2)[0], maxErrorWidth)
		}
		relPath, err := filepath.Rel(dirPath, res.FilePath)
		if err != nil {
			relPath = res.FilePath
		}
		fmt.Fprintf(tw, "%s\t%t\t%d\t%s\t%d\n",
			relPath,
			res.Passed,
			res.Statements,
			errStr,
			res.Duration.Milliseconds(),
		)
	}
	return tw.Flush()
}

// allPassed reports whether every result passed.
func allPassed(results []DirResult) bool {
	for _, res := range results {
		if !res.Passed {
			return false
		}
	}
	return true
}
