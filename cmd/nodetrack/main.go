package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("nodetrack", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	scriptPath := flags.StringP("script", "s", "", "Path to the script to run")
	dirPath := flags.StringP("dir", "d", "", "Directory to scan recursively for *"+scriptExt+" scripts")
	outputType := flags.StringP("output", "o", outputAll, "Type of output for --script: json, repr, or all")
	verbose := flags.BoolP("verbose", "v", false, "Log every executed statement")

	if err := flags.Parse(args); err != nil {
		return exitUsage
	}

	if (*scriptPath == "") == (*dirPath == "") {
		fmt.Fprintln(stderr, "Error: exactly one of --script or --dir is required")
		flags.PrintDefaults()
		return exitUsage
	}
	if *outputType != outputJSON && *outputType != outputRepr && *outputType != outputAll {
		fmt.Fprintf(stderr, "Error: invalid --output type %q. Must be 'json', 'repr', or 'all'\n", *outputType)
		return exitUsage
	}

	log, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintf(stderr, "Error: cannot initialize logger: %v\n", err)
		return exitFailed
	}
	defer log.Sync() //nolint:errcheck // nothing useful to do on exit

	if *scriptPath != "" {
		passed, err := processSingleFile(log, stdout, *scriptPath, *outputType)
		if err != nil {
			log.Errorw("cannot write report", "error", err)
			return exitFailed
		}
		if !passed {
			return exitFailed
		}
		return exitOK
	}

	results, err := processDirectory(log, *dirPath)
	if err != nil {
		log.Errorw("directory scan failed", "error", err)
		return exitFailed
	}
	if len(results) == 0 {
		log.Infow("no scripts found", "dir", *dirPath)
		return exitOK
	}
	if err := printSummary(stdout, *dirPath, results); err != nil {
		log.Errorw("cannot write summary", "error", err)
		return exitFailed
	}
	if !allPassed(results) {
		return exitFailed
	}
	return exitOK
}

// newLogger builds a development logger writing to stderr. Debug output is
// only enabled with verbose.
func newLogger(verbose bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar().Named("nodetrack"), nil
}
