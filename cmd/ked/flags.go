// ABOUTME: CLI flag parsing using stdlib flag package
// ABOUTME: Supports --version, --verbose, --log-file and --config

package main

import (
	"flag"
	"fmt"
	"io"
)

type cliArgs struct {
	version bool
	verbose bool
	logFile string
	config  string
}

// parseFlags parses argv (without the program name). Positional
// arguments are rejected: ked does not open files yet.
func parseFlags(argv []string, errOut io.Writer) (cliArgs, error) {
	var args cliArgs

	fs := flag.NewFlagSet("ked", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.BoolVar(&args.version, "version", false, "Show version and exit")
	fs.BoolVar(&args.verbose, "verbose", false, "Log debug messages (requires --log-file)")
	fs.StringVar(&args.logFile, "log-file", "", "Append diagnostics to this file")
	fs.StringVar(&args.config, "config", "", "Read settings from this YAML file only")

	if err := fs.Parse(argv); err != nil {
		return cliArgs{}, err
	}
	if fs.NArg() > 0 {
		return cliArgs{}, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	return args, nil
}
