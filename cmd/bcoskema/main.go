// Package main provides the bcoskema CLI entrypoint.
//
// Usage:
//
//	bcoskema [--config FILE] [--log-level LEVEL] [--lang en|ja] <command> [options]
//
// Exit codes:
//   - 0: every document is valid
//   - 1: at least one document is invalid
//   - 2: usage or configuration error
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/biocompute-objects/bcoskema/cli/cmd"
	"github.com/biocompute-objects/bcoskema/schema"
)

// commit is set via ldflags at build time.
var commit = "unknown"

func main() {
	app := cmd.App(fmt.Sprintf("%s (contract %s, commit: %s)", version, schema.SchemaVersion, commit))
	app.ExitErrHandler = exitErrHandler
	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}

const version = "0.1.0"

// exitErrHandler preserves exit codes from cli.Exit.
func exitErrHandler(_ *cli.Context, err error) {
	if err == nil {
		return
	}
	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		msg := exitCoder.Error()
		// cli.Exit("", N).Error() is empty; only real messages are printed.
		if msg != "" && msg != fmt.Sprintf("exit status %d", code) {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(code)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
