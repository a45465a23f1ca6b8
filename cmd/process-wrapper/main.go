// Package main provides the process-wrapper entrypoint.
//
// Usage:
//
//	process-wrapper [options] -- <executable> [args...]
//
// Exit codes:
//   - the child's normalized exit code when the child ran to completion
//   - 0 when the wrapper killed the child after its metadata artifact
//   - 1 for any wrapper error (bad options, spawn failure, malformed
//     diagnostics, failed post-success action)
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/procwrap/cli/cmd"
)

// Commit is set via ldflags at build time.
var commit = "unknown"

func main() {
	app := cmd.NewApp(commit)
	app.ExitErrHandler = exitErrHandler

	if err := app.Run(os.Args); err != nil {
		// ExitErrHandler already handled the exit for cli.ExitCoder errors.
		// This branch handles unexpected errors that weren't wrapped.
		os.Exit(1)
	}
}

// exitErrHandler handles errors from the CLI, preserving exit codes from cli.Exit().
func exitErrHandler(_ *cli.Context, err error) {
	if err == nil {
		return
	}
	code, msg := exitCodeFor(err)
	if msg != "" {
		fmt.Fprintln(os.Stderr, msg)
	}
	os.Exit(code)
}

// exitCodeFor maps an action error to the process exit code and the message
// to print, if any.
func exitCodeFor(err error) (int, string) {
	// Check for ExitCoder (from cli.Exit), handles wrapped errors
	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		msg := exitCoder.Error()

		// cli.Exit("", N).Error() returns "exit status N", so skip those
		if msg == "" || msg == fmt.Sprintf("exit status %d", code) {
			return code, ""
		}
		return code, msg
	}

	return 1, fmt.Sprintf("process wrapper error: %v", err)
}
