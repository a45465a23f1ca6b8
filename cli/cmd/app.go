package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/procwrap/types"
)

// NewApp returns the process-wrapper application.
func NewApp(commit string) *cli.App {
	return &cli.App{
		Name:      "process-wrapper",
		Usage:     "Run a compiler, filtering its diagnostics and normalizing its exit code",
		UsageText: "process-wrapper [options] -- <executable> [args...]",
		Version:   fmt.Sprintf("%s (commit: %s)", types.Version, commit),

		HideHelpCommand: true,
		// Values such as --subst pairs may contain commas.
		DisableSliceFlagSeparator: true,

		Flags:  WrapFlags(),
		Action: wrapAction,
	}
}
