// Package cmd provides the process-wrapper command line.
package cmd

import "github.com/urfave/cli/v2"

// Flag names shared by the action and the profile merge.
const (
	flagSubst                           = "subst"
	flagEnvFile                         = "env-file"
	flagArgFile                         = "arg-file"
	flagStableStatusFile                = "stable-status-file"
	flagVolatileStatusFile              = "volatile-status-file"
	flagStdoutFile                      = "stdout-file"
	flagStderrFile                      = "stderr-file"
	flagOutputFile                      = "output-file"
	flagTouchFile                       = "touch-file"
	flagCopyOutput                      = "copy-output"
	flagDiagnosticFormat                = "diagnostic-format"
	flagStopAfterMetadata               = "stop-after-metadata"
	flagRequireExplicitUnstableFeatures = "require-explicit-unstable-features"
	flagConfig                          = "config"
	flagReport                          = "report"
	flagReportFormat                    = "report-format"
)

// WrapFlags returns the wrapper's flags. The child command follows "--".
func WrapFlags() []cli.Flag {
	return []cli.Flag{
		// Child invocation
		&cli.StringSliceFlag{
			Name:  flagSubst,
			Usage: "Substitution pair key=value; ${key} is replaced in arguments and environment",
		},
		&cli.StringSliceFlag{
			Name:  flagEnvFile,
			Usage: "File of KEY=VALUE lines forming the child environment (repeatable, later wins)",
		},
		&cli.StringSliceFlag{
			Name:  flagArgFile,
			Usage: "File whose lines are appended to the child arguments (repeatable)",
		},
		&cli.StringFlag{
			Name:  flagStableStatusFile,
			Usage: "Stable status file used to stamp {KEY} in environment values",
		},
		&cli.StringFlag{
			Name:  flagVolatileStatusFile,
			Usage: "Volatile status file used to stamp {KEY} in environment values",
		},
		&cli.BoolFlag{
			Name:  flagRequireExplicitUnstableFeatures,
			Usage: "Append an empty -Zallow-features= unless one is already given",
		},
		// Output handling
		&cli.StringFlag{
			Name:  flagStdoutFile,
			Usage: "Redirect child stdout to this file",
		},
		&cli.StringFlag{
			Name:  flagStderrFile,
			Usage: "Write forwarded diagnostics to this file instead of stderr",
		},
		&cli.StringFlag{
			Name:  flagOutputFile,
			Usage: "Also write every forwarded diagnostic to this file",
		},
		&cli.StringFlag{
			Name:  flagDiagnosticFormat,
			Usage: "Parse child stderr as JSON diagnostics and forward them as: json or rendered",
		},
		&cli.BoolFlag{
			Name:  flagStopAfterMetadata,
			Usage: "Kill the child once it has emitted its metadata artifact",
		},
		// Post-success actions
		&cli.StringFlag{
			Name:  flagTouchFile,
			Usage: "Create this file after the child succeeds",
		},
		&cli.StringFlag{
			Name:  flagCopyOutput,
			Usage: "Copy source to destination after the child succeeds (source,destination)",
		},
		// Wrapper
		&cli.StringFlag{
			Name:  flagConfig,
			Usage: "YAML profile providing defaults for these flags",
		},
		&cli.StringFlag{
			Name:  flagReport,
			Usage: "Write an invocation report to this path (- for stderr)",
		},
		&cli.StringFlag{
			Name:  flagReportFormat,
			Usage: "Invocation report encoding: json or msgpack",
		},
	}
}
