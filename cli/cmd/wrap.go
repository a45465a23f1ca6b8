package cmd

import (
	"context"
	"fmt"
	goruntime "runtime"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/procwrap/cli/config"
	"github.com/pithecene-io/procwrap/consolidate"
	"github.com/pithecene-io/procwrap/iox"
	"github.com/pithecene-io/procwrap/log"
	"github.com/pithecene-io/procwrap/metrics"
	"github.com/pithecene-io/procwrap/options"
	"github.com/pithecene-io/procwrap/runtime"
)

// wrapAction runs the child and exits with its normalized exit code.
// Any wrapper failure is returned as an error and becomes exit code 1.
func wrapAction(c *cli.Context) error {
	cfg, err := loadProfile(c)
	if err != nil {
		return err
	}

	inv, err := options.Resolve(resolveValues(c, cfg))
	if err != nil {
		return err
	}

	logger := log.NewLogger(log.Options{
		Executable: inv.Executable,
		Debug:      log.DebugRequested() || cfg.Debug,
	})
	defer iox.DiscardErr(logger.Sync)

	collector := metrics.NewCollector(string(inv.Format), goruntime.GOOS)

	supervisor, err := runtime.NewSupervisor(&runtime.SupervisorConfig{
		Invocation: inv,
		Consolidator: consolidate.Default(consolidate.Config{
			Logger:    logger,
			Collector: collector,
		}),
		Stderr:    c.App.ErrWriter,
		Logger:    logger,
		Collector: collector,
	})
	if err != nil {
		return err
	}

	result, runErr := supervisor.Execute(context.Background())

	exitCode := runtime.ExitCodeFailure
	if runErr == nil {
		exitCode = result.ExitCode
	}

	if path := stringOr(c, flagReport, cfg.Report); path != "" {
		report := runtime.BuildReport(inv, result, runErr, collector.Snapshot(), exitCode)
		if err := runtime.WriteReport(report, path, stringOr(c, flagReportFormat, cfg.ReportFormat)); err != nil {
			logger.Warn("failed to write invocation report", map[string]any{"error": err.Error()})
		}
	}

	if runErr != nil {
		return runErr
	}
	if exitCode == runtime.ExitCodeSuccess {
		return nil
	}
	return cli.Exit("", exitCode)
}

// loadProfile loads the --config profile, or returns an empty one.
func loadProfile(c *cli.Context) (*config.Config, error) {
	path := c.String(flagConfig)
	if path == "" {
		return &config.Config{}, nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// resolveValues merges flags over the profile.
func resolveValues(c *cli.Context, cfg *config.Config) options.Values {
	return options.Values{
		Command:      c.Args().Slice(),
		Subst:        c.StringSlice(flagSubst),
		ProfileSubst: cfg.Subst,

		EnvFiles:           c.StringSlice(flagEnvFile),
		ProfileEnv:         cfg.Env,
		StableStatusFile:   c.String(flagStableStatusFile),
		VolatileStatusFile: c.String(flagVolatileStatusFile),

		ArgFiles: c.StringSlice(flagArgFile),

		StdoutFile: c.String(flagStdoutFile),
		StderrFile: c.String(flagStderrFile),
		OutputFile: c.String(flagOutputFile),
		TouchFile:  c.String(flagTouchFile),
		CopyOutput: c.String(flagCopyOutput),

		DiagnosticFormat:                stringOr(c, flagDiagnosticFormat, cfg.DiagnosticFormat),
		StopAfterMetadata:               boolOr(c, flagStopAfterMetadata, cfg.StopAfterMetadata),
		RequireExplicitUnstableFeatures: boolOr(c, flagRequireExplicitUnstableFeatures, cfg.RequireExplicitUnstableFeatures),
	}
}

func stringOr(c *cli.Context, name, fallback string) string {
	if c.IsSet(name) {
		return c.String(name)
	}
	return fallback
}

func boolOr(c *cli.Context, name string, fallback bool) bool {
	if c.IsSet(name) {
		return c.Bool(name)
	}
	return fallback
}
