package runtime

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pithecene-io/procwrap/consolidate"
	"github.com/pithecene-io/procwrap/iox"
	"github.com/pithecene-io/procwrap/log"
	"github.com/pithecene-io/procwrap/metrics"
	"github.com/pithecene-io/procwrap/types"
)

// SupervisorConfig configures a single invocation.
type SupervisorConfig struct {
	// Invocation is the resolved child invocation.
	Invocation *types.Invocation
	// Consolidator rewrites child arguments before spawn.
	// If nil, consolidate.Default is used.
	Consolidator consolidate.Consolidator
	// ChildFactory overrides child creation (for testing).
	// If nil, uses NewChildManager.
	ChildFactory ChildFactory
	// ExitInterpreter overrides exit normalization (for testing).
	// If nil, uses DefaultExitInterpreter.
	ExitInterpreter ExitInterpreter
	// Stderr receives forwarded diagnostics when the invocation has no
	// stderr file. If nil, os.Stderr is used.
	Stderr io.Writer
	// Logger is the wrapper's own logger. If nil, nothing is logged.
	Logger *log.Logger
	// Collector records invocation metrics. May be nil.
	Collector *metrics.Collector
}

// Result is the outcome of a completed invocation.
type Result struct {
	// ExitCode is the normalized exit code.
	ExitCode int
	// Status is the platform-reported child status.
	Status ExitStatus
	// Killed is true when the wrapper killed the child after the metadata
	// artifact was produced.
	Killed bool
	// MetadataEmitted is true when the metadata artifact record was seen.
	MetadataEmitted bool
	// UnifiedDir is the unified dependency directory used, if any.
	// It no longer exists once Execute returns.
	UnifiedDir string
	// Duration is the total invocation duration.
	Duration time.Duration
}

// Success reports whether the normalized exit code is zero.
func (r *Result) Success() bool {
	return r.ExitCode == ExitCodeSuccess
}

// Supervisor owns one child process end to end.
type Supervisor struct {
	config       *SupervisorConfig
	consolidator consolidate.Consolidator
	interpreter  ExitInterpreter
	logger       *log.Logger
}

// NewSupervisor creates a new supervisor.
// Returns error if the invocation is invalid.
func NewSupervisor(config *SupervisorConfig) (*Supervisor, error) {
	if config.Invocation == nil {
		return nil, fmt.Errorf("invalid invocation: missing")
	}
	if err := config.Invocation.Validate(); err != nil {
		return nil, fmt.Errorf("invalid invocation: %w", err)
	}

	s := &Supervisor{
		config:       config,
		consolidator: config.Consolidator,
		interpreter:  config.ExitInterpreter,
		logger:       config.Logger,
	}
	if s.logger == nil {
		s.logger = log.NewNop()
	}
	if s.consolidator == nil {
		s.consolidator = consolidate.Default(consolidate.Config{
			Logger:    s.logger,
			Collector: config.Collector,
		})
	}
	if s.interpreter == nil {
		s.interpreter = DefaultExitInterpreter()
	}
	return s, nil
}

// Execute runs the invocation end to end.
//
// Execution flow:
//  1. Consolidate dependency search paths
//  2. Open diagnostic sinks and spawn the child
//  3. Classify child stderr until end of stream or the metadata artifact
//  4. Kill the child on early termination, then reap it
//  5. Normalize the exit code
//  6. On success, run post-success actions
//
// The unified dependency directory is removed on every return path.
// Any returned error is fatal; the child's own failure is reported through
// Result.ExitCode instead.
func (s *Supervisor) Execute(ctx context.Context) (*Result, error) {
	start := time.Now()
	inv := s.config.Invocation
	collector := s.config.Collector

	consolidated, err := s.consolidator.Consolidate(inv.Args)
	guard := NewTempDirGuard(consolidated.UnifiedDir)
	defer guard.Release()
	if err != nil {
		return nil, wrapErr(ErrorConsolidation, "failed to consolidate dependency search paths", err)
	}

	sinks, err := s.openSinks()
	if err != nil {
		return nil, wrapErr(ErrorSpawn, "failed to open diagnostic sinks", err)
	}
	defer sinks.close()

	childConfig := &ChildConfig{
		Executable: inv.Executable,
		Args:       consolidated.Args,
		Env:        inv.Environ(),
		StdoutFile: inv.StdoutFile,
	}
	if s.logger.DebugEnabled() {
		s.logger.Debug("resolved child invocation", map[string]any{
			"executable":  childConfig.Executable,
			"args":        childConfig.Args,
			"env":         childConfig.Env,
			"stdout_file": inv.StdoutFile,
			"stderr_file": inv.StderrFile,
			"output_file": inv.OutputFile,
			"format":      string(inv.Format),
			"stop_early":  inv.StopAfterMetadata,
			"unified_dir": consolidated.UnifiedDir,
		})
	}

	var child Child
	if s.config.ChildFactory != nil {
		child = s.config.ChildFactory(childConfig)
	} else {
		child = NewChildManager(childConfig)
	}

	if err := child.Start(ctx); err != nil {
		collector.IncChildLaunchFailure()
		return nil, wrapErr(ErrorSpawn, "failed to start child process", err)
	}
	collector.IncChildLaunchSuccess()

	classifier := NewClassifier(inv.Format, inv.StopAfterMetadata, collector)
	processor := NewOutputProcessor(child.Stderr(), sinks.stderr, sinks.output, classifier.Classify, collector)
	terminated, streamErr := processor.Run()

	if streamErr != nil {
		// Nothing else will drain the pipe; don't leave the child behind.
		if err := child.Kill(); err != nil {
			s.logger.Warn("failed to kill child after stream error", map[string]any{"error": err.Error()})
		}
		_, _ = child.Wait()
		return nil, wrapErr(ErrorStream, "failed to process stderr", streamErr)
	}

	killed := false
	if terminated {
		// Advisory: the child may already be exiting on its own.
		if err := child.Kill(); err != nil {
			s.logger.Warn("failed to kill child after metadata", map[string]any{"error": err.Error()})
		}
		killed = true
		collector.IncChildKilled()
	}

	status, err := child.Wait()
	if err != nil {
		return nil, wrapErr(ErrorSpawn, "failed to wait for child process", err)
	}

	result := &Result{
		ExitCode:        s.interpreter.Normalize(status, killed),
		Status:          status,
		Killed:          killed,
		MetadataEmitted: classifier.MetadataEmitted(),
		UnifiedDir:      consolidated.UnifiedDir,
	}

	s.logger.Debug("child exited", map[string]any{
		"status":    status.Description,
		"killed":    killed,
		"exit_code": result.ExitCode,
	})

	if result.Success() {
		if err := runPostSuccess(inv); err != nil {
			return nil, wrapErr(ErrorPostSuccess, "post-success action failed", err)
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}

// diagnosticSinks are the destinations of forwarded lines.
type diagnosticSinks struct {
	stderr io.Writer
	output io.Writer
	files  []*os.File
}

func (d *diagnosticSinks) close() {
	for _, f := range d.files {
		iox.DiscardClose(f)
	}
}

// openSinks opens the stderr and output files, creating or truncating them.
func (s *Supervisor) openSinks() (*diagnosticSinks, error) {
	inv := s.config.Invocation
	sinks := &diagnosticSinks{stderr: s.config.Stderr}
	if sinks.stderr == nil {
		sinks.stderr = os.Stderr
	}

	if inv.StderrFile != "" {
		f, err := createTruncate(inv.StderrFile)
		if err != nil {
			return nil, fmt.Errorf("unable to open stderr file %s: %w", inv.StderrFile, err)
		}
		sinks.files = append(sinks.files, f)
		sinks.stderr = f
	}

	if inv.OutputFile != "" {
		f, err := createTruncate(inv.OutputFile)
		if err != nil {
			sinks.close()
			return nil, fmt.Errorf("unable to open output file %s: %w", inv.OutputFile, err)
		}
		sinks.files = append(sinks.files, f)
		sinks.output = f
	}

	return sinks, nil
}

func createTruncate(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
}
