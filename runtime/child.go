package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/pithecene-io/procwrap/iox"
)

// ChildConfig configures the child process.
type ChildConfig struct {
	// Executable is the path to the child binary.
	Executable string
	// Args are the child arguments, excluding the executable.
	Args []string
	// Env is the complete child environment as KEY=VALUE entries.
	// It must be non-nil; a nil Env would inherit the wrapper's environment.
	Env []string
	// StdoutFile receives child stdout when set; otherwise stdout is inherited.
	StdoutFile string
}

// Child abstracts child process lifecycle for testing.
type Child interface {
	Start(ctx context.Context) error
	Stderr() io.Reader
	Kill() error
	Wait() (ExitStatus, error)
}

// ChildFactory creates a Child. Used for test injection.
type ChildFactory func(config *ChildConfig) Child

// ChildManager manages one child process.
type ChildManager struct {
	config     *ChildConfig
	cmd        *exec.Cmd
	stderr     io.ReadCloser
	stdoutFile *os.File
}

// NewChildManager creates a new child manager.
func NewChildManager(config *ChildConfig) *ChildManager {
	return &ChildManager{
		config: config,
	}
}

// Start spawns the child.
// Stdin is inherited. Stdout is inherited or redirected to a created,
// truncated file. Stderr is always piped for classification.
func (m *ChildManager) Start(ctx context.Context) error {
	if m.config.Env == nil {
		return errors.New("child environment must be set explicitly")
	}

	m.cmd = exec.CommandContext(ctx, m.config.Executable, m.config.Args...)
	m.cmd.Env = m.config.Env
	m.cmd.Stdin = os.Stdin

	if m.config.StdoutFile != "" {
		f, err := os.OpenFile(m.config.StdoutFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("unable to open stdout file %s: %w", m.config.StdoutFile, err)
		}
		m.stdoutFile = f
		m.cmd.Stdout = f
	} else {
		m.cmd.Stdout = os.Stdout
	}

	stderr, err := m.cmd.StderrPipe()
	if err != nil {
		m.closeStdoutFile()
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}
	m.stderr = stderr

	if err := m.cmd.Start(); err != nil {
		m.closeStdoutFile()
		return fmt.Errorf("failed to spawn child process %s: %w", m.config.Executable, err)
	}

	return nil
}

// Stderr returns the child's stderr pipe.
func (m *ChildManager) Stderr() io.Reader {
	return m.stderr
}

// Kill kills the child. A child that has already exited is not an error:
// the kill races the child's own exit and either outcome is fine.
func (m *ChildManager) Kill() error {
	if m.cmd == nil || m.cmd.Process == nil {
		return nil
	}
	if err := m.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

// Wait reaps the child and returns its exit status.
// Must be called after Start, and after stderr reads have stopped.
func (m *ChildManager) Wait() (ExitStatus, error) {
	if m.cmd == nil {
		return ExitStatus{}, errors.New("child not started")
	}
	defer m.closeStdoutFile()

	err := m.cmd.Wait()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return ExitStatus{}, err
		}
	}
	return exitStatusOf(m.cmd.ProcessState), nil
}

func (m *ChildManager) closeStdoutFile() {
	if m.stdoutFile != nil {
		iox.DiscardClose(m.stdoutFile)
		m.stdoutFile = nil
	}
}
