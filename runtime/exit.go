package runtime

import "os"

// Exit codes reported by the wrapper itself.
const (
	ExitCodeSuccess = 0
	ExitCodeFailure = 1
)

// ExitStatus is the platform-reported status of a reaped child.
type ExitStatus struct {
	// Code is the exit code. Meaningful only when HasCode is true.
	Code int
	// HasCode is false when the child ended on a signal.
	HasCode bool
	// Description is the platform's rendering of the status, for logs.
	Description string
}

// exitStatusOf reads an ExitStatus from a reaped process.
func exitStatusOf(state *os.ProcessState) ExitStatus {
	if state == nil {
		return ExitStatus{}
	}
	return ExitStatus{
		Code:        state.ExitCode(),
		HasCode:     state.Exited(),
		Description: state.String(),
	}
}

// ExitInterpreter reduces a child's exit status to the wrapper's exit code.
//
// killed is true when the wrapper killed the child after the metadata
// artifact was produced; that child has done everything the build needs, so
// every implementation reports success for it.
type ExitInterpreter interface {
	Normalize(status ExitStatus, killed bool) int
}

// SignalExitInterpreter interprets statuses on platforms where a child can
// end on a signal without an exit code.
type SignalExitInterpreter struct{}

// Normalize implements ExitInterpreter.
// A signal the wrapper did not send is reported as a generic failure.
func (SignalExitInterpreter) Normalize(status ExitStatus, killed bool) int {
	switch {
	case killed:
		return ExitCodeSuccess
	case status.HasCode:
		return status.Code
	default:
		return ExitCodeFailure
	}
}

// CodeExitInterpreter interprets statuses on platforms that always report an
// exit code, including for killed processes. Whether the wrapper killed the
// child cannot be read from the status there, so only the killed flag counts.
type CodeExitInterpreter struct{}

// Normalize implements ExitInterpreter.
func (CodeExitInterpreter) Normalize(status ExitStatus, killed bool) int {
	if killed {
		return ExitCodeSuccess
	}
	if status.Code < 0 {
		return ExitCodeFailure
	}
	return status.Code
}
