//go:build !windows

package runtime

// DefaultExitInterpreter returns the ExitInterpreter for this platform.
func DefaultExitInterpreter() ExitInterpreter {
	return SignalExitInterpreter{}
}
