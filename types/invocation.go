// Package types defines core domain types for the process wrapper.
//
//nolint:revive // types is a common Go package naming convention
package types

import (
	"errors"
	"fmt"
	"sort"
)

// DiagnosticFormat selects how structured compiler diagnostics are forwarded.
type DiagnosticFormat string

const (
	// DiagnosticFormatNone forwards child stderr lines untouched.
	DiagnosticFormatNone DiagnosticFormat = ""
	// DiagnosticFormatJSON forwards each diagnostic record as its JSON line.
	DiagnosticFormatJSON DiagnosticFormat = "json"
	// DiagnosticFormatRendered forwards the human-rendered text of each record.
	DiagnosticFormatRendered DiagnosticFormat = "rendered"
)

// ParseDiagnosticFormat parses a --diagnostic-format value.
// An empty string yields DiagnosticFormatNone.
func ParseDiagnosticFormat(s string) (DiagnosticFormat, error) {
	switch DiagnosticFormat(s) {
	case DiagnosticFormatNone, DiagnosticFormatJSON, DiagnosticFormatRendered:
		return DiagnosticFormat(s), nil
	default:
		return DiagnosticFormatNone, fmt.Errorf("invalid diagnostic format %q (must be json or rendered)", s)
	}
}

// Structured reports whether lines are parsed as diagnostic records.
func (f DiagnosticFormat) Structured() bool {
	return f != DiagnosticFormatNone
}

// CopyPair names a file to copy once the child has succeeded.
type CopyPair struct {
	Source      string `json:"source" msgpack:"source"`
	Destination string `json:"destination" msgpack:"destination"`
}

// Invocation is the fully resolved description of one child run.
// It is built once by the options layer and not modified afterwards.
type Invocation struct {
	// Executable is the path (or PATH-resolvable name) of the child.
	Executable string
	// Args are the child arguments, excluding the executable.
	Args []string
	// Env is the complete child environment. The wrapper's own
	// environment is never inherited.
	Env map[string]string

	// StdoutFile receives child stdout when set; otherwise stdout is inherited.
	StdoutFile string
	// StderrFile receives forwarded diagnostics when set; otherwise the
	// wrapper's stderr does.
	StderrFile string
	// OutputFile receives a duplicate of every forwarded diagnostic line.
	OutputFile string

	// TouchFile is created (or truncated) after a successful run.
	TouchFile string
	// CopyOutput is copied after a successful run.
	CopyOutput *CopyPair

	// Format is the diagnostic mode. DiagnosticFormatNone disables parsing.
	Format DiagnosticFormat
	// StopAfterMetadata kills the child once it reports the metadata artifact.
	// It has no effect under DiagnosticFormatNone.
	StopAfterMetadata bool
}

// Validate checks the invocation for internal consistency.
func (inv *Invocation) Validate() error {
	if inv.Executable == "" {
		return errors.New("executable is required")
	}
	if inv.CopyOutput != nil && (inv.CopyOutput.Source == "" || inv.CopyOutput.Destination == "") {
		return errors.New("copy output requires both a source and a destination")
	}
	return nil
}

// Environ renders Env as a sorted KEY=VALUE list.
// The result is never nil, so an empty map yields an empty environment
// rather than the inherited one.
func (inv *Invocation) Environ() []string {
	keys := make([]string, 0, len(inv.Env))
	for k := range inv.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+inv.Env[k])
	}
	return env
}
