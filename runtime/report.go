package runtime

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/pithecene-io/procwrap/metrics"
	"github.com/pithecene-io/procwrap/types"
)

// Report encodings accepted by --report-format.
const (
	ReportFormatJSON    = "json"
	ReportFormatMsgpack = "msgpack"
)

// InvocationReport is the structured report written by --report.
type InvocationReport struct {
	Version         string            `json:"version" msgpack:"version"`
	Executable      string            `json:"executable" msgpack:"executable"`
	ExitCode        int               `json:"exit_code" msgpack:"exit_code"`
	ChildStatus     string            `json:"child_status,omitempty" msgpack:"child_status,omitempty"`
	Killed          bool              `json:"killed" msgpack:"killed"`
	MetadataEmitted bool              `json:"metadata_emitted" msgpack:"metadata_emitted"`
	DurationMs      int64             `json:"duration_ms" msgpack:"duration_ms"`
	UnifiedDir      string            `json:"unified_dir,omitempty" msgpack:"unified_dir,omitempty"`
	Error           string            `json:"error,omitempty" msgpack:"error,omitempty"`
	ErrorKind       string            `json:"error_kind,omitempty" msgpack:"error_kind,omitempty"`
	Metrics         *metrics.Snapshot `json:"metrics" msgpack:"metrics"`
}

// BuildReport composes a report from an invocation outcome.
// result is nil when the wrapper failed; runErr then carries the failure.
func BuildReport(inv *types.Invocation, result *Result, runErr error, snap metrics.Snapshot, exitCode int) *InvocationReport {
	report := &InvocationReport{
		Version:  types.Version,
		ExitCode: exitCode,
		Metrics:  &snap,
	}
	if inv != nil {
		report.Executable = inv.Executable
	}
	if result != nil {
		report.ChildStatus = result.Status.Description
		report.Killed = result.Killed
		report.MetadataEmitted = result.MetadataEmitted
		report.DurationMs = result.Duration.Milliseconds()
		report.UnifiedDir = result.UnifiedDir
	}
	if runErr != nil {
		report.Error = runErr.Error()
		if kind, ok := ErrorKindOf(runErr); ok {
			report.ErrorKind = kind.String()
		}
	}
	return report
}

// ValidateReportFormat returns an error for an unknown report encoding.
func ValidateReportFormat(format string) error {
	switch format {
	case "", ReportFormatJSON, ReportFormatMsgpack:
		return nil
	default:
		return fmt.Errorf("unknown report format %q: must be %s or %s", format, ReportFormatJSON, ReportFormatMsgpack)
	}
}

// WriteReport writes the report to the specified path.
// If path is "-", writes to stderr. An empty format means JSON.
func WriteReport(report *InvocationReport, path, format string) error {
	if path == "" {
		return errors.New("report path must not be empty")
	}

	data, err := encodeReport(report, format)
	if err != nil {
		return err
	}

	if path == "-" {
		_, err = os.Stderr.Write(data)
		if err != nil {
			return fmt.Errorf("failed to write report to stderr: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", path, err)
	}
	return nil
}

// writeReportTo writes the encoded report to any writer (for testing).
func writeReportTo(report *InvocationReport, format string, w io.Writer) error {
	data, err := encodeReport(report, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func encodeReport(report *InvocationReport, format string) ([]byte, error) {
	if err := ValidateReportFormat(format); err != nil {
		return nil, err
	}

	if format == ReportFormatMsgpack {
		data, err := msgpack.Marshal(report)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal report: %w", err)
		}
		return data, nil
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return append(data, '\n'), nil
}
