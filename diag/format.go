package diag

import "github.com/pithecene-io/procwrap/types"

// Reformat converts a record line into the text to forward.
// ok is false when the record has nothing to show in the requested format,
// which happens for rendered output of records without a "rendered" field.
func Reformat(line string, probe Probe, format types.DiagnosticFormat) (text string, ok bool) {
	switch format {
	case types.DiagnosticFormatRendered:
		if !probe.HasRendered {
			return "", false
		}
		return probe.Rendered, true
	default:
		return line, true
	}
}
