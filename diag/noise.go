package diag

import (
	"fmt"
	"strings"

	"github.com/tidwall/sjson"
)

// Lower compiler layers write plain-text warnings into the JSON stream.
// These are the only non-JSON lines tolerated on a structured stream.
const (
	unrecognizedFeatureText = "is not a recognized feature for this target (ignoring feature)"
	logWarnPrefix           = " WARN "
)

// IsNoise reports whether line is a known plain-text warning.
func IsNoise(line string) bool {
	return strings.Contains(line, unrecognizedFeatureText) || strings.HasPrefix(line, logWarnPrefix)
}

// WarningLine wraps a plain-text line in a warning diagnostic record.
// Both message and rendered carry the original text.
func WarningLine(text string) (string, error) {
	out := "{}"
	var err error

	steps := []struct {
		path string
		raw  bool
		val  any
	}{
		{path: keyMessageType, val: MessageTypeDiagnostic},
		{path: "message", val: text},
		{path: "code", raw: true, val: "null"},
		{path: "level", val: "warning"},
		{path: "spans", raw: true, val: "[]"},
		{path: "children", raw: true, val: "[]"},
		{path: keyRendered, val: text},
	}
	for _, s := range steps {
		if s.raw {
			out, err = sjson.SetRaw(out, s.path, s.val.(string))
		} else {
			out, err = sjson.Set(out, s.path, s.val)
		}
		if err != nil {
			return "", fmt.Errorf("failed to set %s on warning record: %w", s.path, err)
		}
	}
	return out, nil
}
