// Package diag models the line-delimited JSON diagnostics a compiler writes
// to stderr and converts them between forwarding formats.
//
// Each line is one JSON object. The record kind is carried in the
// "$message_type" key: "diagnostic" for compiler messages and "artifact"
// for notices that an output file has been written.
package diag

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// Record kinds carried in the "$message_type" key.
const (
	MessageTypeDiagnostic = "diagnostic"
	MessageTypeArtifact   = "artifact"
)

// Artifact emit kinds.
const (
	EmitMetadata = "metadata"
)

// Record keys.
const (
	keyMessageType = "$message_type"
	keyEmit        = "emit"
	keyRendered    = "rendered"
)

// DecodeErrorKind classifies record decoding errors.
type DecodeErrorKind int

const (
	// DecodeErrorMalformed indicates a line that is not a JSON object.
	DecodeErrorMalformed DecodeErrorKind = iota
	// DecodeErrorSchema indicates valid JSON that is not an object.
	DecodeErrorSchema
)

// DecodeError represents a record decoding error.
type DecodeError struct {
	Kind DecodeErrorKind
	Msg  string
	Line string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s (line: %q)", e.Msg, e.Line)
}

// IsDecodeError returns true if err is a record decoding error.
func IsDecodeError(err error) bool {
	var decErr *DecodeError
	return errors.As(err, &decErr)
}

// Probe is the subset of a record the classifier needs.
// It is read without decoding spans and children, which can be large.
type Probe struct {
	MessageType string
	Emit        string
	Rendered    string
	HasRendered bool
}

// IsArtifact reports whether the record is an artifact notice.
func (p Probe) IsArtifact() bool {
	return p.MessageType == MessageTypeArtifact
}

// IsMetadataArtifact reports whether the record announces the metadata output.
func (p Probe) IsMetadataArtifact() bool {
	return p.IsArtifact() && p.Emit == EmitMetadata
}

// ProbeLine reads the discriminating keys of a record line.
// The line must be a JSON object.
func ProbeLine(line string) (Probe, error) {
	if !gjson.Valid(line) {
		return Probe{}, &DecodeError{Kind: DecodeErrorMalformed, Msg: "invalid JSON diagnostic", Line: line}
	}
	parsed := gjson.Parse(line)
	if !parsed.IsObject() {
		return Probe{}, &DecodeError{Kind: DecodeErrorSchema, Msg: "diagnostic is not a JSON object", Line: line}
	}

	results := parsed.Map()
	probe := Probe{
		MessageType: results[keyMessageType].String(),
		Emit:        results[keyEmit].String(),
	}
	if rendered, ok := results[keyRendered]; ok && rendered.Type == gjson.String {
		probe.Rendered = rendered.String()
		probe.HasRendered = true
	}
	return probe, nil
}
