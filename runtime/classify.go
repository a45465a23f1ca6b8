package runtime

import (
	"github.com/pithecene-io/procwrap/diag"
	"github.com/pithecene-io/procwrap/metrics"
	"github.com/pithecene-io/procwrap/types"
)

// Action is what the stream loop does with one classified line.
type Action int

const (
	// ActionForward writes the line's text to the diagnostic sinks.
	ActionForward Action = iota
	// ActionDrop discards the line.
	ActionDrop
	// ActionTerminate stops reading and kills the child.
	ActionTerminate
)

func (a Action) String() string {
	switch a {
	case ActionForward:
		return "forward"
	case ActionDrop:
		return "drop"
	case ActionTerminate:
		return "terminate"
	default:
		return "unknown"
	}
}

// ClassifiedLine is the classifier's decision for one line.
// Text is set only for ActionForward.
type ClassifiedLine struct {
	Action Action
	Text   string
}

// Forward returns a ClassifiedLine that forwards text.
func Forward(text string) ClassifiedLine {
	return ClassifiedLine{Action: ActionForward, Text: text}
}

// Drop returns a ClassifiedLine that discards the line.
func Drop() ClassifiedLine {
	return ClassifiedLine{Action: ActionDrop}
}

// Terminate returns a ClassifiedLine that stops the stream.
func Terminate() ClassifiedLine {
	return ClassifiedLine{Action: ActionTerminate}
}

// ClassifyLine decides what to do with one line of child stderr.
//
// With DiagnosticFormatNone the line is forwarded as is. Otherwise known
// plain-text warnings are first rewritten as warning records, and the line
// must then be a JSON diagnostic record; anything else is a *diag.DecodeError.
//
// When stopAfterMetadata is set, the metadata artifact record sets
// *metadataEmitted and terminates the stream, and other artifact records are
// dropped. Repeated metadata records are tolerated.
func ClassifyLine(line string, format types.DiagnosticFormat, stopAfterMetadata bool, metadataEmitted *bool) (ClassifiedLine, error) {
	cl, _, err := classify(line, format, stopAfterMetadata, metadataEmitted)
	return cl, err
}

// classify also reports whether the line was recognized noise.
func classify(line string, format types.DiagnosticFormat, stopAfterMetadata bool, metadataEmitted *bool) (ClassifiedLine, bool, error) {
	if !format.Structured() {
		return Forward(line), false, nil
	}

	noise := diag.IsNoise(line)
	if noise {
		record, err := diag.WarningLine(line)
		if err != nil {
			return Drop(), true, nil
		}
		line = record
	}

	probe, err := diag.ProbeLine(line)
	if err != nil {
		return ClassifiedLine{}, noise, err
	}

	if stopAfterMetadata && probe.IsArtifact() {
		if probe.IsMetadataArtifact() {
			*metadataEmitted = true
			return Terminate(), noise, nil
		}
		return Drop(), noise, nil
	}

	text, ok := diag.Reformat(line, probe, format)
	if !ok {
		return Drop(), noise, nil
	}
	return Forward(text), noise, nil
}

// Classifier carries the per-invocation classification state.
type Classifier struct {
	format            types.DiagnosticFormat
	stopAfterMetadata bool
	metadataEmitted   bool
	collector         *metrics.Collector
}

// NewClassifier creates a Classifier. collector may be nil.
func NewClassifier(format types.DiagnosticFormat, stopAfterMetadata bool, collector *metrics.Collector) *Classifier {
	return &Classifier{
		format:            format,
		stopAfterMetadata: stopAfterMetadata,
		collector:         collector,
	}
}

// Classify classifies one line and records metrics.
func (c *Classifier) Classify(line string) (ClassifiedLine, error) {
	cl, noise, err := classify(line, c.format, c.stopAfterMetadata, &c.metadataEmitted)
	if noise {
		c.collector.IncNoiseNormalized()
	}
	if err != nil {
		c.collector.IncDecodeErrors()
	}
	return cl, err
}

// MetadataEmitted reports whether the metadata artifact record has been seen.
func (c *Classifier) MetadataEmitted() bool {
	return c.metadataEmitted
}
