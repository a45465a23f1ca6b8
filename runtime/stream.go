package runtime

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pithecene-io/procwrap/metrics"
)

// LineFunc classifies one line of child stderr, without its terminator.
type LineFunc func(line string) (ClassifiedLine, error)

// OutputProcessor reads child stderr line by line and routes each line
// according to a LineFunc.
//
// Lines are classified and written strictly in the order they were read.
// Forwarded text goes to sink and, when set, is duplicated to the output
// file. A terminate decision stops reading at once; any input still
// buffered is abandoned.
type OutputProcessor struct {
	reader     *bufio.Reader
	sink       io.Writer
	outputFile io.Writer
	classify   LineFunc
	collector  *metrics.Collector
}

// NewOutputProcessor creates an OutputProcessor.
// outputFile and collector may be nil.
func NewOutputProcessor(r io.Reader, sink, outputFile io.Writer, classify LineFunc, collector *metrics.Collector) *OutputProcessor {
	return &OutputProcessor{
		reader:     bufio.NewReader(r),
		sink:       sink,
		outputFile: outputFile,
		classify:   classify,
		collector:  collector,
	}
}

// Run processes lines until end of stream or a terminate decision.
// terminated reports whether the loop stopped on a terminate decision.
func (p *OutputProcessor) Run() (terminated bool, err error) {
	for {
		raw, readErr := p.reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return false, fmt.Errorf("failed to read child stderr: %w", readErr)
		}
		if raw == "" && readErr != nil {
			return false, nil
		}

		p.collector.IncLinesRead()
		line := trimLineEnding(raw)

		cl, err := p.classify(line)
		if err != nil {
			return false, err
		}

		switch cl.Action {
		case ActionTerminate:
			return true, nil
		case ActionDrop:
			p.collector.IncLinesDropped()
		case ActionForward:
			if err := p.forward(cl.Text); err != nil {
				return false, err
			}
			p.collector.IncLinesForwarded()
		}

		if readErr != nil {
			return false, nil
		}
	}
}

func (p *OutputProcessor) forward(text string) error {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if p.outputFile != nil {
		if _, err := io.WriteString(p.outputFile, text); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
	}
	if _, err := io.WriteString(p.sink, text); err != nil {
		return fmt.Errorf("failed to write diagnostics: %w", err)
	}
	return nil
}

func trimLineEnding(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
