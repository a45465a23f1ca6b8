package runtime

import (
	"errors"
	"fmt"
)

// ErrorKind classifies fatal wrapper errors.
type ErrorKind int

const (
	// ErrorSpawn covers configuration, file-open, spawn, and wait failures.
	ErrorSpawn ErrorKind = iota
	// ErrorStream covers child stderr read/write failures and malformed diagnostics.
	ErrorStream
	// ErrorPostSuccess covers touch-file and copy-output failures.
	ErrorPostSuccess
	// ErrorConsolidation covers dependency search path consolidation failures.
	ErrorConsolidation
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorSpawn:
		return "spawn"
	case ErrorStream:
		return "stream"
	case ErrorPostSuccess:
		return "post_success"
	case ErrorConsolidation:
		return "consolidation"
	default:
		return "unknown"
	}
}

// WrapperError is a fatal invocation error. None are retried.
type WrapperError struct {
	// Kind classifies the failure.
	Kind ErrorKind
	// Op describes the failed operation.
	Op string
	// Err is the underlying error.
	Err error
}

func (e *WrapperError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *WrapperError) Unwrap() error {
	return e.Err
}

func wrapErr(kind ErrorKind, op string, err error) error {
	return &WrapperError{Kind: kind, Op: op, Err: err}
}

// ErrorKindOf returns the kind of a *WrapperError in err's chain.
// ok is false when err is not a WrapperError.
func ErrorKindOf(err error) (kind ErrorKind, ok bool) {
	var wErr *WrapperError
	if errors.As(err, &wErr) {
		return wErr.Kind, true
	}
	return 0, false
}
