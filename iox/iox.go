// Package iox provides I/O helpers for resource cleanup and line-oriented file reads.
package iox

import "io"

// DiscardClose closes c and discards the error.
// For deferred closes of sinks and pipes whose close error changes nothing:
//
//	defer iox.DiscardClose(stderrFile)
func DiscardClose(c io.Closer) { _ = c.Close() }

// CloseFunc returns a cleanup function that closes c, for t.Cleanup:
//
//	t.Cleanup(iox.CloseFunc(pipeReader))
func CloseFunc(c io.Closer) func() {
	return func() { _ = c.Close() }
}

// DiscardErr calls fn and discards the returned error:
//
//	defer iox.DiscardErr(logger.Sync)
func DiscardErr(fn func() error) { _ = fn() }
