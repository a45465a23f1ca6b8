// Package metrics provides per-invocation counters for the process wrapper.
//
// The Collector accumulates counters during a single invocation. It is a leaf
// package with no internal dependencies. All increment methods are
// nil-receiver safe, so callers that do not care about metrics pass nil.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of all counters.
// Returned by Collector.Snapshot(). Safe to read concurrently after creation.
type Snapshot struct {
	// Child lifecycle
	ChildLaunchSuccess int64 `json:"child_launch_success" msgpack:"child_launch_success"`
	ChildLaunchFailure int64 `json:"child_launch_failure" msgpack:"child_launch_failure"`
	ChildKilled        int64 `json:"child_killed" msgpack:"child_killed"`

	// Diagnostic stream
	LinesRead       int64 `json:"lines_read" msgpack:"lines_read"`
	LinesForwarded  int64 `json:"lines_forwarded" msgpack:"lines_forwarded"`
	LinesDropped    int64 `json:"lines_dropped" msgpack:"lines_dropped"`
	NoiseNormalized int64 `json:"noise_normalized" msgpack:"noise_normalized"`
	DecodeErrors    int64 `json:"decode_errors" msgpack:"decode_errors"`

	// Dependency consolidation
	SearchPathsExtracted int64 `json:"search_paths_extracted" msgpack:"search_paths_extracted"`
	FilesLinked          int64 `json:"files_linked" msgpack:"files_linked"`
	FilesCopied          int64 `json:"files_copied" msgpack:"files_copied"`
	DuplicatesSkipped    int64 `json:"duplicates_skipped" msgpack:"duplicates_skipped"`

	// Dimensions (informational, set at construction)
	Format   string `json:"format" msgpack:"format"`
	Platform string `json:"platform" msgpack:"platform"`
}

// Collector accumulates metrics during a single invocation.
// Thread-safe via sync.Mutex. All increment methods are nil-receiver safe.
type Collector struct {
	mu sync.Mutex

	childLaunchSuccess int64
	childLaunchFailure int64
	childKilled        int64

	linesRead       int64
	linesForwarded  int64
	linesDropped    int64
	noiseNormalized int64
	decodeErrors    int64

	searchPathsExtracted int64
	filesLinked          int64
	filesCopied          int64
	duplicatesSkipped    int64

	format   string
	platform string
}

// NewCollector creates a Collector with dimension labels.
// format is the diagnostic format ("" when lines are passed through);
// platform is the GOOS the wrapper runs on.
func NewCollector(format, platform string) *Collector {
	return &Collector{
		format:   format,
		platform: platform,
	}
}

func (c *Collector) add(field *int64, n int64) {
	c.mu.Lock()
	*field += n
	c.mu.Unlock()
}

// --- Child lifecycle ---

// IncChildLaunchSuccess records a successful child spawn.
func (c *Collector) IncChildLaunchSuccess() {
	if c == nil {
		return
	}
	c.add(&c.childLaunchSuccess, 1)
}

// IncChildLaunchFailure records a failed child spawn.
func (c *Collector) IncChildLaunchFailure() {
	if c == nil {
		return
	}
	c.add(&c.childLaunchFailure, 1)
}

// IncChildKilled records a kill issued after the metadata artifact was seen.
func (c *Collector) IncChildKilled() {
	if c == nil {
		return
	}
	c.add(&c.childKilled, 1)
}

// --- Diagnostic stream ---

// IncLinesRead records a line read from the child's stderr.
func (c *Collector) IncLinesRead() {
	if c == nil {
		return
	}
	c.add(&c.linesRead, 1)
}

// IncLinesForwarded records a line written to the diagnostic sinks.
func (c *Collector) IncLinesForwarded() {
	if c == nil {
		return
	}
	c.add(&c.linesForwarded, 1)
}

// IncLinesDropped records a suppressed line.
func (c *Collector) IncLinesDropped() {
	if c == nil {
		return
	}
	c.add(&c.linesDropped, 1)
}

// IncNoiseNormalized records a plain-text warning rewritten as a record.
func (c *Collector) IncNoiseNormalized() {
	if c == nil {
		return
	}
	c.add(&c.noiseNormalized, 1)
}

// IncDecodeErrors records a malformed diagnostic line.
func (c *Collector) IncDecodeErrors() {
	if c == nil {
		return
	}
	c.add(&c.decodeErrors, 1)
}

// --- Dependency consolidation ---

// AddSearchPathsExtracted records search-path declarations removed from the arguments.
func (c *Collector) AddSearchPathsExtracted(n int) {
	if c == nil {
		return
	}
	c.add(&c.searchPathsExtracted, int64(n))
}

// IncFilesLinked records a file hard-linked into the unified directory.
func (c *Collector) IncFilesLinked() {
	if c == nil {
		return
	}
	c.add(&c.filesLinked, 1)
}

// IncFilesCopied records a file copied after a failed hard link.
func (c *Collector) IncFilesCopied() {
	if c == nil {
		return
	}
	c.add(&c.filesCopied, 1)
}

// IncDuplicatesSkipped records a file shadowed by an earlier same-named file.
func (c *Collector) IncDuplicatesSkipped() {
	if c == nil {
		return
	}
	c.add(&c.duplicatesSkipped, 1)
}

// --- Snapshot ---

// Snapshot returns an immutable point-in-time view of all metrics.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		ChildLaunchSuccess: c.childLaunchSuccess,
		ChildLaunchFailure: c.childLaunchFailure,
		ChildKilled:        c.childKilled,

		LinesRead:       c.linesRead,
		LinesForwarded:  c.linesForwarded,
		LinesDropped:    c.linesDropped,
		NoiseNormalized: c.noiseNormalized,
		DecodeErrors:    c.decodeErrors,

		SearchPathsExtracted: c.searchPathsExtracted,
		FilesLinked:          c.filesLinked,
		FilesCopied:          c.filesCopied,
		DuplicatesSkipped:    c.duplicatesSkipped,

		Format:   c.format,
		Platform: c.platform,
	}
}
