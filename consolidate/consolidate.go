// Package consolidate collapses dependency search path declarations into a
// single directory.
//
// A compiler invocation can carry one "-Ldependency=<dir>" declaration per
// dependency, either on the command line or inside argument files. On
// platforms with tight command-line and path limits, the Unifier extracts
// them all, hard-links every file they contain into one freshly created
// directory, and passes that directory instead. Everywhere else the
// Passthrough leaves arguments alone. Default picks one per platform.
package consolidate

import (
	"os"
	"time"

	"github.com/pithecene-io/procwrap/iox"
	"github.com/pithecene-io/procwrap/log"
	"github.com/pithecene-io/procwrap/metrics"
)

// Search path spellings.
const (
	// dependencyFlag is the combined form: -Ldependency=<dir>.
	dependencyFlag = "-Ldependency="
	// searchPathFlag starts the two-token form: -L dependency=<dir>.
	searchPathFlag = "-L"
	// dependencyKind prefixes the second token of the two-token form.
	dependencyKind = "dependency="
	// argfilePrefix marks an argument file reference: @<path>.
	argfilePrefix = "@"
	// filteredSuffix names the rewritten copy of an argument file.
	filteredSuffix = ".filtered"
	// unifiedDirPrefix names the unified directory.
	unifiedDirPrefix = "process_wrapper_deps"
)

// Result is the outcome of consolidation.
type Result struct {
	// Args are the arguments to pass to the child.
	Args []string
	// UnifiedDir is the directory created for this invocation, or "".
	// It is set even when Consolidate fails after creating it, and the
	// caller owns its removal.
	UnifiedDir string
}

// Consolidator rewrites child arguments before spawn.
type Consolidator interface {
	Consolidate(args []string) (Result, error)
}

// Config configures consolidation.
type Config struct {
	// ReadLines reads an argument file. Defaults to iox.ReadLines.
	ReadLines func(path string) ([]string, error)
	// BaseDir is where the unified directory is created.
	// Defaults to the working directory.
	BaseDir string
	// Now stamps the unified directory name. Defaults to time.Now.
	Now func() time.Time
	// Link hard-links a file into the unified directory. Defaults to os.Link.
	Link func(oldname, newname string) error
	// Logger receives debug output. Defaults to a no-op logger.
	Logger *log.Logger
	// Collector records consolidation counters. May be nil.
	Collector *metrics.Collector
}

func (c Config) withDefaults() Config {
	if c.ReadLines == nil {
		c.ReadLines = iox.ReadLines
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Link == nil {
		c.Link = os.Link
	}
	if c.Logger == nil {
		c.Logger = log.NewNop()
	}
	return c
}

// Passthrough returns arguments unchanged.
type Passthrough struct{}

// Consolidate implements Consolidator.
func (Passthrough) Consolidate(args []string) (Result, error) {
	return Result{Args: args}, nil
}
