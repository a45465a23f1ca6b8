package runtime

import (
	"os"
	"sync"
)

// TempDirGuard owns an optional temporary directory and removes it exactly
// once. Acquire it as soon as the directory exists and defer Release:
//
//	guard := NewTempDirGuard(dir)
//	defer guard.Release()
//
// Removal is best effort; failures are ignored.
type TempDirGuard struct {
	path   string
	once   sync.Once
	remove func(string) error
}

// NewTempDirGuard creates a guard for path. An empty path guards nothing.
func NewTempDirGuard(path string) *TempDirGuard {
	return &TempDirGuard{path: path, remove: os.RemoveAll}
}

// Path returns the guarded directory, or "" if none.
func (g *TempDirGuard) Path() string {
	return g.path
}

// Release recursively removes the directory. Later calls do nothing.
func (g *TempDirGuard) Release() {
	g.once.Do(func() {
		if g.path == "" {
			return
		}
		_ = g.remove(g.path)
	})
}
