package consolidate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pithecene-io/procwrap/iox"
)

// Unifier replaces all dependency search paths with one directory of
// hard-linked files.
type Unifier struct {
	config Config
}

// NewUnifier creates a Unifier.
func NewUnifier(config Config) *Unifier {
	return &Unifier{config: config.withDefaults()}
}

// Consolidate implements Consolidator.
//
// When no search path is declared, args are returned as given and nothing
// is written. Otherwise the rewritten argument files are written next to
// their originals, a unified directory is created, and a single
// -Ldependency=<unified> is appended to the rewritten top-level arguments.
//
// Files are deduplicated by case-insensitive name across all search paths;
// the first one seen wins, in declaration order and then directory order.
func (u *Unifier) Consolidate(args []string) (Result, error) {
	scan, err := scanArgs(args, u.config.ReadLines)
	if err != nil {
		return Result{}, err
	}
	if len(scan.dependencyPaths) == 0 {
		return Result{Args: args}, nil
	}
	u.config.Collector.AddSearchPathsExtracted(len(scan.dependencyPaths))

	for _, af := range scan.argfiles {
		if err := os.WriteFile(af.path, []byte(strings.Join(af.lines, "\n")), 0o644); err != nil {
			return Result{}, fmt.Errorf("unable to write filtered argfile %s: %w", af.path, err)
		}
	}

	unified, err := u.createUnifiedDir()
	if err != nil {
		return Result{}, err
	}
	res := Result{UnifiedDir: unified}

	seen := make(map[string]struct{})
	for _, dir := range scan.dependencyPaths {
		if err := u.linkEntries(dir, unified, seen); err != nil {
			return res, err
		}
	}

	res.Args = append(scan.args, dependencyFlag+unified)
	return res, nil
}

func (u *Unifier) createUnifiedDir() (string, error) {
	base := u.config.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("unable to read current working directory: %w", err)
		}
		base = wd
	}

	name := fmt.Sprintf("%s_%d_%d", unifiedDirPrefix, os.Getpid(), u.config.Now().UnixMilli())
	unified := filepath.Join(base, name)
	if err := os.MkdirAll(unified, 0o755); err != nil {
		return "", fmt.Errorf("unable to create unified dependency directory %s: %w", unified, err)
	}
	return unified, nil
}

// linkEntries links the regular files and symlinks of dir into unified,
// skipping names already in seen.
func (u *Unifier) linkEntries(dir, unified string, seen map[string]struct{}) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("unable to read dependency search path %s: %w", dir, err)
	}

	for _, entry := range entries {
		mode := entry.Type()
		if !mode.IsRegular() && mode&fs.ModeSymlink == 0 {
			continue
		}

		key := asciiLower(entry.Name())
		if _, dup := seen[key]; dup {
			u.config.Collector.IncDuplicatesSkipped()
			continue
		}
		seen[key] = struct{}{}

		src := filepath.Join(dir, entry.Name())
		dest := filepath.Join(unified, entry.Name())
		if err := u.linkOrCopy(src, dest); err != nil {
			return err
		}
	}
	return nil
}

// asciiLower folds ASCII letters only, so names differing in non-ASCII case
// stay distinct.
func asciiLower(s string) string {
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}

// linkOrCopy hard-links src to dest. An existing dest counts as done.
// Any other link failure falls back to a byte copy.
func (u *Unifier) linkOrCopy(src, dest string) error {
	err := u.config.Link(src, dest)
	switch {
	case err == nil:
		u.config.Collector.IncFilesLinked()
		return nil
	case errors.Is(err, fs.ErrExist):
		return nil
	}

	u.config.Logger.Debug("hard link failed, falling back to copy", map[string]any{
		"source":      src,
		"destination": dest,
		"error":       err.Error(),
	})
	if err := iox.CopyFile(src, dest); err != nil {
		return fmt.Errorf("unable to copy %s into unified dependency dir %s: %w", src, filepath.Dir(dest), err)
	}
	u.config.Collector.IncFilesCopied()
	return nil
}
