package runtime

import (
	"fmt"
	"os"

	"github.com/pithecene-io/procwrap/iox"
	"github.com/pithecene-io/procwrap/types"
)

// runPostSuccess delivers the invocation's outputs once the child succeeded.
// The touch file is written before the copy.
func runPostSuccess(inv *types.Invocation) error {
	if inv.TouchFile != "" {
		if err := touch(inv.TouchFile); err != nil {
			return fmt.Errorf("failed to create touch file %s: %w", inv.TouchFile, err)
		}
	}
	if inv.CopyOutput != nil {
		if err := iox.CopyFile(inv.CopyOutput.Source, inv.CopyOutput.Destination); err != nil {
			return fmt.Errorf("failed to copy %s into %s: %w", inv.CopyOutput.Source, inv.CopyOutput.Destination, err)
		}
	}
	return nil
}

// touch creates path, truncating it if it exists.
func touch(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}
