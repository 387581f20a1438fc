// Package workspace guarantees clean-room builds by deleting prior build
// and output directories before the bundler runs. The bundler is not
// incremental-safe across manifest changes, so stale artifacts must never
// leak into a new release.
package workspace

import (
	"fmt"
	"os"
)

// Cleaner removes the pipeline-owned scratch and output directories.
type Cleaner struct {
	// Dirs are removed recursively. Absence is success.
	Dirs []string
	// StaleFiles are leftover top-level artifacts from older script
	// versions, removed if present.
	StaleFiles []string
}

// Clean deletes every configured directory and stale file. Deletion is
// idempotent: a second Clean on an already-clean workspace is a no-op.
func (c *Cleaner) Clean() error {
	for _, dir := range c.Dirs {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("removing %s: %w", dir, err)
		}
	}
	for _, f := range c.StaleFiles {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing stale artifact %s: %w", f, err)
		}
	}
	return nil
}
