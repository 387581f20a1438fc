// Package publish performs the final backstop of a release run: verify
// the artifact actually exists, report its path and size, and print the
// command that pushes the release tag. The bundler's exit code alone is
// not trusted evidence that an installer was produced, and pushing the
// tag is always a separate, explicit operator action.
package publish

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
)

// Report describes a verified release artifact.
type Report struct {
	Path      string
	SizeBytes int64
	SizeHuman string
	// PushCommand publishes the release tag when the operator runs it.
	// The pipeline itself never executes it.
	PushCommand string
}

// Verify checks that the artifact exists at path and builds its report.
// A missing or empty artifact is a packaging failure even when every
// prior stage reported success.
func Verify(path, remote, tag string) (Report, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Report{}, fmt.Errorf("expected artifact %s: %w", path, err)
	}

	var size int64
	if info.IsDir() {
		size, err = dirSize(path)
		if err != nil {
			return Report{}, fmt.Errorf("sizing artifact %s: %w", path, err)
		}
	} else {
		size = info.Size()
	}
	if size == 0 {
		return Report{}, fmt.Errorf("artifact %s is empty", path)
	}

	return Report{
		Path:        path,
		SizeBytes:   size,
		SizeHuman:   humanize.Bytes(uint64(size)),
		PushCommand: fmt.Sprintf("git push %s %s", remote, tag),
	}, nil
}

func dirSize(path string) (int64, error) {
	var total int64
	err := walkFiles(path, func(size int64) {
		total += size
	})
	return total, err
}

func walkFiles(path string, fn func(size int64)) error {
	entries, err := os.ReadDir(path)
	if err != nil {
		return err
	}
	for _, e := range entries {
		p := path + string(os.PathSeparator) + e.Name()
		if e.IsDir() {
			if err := walkFiles(p, fn); err != nil {
				return err
			}
			continue
		}
		info, err := e.Info()
		if err != nil {
			return err
		}
		fn(info.Size())
	}
	return nil
}
