// Package winpkg assembles the Windows distributable: a verbatim copy of
// the bundler output under the versioned release directory, plus a zip
// archive when a zip tool is on PATH. A missing zip tool degrades the
// release to an uncompressed directory; it does not fail it.
package winpkg

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/frankfika/ExpenseReimbursement/internal/execx"
)

// Builder copies the bundled output tree into the release directory and
// optionally compresses it.
type Builder struct {
	ZipPath string
	Runner  execx.Runner

	// Available overrides tool probing in tests. Nil uses the PATH.
	Available func(name string) bool

	// Warn reports tolerated degradations. Nil discards them.
	Warn func(format string, args ...any)
}

func (b *Builder) warnf(format string, args ...any) {
	if b.Warn != nil {
		b.Warn(format, args...)
	}
}

func (b *Builder) available(name string) bool {
	if b.Available != nil {
		return b.Available(name)
	}
	return execx.Available(name)
}

// Assemble copies the bundler output at outputPath into outDir and, when
// possible, produces <name>-<version>-win.zip alongside it. The returned
// artifact is the zip when one was produced, the copied tree otherwise.
func (b *Builder) Assemble(ctx context.Context, outputPath, name, ver, outDir string) (string, error) {
	if _, err := os.Stat(outputPath); err != nil {
		return "", fmt.Errorf("bundler output %s: %w", outputPath, err)
	}

	dest := filepath.Join(outDir, name)
	// Same-version re-runs overwrite, never merge.
	if err := os.RemoveAll(dest); err != nil {
		return "", fmt.Errorf("removing prior release copy: %w", err)
	}
	if err := copyTree(outputPath, dest); err != nil {
		return "", fmt.Errorf("copying bundle: %w", err)
	}

	if !b.available(b.ZipPath) {
		b.warnf("zip tool %q not found, shipping uncompressed directory", b.ZipPath)
		return dest, nil
	}

	zipName := fmt.Sprintf("%s-%s-win.zip", name, ver)
	zipPath := filepath.Join(outDir, zipName)
	if err := os.Remove(zipPath); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("removing prior archive: %w", err)
	}
	// Run from outDir so archive paths are relative to the release root.
	if _, err := b.Runner.Run(ctx, outDir, b.ZipPath, "-r", zipName, name); err != nil {
		return "", fmt.Errorf("compressing bundle: %w", err)
	}
	return zipPath, nil
}

// copyTree copies src into dst recursively, preserving file modes and
// symlinks. dst must not exist.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		switch {
		case d.IsDir():
			return os.MkdirAll(target, info.Mode().Perm())
		case info.Mode()&os.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		default:
			return copyFile(path, target, info.Mode().Perm())
		}
	})
}

func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
