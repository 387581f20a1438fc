// Package dmg assembles the macOS distributable: a compressed disk image
// containing the application bundle and an Applications symlink, with an
// optional Finder presentation pass over the mounted volume.
//
// The image moves through a fixed lifecycle: stage → writable image →
// mounted → decorated → detached → compressed. Staging, attach, and
// compression failures are fatal; decoration and detach are cosmetic and
// tolerated, so packaging still succeeds in headless environments with a
// plain image.
package dmg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/frankfika/ExpenseReimbursement/internal/execx"
)

// Builder renders a bundled application into a compressed disk image.
type Builder struct {
	HdiutilPath string
	Runner      execx.Runner
	Decorator   VolumeDecorator

	// ScratchDir hosts the staging directory and the writable
	// intermediate image. Both are removed on every exit path.
	// Empty means the system temp directory.
	ScratchDir string

	// SettleDelay is the fixed wait between mounting the volume and
	// scripting Finder. The desktop shell needs time to register the
	// new volume; without the wait the decoration pass intermittently
	// fails to find the window.
	SettleDelay time.Duration

	// MountTimeout bounds the wait for the mountpoint to appear.
	MountTimeout time.Duration

	// Warn reports tolerated failures. Nil discards them.
	Warn func(format string, args ...any)
}

func (b *Builder) warnf(format string, args ...any) {
	if b.Warn != nil {
		b.Warn(format, args...)
	}
}

// Assemble builds the compressed disk image for the application bundle
// at bundlePath and writes it under outDir as <volName>-<version>.dmg.
// A missing bundle is fatal: it signals an earlier bundling failure that
// must not be papered over.
func (b *Builder) Assemble(ctx context.Context, bundlePath, volName, ver, outDir string) (string, error) {
	if _, err := os.Stat(bundlePath); err != nil {
		return "", fmt.Errorf("application bundle %s: %w", bundlePath, err)
	}

	scratch, err := os.MkdirTemp(b.ScratchDir, "dmg-*")
	if err != nil {
		return "", fmt.Errorf("creating scratch dir: %w", err)
	}
	// Staging dir and writable image live under scratch; removing it is
	// the guaranteed-cleanup obligation for every exit path, including
	// cancellation.
	defer os.RemoveAll(scratch)

	staging := filepath.Join(scratch, "staging")
	if err := b.stage(ctx, bundlePath, staging); err != nil {
		return "", err
	}

	writable := filepath.Join(scratch, volName+"-rw.dmg")
	if _, err := b.Runner.Run(ctx, "", b.HdiutilPath,
		"create", "-volname", volName, "-srcfolder", staging, "-ov", "-format", "UDRW", writable,
	); err != nil {
		return "", fmt.Errorf("creating writable image: %w", err)
	}

	mountpoint := filepath.Join(scratch, "mnt")
	if _, err := b.Runner.Run(ctx, "", b.HdiutilPath,
		"attach", writable, "-readwrite", "-noverify", "-noautoopen", "-mountpoint", mountpoint,
	); err != nil {
		return "", fmt.Errorf("attaching writable image: %w", err)
	}

	b.decorate(ctx, mountpoint, volName)

	// Flush before detaching; detach failure is tolerated because the
	// conversion below reads the image file, not the mount.
	if _, err := b.Runner.Run(ctx, "", "sync"); err != nil {
		b.warnf("fs flush: %v", err)
	}
	if _, err := b.Runner.Run(ctx, "", b.HdiutilPath, "detach", mountpoint); err != nil {
		b.warnf("volume detach: %v", err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("creating release dir: %w", err)
	}
	final := filepath.Join(outDir, fmt.Sprintf("%s-%s.dmg", volName, ver))
	// Re-runs with the same version overwrite the prior artifact.
	if err := os.Remove(final); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("removing prior artifact: %w", err)
	}
	if _, err := b.Runner.Run(ctx, "", b.HdiutilPath,
		"convert", writable, "-format", "UDZO", "-imagekey", "zlib-level=9", "-o", final,
	); err != nil {
		return "", fmt.Errorf("compressing image: %w", err)
	}

	return final, nil
}

// stage builds the directory rendered into the image: a copy of the
// application bundle plus a symlink to /Applications. The original
// bundler output is never edited in place.
func (b *Builder) stage(ctx context.Context, bundlePath, staging string) error {
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return fmt.Errorf("creating staging dir: %w", err)
	}
	// cp -R preserves the bundle's symlinks and resource metadata.
	if _, err := b.Runner.Run(ctx, "", "cp", "-R", bundlePath, staging); err != nil {
		return fmt.Errorf("staging bundle copy: %w", err)
	}
	if err := os.Symlink("/Applications", filepath.Join(staging, "Applications")); err != nil {
		return fmt.Errorf("creating Applications symlink: %w", err)
	}
	return nil
}

// decorate applies the Finder presentation pass. Failures are tolerated:
// the decoration depends on a desktop session that may be absent in
// headless or CI contexts, and a plain image is still distributable.
func (b *Builder) decorate(ctx context.Context, mountpoint, volName string) {
	if b.Decorator == nil {
		return
	}
	if err := b.waitForVolume(ctx, mountpoint); err != nil {
		b.warnf("volume not visible, decorating anyway: %v", err)
	}
	if b.SettleDelay > 0 {
		select {
		case <-time.After(b.SettleDelay):
		case <-ctx.Done():
			return
		}
	}
	if err := b.Decorator.Decorate(ctx, volName); err != nil {
		b.warnf("finder decoration: %v", err)
	}
}

// waitForVolume blocks until the mountpoint has content or MountTimeout
// elapses. hdiutil reports success before the desktop shell has
// registered the volume, so this narrows the settle race.
func (b *Builder) waitForVolume(ctx context.Context, mountpoint string) error {
	if entries, err := os.ReadDir(mountpoint); err == nil && len(entries) > 0 {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(mountpoint)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(mountpoint), err)
	}

	timeout := b.MountTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	deadline := time.After(timeout)
	for {
		// Re-check after each event; the watch only wakes us up.
		if entries, err := os.ReadDir(mountpoint); err == nil && len(entries) > 0 {
			return nil
		}
		select {
		case <-w.Events:
		case err := <-w.Errors:
			return fmt.Errorf("watching mountpoint: %w", err)
		case <-deadline:
			return fmt.Errorf("volume did not appear within %s", timeout)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
