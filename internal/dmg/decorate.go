package dmg

import (
	"context"
	"fmt"
	"runtime"

	"github.com/frankfika/ExpenseReimbursement/internal/execx"
)

// VolumeDecorator applies Finder presentation metadata to a mounted
// volume: window geometry, free-form icon arrangement, icon size, and
// icon positions for the bundle and the Applications symlink.
type VolumeDecorator interface {
	Decorate(ctx context.Context, volume string) error
}

// FinderDecorator scripts Finder through osascript.
type FinderDecorator struct {
	OsascriptPath string
	AppName       string
	Runner        execx.Runner
}

// Window geometry and icon layout applied to the volume. Fixed values:
// the installer window always looks the same regardless of the
// operator's Finder preferences.
const (
	windowLeft   = 100
	windowTop    = 100
	windowRight  = 640
	windowBottom = 480
	iconSize     = 128
	appIconX     = 140
	appIconY     = 180
	linkIconX    = 400
	linkIconY    = 180
)

// Script returns the AppleScript applied to the named volume. The close
// and update at the end force Finder to persist the view state into the
// image before detach.
func (d *FinderDecorator) Script(volume string) string {
	return fmt.Sprintf(`tell application "Finder"
	tell disk %[1]q
		open
		set current view of container window to icon view
		set toolbar visible of container window to false
		set statusbar visible of container window to false
		set the bounds of container window to {%[3]d, %[4]d, %[5]d, %[6]d}
		set viewOptions to the icon view options of container window
		set arrangement of viewOptions to not arranged
		set icon size of viewOptions to %[7]d
		set position of item %[2]q of container window to {%[8]d, %[9]d}
		set position of item "Applications" of container window to {%[10]d, %[11]d}
		close
		update without registering applications
	end tell
end tell`,
		volume, d.AppName+".app",
		windowLeft, windowTop, windowRight, windowBottom,
		iconSize, appIconX, appIconY, linkIconX, linkIconY)
}

// Decorate runs the Finder script against the mounted volume.
func (d *FinderDecorator) Decorate(ctx context.Context, volume string) error {
	if _, err := d.Runner.Run(ctx, "", d.OsascriptPath, "-e", d.Script(volume)); err != nil {
		return fmt.Errorf("osascript: %w", err)
	}
	return nil
}

// NopDecorator leaves the volume unstyled.
type NopDecorator struct{}

// Decorate does nothing.
func (NopDecorator) Decorate(ctx context.Context, volume string) error { return nil }

// SelectDecorator probes the environment and returns the Finder
// decorator when it can plausibly work: enabled by config, running on
// macOS, osascript on PATH. Anything else gets the no-op, so the
// assembler's core never branches on UI availability itself.
func SelectDecorator(enabled bool, osascriptPath, appName string, runner execx.Runner) VolumeDecorator {
	if !enabled || runtime.GOOS != "darwin" || !execx.Available(osascriptPath) {
		return NopDecorator{}
	}
	return &FinderDecorator{OsascriptPath: osascriptPath, AppName: appName, Runner: runner}
}
