// Package freeze drives the ahead-of-time bundler (PyInstaller) that
// turns the application source plus its dependency closure into a
// native bundle. Argument lists are built from the build manifest; a
// non-zero bundler exit aborts the pipeline with no retry, since build
// failures are deterministic given the same inputs.
package freeze

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/frankfika/ExpenseReimbursement/internal/execx"
	"github.com/frankfika/ExpenseReimbursement/internal/manifest"
)

// Freezer invokes the bundler against a build manifest.
type Freezer struct {
	PyInstallerPath string
	// GOOS selects platform-specific argument forms; empty means the
	// host platform.
	GOOS   string
	Runner execx.Runner
}

func (f *Freezer) goos() string {
	if f.GOOS != "" {
		return f.GOOS
	}
	return runtime.GOOS
}

// dataSep is the --add-data source/dest separator: ";" on Windows,
// ":" elsewhere.
func (f *Freezer) dataSep() string {
	if f.goos() == "windows" {
		return ";"
	}
	return ":"
}

// Args builds the full bundler argument list for the manifest, writing
// intermediates under buildDir and the bundle under distDir.
func (f *Freezer) Args(m *manifest.Manifest, distDir, buildDir string) []string {
	args := []string{
		"--noconfirm",
		"--clean",
		"--name", m.Name,
		"--distpath", distDir,
		"--workpath", buildDir,
	}

	if m.Windowed {
		args = append(args, "--windowed")
	} else {
		args = append(args, "--console")
	}

	if f.goos() == "darwin" && m.BundleID != "" {
		args = append(args, "--osx-bundle-identifier", m.BundleID)
	}
	if m.Icon != "" {
		args = append(args, "--icon", m.Resolve(m.Icon))
	}

	sep := f.dataSep()
	for _, d := range m.Data {
		args = append(args, "--add-data", m.Resolve(d.Source)+sep+d.Dest)
	}
	for _, h := range m.HiddenImports {
		args = append(args, "--hidden-import", h)
	}
	for _, x := range m.Excludes {
		args = append(args, "--exclude-module", x)
	}

	args = append(args, m.Resolve(m.Entry))
	return args
}

// Output returns the bundle path the bundler produces for the manifest:
// an application bundle on macOS, a collected directory elsewhere.
func (f *Freezer) Output(m *manifest.Manifest, distDir string) string {
	if f.goos() == "darwin" {
		return filepath.Join(distDir, m.Name+".app")
	}
	return filepath.Join(distDir, m.Name)
}

// Freeze validates the manifest and runs the bundler. Every declared
// data path must exist at this point; the bundler's own late failure
// modes are harder to diagnose than a validation error.
func (f *Freezer) Freeze(ctx context.Context, m *manifest.Manifest, distDir, buildDir string) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("build manifest: %w", err)
	}
	if _, err := f.Runner.Run(ctx, m.Dir, f.PyInstallerPath, f.Args(m, distDir, buildDir)...); err != nil {
		return fmt.Errorf("bundler: %w", err)
	}
	return nil
}
