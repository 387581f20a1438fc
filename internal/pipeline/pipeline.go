// Package pipeline provides the stage driver for packaging runs. A run is
// an ordered list of stages executed sequentially; each stage carries an
// explicit severity so the abort-vs-tolerate policy lives in one place
// instead of being re-decided at every call site.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/frankfika/ExpenseReimbursement/internal/telemetry"
	"github.com/frankfika/ExpenseReimbursement/internal/version"
)

// Severity classifies how the driver treats a stage failure.
type Severity int

const (
	// Fatal stages abort the run on error.
	Fatal Severity = iota
	// BestEffort stages log their error and let the run proceed.
	BestEffort
)

// String returns the severity name for diagnostics.
func (s Severity) String() string {
	if s == BestEffort {
		return "best-effort"
	}
	return "fatal"
}

// Context carries every resolved path and identity for one packaging run.
// Stages receive it by pointer and never consult ambient globals, so the
// whole pipeline can be pointed at a temporary root under test.
type Context struct {
	// RootDir is the project root all other paths resolve under.
	RootDir string

	DistDir     string // bundler output parent
	BuildDir    string // bundler scratch intermediates
	ReleasesDir string // versioned release artifacts, append-only across versions

	Version version.Version
	Tag     string

	// BundleName is the manifest's application name ("ExpenseHelper").
	BundleName string

	// Artifact is set by the assembler to the final artifact path and
	// verified by the publisher.
	Artifact string
}

// NewContext resolves the run's directory layout under root for the
// given version.
func NewContext(root, distDir, buildDir, releasesDir string, v version.Version, bundleName string) *Context {
	abs := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(root, p)
	}
	return &Context{
		RootDir:     root,
		DistDir:     abs(distDir),
		BuildDir:    abs(buildDir),
		ReleasesDir: abs(releasesDir),
		Version:     v,
		Tag:         v.Tag(),
		BundleName:  bundleName,
	}
}

// ReleaseDir returns the versioned release directory for this run.
// Re-running with the same version overwrites its contents.
func (c *Context) ReleaseDir() string {
	return filepath.Join(c.ReleasesDir, c.Tag)
}

// Stage is one step of the packaging pipeline.
type Stage struct {
	Name     string
	Severity Severity
	Run      func(ctx context.Context, pc *Context) error
}

// Reporter receives stage lifecycle notifications. The plain ANSI printer
// and the TUI bridge both implement it.
type Reporter interface {
	StageStart(name string)
	StageDone(name string)
	// StageTolerated reports a swallowed best-effort failure.
	StageTolerated(name string, err error)
	StageFailed(name string, err error)
}

// Driver executes stages in order, interpreting each stage's severity
// uniformly: fatal errors abort the run, best-effort errors are reported
// and tolerated.
type Driver struct {
	Reporter Reporter
	// Telemetry records stage transitions; nil disables recording.
	Telemetry *telemetry.Emitter
}

// Run executes the stages sequentially. It returns the first fatal error,
// wrapped with the name of the stage that failed, or nil when the run
// completed (possibly with tolerated failures).
func (d *Driver) Run(ctx context.Context, pc *Context, stages []Stage) error {
	_ = d.Telemetry.Emit(telemetry.Event{Kind: telemetry.KindRunStart, Data: map[string]string{
		"version": pc.Version.String(),
		"tag":     pc.Tag,
	}})

	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("stage %s: %w", st.Name, err)
		}

		d.Reporter.StageStart(st.Name)
		_ = d.Telemetry.Emit(telemetry.Event{Kind: telemetry.KindStageStart, Stage: st.Name})

		err := st.Run(ctx, pc)
		if err == nil {
			d.Reporter.StageDone(st.Name)
			_ = d.Telemetry.Emit(telemetry.Event{Kind: telemetry.KindStageDone, Stage: st.Name})
			continue
		}

		if st.Severity == BestEffort {
			d.Reporter.StageTolerated(st.Name, err)
			_ = d.Telemetry.Emit(telemetry.Event{Kind: telemetry.KindStageSkipped, Stage: st.Name, Error: err.Error()})
			continue
		}

		d.Reporter.StageFailed(st.Name, err)
		_ = d.Telemetry.Emit(telemetry.Event{Kind: telemetry.KindRunDone, Stage: st.Name, Error: err.Error()})
		return fmt.Errorf("stage %s: %w", st.Name, err)
	}

	_ = d.Telemetry.Emit(telemetry.Event{Kind: telemetry.KindRunDone})
	return nil
}
