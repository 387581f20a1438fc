package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/frankfika/ExpenseReimbursement/internal/config"
	"github.com/frankfika/ExpenseReimbursement/internal/dmg"
	"github.com/frankfika/ExpenseReimbursement/internal/execx"
	"github.com/frankfika/ExpenseReimbursement/internal/freeze"
	"github.com/frankfika/ExpenseReimbursement/internal/gitsync"
	"github.com/frankfika/ExpenseReimbursement/internal/manifest"
	"github.com/frankfika/ExpenseReimbursement/internal/pipeline"
	"github.com/frankfika/ExpenseReimbursement/internal/publish"
	"github.com/frankfika/ExpenseReimbursement/internal/pysync"
	"github.com/frankfika/ExpenseReimbursement/internal/telemetry"
	"github.com/frankfika/ExpenseReimbursement/internal/ui"
	"github.com/frankfika/ExpenseReimbursement/internal/version"
	"github.com/frankfika/ExpenseReimbursement/internal/winpkg"
	"github.com/frankfika/ExpenseReimbursement/internal/workspace"
)

// applyFlagOverrides applies CLI flag values to the loaded config.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		cfg.Verbose = true
	}
}

// setupSignalContext returns a context that is canceled on SIGINT or SIGTERM.
func setupSignalContext(printer *ui.Printer) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		printer.Info("\nshutting down...")
		cancel()
	}()
	return ctx, cancel
}

// newRun resolves the version and manifest and builds the pipeline
// context for one packaging run.
func newRun(cfg *config.Config) (*pipeline.Context, *manifest.Manifest, error) {
	workDir, err := filepath.Abs(cfg.WorkDir)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving work dir: %w", err)
	}

	ver, err := version.Resolve(filepath.Join(workDir, cfg.VersionFile))
	if err != nil {
		return nil, nil, err
	}

	m, err := manifest.Load(filepath.Join(workDir, cfg.ManifestFile))
	if err != nil {
		return nil, nil, err
	}

	pc := pipeline.NewContext(workDir, cfg.DistDir, cfg.BuildDir, cfg.ReleasesDir, ver, m.Name)
	return pc, m, nil
}

// openTelemetry opens the configured JSONL event stream, or returns a
// nil (no-op) emitter when telemetry is disabled.
func openTelemetry(cfg *config.Config, printer *ui.Printer) *telemetry.Emitter {
	if cfg.TelemetryFile == "" {
		return nil
	}
	em, err := telemetry.NewEmitter(cfg.TelemetryFile)
	if err != nil {
		printer.Warnf("telemetry disabled: %v", err)
		return nil
	}
	return em
}

func stageSyncSource(cfg *config.Config, runner execx.Runner) pipeline.Stage {
	return pipeline.Stage{
		Name:     "sync source",
		Severity: pipeline.BestEffort,
		Run: func(ctx context.Context, pc *pipeline.Context) error {
			s := gitsync.New(ctx, pc.RootDir, cfg.Remote, runner)
			if s == nil {
				// Not a git workspace; package what is on disk.
				return nil
			}
			return s.Sync(ctx)
		},
	}
}

func stageSyncDeps(cfg *config.Config, runner execx.Runner, sev pipeline.Severity) pipeline.Stage {
	return pipeline.Stage{
		Name:     "sync deps",
		Severity: sev,
		Run: func(ctx context.Context, pc *pipeline.Context) error {
			s := &pysync.Synchronizer{
				PythonPath:       cfg.PythonPath,
				RequirementsFile: filepath.Join(pc.RootDir, cfg.RequirementsFile),
				Runner:           runner,
			}
			return s.Sync(ctx, pc.RootDir)
		},
	}
}

func stageClean() pipeline.Stage {
	return pipeline.Stage{
		Name:     "clean workspace",
		Severity: pipeline.Fatal,
		Run: func(ctx context.Context, pc *pipeline.Context) error {
			c := &workspace.Cleaner{
				Dirs: []string{pc.DistDir, pc.BuildDir},
				StaleFiles: []string{
					filepath.Join(pc.RootDir, pc.BundleName+".dmg"),
				},
			}
			return c.Clean()
		},
	}
}

func stageFreeze(cfg *config.Config, m *manifest.Manifest, runner execx.Runner) pipeline.Stage {
	return pipeline.Stage{
		Name:     "freeze bundle",
		Severity: pipeline.Fatal,
		Run: func(ctx context.Context, pc *pipeline.Context) error {
			f := &freeze.Freezer{PyInstallerPath: cfg.PyInstallerPath, Runner: runner}
			return f.Freeze(ctx, m, pc.DistDir, pc.BuildDir)
		},
	}
}

// stageAssemble produces the platform artifact and records its path on
// the pipeline context for the verification stage.
func stageAssemble(cfg *config.Config, m *manifest.Manifest, runner execx.Runner, printer *ui.Printer, decorate bool) pipeline.Stage {
	return pipeline.Stage{
		Name:     "assemble artifact",
		Severity: pipeline.Fatal,
		Run: func(ctx context.Context, pc *pipeline.Context) error {
			f := &freeze.Freezer{Runner: runner}
			output := f.Output(m, pc.DistDir)

			var artifact string
			var err error
			if runtime.GOOS == "darwin" {
				b := &dmg.Builder{
					HdiutilPath:  cfg.HdiutilPath,
					Runner:       runner,
					Decorator:    dmg.SelectDecorator(decorate && cfg.Decorate, cfg.OsascriptPath, m.Name, runner),
					SettleDelay:  time.Duration(cfg.SettleDelayMs) * time.Millisecond,
					MountTimeout: time.Duration(cfg.MountTimeoutMs) * time.Millisecond,
					Warn:         printer.Warnf,
				}
				artifact, err = b.Assemble(ctx, output, m.Name, pc.Version.String(), pc.ReleaseDir())
			} else {
				b := &winpkg.Builder{
					ZipPath: cfg.ZipPath,
					Runner:  runner,
					Warn:    printer.Warnf,
				}
				artifact, err = b.Assemble(ctx, output, m.Name, pc.Version.String(), pc.ReleaseDir())
			}
			if err != nil {
				return err
			}
			pc.Artifact = artifact
			return nil
		},
	}
}

// stagePublish verifies the artifact exists and captures the release
// report for the caller to display. The verified artifact is recorded
// in the telemetry stream.
func stagePublish(cfg *config.Config, em *telemetry.Emitter, out *publish.Report) pipeline.Stage {
	return pipeline.Stage{
		Name:     "verify artifact",
		Severity: pipeline.Fatal,
		Run: func(ctx context.Context, pc *pipeline.Context) error {
			r, err := publish.Verify(pc.Artifact, cfg.Remote, pc.Tag)
			if err != nil {
				return err
			}
			_ = em.Emit(telemetry.Event{Kind: telemetry.KindArtifact, Stage: "verify artifact", Data: map[string]any{
				"path":  r.Path,
				"bytes": r.SizeBytes,
			}})
			*out = r
			return nil
		},
	}
}

func stageNames(stages []pipeline.Stage) []string {
	names := make([]string, len(stages))
	for i, st := range stages {
		names[i] = st.Name
	}
	return names
}
