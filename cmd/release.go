package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/frankfika/ExpenseReimbursement/internal/config"
	"github.com/frankfika/ExpenseReimbursement/internal/execx"
	"github.com/frankfika/ExpenseReimbursement/internal/pipeline"
	"github.com/frankfika/ExpenseReimbursement/internal/publish"
	"github.com/frankfika/ExpenseReimbursement/internal/telemetry"
	"github.com/frankfika/ExpenseReimbursement/internal/tui"
	"github.com/frankfika/ExpenseReimbursement/internal/ui"
)

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Build and package a versioned release artifact",
	Long: "Release runs the full pipeline: fast-forward the workspace, sync\n" +
		"dependencies (best-effort), clean, freeze the application, assemble the\n" +
		"platform installer, and verify the artifact under releases/<tag>/.",
	RunE: runRelease,
}

func init() {
	releaseCmd.Flags().Bool("skip-update", false, "skip the git fast-forward pre-step")
	releaseCmd.Flags().Bool("no-decorate", false, "skip Finder styling of the disk image")
	releaseCmd.Flags().Bool("plain", false, "plain line output even on a TTY")

	rootCmd.AddCommand(releaseCmd)
}

func runRelease(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	printer := ui.New()
	applyFlagOverrides(cmd, &cfg)

	pc, m, err := newRun(&cfg)
	if err != nil {
		printer.Error(err.Error())
		return err
	}

	runner := &execx.Local{Verbose: cfg.Verbose}
	emitter := openTelemetry(&cfg, printer)
	defer emitter.Close()

	skipUpdate, _ := cmd.Flags().GetBool("skip-update")
	noDecorate, _ := cmd.Flags().GetBool("no-decorate")
	plain, _ := cmd.Flags().GetBool("plain")

	var report publish.Report
	var stages []pipeline.Stage
	if !skipUpdate {
		stages = append(stages, stageSyncSource(&cfg, runner))
	}
	stages = append(stages,
		// Dependency sync is best-effort for releases: a flaky mirror
		// must not block packaging on an already-provisioned machine.
		stageSyncDeps(&cfg, runner, pipeline.BestEffort),
		stageClean(),
		stageFreeze(&cfg, m, runner),
		stageAssemble(&cfg, m, runner, printer, !noDecorate),
		stagePublish(&cfg, emitter, &report),
	)

	ctx, cancel := setupSignalContext(printer)
	defer cancel()

	if !plain && isatty.IsTerminal(os.Stderr.Fd()) {
		err = runWithProgress(ctx, cancel, pc, stages, emitter)
	} else {
		printer.Banner(pc.Tag)
		driver := &pipeline.Driver{Reporter: printer, Telemetry: emitter}
		err = driver.Run(ctx, pc, stages)
	}
	if err != nil {
		printer.Error(err.Error())
		return err
	}

	printer.Artifact(report.Path, report.SizeHuman, report.PushCommand)
	return nil
}

// runWithProgress drives the pipeline under the TUI progress view. The
// driver runs in a goroutine and feeds stage events to the program; the
// program owns the terminal until the run finishes. The terminal is in
// raw mode, so ctrl+c reaches the model as a key message rather than a
// signal; cancel is invoked when the program exits so quitting the view
// also stops the stages.
func runWithProgress(ctx context.Context, cancel context.CancelFunc, pc *pipeline.Context, stages []pipeline.Stage, emitter *telemetry.Emitter, opts ...tea.ProgramOption) error {
	p := tui.NewProgram(pc.Tag, stageNames(stages), opts...)
	rep := &tui.Reporter{Program: p}
	driver := &pipeline.Driver{Reporter: rep, Telemetry: emitter}

	errCh := make(chan error, 1)
	go func() {
		errCh <- driver.Run(ctx, pc, stages)
		rep.Finish()
	}()

	_, err := p.Run()
	cancel()
	if err != nil {
		return fmt.Errorf("progress view: %w", err)
	}
	return <-errCh
}
