package cmd

import (
	"github.com/spf13/cobra"

	"github.com/frankfika/ExpenseReimbursement/internal/config"
	"github.com/frankfika/ExpenseReimbursement/internal/execx"
	"github.com/frankfika/ExpenseReimbursement/internal/pipeline"
	"github.com/frankfika/ExpenseReimbursement/internal/ui"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Quick rebuild: sync dependencies, clean, freeze",
	Long: "Build refreshes the local bundle without assembling or verifying a\n" +
		"release artifact. Unlike release, a dependency sync failure here is\n" +
		"fatal: a quick rebuild exists to pick up dependency changes.",
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
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

	stages := []pipeline.Stage{
		stageSyncDeps(&cfg, runner, pipeline.Fatal),
		stageClean(),
		stageFreeze(&cfg, m, runner),
	}

	ctx, cancel := setupSignalContext(printer)
	defer cancel()

	printer.Banner(pc.Tag)
	driver := &pipeline.Driver{Reporter: printer, Telemetry: emitter}
	if err := driver.Run(ctx, pc, stages); err != nil {
		printer.Error(err.Error())
		return err
	}

	printer.Info("bundle ready under " + pc.DistDir)
	return nil
}
