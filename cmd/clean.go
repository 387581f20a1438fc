package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/frankfika/ExpenseReimbursement/internal/config"
	"github.com/frankfika/ExpenseReimbursement/internal/ui"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove build and output directories",
	RunE:  runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	printer := ui.New()
	applyFlagOverrides(cmd, &cfg)

	pc, _, err := newRun(&cfg)
	if err != nil {
		printer.Error(err.Error())
		return err
	}

	st := stageClean()
	if err := st.Run(context.Background(), pc); err != nil {
		printer.Error(err.Error())
		return err
	}
	printer.Info("workspace clean")
	return nil
}
