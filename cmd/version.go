package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/frankfika/ExpenseReimbursement/internal/config"
	"github.com/frankfika/ExpenseReimbursement/internal/ui"
	"github.com/frankfika/ExpenseReimbursement/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the release version and tag",
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	printer := ui.New()

	workDir, err := filepath.Abs(cfg.WorkDir)
	if err != nil {
		printer.Error(err.Error())
		return err
	}
	v, err := version.Resolve(filepath.Join(workDir, cfg.VersionFile))
	if err != nil {
		printer.Error(err.Error())
		return err
	}

	fmt.Printf("%s (%s)\n", v, v.Tag())
	return nil
}
