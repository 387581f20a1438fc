// Package pysync keeps the local Python environment in sync with the
// frozen dependency manifest before a build. Whether a sync failure is
// fatal is the caller's policy: the quick-rebuild flow aborts on it, the
// release flow tolerates it on the assumption that the operator's
// machine is already provisioned.
package pysync

import (
	"context"
	"fmt"
	"os"

	"github.com/frankfika/ExpenseReimbursement/internal/execx"
)

// Synchronizer installs/upgrades the packages listed in a requirements
// file using pip via the configured Python interpreter.
type Synchronizer struct {
	PythonPath       string
	RequirementsFile string
	Runner           execx.Runner
}

// Args returns the pip invocation arguments for the requirements file.
func (s *Synchronizer) Args() []string {
	return []string{"-m", "pip", "install", "--upgrade", "-r", s.RequirementsFile}
}

// Sync runs the dependency installation in dir. A missing requirements
// file is an error: the dependency set is the build's input contract.
func (s *Synchronizer) Sync(ctx context.Context, dir string) error {
	if _, err := os.Stat(s.RequirementsFile); err != nil {
		return fmt.Errorf("requirements file %s: %w", s.RequirementsFile, err)
	}
	if _, err := s.Runner.Run(ctx, dir, s.PythonPath, s.Args()...); err != nil {
		return fmt.Errorf("dependency sync: %w", err)
	}
	return nil
}
