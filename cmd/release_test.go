package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/frankfika/ExpenseReimbursement/internal/pipeline"
	"github.com/frankfika/ExpenseReimbursement/internal/version"
)

// Quitting the progress view mid-run must cancel the pipeline context;
// stages must not keep executing headless after the view is gone.
func TestProgressQuitCancelsRun(t *testing.T) {
	pc := pipeline.NewContext(t.TempDir(), "dist", "build", "releases", version.Version("1.2.0"), "ExpenseHelper")

	var laterRan bool
	stages := []pipeline.Stage{
		{
			Name:     "block",
			Severity: pipeline.Fatal,
			Run: func(ctx context.Context, pc *pipeline.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
		},
		{
			Name:     "after",
			Severity: pipeline.Fatal,
			Run: func(ctx context.Context, pc *pipeline.Context) error {
				laterRan = true
				return nil
			},
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- runWithProgress(ctx, cancel, pc, stages, nil,
			tea.WithInput(bytes.NewReader([]byte{0x03})), // ctrl+c
			tea.WithoutRenderer(),
		)
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("quitting the view did not stop the run")
	}
	if laterRan {
		t.Error("stages kept executing after the view quit")
	}
}
