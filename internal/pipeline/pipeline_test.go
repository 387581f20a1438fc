package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/frankfika/ExpenseReimbursement/internal/version"
)

// recordingReporter captures the sequence of reporter calls.
type recordingReporter struct {
	calls []string
}

func (r *recordingReporter) StageStart(name string) { r.calls = append(r.calls, "start:"+name) }
func (r *recordingReporter) StageDone(name string)  { r.calls = append(r.calls, "done:"+name) }
func (r *recordingReporter) StageTolerated(name string, err error) {
	r.calls = append(r.calls, "tolerated:"+name)
}
func (r *recordingReporter) StageFailed(name string, err error) {
	r.calls = append(r.calls, "failed:"+name)
}

func testContext(t *testing.T) *Context {
	t.Helper()
	return NewContext(t.TempDir(), "dist", "build", "releases", version.Version("1.2.0"), "ExpenseHelper")
}

func stage(name string, sev Severity, err error, ran *[]string) Stage {
	return Stage{
		Name:     name,
		Severity: sev,
		Run: func(ctx context.Context, pc *Context) error {
			*ran = append(*ran, name)
			return err
		},
	}
}

func TestDriverRunsAllStagesInOrder(t *testing.T) {
	var ran []string
	rep := &recordingReporter{}
	d := &Driver{Reporter: rep}

	stages := []Stage{
		stage("one", Fatal, nil, &ran),
		stage("two", Fatal, nil, &ran),
		stage("three", Fatal, nil, &ran),
	}
	if err := d.Run(context.Background(), testContext(t), stages); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{"one", "two", "three"}
	if len(ran) != len(want) {
		t.Fatalf("ran %v, want %v", ran, want)
	}
	for i := range want {
		if ran[i] != want[i] {
			t.Errorf("stage %d = %q, want %q", i, ran[i], want[i])
		}
	}
}

func TestDriverFatalStageAborts(t *testing.T) {
	var ran []string
	boom := errors.New("bundler exploded")
	rep := &recordingReporter{}
	d := &Driver{Reporter: rep}

	stages := []Stage{
		stage("clean", Fatal, nil, &ran),
		stage("freeze", Fatal, boom, &ran),
		stage("assemble", Fatal, nil, &ran),
	}
	err := d.Run(context.Background(), testContext(t), stages)
	if !errors.Is(err, boom) {
		t.Fatalf("Run error = %v, want %v", err, boom)
	}
	if !strings.Contains(err.Error(), "stage freeze") {
		t.Errorf("error should name the failed stage: %v", err)
	}
	if len(ran) != 2 {
		t.Errorf("stages after a fatal failure must not run; ran %v", ran)
	}
	last := rep.calls[len(rep.calls)-1]
	if last != "failed:freeze" {
		t.Errorf("last reporter call = %q, want failed:freeze", last)
	}
}

func TestDriverBestEffortStageTolerated(t *testing.T) {
	var ran []string
	rep := &recordingReporter{}
	d := &Driver{Reporter: rep}

	stages := []Stage{
		stage("sync deps", BestEffort, errors.New("mirror down"), &ran),
		stage("freeze", Fatal, nil, &ran),
	}
	if err := d.Run(context.Background(), testContext(t), stages); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(ran) != 2 {
		t.Fatalf("best-effort failure must not stop the run; ran %v", ran)
	}

	var sawTolerated bool
	for _, c := range rep.calls {
		if c == "tolerated:sync deps" {
			sawTolerated = true
		}
	}
	if !sawTolerated {
		t.Errorf("expected a tolerated report, got %v", rep.calls)
	}
}

func TestDriverStopsOnCancelledContext(t *testing.T) {
	var ran []string
	rep := &recordingReporter{}
	d := &Driver{Reporter: rep}

	ctx, cancel := context.WithCancel(context.Background())
	stages := []Stage{
		{
			Name:     "first",
			Severity: Fatal,
			Run: func(ctx context.Context, pc *Context) error {
				ran = append(ran, "first")
				cancel()
				return nil
			},
		},
		stage("second", Fatal, nil, &ran),
	}
	err := d.Run(ctx, testContext(t), stages)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	if len(ran) != 1 {
		t.Errorf("no stage may start after cancellation; ran %v", ran)
	}
}

func TestContextPaths(t *testing.T) {
	root := t.TempDir()
	pc := NewContext(root, "dist", "build", "releases", version.Version("1.2.0"), "ExpenseHelper")

	if pc.DistDir != filepath.Join(root, "dist") {
		t.Errorf("DistDir = %q", pc.DistDir)
	}
	if pc.Tag != "v1.2.0" {
		t.Errorf("Tag = %q", pc.Tag)
	}
	if got, want := pc.ReleaseDir(), filepath.Join(root, "releases", "v1.2.0"); got != want {
		t.Errorf("ReleaseDir() = %q, want %q", got, want)
	}

	// Absolute overrides stay absolute.
	abs := t.TempDir()
	pc = NewContext(root, abs, "build", "releases", version.Version("1.2.0"), "X")
	if pc.DistDir != abs {
		t.Errorf("absolute DistDir mangled: %q", pc.DistDir)
	}
}

func TestSeverityString(t *testing.T) {
	if Fatal.String() != "fatal" || BestEffort.String() != "best-effort" {
		t.Errorf("unexpected severity names: %q %q", Fatal, BestEffort)
	}
}
