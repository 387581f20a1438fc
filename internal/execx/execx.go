// Package execx wraps external command execution for the packaging
// pipeline. Every external collaborator (git, pip, PyInstaller, hdiutil,
// osascript, zip) is invoked through a Runner so that stage logic can be
// tested against a fake without the real tools installed.
package execx

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Result carries the captured output of a finished command.
type Result struct {
	Stdout string
	Stderr string
}

// Runner executes an external command in a working directory and returns
// its captured output. Implementations must not retry: every pipeline
// operation is assumed deterministic given fixed inputs.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (Result, error)
}

// Local runs commands on the host via os/exec.
type Local struct {
	Verbose bool
}

// Run executes name with args in dir, capturing stdout and stderr.
// On a non-zero exit the error includes the trimmed stderr so the
// offending tool's raw diagnostic reaches the operator.
func (l *Local) Run(ctx context.Context, dir, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if l.Verbose {
		fmt.Fprintf(os.Stderr, "[exec] %s %s\n", name, strings.Join(args, " "))
	}

	if err := cmd.Run(); err != nil {
		return Result{Stdout: stdout.String(), Stderr: stderr.String()},
			fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return Result{Stdout: stdout.String(), Stderr: stderr.String()}, nil
}

// Available reports whether an executable can be found on PATH.
// Callers use this to skip optional tools rather than fail.
func Available(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
