// Package gitsync fast-forwards the local workspace to the remote tip
// before packaging, so unattended runs always build the latest committed
// state. Only remote metadata is fetched; uncommitted local changes are
// never discarded.
package gitsync

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/frankfika/ExpenseReimbursement/internal/execx"
)

// Syncer compares local and remote commit pointers and fast-forwards
// when the local workspace is behind.
type Syncer struct {
	Dir    string
	Remote string
	Runner execx.Runner
}

// New creates a Syncer for the given directory. If git is not available
// or the directory is not a git repository, it returns nil (not an
// error). The caller should skip source sync when the syncer is nil.
func New(ctx context.Context, dir, remote string, runner execx.Runner) *Syncer {
	if _, err := exec.LookPath("git"); err != nil {
		return nil
	}
	cmd := exec.CommandContext(ctx, "git", "-C", dir, "rev-parse", "--git-dir")
	if err := cmd.Run(); err != nil {
		return nil
	}
	return &Syncer{Dir: dir, Remote: remote, Runner: runner}
}

// Sync fetches remote metadata, compares HEAD against the upstream
// pointer, and fast-forwards when they differ. A workspace with no
// upstream configured is left untouched.
func (s *Syncer) Sync(ctx context.Context) error {
	if _, err := s.Runner.Run(ctx, s.Dir, "git", "fetch", s.Remote); err != nil {
		return fmt.Errorf("git fetch: %w", err)
	}

	local, err := s.revParse(ctx, "HEAD")
	if err != nil {
		return err
	}
	remote, err := s.revParse(ctx, "@{u}")
	if err != nil {
		// No upstream configured; nothing to compare against.
		return nil
	}
	if local == remote {
		return nil
	}

	// Behind (or diverged) — ff-only refuses to rewrite local commits.
	if _, err := s.Runner.Run(ctx, s.Dir, "git", "merge", "--ff-only", "@{u}"); err != nil {
		return fmt.Errorf("git merge --ff-only: %w", err)
	}
	return nil
}

func (s *Syncer) revParse(ctx context.Context, ref string) (string, error) {
	res, err := s.Runner.Run(ctx, s.Dir, "git", "rev-parse", ref)
	if err != nil {
		return "", fmt.Errorf("git rev-parse %s: %w", ref, err)
	}
	return strings.TrimSpace(res.Stdout), nil
}
