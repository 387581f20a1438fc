package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCleanRemovesDirsAndStaleFiles(t *testing.T) {
	root := t.TempDir()
	dist := filepath.Join(root, "dist")
	build := filepath.Join(root, "build")
	stale := filepath.Join(root, "ExpenseHelper.dmg")

	if err := os.MkdirAll(filepath.Join(dist, "ExpenseHelper.app"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(build, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := &Cleaner{Dirs: []string{dist, build}, StaleFiles: []string{stale}}
	if err := c.Clean(); err != nil {
		t.Fatalf("Clean: %v", err)
	}

	for _, p := range []string{dist, build, stale} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%s still exists after Clean", p)
		}
	}
}

func TestCleanIsIdempotent(t *testing.T) {
	root := t.TempDir()
	c := &Cleaner{
		Dirs:       []string{filepath.Join(root, "dist"), filepath.Join(root, "build")},
		StaleFiles: []string{filepath.Join(root, "ExpenseHelper.dmg")},
	}

	// Nothing exists; both runs must succeed.
	if err := c.Clean(); err != nil {
		t.Fatalf("first Clean: %v", err)
	}
	if err := c.Clean(); err != nil {
		t.Fatalf("second Clean: %v", err)
	}
}
