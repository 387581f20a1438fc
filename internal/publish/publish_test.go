package publish

import (
	"os"
	"path/filepath"
	"testing"
)

func TestVerifyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ExpenseHelper-1.2.0.dmg")
	if err := os.WriteFile(path, make([]byte, 2048), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := Verify(path, "origin", "v1.2.0")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if r.Path != path {
		t.Errorf("Path = %q", r.Path)
	}
	if r.SizeBytes != 2048 {
		t.Errorf("SizeBytes = %d, want 2048", r.SizeBytes)
	}
	if r.SizeHuman == "" {
		t.Error("SizeHuman empty")
	}
	if r.PushCommand != "git push origin v1.2.0" {
		t.Errorf("PushCommand = %q", r.PushCommand)
	}
}

func TestVerifyDirectoryArtifact(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ExpenseHelper")
	if err := os.MkdirAll(filepath.Join(dir, "_internal"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ExpenseHelper.exe"), make([]byte, 100), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "_internal", "python312.dll"), make([]byte, 400), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := Verify(dir, "origin", "v1.2.0")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if r.SizeBytes != 500 {
		t.Errorf("SizeBytes = %d, want 500", r.SizeBytes)
	}
}

func TestVerifyMissingArtifact(t *testing.T) {
	_, err := Verify(filepath.Join(t.TempDir(), "nothing.dmg"), "origin", "v1.2.0")
	if err == nil {
		t.Fatal("expected error for missing artifact")
	}
}

func TestVerifyEmptyArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.dmg")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Verify(path, "origin", "v1.2.0"); err == nil {
		t.Fatal("an empty artifact must not verify")
	}
}
