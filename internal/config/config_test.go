package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteLoadRoundtrip(t *testing.T) {
	dir := t.TempDir()
	cfg := &LocalConfig{Author: "sam", Backend: BackendSQLite, NoColor: true}
	if err := cfg.Write(dir); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got := Load(dir)
	if got.Author != "sam" || got.Backend != BackendSQLite || !got.NoColor {
		t.Errorf("Load = %+v, want round-tripped config", got)
	}
}

func TestLoadMissingOrBrokenFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	if got := Load(dir); got == nil || got.Author != "" || got.Backend != "" {
		t.Errorf("Load on missing file = %+v, want empty config", got)
	}

	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("author: [unclosed"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if got := Load(dir); got == nil || got.Author != "" {
		t.Errorf("Load on broken yaml = %+v, want empty config", got)
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	cfg := &LocalConfig{Author: "file-author", Backend: BackendFile}
	if err := cfg.Write(dir); err != nil {
		t.Fatalf("Write: %v", err)
	}

	t.Setenv("STRAND_AUTHOR", "env-author")
	t.Setenv("STRAND_BACKEND", BackendSQLite)
	t.Setenv("NO_COLOR", "1")

	got := LoadWithEnv(dir)
	if got.Author != "env-author" {
		t.Errorf("Author = %q, want env-author", got.Author)
	}
	if got.Backend != BackendSQLite {
		t.Errorf("Backend = %q, want sqlite", got.Backend)
	}
	if !got.NoColor {
		t.Error("NoColor = false, want NO_COLOR to force it")
	}
}

func TestLoadWithEnvEmptyVarsKeepFileValues(t *testing.T) {
	dir := t.TempDir()
	cfg := &LocalConfig{Author: "file-author"}
	if err := cfg.Write(dir); err != nil {
		t.Fatalf("Write: %v", err)
	}

	t.Setenv("STRAND_AUTHOR", "")
	t.Setenv("NO_COLOR", "")

	got := LoadWithEnv(dir)
	if got.Author != "file-author" {
		t.Errorf("Author = %q, want the file value when the env var is empty", got.Author)
	}
	if got.NoColor {
		t.Error("NoColor = true, empty NO_COLOR must not force it")
	}
}

func TestFindStrandDirEnvWins(t *testing.T) {
	want := t.TempDir()
	t.Setenv("STRAND_DIR", want)

	got, err := FindStrandDir()
	if err != nil {
		t.Fatalf("FindStrandDir: %v", err)
	}
	if got != want {
		t.Errorf("FindStrandDir = %q, want %q", got, want)
	}
}

func TestFindStrandDirWalksUp(t *testing.T) {
	t.Setenv("STRAND_DIR", "")

	root := t.TempDir()
	strand := filepath.Join(root, DirName)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(strand, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	t.Chdir(nested)

	got, err := FindStrandDir()
	if err != nil {
		t.Fatalf("FindStrandDir: %v", err)
	}
	// Resolve both sides: the temp dir may sit behind a symlink.
	wantReal, _ := filepath.EvalSymlinks(strand)
	gotReal, _ := filepath.EvalSymlinks(got)
	if gotReal != wantReal {
		t.Errorf("FindStrandDir = %q, want %q", got, strand)
	}
}

func TestFindStrandDirNotFound(t *testing.T) {
	t.Setenv("STRAND_DIR", "")
	t.Chdir(t.TempDir())

	_, err := FindStrandDir()
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("FindStrandDir err = %v, want os.ErrNotExist", err)
	}
}
