package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	root := t.TempDir()
	writeFile(t, filepath.Join(root, ProjectPath), "seed_regex: \"seed=(\\\\d+)\"\n")

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Root != root {
		t.Errorf("Root = %q, want %q", cfg.Root, root)
	}
	if cfg.CacheDir != os.TempDir() {
		t.Errorf("CacheDir = %q, want %q", cfg.CacheDir, os.TempDir())
	}
	if cfg.Project.SeedRegex == nil {
		t.Fatal("SeedRegex = nil, want the project pattern")
	}
	if cfg.Project.SeedRegex.Source != `seed=(\d+)` {
		t.Errorf("SeedRegex.Source = %q", cfg.Project.SeedRegex.Source)
	}
	if want := filepath.Join(home, UserConfigPath); cfg.User.Path() != want {
		t.Errorf("User.Path() = %q, want %q", cfg.User.Path(), want)
	}
}

func TestLoadProject_MissingFile(t *testing.T) {
	project, err := LoadProject(t.TempDir())
	if err != nil {
		t.Fatalf("LoadProject() error = %v", err)
	}

	patterns, err := project.Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if !patterns.ProcessOnNewMatch {
		t.Error("ProcessOnNewMatch = false, want true")
	}
	if patterns.Seed != nil || patterns.Runtime != nil || patterns.Manifest != nil || patterns.Boundary != nil || patterns.Failures != nil {
		t.Errorf("Compile() = %+v, want no overrides", patterns)
	}
}
