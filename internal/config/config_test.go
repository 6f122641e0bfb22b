package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Practice.Pool != nil {
		t.Error("missing file produced non-empty config")
	}
}

func TestLoad_EmptyPathRejected(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Error("empty path accepted")
	}
}

func TestLoad_ParsesPracticeAndBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[practice]
pool = "mixed"
languages = ["HTML", "CSS"]
rule = "newest-first"
minutes = 15
count = 12

[backend]
url = "http://backend.local/api"
timeout-seconds = 20
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Practice.Pool == nil || *cfg.Practice.Pool != "mixed" {
		t.Errorf("pool = %v", cfg.Practice.Pool)
	}
	if len(cfg.Practice.Languages) != 2 {
		t.Errorf("languages = %v", cfg.Practice.Languages)
	}
	if cfg.Practice.Minutes == nil || *cfg.Practice.Minutes != 15 {
		t.Errorf("minutes = %v", cfg.Practice.Minutes)
	}
	if cfg.Backend.URL == nil || *cfg.Backend.URL != "http://backend.local/api" {
		t.Errorf("url = %v", cfg.Backend.URL)
	}
	if cfg.Backend.TimeoutSeconds == nil || *cfg.Backend.TimeoutSeconds != 20 {
		t.Errorf("timeout = %v", cfg.Backend.TimeoutSeconds)
	}
}

func TestLoad_PartialFileLeavesRestNil(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[practice]\nminutes = 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Practice.Minutes == nil || *cfg.Practice.Minutes != 5 {
		t.Errorf("minutes = %v", cfg.Practice.Minutes)
	}
	if cfg.Practice.Pool != nil || cfg.Practice.Rule != nil || cfg.Backend.URL != nil {
		t.Error("absent keys should stay nil")
	}
}

func TestLoad_MalformedFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[practice\nminutes ="), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed TOML accepted")
	}
}
