package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quillon/mdgate/internal/guard"
)

func TestLoad_FromDirectory(t *testing.T) {
	dir := t.TempDir()
	body := "version: 1\ntimeout: 2m\nprotected_volumes:\n  - Archive\ntools:\n  mdfind: /opt/bin/mdfind\n"
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Timeout() != 2*time.Minute {
		t.Errorf("Timeout = %v, want 2m", cfg.Timeout())
	}
	if got := cfg.Protected(); len(got) != 1 || got[0] != "Archive" {
		t.Errorf("Protected = %v, want [Archive]", got)
	}
	if cfg.Mdfind() != "/opt/bin/mdfind" {
		t.Errorf("Mdfind = %q, want override", cfg.Mdfind())
	}
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Timeout() != DefaultTimeout {
		t.Errorf("Timeout = %v, want default %v", cfg.Timeout(), DefaultTimeout)
	}
	if cfg.MaxOutputBytes() != DefaultMaxOutput {
		t.Errorf("MaxOutputBytes = %d, want default %d", cfg.MaxOutputBytes(), DefaultMaxOutput)
	}
	if cfg.ActivityEntries() != DefaultActivityEntries {
		t.Errorf("ActivityEntries = %d, want default %d", cfg.ActivityEntries(), DefaultActivityEntries)
	}
	if got := cfg.Protected(); len(got) != 1 || got[0] != guard.DefaultProtected {
		t.Errorf("Protected = %v, want default protected volume", got)
	}
	if cfg.Mdfind() != "mdfind" || cfg.Mdutil() != "mdutil" || cfg.Mdls() != "mdls" || cfg.LogTool() != "log" {
		t.Error("tool names should default to the system tools")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("timeout: [broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestAccessors_IgnoreInvalidDurations(t *testing.T) {
	cfg := &Config{RawTimeout: "not-a-duration", RawGrace: "-5s"}
	if cfg.Timeout() != DefaultTimeout {
		t.Errorf("Timeout = %v, want default for invalid raw value", cfg.Timeout())
	}
	if cfg.Grace() != DefaultGrace {
		t.Errorf("Grace = %v, want default for negative raw value", cfg.Grace())
	}
}
