package config

import (
	"os"
	"path/filepath"
	"testing"

	charmlog "github.com/charmbracelet/log"

	"github.com/barline/barline/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "barline.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SocketPath == "" {
		t.Error("default socket path missing")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log level = %q, want info", cfg.LogLevel)
	}
	if cfg.HTTPAddr != "" {
		t.Errorf("inspector should be off by default, got %q", cfg.HTTPAddr)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
socket_path = "/tmp/custom.sock"
log_level = "debug"
http_addr = "127.0.0.1:9269"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SocketPath != "/tmp/custom.sock" {
		t.Errorf("socket_path = %q", cfg.SocketPath)
	}
	if cfg.HTTPAddr != "127.0.0.1:9269" {
		t.Errorf("http_addr = %q", cfg.HTTPAddr)
	}
	if lvl, _ := cfg.Level(); lvl != charmlog.DebugLevel {
		t.Errorf("level = %v, want debug", lvl)
	}
}

func TestLoadPartialFileBackfillsDefaults(t *testing.T) {
	path := writeConfig(t, `log_level = "warn"`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SocketPath == "" {
		t.Error("unset socket_path should fall back to the default")
	}
	if lvl, _ := cfg.Level(); lvl != charmlog.WarnLevel {
		t.Errorf("level = %v, want warn", lvl)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("missing file: got %v, want INVALID_INPUT", err)
	}

	bad := writeConfig(t, `socket_path = [`)
	if _, err := Load(bad); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("malformed toml: got %v, want INVALID_INPUT", err)
	}

	level := writeConfig(t, `log_level = "loud"`)
	if _, err := Load(level); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad log_level: got %v, want INVALID_INPUT", err)
	}
}
