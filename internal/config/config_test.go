package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/splatlang/splat/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Entry != "" || cfg.Forward.Trace {
		t.Errorf("unexpected non-default values: %+v", cfg)
	}
	if cfg.Forward.MaxDepth != config.DefaultMaxForwardDepth {
		t.Errorf("max depth = %d, want %d", cfg.Forward.MaxDepth, config.DefaultMaxForwardDepth)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "splat.yaml")
	content := "entry: main.spl\nforward:\n  trace: true\n  max_depth: 8\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Entry != "main.spl" || !cfg.Forward.Trace || cfg.Forward.MaxDepth != 8 {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadRejectsMalformedYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "splat.yaml")
	if err := os.WriteFile(path, []byte("entry: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := config.Load(path); err == nil {
		t.Fatal("expected a parse error")
	}
}
