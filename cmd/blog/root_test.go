package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	a := &app{}
	if err := a.loadConfig(viper.New()); err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if a.cfg.Content.Dir != "content" || a.cfg.Generator.OutputDir != "public" {
		t.Fatalf("unexpected defaults %+v", a.cfg)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blog.yaml")
	data := []byte(`site:
  title: Notes
  base_url: https://notes.example.com
content:
  dir: posts
server:
  debounce: 2s
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("BLOG_GENERATOR_OUTPUT_DIR", "dist")

	a := &app{cfgFile: path}
	if err := a.loadConfig(viper.New()); err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if a.cfg.Site.Title != "Notes" || a.cfg.Site.BaseURL != "https://notes.example.com" {
		t.Fatalf("unexpected site config %+v", a.cfg.Site)
	}
	if a.cfg.Content.Dir != "posts" {
		t.Fatalf("expected content dir posts, got %q", a.cfg.Content.Dir)
	}
	if a.cfg.Generator.OutputDir != "dist" {
		t.Fatalf("expected env override, got %q", a.cfg.Generator.OutputDir)
	}
	if a.cfg.Server.Debounce != 2*time.Second {
		t.Fatalf("expected 2s debounce, got %v", a.cfg.Server.Debounce)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	a := &app{cfgFile: filepath.Join(t.TempDir(), "missing.yaml")}
	if err := a.loadConfig(viper.New()); err == nil {
		t.Fatal("expected error for a missing explicit config file")
	}
}

func TestLoadConfigValidates(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BLOG_LOGGING_PROVIDER", "syslog")

	a := &app{}
	if err := a.loadConfig(viper.New()); err == nil {
		t.Fatal("expected validation error")
	}
}
