package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:8000" {
		t.Fatalf("default apiBaseURL expected, got %q", cfg.APIBaseURL)
	}
	if cfg.SessionBackend != BackendFile {
		t.Fatalf("default sessionBackend expected file, got %q", cfg.SessionBackend)
	}
	if cfg.SnapshotPath == "" {
		t.Fatal("snapshotPath default missing")
	}
}

func TestLoadFileValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := strings.Join([]string{
		"apiBaseURL: https://books.example.com",
		"requestTimeout: 5s",
		"logLevel: debug",
		"stateDir: " + dir,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBaseURL != "https://books.example.com" {
		t.Fatalf("apiBaseURL not read, got %q", cfg.APIBaseURL)
	}
	dur, err := ParseRequestTimeout(cfg.RequestTimeout)
	if err != nil {
		t.Fatalf("parse timeout: %v", err)
	}
	if dur != 5*time.Second {
		t.Fatalf("timeout expected 5s, got %v", dur)
	}
	if cfg.SnapshotPath != filepath.Join(dir, "snapshots.db") {
		t.Fatalf("snapshotPath should derive from stateDir, got %q", cfg.SnapshotPath)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("apiBaseURL: https://file.example.com\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("BOOKREVIEW_API_BASE_URL", "https://env.example.com")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBaseURL != "https://env.example.com" {
		t.Fatalf("env must win over file, got %q", cfg.APIBaseURL)
	}
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	t.Setenv("BOOKREVIEW_SESSION_BACKEND", "etcd")
	if _, err := Load(filepath.Join(t.TempDir(), "config.yaml")); err == nil {
		t.Fatal("unknown session backend should fail validation")
	}
}

func TestValidateRedisBackendNeedsAddr(t *testing.T) {
	t.Setenv("BOOKREVIEW_SESSION_BACKEND", BackendRedis)
	if _, err := Load(filepath.Join(t.TempDir(), "config.yaml")); err == nil {
		t.Fatal("redis backend without addr should fail validation")
	}
	t.Setenv("REDIS_ADDR", "localhost:6379")
	if _, err := Load(filepath.Join(t.TempDir(), "config.yaml")); err != nil {
		t.Fatalf("redis backend with addr should load: %v", err)
	}
}

func TestParseRequestTimeout(t *testing.T) {
	if _, err := ParseRequestTimeout("nonsense"); err == nil {
		t.Fatal("invalid duration should fail")
	}
	if _, err := ParseRequestTimeout("-1s"); err == nil {
		t.Fatal("negative duration should fail")
	}
	dur, err := ParseRequestTimeout("")
	if err != nil || dur != 0 {
		t.Fatalf("empty timeout expected 0, got %v %v", dur, err)
	}
}
