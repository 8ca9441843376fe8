package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap/zapcore"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.LogLevel != "info" {
		t.Errorf("Expected LogLevel 'info', got '%s'", cfg.LogLevel)
	}
	if cfg.Root != "." {
		t.Errorf("Expected Root '.', got '%s'", cfg.Root)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("Expected CacheTTL 5m, got %v", cfg.CacheTTL)
	}
	if cfg.TraceDSN != "" {
		t.Errorf("Expected empty TraceDSN, got '%s'", cfg.TraceDSN)
	}
}

func TestApplyEnv_EnvironmentVariables(t *testing.T) {
	clearConfigEnvVars()
	defer clearConfigEnvVars()

	os.Setenv("RSMATCH_LOG_LEVEL", "debug")
	os.Setenv("RSMATCH_TRACE_DSN", "file:trace.db")
	os.Setenv("RSMATCH_TRACE_DEBUG", "true")
	os.Setenv("RSMATCH_FEATURES", "serde, std,,")
	os.Setenv("RSMATCH_ROOT", "/src")
	os.Setenv("RSMATCH_CACHE_TTL", "30s")
	os.Setenv("RSMATCH_DISABLED_PROVIDERS", "file_path")

	cfg := Default()
	cfg.ApplyEnv()

	if cfg.LogLevel != "debug" {
		t.Errorf("Expected LogLevel 'debug', got '%s'", cfg.LogLevel)
	}
	if cfg.TraceDSN != "file:trace.db" {
		t.Errorf("Expected TraceDSN 'file:trace.db', got '%s'", cfg.TraceDSN)
	}
	if !cfg.TraceDebug {
		t.Error("Expected TraceDebug true")
	}
	if !reflect.DeepEqual(cfg.Features, []string{"serde", "std"}) {
		t.Errorf("Expected Features [serde std], got %v", cfg.Features)
	}
	if cfg.Root != "/src" {
		t.Errorf("Expected Root '/src', got '%s'", cfg.Root)
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Errorf("Expected CacheTTL 30s, got %v", cfg.CacheTTL)
	}
	if !reflect.DeepEqual(cfg.DisabledProviders, []string{"file_path"}) {
		t.Errorf("Expected DisabledProviders [file_path], got %v", cfg.DisabledProviders)
	}
	if cfg.Level() != zapcore.DebugLevel {
		t.Errorf("Expected debug level, got %v", cfg.Level())
	}
}

func TestApplyEnv_InvalidValuesKeepPrevious(t *testing.T) {
	clearConfigEnvVars()
	defer clearConfigEnvVars()

	os.Setenv("RSMATCH_LOG_LEVEL", "loud")
	os.Setenv("RSMATCH_TRACE_DEBUG", "sometimes")
	os.Setenv("RSMATCH_CACHE_TTL", "soon")

	cfg := Default()
	cfg.TraceDebug = true
	cfg.ApplyEnv()

	if cfg.LogLevel != "info" {
		t.Errorf("Expected LogLevel 'info', got '%s'", cfg.LogLevel)
	}
	if !cfg.TraceDebug {
		t.Error("Expected TraceDebug to stay true")
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("Expected CacheTTL 5m, got %v", cfg.CacheTTL)
	}

	os.Setenv("RSMATCH_CACHE_TTL", "-1s")
	cfg.ApplyEnv()
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("Expected negative CacheTTL to be ignored, got %v", cfg.CacheTTL)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rsmatch.yaml")
	content := "log_level: warn\nfeatures: [serde]\ncache_ttl: 1m\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := cfg.ReadFile(path); err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("Expected LogLevel 'warn', got '%s'", cfg.LogLevel)
	}
	if !reflect.DeepEqual(cfg.Features, []string{"serde"}) {
		t.Errorf("Expected Features [serde], got %v", cfg.Features)
	}
	if cfg.CacheTTL != time.Minute {
		t.Errorf("Expected CacheTTL 1m, got %v", cfg.CacheTTL)
	}
	if cfg.Root != "." {
		t.Errorf("Expected Root to keep default '.', got '%s'", cfg.Root)
	}
}

func TestReadFile_Errors(t *testing.T) {
	dir := t.TempDir()
	if err := Default().ReadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("log_level: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Default().ReadFile(bad); err == nil {
		t.Error("Expected error for malformed YAML")
	}

	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Default().ReadFile(empty); err != nil {
		t.Errorf("Expected empty file to be accepted, got %v", err)
	}
}

func TestLoad_Layers(t *testing.T) {
	clearConfigEnvVars()
	defer clearConfigEnvVars()

	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	if err := os.WriteFile(DefaultFile, []byte("log_level: warn\nroot: from-yaml\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(DefaultEnvFile, []byte("RSMATCH_ROOT=from-dotenv\nRSMATCH_FEATURES=a,b\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	os.Setenv("RSMATCH_FEATURES", "c")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("Expected LogLevel from YAML 'warn', got '%s'", cfg.LogLevel)
	}
	if cfg.Root != "from-dotenv" {
		t.Errorf("Expected Root from .env, got '%s'", cfg.Root)
	}
	if !reflect.DeepEqual(cfg.Features, []string{"c"}) {
		t.Errorf("Expected environment to win over .env, got %v", cfg.Features)
	}

	if _, err := Load("does-not-exist.yaml"); err == nil {
		t.Error("Expected error for explicit missing config file")
	}
}

func TestLoad_NoFiles(t *testing.T) {
	clearConfigEnvVars()
	defer clearConfigEnvVars()

	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func clearConfigEnvVars() {
	envVars := []string{
		"RSMATCH_LOG_LEVEL",
		"RSMATCH_TRACE_DSN",
		"RSMATCH_TRACE_DEBUG",
		"RSMATCH_FEATURES",
		"RSMATCH_ROOT",
		"RSMATCH_CACHE_TTL",
		"RSMATCH_DISABLED_PROVIDERS",
	}
	for _, envVar := range envVars {
		os.Unsetenv(envVar)
	}
}
