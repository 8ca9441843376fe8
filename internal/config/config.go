package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultFile is read when no configuration file is named explicitly.
	DefaultFile = ".rsmatch.yaml"
	// DefaultEnvFile is loaded into the environment when present.
	DefaultEnvFile = ".env"
)

// Config holds the application's configuration.
type Config struct {
	LogLevel          string        `yaml:"log_level"`
	TraceDSN          string        `yaml:"trace_dsn"`
	TraceDebug        bool          `yaml:"trace_debug"`
	Features          []string      `yaml:"features"`
	Root              string        `yaml:"root"`
	CacheTTL          time.Duration `yaml:"cache_ttl"`
	DisabledProviders []string      `yaml:"disabled_providers"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Root:     ".",
		CacheTTL: 5 * time.Minute,
	}
}

// Load layers the defaults, the YAML file at path, the .env file and the
// process environment, later layers winning. An empty path reads
// DefaultFile if it exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	optional := path == ""
	if optional {
		path = DefaultFile
	}
	if err := cfg.ReadFile(path); err != nil {
		if !optional || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	if err := LoadEnvFile(DefaultEnvFile); err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// ReadFile overlays the YAML document at path onto c. Keys absent from the
// document keep their current values.
func (c *Config) ReadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

// LoadEnvFile loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays RSMATCH_* environment variables onto c. Values that do
// not parse are ignored.
func (c *Config) ApplyEnv() {
	if level := os.Getenv("RSMATCH_LOG_LEVEL"); level != "" {
		if _, err := zapcore.ParseLevel(level); err == nil {
			c.LogLevel = level
		}
	}
	if dsn, ok := os.LookupEnv("RSMATCH_TRACE_DSN"); ok {
		c.TraceDSN = dsn
	}
	if debugStr := os.Getenv("RSMATCH_TRACE_DEBUG"); debugStr != "" {
		if debug, err := strconv.ParseBool(debugStr); err == nil {
			c.TraceDebug = debug
		}
	}
	if features, ok := os.LookupEnv("RSMATCH_FEATURES"); ok {
		c.Features = splitList(features)
	}
	if root := os.Getenv("RSMATCH_ROOT"); root != "" {
		c.Root = root
	}
	if ttlStr := os.Getenv("RSMATCH_CACHE_TTL"); ttlStr != "" {
		if ttl, err := time.ParseDuration(ttlStr); err == nil && ttl >= 0 {
			c.CacheTTL = ttl
		}
	}
	if disabled, ok := os.LookupEnv("RSMATCH_DISABLED_PROVIDERS"); ok {
		c.DisabledProviders = splitList(disabled)
	}
}

// Level returns the parsed log level, falling back to info.
func (c *Config) Level() zapcore.Level {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
