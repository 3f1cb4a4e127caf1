// Package config provides configuration types, defaults and validation for opcalc.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/opcalc/internal/flags"
	"github.com/zjrosen/opcalc/internal/log"
	"github.com/zjrosen/opcalc/internal/paths"
	"github.com/zjrosen/opcalc/internal/tracing"
)

// Config holds all configuration options for opcalc.
type Config struct {
	Operators OperatorsConfig `mapstructure:"operators"`
	Dispatch  DispatchConfig  `mapstructure:"dispatch"`
	Log       LogConfig       `mapstructure:"log"`
	Tracing   tracing.Config  `mapstructure:"tracing"`
	Cache     CacheConfig     `mapstructure:"cache"`
	History   HistoryConfig   `mapstructure:"history"`
	Flags     map[string]bool `mapstructure:"flags"`
}

// OperatorsConfig selects which providers are composed into the registry.
type OperatorsConfig struct {
	// Enabled lists provider names or symbols. Empty enables every builtin.
	Enabled []string `mapstructure:"enabled"`

	// RejectDuplicates fails composition when two providers share a symbol
	// instead of letting the earlier one win.
	RejectDuplicates bool `mapstructure:"reject_duplicates"`
}

// DispatchConfig tunes the dispatch pipeline.
type DispatchConfig struct {
	SlowThreshold time.Duration `mapstructure:"slow_threshold"`
}

// LogConfig controls the debug log sink.
type LogConfig struct {
	Path   string `mapstructure:"path"`
	Level  string `mapstructure:"level"`
	Stderr bool   `mapstructure:"stderr"`
}

// CacheConfig configures the result cache.
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// HistoryConfig configures calculation history persistence.
type HistoryConfig struct {
	Path  string `mapstructure:"path"`
	Limit int    `mapstructure:"limit"`
}

// ConfigDir returns ~/.config/opcalc or "" if the home dir is unavailable.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "opcalc")
}

// DefaultTracesFilePath returns the default path for trace file export.
func DefaultTracesFilePath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "traces", "traces.jsonl")
}

// DefaultHistoryPath returns the default history database path.
func DefaultHistoryPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "history.db")
}

// Defaults returns the default configuration.
func Defaults() Config {
	tc := tracing.DefaultConfig()
	tc.FilePath = DefaultTracesFilePath()
	return Config{
		Operators: OperatorsConfig{},
		Dispatch: DispatchConfig{
			SlowThreshold: 100 * time.Millisecond,
		},
		Log: LogConfig{
			Path:  "debug.log",
			Level: "debug",
		},
		Tracing: tc,
		Cache: CacheConfig{
			TTL: 10 * time.Minute,
		},
		History: HistoryConfig{
			Path:  DefaultHistoryPath(),
			Limit: 20,
		},
		Flags: map[string]bool{
			flags.FlagResultCache:        false,
			flags.FlagHistoryPersistence: false,
		},
	}
}

// ExpandPaths resolves a leading "~" in every configured file path.
func (c *Config) ExpandPaths() {
	c.Log.Path = paths.ExpandHome(c.Log.Path)
	c.Tracing.FilePath = paths.ExpandHome(c.Tracing.FilePath)
	c.History.Path = paths.ExpandHome(c.History.Path)
}

// Validate checks every section and returns the first problem found.
func (c Config) Validate() error {
	if err := ValidateOperators(c.Operators); err != nil {
		return err
	}
	if err := ValidateLog(c.Log); err != nil {
		return err
	}
	if err := ValidateTracing(c.Tracing); err != nil {
		return err
	}
	if c.Dispatch.SlowThreshold < 0 {
		return fmt.Errorf("dispatch.slow_threshold must not be negative, got %v", c.Dispatch.SlowThreshold)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %v", c.Cache.TTL)
	}
	if c.History.Limit < 0 {
		return fmt.Errorf("history.limit must not be negative, got %d", c.History.Limit)
	}
	if c.Flags[flags.FlagHistoryPersistence] && c.History.Path == "" {
		return fmt.Errorf("history.path is required when %s is enabled", flags.FlagHistoryPersistence)
	}
	return nil
}

// ValidateOperators rejects blank or duplicated selectors.
func ValidateOperators(ops OperatorsConfig) error {
	seen := make(map[string]bool, len(ops.Enabled))
	for i, key := range ops.Enabled {
		if key == "" {
			return fmt.Errorf("operators.enabled[%d] is empty", i)
		}
		if seen[key] {
			return fmt.Errorf("operators.enabled lists %q more than once", key)
		}
		seen[key] = true
	}
	return nil
}

// ValidateLog checks the log level name.
func ValidateLog(lc LogConfig) error {
	if lc.Level == "" {
		return nil
	}
	if _, ok := log.ParseLevel(lc.Level); !ok {
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", lc.Level)
	}
	return nil
}

// ValidateTracing validates tracing configuration.
func ValidateTracing(tc tracing.Config) error {
	if tc.SampleRate <= 0.0 || tc.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be greater than 0.0 and at most 1.0, got %v", tc.SampleRate)
	}

	if tc.Exporter != "" {
		switch tc.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tc.Exporter)
		}
	}

	// Path requirements only matter when tracing is on.
	if tc.Enabled {
		if tc.Exporter == "file" && tc.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tc.Exporter == "otlp" && tc.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}
	return nil
}

// DefaultConfigTemplate returns the commented YAML written on first run.
func DefaultConfigTemplate() string {
	return `# opcalc configuration

operators:
  # Providers to compose, by name or symbol. Empty enables every builtin.
  # enabled: [add, subtract, "%"]
  enabled: []
  # Fail at startup if two providers claim the same symbol.
  reject_duplicates: false

dispatch:
  # Dispatches slower than this are logged as warnings.
  slow_threshold: 100ms

log:
  path: debug.log
  level: debug
  stderr: false

tracing:
  enabled: false
  exporter: file        # none, file, stdout, otlp
  # file_path: ~/.config/opcalc/traces/traces.jsonl
  otlp_endpoint: localhost:4317
  sample_rate: 1.0

cache:
  ttl: 10m

history:
  # path: ~/.config/opcalc/history.db
  limit: 20

flags:
  result-cache: false
  history-persistence: false
`
}

// WriteDefaultConfig writes the default template to configPath, creating the
// parent directory.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "created default config", "path", configPath)
	return nil
}
