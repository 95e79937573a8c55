package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// SecurityConfig controls the preflight checks that run before a session is armed.
type SecurityConfig struct {
	RequireRoot         bool     `yaml:"require_root"`
	RequireConfirmation bool     `yaml:"require_confirmation"`
	ProtectedPaths      []string `yaml:"protected_paths"`
}

// WipeConfig tunes the overwrite loop and progress reporting.
// Pass order and pass content are fixed by the destruction contract
// and are deliberately not configurable.
type WipeConfig struct {
	BufferSize        int    `yaml:"buffer_size"`
	ProgressEvery     int    `yaml:"progress_every"`
	HeartbeatInterval string `yaml:"heartbeat_interval"`
}

// SweepConfig describes the post-destruction cache sweep.
type SweepConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
	Prefix  string `yaml:"prefix"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type ReportingConfig struct {
	Enabled   bool   `yaml:"enabled"`
	LocalPath string `yaml:"local_path"`
}

type Config struct {
	// Targets are the root paths destroyed in panic mode. Entries may be
	// files or directories and may not exist at run time.
	Targets []string `yaml:"targets"`

	// CountdownSeconds is the cancellable delay before destruction begins.
	CountdownSeconds int `yaml:"countdown_seconds"`

	Security  SecurityConfig  `yaml:"security"`
	Wipe      WipeConfig      `yaml:"wipe"`
	Sweep     SweepConfig     `yaml:"sweep"`
	Logging   LoggingConfig   `yaml:"logging"`
	Reporting ReportingConfig `yaml:"reporting"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Targets:          []string{},
		CountdownSeconds: 10,
		Security: SecurityConfig{
			RequireRoot:         false,
			RequireConfirmation: true,
			ProtectedPaths: []string{
				"/", "/bin", "/boot", "/dev", "/etc", "/lib",
				"/proc", "/sbin", "/sys", "/usr", "/var",
			},
		},
		Wipe: WipeConfig{
			BufferSize:        8 * 1024, // 8KiB
			ProgressEvery:     10,
			HeartbeatInterval: "2s",
		},
		Sweep: SweepConfig{
			Enabled: true,
			Dir:     "", // empty means os.TempDir()
			Prefix:  "panicwipe-",
		},
		Logging: LoggingConfig{
			Level: "INFO",
			File:  "",
		},
		Reporting: ReportingConfig{
			Enabled:   true,
			LocalPath: "./reports",
		},
	}
}

// Load reads configuration from path. A missing file falls back to defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks configuration consistency.
func Validate(cfg *Config) error {
	if cfg.CountdownSeconds < 0 {
		return fmt.Errorf("countdown seconds cannot be negative, got %d", cfg.CountdownSeconds)
	}
	if cfg.CountdownSeconds > 3600 {
		return fmt.Errorf("countdown seconds too large (max 3600), got %d", cfg.CountdownSeconds)
	}

	if cfg.Wipe.BufferSize <= 0 {
		return fmt.Errorf("wipe buffer size must be positive, got %d", cfg.Wipe.BufferSize)
	}
	if cfg.Wipe.BufferSize > 64*1024*1024 { // 64MB max
		return fmt.Errorf("wipe buffer size too large (max 64MB), got %d", cfg.Wipe.BufferSize)
	}

	if cfg.Wipe.ProgressEvery <= 0 {
		return fmt.Errorf("progress interval must be positive, got %d", cfg.Wipe.ProgressEvery)
	}

	if cfg.Wipe.HeartbeatInterval != "" {
		if _, err := time.ParseDuration(cfg.Wipe.HeartbeatInterval); err != nil {
			return fmt.Errorf("invalid heartbeat interval: %s", cfg.Wipe.HeartbeatInterval)
		}
	}

	if cfg.Sweep.Enabled && cfg.Sweep.Prefix == "" {
		return fmt.Errorf("sweep prefix cannot be empty when sweep is enabled")
	}

	validLevels := map[string]bool{
		"DEBUG": true,
		"INFO":  true,
		"WARN":  true,
		"ERROR": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", cfg.Logging.Level)
	}

	for _, path := range cfg.Security.ProtectedPaths {
		if path == "" {
			return fmt.Errorf("empty protected path")
		}
	}

	for _, target := range cfg.Targets {
		if target == "" {
			return fmt.Errorf("empty destruction target")
		}
		if !filepath.IsAbs(target) {
			return fmt.Errorf("destruction target must be an absolute path: %s", target)
		}
	}

	return nil
}

// Save writes configuration to path.
func Save(cfg *Config, path string) error {
	if err := Validate(cfg); err != nil {
		return fmt.Errorf("cannot save invalid config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// HeartbeatInterval returns the parsed heartbeat interval.
func (cfg *Config) HeartbeatInterval() time.Duration {
	if cfg.Wipe.HeartbeatInterval == "" {
		return 2 * time.Second
	}

	d, err := time.ParseDuration(cfg.Wipe.HeartbeatInterval)
	if err != nil {
		return 2 * time.Second // Fallback
	}

	return d
}

// SweepDir returns the cache sweep directory, defaulting to the system temp dir.
func (cfg *Config) SweepDir() string {
	if cfg.Sweep.Dir != "" {
		return cfg.Sweep.Dir
	}
	return os.TempDir()
}
