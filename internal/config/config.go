// Package config loads kaizen settings from defaults, an optional YAML file and
// KAIZEN_* environment variables, in that order of precedence.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/kaizen/internal/domain"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Log      LogConfig      `yaml:"log"`
	// Timezone names the IANA zone calendar days are counted in. Empty means local.
	Timezone string `yaml:"timezone"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type ScoringConfig struct {
	// EarlyWakeCutoff is the latest "HH:MM" wake-up time that still scores as early.
	EarlyWakeCutoff string `yaml:"early_wake_cutoff"`
	// LedgerRetries bounds the retries of a contended ledger update.
	LedgerRetries int `yaml:"ledger_retries"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the built-in settings. The database lives under ~/.kaizen.
func DefaultConfig() *Config {
	dbPath := "kaizen.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".kaizen", "kaizen.db")
	}
	return &Config{
		Database: DatabaseConfig{Path: dbPath},
		Server: ServerConfig{
			Addr:           "127.0.0.1:8080",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Scoring: ScoringConfig{
			EarlyWakeCutoff: "07:00",
			LedgerRetries:   3,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("database.path is required")
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("server.addr is required")
	}
	if _, err := domain.ParseClock(c.Scoring.EarlyWakeCutoff); err != nil {
		return fmt.Errorf("scoring.early_wake_cutoff: %w", err)
	}
	if c.Scoring.LedgerRetries < 0 {
		return fmt.Errorf("scoring.ledger_retries must not be negative")
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Merge overlays the non-zero fields of other onto c.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.Database.Path != "" {
		c.Database.Path = other.Database.Path
	}
	if other.Server.Addr != "" {
		c.Server.Addr = other.Server.Addr
	}
	if len(other.Server.AllowedOrigins) > 0 {
		c.Server.AllowedOrigins = other.Server.AllowedOrigins
	}
	if other.Scoring.EarlyWakeCutoff != "" {
		c.Scoring.EarlyWakeCutoff = other.Scoring.EarlyWakeCutoff
	}
	if other.Scoring.LedgerRetries != 0 {
		c.Scoring.LedgerRetries = other.Scoring.LedgerRetries
	}
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Timezone != "" {
		c.Timezone = other.Timezone
	}
}

// LoadFromFile reads a YAML config file. Missing keys stay zero; callers merge
// the result over DefaultConfig.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// SaveToFile writes the config as YAML, creating the parent directory.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Location resolves Timezone. Empty means the process's local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// WakeCutoffMinutes returns EarlyWakeCutoff as minutes after midnight.
func (c *Config) WakeCutoffMinutes() int {
	m, err := domain.ParseClock(c.Scoring.EarlyWakeCutoff)
	if err != nil {
		return 7 * 60
	}
	return m
}

// SlogLevel maps Log.Level onto a slog level, defaulting to Info.
func (c *Config) SlogLevel() slog.Level {
	lvl, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log.level: unknown level %q", s)
	}
}
