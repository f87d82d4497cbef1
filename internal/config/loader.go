package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// EnvConfig points at an explicit config file.
	EnvConfig = "KAIZEN_CONFIG"
	// UserConfigDir is the directory for user-level config, relative to $HOME.
	UserConfigDir = ".kaizen"
	// UserConfigFile is the name of the user-level config file.
	UserConfigFile = "config.yaml"
)

// Load layers DefaultConfig, the YAML file at path (or $KAIZEN_CONFIG, or
// ~/.kaizen/config.yaml) and environment overrides, then validates the result.
// A missing file is not an error; an unreadable or malformed one is.
func Load(path string, logger *slog.Logger) (*Config, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		if path = os.Getenv(EnvConfig); path != "" {
			explicit = true
		} else {
			path = userConfigPath()
		}
	}
	if path != "" {
		fileCfg, err := LoadFromFile(path)
		switch {
		case err == nil:
			logger.Debug("loaded config file", slog.String("path", path))
			cfg.Merge(fileCfg)
		case os.IsNotExist(err) && !explicit:
			logger.Debug("no config file", slog.String("path", path))
		default:
			return nil, err
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("KAIZEN_DB"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("KAIZEN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("KAIZEN_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.Server.AllowedOrigins = origins
	}
	if v := os.Getenv("KAIZEN_TZ"); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv("KAIZEN_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("KAIZEN_WAKE_CUTOFF"); v != "" {
		cfg.Scoring.EarlyWakeCutoff = v
	}
	if v := os.Getenv("KAIZEN_LEDGER_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Scoring.LedgerRetries = n
		}
	}
}

func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}
