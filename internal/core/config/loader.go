package config

import (
	"os"
	"strings"
	"time"

	"esmlex/internal/core/errors"

	"github.com/BurntSushi/toml"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "decode config"), errors.CtxPath, path)
	}

	applyDefaults(&cfg)
	ApplyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	return &cfg, nil
}

// LoadOrDefault loads path when it exists and falls back to Default otherwise.
// An explicitly requested path must exist.
func LoadOrDefault(path string, explicit bool) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			cfg := Default()
			ApplyEnvOverrides(cfg)
			return cfg, Validate(cfg)
		}
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "config file"), errors.CtxPath, path)
	}
	return Load(path)
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if cfg.Scan.MaxFileBytes <= 0 {
		cfg.Scan.MaxFileBytes = 4 << 20
	}
	if len(cfg.Scan.Exclude.Dirs) == 0 {
		cfg.Scan.Exclude.Dirs = []string{".git", "node_modules", "dist", "build", "coverage"}
	}
	if len(cfg.Scan.Exclude.Files) == 0 {
		cfg.Scan.Exclude.Files = []string{"*.min.js", "*.map"}
	}

	if strings.TrimSpace(cfg.Cache.Path) == "" {
		cfg.Cache.Path = ".esmlex/cache.db"
	}
	if cfg.Cache.MemoryEntries == 0 {
		cfg.Cache.MemoryEntries = 1024
	}

	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = 300 * time.Millisecond
	}

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		cfg.Server.Addr = "127.0.0.1:8787"
	}
	if cfg.Server.RateLimit <= 0 {
		cfg.Server.RateLimit = 50
	}
	if cfg.Server.Burst <= 0 {
		cfg.Server.Burst = 100
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		cfg.Server.MaxBodyBytes = 16 << 20
	}
	if cfg.Server.MaxBatch <= 0 {
		cfg.Server.MaxBatch = 1000
	}

	if strings.TrimSpace(cfg.Observability.ServiceName) == "" {
		cfg.Observability.ServiceName = "esmlex"
	}
	if cfg.Observability.SampleRatio <= 0 {
		cfg.Observability.SampleRatio = 1
	}

	if strings.TrimSpace(cfg.Output.Format) == "" {
		cfg.Output.Format = "json"
	}
}
