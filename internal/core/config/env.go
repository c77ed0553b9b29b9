package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: ESMLEX_[SECTION]_[KEY] (e.g., ESMLEX_SERVER_ADDR).
func ApplyEnvOverrides(cfg *Config) {
	setEnvInt(&cfg.Scan.Workers, "ESMLEX_SCAN_WORKERS")

	setEnvBool(&cfg.Cache.Enabled, "ESMLEX_CACHE_ENABLED")
	setEnvString(&cfg.Cache.Path, "ESMLEX_CACHE_PATH")
	setEnvInt(&cfg.Cache.MemoryEntries, "ESMLEX_CACHE_MEMORY_ENTRIES")

	setEnvDuration(&cfg.Watch.Debounce, "ESMLEX_WATCH_DEBOUNCE")

	setEnvString(&cfg.Server.Addr, "ESMLEX_SERVER_ADDR")
	setEnvFloat64(&cfg.Server.RateLimit, "ESMLEX_SERVER_RATE_LIMIT")
	setEnvInt(&cfg.Server.Burst, "ESMLEX_SERVER_BURST")

	setEnvString(&cfg.Observability.OTLPEndpoint, "ESMLEX_OBSERVABILITY_OTLP_ENDPOINT")
	setEnvBool(&cfg.Observability.OTLPInsecure, "ESMLEX_OBSERVABILITY_OTLP_INSECURE")

	setEnvString(&cfg.Output.Format, "ESMLEX_OUTPUT_FORMAT")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key)
		*target = val
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			*target = b
		} else {
			slog.Warn("invalid bool env override", "key", key, "value", val)
		}
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			*target = i
		} else {
			slog.Warn("invalid int env override", "key", key, "value", val)
		}
	}
}

func setEnvFloat64(target *float64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			*target = f
		} else {
			slog.Warn("invalid float env override", "key", key, "value", val)
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			*target = d
		} else {
			slog.Warn("invalid duration env override", "key", key, "value", val)
		}
	}
}
