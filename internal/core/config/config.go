package config

import (
	"time"
)

const DefaultFile = "esmlex.toml"

type Config struct {
	Version       int                 `toml:"version"`
	Languages     map[string]Language `toml:"languages"`
	Scan          Scan                `toml:"scan"`
	Cache         Cache               `toml:"cache"`
	Watch         Watch               `toml:"watch"`
	Server        Server              `toml:"server"`
	Observability Observability       `toml:"observability"`
	Output        Output              `toml:"output"`
}

type Language struct {
	Enabled    *bool    `toml:"enabled"`
	Extensions []string `toml:"extensions"`
}

type Scan struct {
	// Workers bounds batch concurrency; 0 means GOMAXPROCS.
	Workers      int     `toml:"workers"`
	MaxFileBytes int64   `toml:"max_file_bytes"`
	Exclude      Exclude `toml:"exclude"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Cache struct {
	Enabled       bool   `toml:"enabled"`
	Path          string `toml:"path"`
	// MemoryEntries bounds the in-process LRU in front of the sqlite file.
	// A negative value turns it off.
	MemoryEntries int    `toml:"memory_entries"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

type Server struct {
	Addr         string  `toml:"addr"`
	RateLimit    float64 `toml:"rate_limit"`
	Burst        int     `toml:"burst"`
	MaxBodyBytes int64   `toml:"max_body_bytes"`
	MaxBatch     int     `toml:"max_batch"`
}

type Observability struct {
	ServiceName  string  `toml:"service_name"`
	OTLPEndpoint string  `toml:"otlp_endpoint"`
	OTLPInsecure bool    `toml:"otlp_insecure"`
	SampleRatio  float64 `toml:"sample_ratio"`
}

type Output struct {
	Format string `toml:"format"`
}

// Default returns a fully defaulted configuration, used when no file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}
