package config

import (
	"fmt"
	"strings"

	"esmlex/internal/core/errors"
	"esmlex/internal/engine/parser"

	"github.com/gobwas/glob"
)

var outputFormats = map[string]bool{"json": true, "tsv": true, "text": true}

func Validate(cfg *Config) error {
	for _, check := range []func(*Config) error{
		validateVersion,
		validateLanguages,
		validateScan,
		validateServer,
		validateObservability,
		validateOutput,
	} {
		if err := check(cfg); err != nil {
			return errors.Wrap(err, errors.CodeValidationError, "invalid config")
		}
	}
	return nil
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateLanguages(cfg *Config) error {
	_, err := parser.BuildLanguageRegistry(cfg.LanguageOverrides())
	return err
}

func validateScan(cfg *Config) error {
	if cfg.Scan.Workers < 0 {
		return fmt.Errorf("scan.workers must be >= 0, got %d", cfg.Scan.Workers)
	}
	for _, pattern := range append(append([]string(nil), cfg.Scan.Exclude.Dirs...), cfg.Scan.Exclude.Files...) {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("scan.exclude patterns must not be empty")
		}
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("scan.exclude pattern %q: %w", pattern, err)
		}
	}
	return nil
}

func validateServer(cfg *Config) error {
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if cfg.Server.Burst < 1 {
		return fmt.Errorf("server.burst must be >= 1")
	}
	return nil
}

func validateObservability(cfg *Config) error {
	if cfg.Observability.SampleRatio > 1 {
		return fmt.Errorf("observability.sample_ratio must be in (0, 1], got %v", cfg.Observability.SampleRatio)
	}
	return nil
}

func validateOutput(cfg *Config) error {
	format := strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	if !outputFormats[format] {
		return fmt.Errorf("output.format must be one of: json, tsv, text")
	}
	cfg.Output.Format = format
	return nil
}

// LanguageOverrides converts the [languages] table for the parser registry.
func (c *Config) LanguageOverrides() map[string]parser.LanguageOverride {
	if len(c.Languages) == 0 {
		return nil
	}
	out := make(map[string]parser.LanguageOverride, len(c.Languages))
	for id, lang := range c.Languages {
		out[strings.ToLower(strings.TrimSpace(id))] = parser.LanguageOverride{
			Enabled:    lang.Enabled,
			Extensions: lang.Extensions,
		}
	}
	return out
}
