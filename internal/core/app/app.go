// Package app wires configuration, the lexer, the result cache and the
// filesystem watcher into the operations exposed by the CLI and HTTP API.
package app

import (
	"log/slog"

	"esmlex/internal/core/config"
	"esmlex/internal/data/cache"
	"esmlex/internal/engine/lexer"
	"esmlex/internal/engine/parser"
	"esmlex/internal/shared/util"
)

type App struct {
	Config *config.Config
	Lexer  *lexer.Lexer
	// Cache is nil when caching is disabled.
	Cache *cache.Store

	filter *util.PathFilter
	logger *slog.Logger
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}

	registry, err := parser.BuildLanguageRegistry(cfg.LanguageOverrides())
	if err != nil {
		return nil, err
	}
	loader, err := parser.NewGrammarLoader(registry)
	if err != nil {
		return nil, err
	}
	p := parser.NewParser(loader)

	filter, err := util.NewPathFilter(cfg.Scan.Exclude.Dirs, cfg.Scan.Exclude.Files, p.SupportedExtensions())
	if err != nil {
		return nil, err
	}

	a := &App{
		Config: cfg,
		Lexer:  lexer.New(p, lexer.WithWorkers(cfg.Scan.Workers), lexer.WithLogger(logger)),
		filter: filter,
		logger: logger,
	}

	if cfg.Cache.Enabled {
		store, err := cache.Open(cfg.Cache.Path, cache.WithMemoryEntries(cfg.Cache.MemoryEntries))
		if err != nil {
			return nil, err
		}
		a.Cache = store
	}
	return a, nil
}

func (a *App) Close() error {
	if a.Cache != nil {
		return a.Cache.Close()
	}
	return nil
}

func (a *App) Logger() *slog.Logger {
	return a.logger
}
