package app

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"esmlex/internal/core/errors"
	"esmlex/internal/data/cache"
	"esmlex/internal/engine/lexer"
	"esmlex/internal/shared/observability"
	"esmlex/internal/shared/util"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ScanDirectories lists every lexable file below roots, sorted.
func (a *App) ScanDirectories(roots []string) ([]string, error) {
	var files []string
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "scan root"), errors.CtxPath, root)
		}
		if !info.IsDir() {
			if a.filter.Accept(root) {
				files = append(files, root)
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && a.filter.SkipDir(path) {
					return filepath.SkipDir
				}
				return nil
			}
			if a.filter.Accept(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

// Scan lexes every file below roots, consulting the cache when enabled, and
// records the run.
func (a *App) Scan(ctx context.Context, roots []string) (*Report, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.Scan")
	defer span.End()

	roots, err := util.UniqueRoots(roots)
	if err != nil {
		return nil, err
	}
	files, err := a.ScanDirectories(roots)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("scan.files", len(files)))

	report := &Report{
		RunID:     uuid.NewString(),
		Roots:     roots,
		StartedAt: time.Now(),
	}
	report.Files = a.LexFiles(ctx, files)
	report.Duration = time.Since(report.StartedAt)
	observability.ScanDuration.Observe(report.Duration.Seconds())

	if a.Cache != nil {
		if err := a.recordRun(report); err != nil {
			a.logger.Warn("failed to record scan run", "run_id", report.RunID, "error", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// LexFiles reads and lexes paths, returning one report per path in order.
// Files missing from disk report a NOT_FOUND error.
func (a *App) LexFiles(ctx context.Context, paths []string) []FileReport {
	reports := make([]FileReport, len(paths))
	keys := make([]string, len(paths))

	var (
		inputs []lexer.Input
		slots  []int
	)
	for i, path := range paths {
		reports[i].Path = path
		spec, err := a.Lexer.Parser().Detect(path)
		if err != nil {
			reports[i].Err = err
			continue
		}
		reports[i].Language = spec.Name

		source, err := a.readSource(path)
		if err != nil {
			reports[i].Err = err
			continue
		}

		if a.Cache != nil {
			keys[i] = cache.Key(spec.Name, source)
			res, ok, err := a.Cache.Get(keys[i])
			if err != nil {
				a.logger.Warn("cache lookup failed", "path", path, "error", err)
			} else if ok {
				reports[i].Result = res
				reports[i].Cached = true
				continue
			}
		}

		inputs = append(inputs, lexer.Input{Source: source, Path: path})
		slots = append(slots, i)
	}

	for j, outcome := range a.Lexer.ParseAll(ctx, inputs) {
		i := slots[j]
		reports[i].Result = outcome.Result
		reports[i].Err = outcome.Err
		if outcome.Err != nil {
			a.logger.Debug("failed to lex file", "path", outcome.Path, "error", outcome.Err)
			continue
		}
		if a.Cache != nil {
			if err := a.Cache.Put(keys[i], reports[i].Language, outcome.Result); err != nil {
				a.logger.Warn("cache store failed", "path", outcome.Path, "error", err)
			}
		}
	}

	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("scan.lexed", len(inputs)))
	return reports
}

func (a *App) readSource(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "source file"), errors.CtxPath, path)
		}
		return nil, err
	}
	if limit := a.Config.Scan.MaxFileBytes; limit > 0 && info.Size() > limit {
		return nil, errors.AddContext(
			errors.New(errors.CodeValidationError, fmt.Sprintf("file is %d bytes, limit is %d", info.Size(), limit)),
			errors.CtxPath, path,
		)
	}
	return os.ReadFile(path)
}

func (a *App) recordRun(report *Report) error {
	stats := report.Stats()
	root := ""
	if len(report.Roots) > 0 {
		root = report.Roots[0]
	}
	_, err := a.Cache.RecordRun(cache.Run{
		ID:          report.RunID,
		Root:        root,
		StartedAt:   report.StartedAt,
		Duration:    report.Duration,
		FileCount:   stats.Files,
		FailedCount: stats.Failed,
		CacheHits:   stats.CacheHits,
		ImportCount: stats.Imports,
		ExportCount: stats.Exports,
	})
	return err
}

// Runs lists recorded scan runs, newest first.
func (a *App) Runs(limit int) ([]cache.Run, error) {
	if a.Cache == nil {
		return nil, errors.New(errors.CodeNotSupported, "scan history requires [cache] enabled = true")
	}
	return a.Cache.Runs(limit)
}
