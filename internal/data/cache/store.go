// Package cache persists lexer results keyed by content hash, along with a
// log of scan runs.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"esmlex/internal/engine/lexer"
	"esmlex/internal/shared/observability"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5

	// keyVersion is mixed into every cache key; bump it when lexer output changes.
	keyVersion = "esmlex/v1"
)

type Store struct {
	path   string
	db     *sql.DB
	mu     sync.Mutex
	memory *memoryTier[string, *lexer.Result]
}

type Option func(*Store)

// WithMemoryEntries keeps up to n decoded results in memory ahead of sqlite.
// n <= 0 disables the memory tier.
func WithMemoryEntries(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.memory = newMemoryTier[string, *lexer.Result](n)
		}
	}
}

type Run struct {
	ID          string
	Root        string
	StartedAt   time.Time
	Duration    time.Duration
	FileCount   int
	FailedCount int
	CacheHits   int
	ImportCount int
	ExportCount int
}

func Open(path string, opts ...Option) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("cache path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("cache path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts while watch mode rewrites entries.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite cache %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite cache %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	s := &Store{path: cleanPath, db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Key derives the cache key for source text lexed with the given language.
func Key(language string, source []byte) string {
	h := sha256.New()
	h.Write([]byte(keyVersion))
	h.Write([]byte{0})
	h.Write([]byte(language))
	h.Write([]byte{0})
	h.Write(source)
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached result for key. The boolean reports a hit.
func (s *Store) Get(key string) (*lexer.Result, bool, error) {
	if s.memory != nil {
		if res, ok := s.memory.get(key); ok {
			observability.CacheLookupsTotal.WithLabelValues("memory").Inc()
			return res, true, nil
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var payload string
	err := s.withRetry("get result", func() error {
		return s.db.QueryRow(`SELECT payload FROM lex_results WHERE cache_key = ?`, key).Scan(&payload)
	})
	if errors.Is(err, sql.ErrNoRows) {
		observability.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var res lexer.Result
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		return nil, false, fmt.Errorf("decode cached result %s: %w", key, err)
	}
	observability.CacheLookupsTotal.WithLabelValues("hit").Inc()
	if s.memory != nil {
		s.memory.put(key, &res)
	}
	return &res, true, nil
}

func (s *Store) Put(key, language string, res *lexer.Result) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	if s.memory != nil {
		s.memory.put(key, res)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withRetry("put result", func() error {
		_, err := s.db.Exec(`
INSERT INTO lex_results (cache_key, language, payload, updated_at_utc) VALUES (?, ?, ?, ?)
ON CONFLICT(cache_key) DO UPDATE SET
  payload=excluded.payload,
  updated_at_utc=excluded.updated_at_utc
`, key, language, string(payload), time.Now().UTC().Format(time.RFC3339Nano))
		return err
	})
}

// Prune drops entries not refreshed since the cutoff and returns how many went.
// The memory tier is emptied as well.
func (s *Store) Prune(olderThan time.Time) (int64, error) {
	if s.memory != nil {
		s.memory.clear()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	err := s.withRetry("prune results", func() error {
		res, err := s.db.Exec(`DELETE FROM lex_results WHERE updated_at_utc < ?`, olderThan.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	return n, err
}

// RecordRun stores a scan run, assigning an id when the run has none.
func (s *Store) RecordRun(run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.withRetry("record run", func() error {
		_, err := s.db.Exec(`
INSERT INTO scan_runs (
  run_id, root, started_at_utc, duration_ms, file_count, failed_count, cache_hits, import_count, export_count
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
			run.ID,
			run.Root,
			run.StartedAt.UTC().Format(time.RFC3339Nano),
			run.Duration.Milliseconds(),
			run.FileCount,
			run.FailedCount,
			run.CacheHits,
			run.ImportCount,
			run.ExportCount,
		)
		return err
	})
	return run, err
}

// Runs lists the most recent scan runs, newest first.
func (s *Store) Runs(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var rows *sql.Rows
	err := s.withRetry("load runs", func() error {
		var qErr error
		rows, qErr = s.db.Query(`
SELECT run_id, root, started_at_utc, duration_ms, file_count, failed_count, cache_hits, import_count, export_count
FROM scan_runs
ORDER BY started_at_utc DESC, run_id ASC
LIMIT ?
`, limit)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		var (
			run        Run
			startedRaw string
			durationMS int64
		)
		if err := rows.Scan(
			&run.ID,
			&run.Root,
			&startedRaw,
			&durationMS,
			&run.FileCount,
			&run.FailedCount,
			&run.CacheHits,
			&run.ImportCount,
			&run.ExportCount,
		); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		started, err := time.Parse(time.RFC3339Nano, startedRaw)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp %q: %w", startedRaw, err)
		}
		run.StartedAt = started.UTC()
		run.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}
	return runs, nil
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}
