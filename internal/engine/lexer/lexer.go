package lexer

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"esmlex/internal/core/errors"
	"esmlex/internal/engine/parser"
	"esmlex/internal/shared/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Lexer extracts module records from JavaScript and TypeScript sources. It is
// safe for concurrent use; every call builds its own state.
type Lexer struct {
	parser  *parser.Parser
	workers int
	logger  *slog.Logger
}

type Option func(*Lexer)

// WithWorkers bounds batch concurrency. Values below 1 mean GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(l *Lexer) {
		if n > 0 {
			l.workers = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Lexer) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func New(p *parser.Parser, opts ...Option) *Lexer {
	l := &Lexer{
		parser:  p,
		workers: runtime.GOMAXPROCS(0),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewDefault builds a lexer over the default language registry.
func NewDefault(opts ...Option) (*Lexer, error) {
	loader, err := parser.NewGrammarLoader(nil)
	if err != nil {
		return nil, err
	}
	return New(parser.NewParser(loader), opts...), nil
}

func (l *Lexer) Parser() *parser.Parser {
	return l.parser
}

// Parse lexes one file. The module kind comes from path. Syntax errors are
// returned as a CodeSyntax error wrapping *parser.SyntaxError; nothing is
// extracted from an invalid file.
func (l *Lexer) Parse(ctx context.Context, source []byte, path string) (*Result, error) {
	ctx, span := observability.Tracer.Start(ctx, "lexer.Parse", trace.WithAttributes(
		attribute.String("file.path", path),
		attribute.Int("file.size", len(source)),
	))
	defer span.End()

	language := "unknown"
	if spec, err := l.parser.Detect(path); err == nil {
		language = spec.Name
	}
	started := time.Now()

	tree, err := l.parser.Parse(ctx, path, source)
	if err != nil {
		outcome := observability.OutcomeError
		if errors.IsCode(err, errors.CodeSyntax) {
			outcome = observability.OutcomeSyntaxError
		}
		observability.FilesLexedTotal.WithLabelValues(language, outcome).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		l.logger.DebugContext(ctx, "lex failed", "path", path, "error", err)
		return nil, err
	}
	defer tree.Close()

	table := NewOffsetTable(source)
	vc := newVisitContext(source, tree.AttributeClauses())
	vc.walk(tree.Root())
	res := finalize(vc, table)

	observability.LexDuration.WithLabelValues(language).Observe(time.Since(started).Seconds())
	observability.FilesLexedTotal.WithLabelValues(language, observability.OutcomeOK).Inc()
	recordCounts(res)
	span.SetAttributes(
		attribute.Int("esm.imports", len(res.Imports)),
		attribute.Int("esm.exports", len(res.Exports)),
		attribute.Bool("esm.facade", res.Facade),
	)
	return res, nil
}

// ParseAsync runs Parse on its own goroutine. The channel receives exactly one
// outcome and is then closed.
func (l *Lexer) ParseAsync(ctx context.Context, source []byte, path string) <-chan Outcome {
	out := make(chan Outcome, 1)
	go func() {
		defer close(out)
		res, err := l.Parse(ctx, source, path)
		out <- Outcome{Path: path, Result: res, Err: err}
	}()
	return out
}

func recordCounts(res *Result) {
	for _, imp := range res.Imports {
		observability.RecordsTotal.WithLabelValues("import_" + imp.Kind.String()).Inc()
	}
	if n := len(res.Exports); n > 0 {
		observability.RecordsTotal.WithLabelValues("export").Add(float64(n))
	}
}
