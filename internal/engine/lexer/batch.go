package lexer

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"esmlex/internal/core/errors"
	"esmlex/internal/engine/parser"
	"esmlex/internal/shared/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// ParseAll lexes every input concurrently and returns outcomes in input
// order. A failing file never affects the others. Files not yet started when
// ctx is cancelled report the context error.
func (l *Lexer) ParseAll(ctx context.Context, inputs []Input) []Outcome {
	ctx, span := observability.Tracer.Start(ctx, "lexer.ParseAll", trace.WithAttributes(
		attribute.Int("batch.files", len(inputs)),
	))
	defer span.End()
	observability.BatchSize.Observe(float64(len(inputs)))

	outcomes := make([]Outcome, len(inputs))
	var g errgroup.Group
	g.SetLimit(l.workers)
	for i, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				outcomes[i] = Outcome{Path: in.Path, Err: err}
				return nil
			}
			res, err := l.Parse(ctx, in.Source, in.Path)
			outcomes[i] = Outcome{Path: in.Path, Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

// ParseAllAsync runs ParseAll on its own goroutine.
func (l *Lexer) ParseAllAsync(ctx context.Context, inputs []Input) <-chan []Outcome {
	out := make(chan []Outcome, 1)
	go func() {
		defer close(out)
		out <- l.ParseAll(ctx, inputs)
	}()
	return out
}

// ParseMultiple returns every file's outcome keyed by path. When a path
// appears twice the later input wins.
func (l *Lexer) ParseMultiple(ctx context.Context, inputs []Input) map[string]Outcome {
	outcomes := l.ParseAll(ctx, inputs)
	byPath := make(map[string]Outcome, len(outcomes))
	for _, o := range outcomes {
		byPath[o.Path] = o
	}
	return byPath
}

// ParseMultipleStrict returns all results, or a single *BatchError listing
// every failed file when any file failed.
func (l *Lexer) ParseMultipleStrict(ctx context.Context, inputs []Input) (map[string]*Result, error) {
	outcomes := l.ParseAll(ctx, inputs)
	results := make(map[string]*Result, len(outcomes))
	var failures []Outcome
	for _, o := range outcomes {
		if o.Err != nil {
			failures = append(failures, o)
			continue
		}
		results[o.Path] = o.Result
	}
	if len(failures) > 0 {
		batchErr := &BatchError{Total: len(inputs), Failures: failures}
		return nil, errors.AddContext(
			errors.Wrap(batchErr, errors.CodeOf(failures[0].Err), "batch failed"),
			errors.CtxFiles, len(failures),
		)
	}
	return results, nil
}

// BatchError aggregates the failures of a strict batch.
type BatchError struct {
	Total    int
	Failures []Outcome
}

func (e *BatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d of %d files failed:", len(e.Failures), e.Total)
	for _, f := range e.Failures {
		b.WriteString("\n")
		b.WriteString(formatFailure(f))
	}
	return b.String()
}

// Unwrap exposes every per-file error to errors.Is and errors.As.
func (e *BatchError) Unwrap() []error {
	out := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		out = append(out, f.Err)
	}
	return out
}

const failureIndent = "  "

func formatFailure(o Outcome) string {
	var synErr *parser.SyntaxError
	if stderrors.As(o.Err, &synErr) {
		return synErr.Indented(failureIndent)
	}
	return fmt.Sprintf("%s%s:\n%s%s%v", failureIndent, o.Path, failureIndent, failureIndent, o.Err)
}
