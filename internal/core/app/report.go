package app

import (
	"time"

	"esmlex/internal/engine/lexer"
)

// FileReport is the outcome of lexing one file during a scan or watch cycle.
type FileReport struct {
	Path     string
	Language string
	Result   *lexer.Result
	Err      error
	Cached   bool
}

type Report struct {
	RunID     string
	Roots     []string
	StartedAt time.Time
	Duration  time.Duration
	Files     []FileReport
}

type Stats struct {
	Files     int
	Failed    int
	CacheHits int
	Imports   int
	Exports   int
	Facades   int
	Modules   int
}

func (r *Report) Stats() Stats {
	var s Stats
	for _, f := range r.Files {
		s.Files++
		if f.Cached {
			s.CacheHits++
		}
		if f.Err != nil {
			s.Failed++
			continue
		}
		s.Imports += len(f.Result.Imports)
		s.Exports += len(f.Result.Exports)
		if f.Result.Facade {
			s.Facades++
		}
		if f.Result.HasModuleSyntax {
			s.Modules++
		}
	}
	return s
}

// Failures returns the failed files in report order.
func (r *Report) Failures() []FileReport {
	var out []FileReport
	for _, f := range r.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}
