package report

import (
	"encoding/json"
	"io"
	"time"

	"esmlex/internal/core/app"
	"esmlex/internal/engine/lexer"
)

type fileJSON struct {
	Path     string            `json:"path"`
	Language string            `json:"language,omitempty"`
	Cached   bool              `json:"cached,omitempty"`
	Result   *lexer.WireOutput `json:"result,omitempty"`
	Error    *errorJSON        `json:"error,omitempty"`
}

type statsJSON struct {
	Files     int `json:"files"`
	Failed    int `json:"failed"`
	CacheHits int `json:"cacheHits"`
	Imports   int `json:"imports"`
	Exports   int `json:"exports"`
	Facades   int `json:"facades"`
	Modules   int `json:"modules"`
}

type reportJSON struct {
	RunID      string     `json:"runId"`
	Roots      []string   `json:"roots"`
	StartedAt  time.Time  `json:"startedAt"`
	DurationMS int64      `json:"durationMs"`
	Stats      statsJSON  `json:"stats"`
	Files      []fileJSON `json:"files"`
}

func writeJSON(w io.Writer, rep *app.Report) error {
	s := rep.Stats()
	out := reportJSON{
		RunID:      rep.RunID,
		Roots:      rep.Roots,
		StartedAt:  rep.StartedAt.UTC(),
		DurationMS: rep.Duration.Milliseconds(),
		Stats: statsJSON{
			Files:     s.Files,
			Failed:    s.Failed,
			CacheHits: s.CacheHits,
			Imports:   s.Imports,
			Exports:   s.Exports,
			Facades:   s.Facades,
			Modules:   s.Modules,
		},
		Files: filesJSON(rep.Files),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeFilesJSON(w io.Writer, files []app.FileReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(filesJSON(files))
}

func filesJSON(files []app.FileReport) []fileJSON {
	out := make([]fileJSON, 0, len(files))
	for _, f := range files {
		entry := fileJSON{
			Path:     f.Path,
			Language: f.Language,
			Cached:   f.Cached,
			Error:    errorOf(f.Err),
		}
		if f.Err == nil && f.Result != nil {
			wire := lexer.ToWire(f.Result)
			entry.Result = &wire
		}
		out = append(out, entry)
	}
	return out
}
