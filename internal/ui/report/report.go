// Package report renders lexer results for the CLI.
package report

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"esmlex/internal/core/app"
	"esmlex/internal/core/errors"
	"esmlex/internal/engine/lexer"
	"esmlex/internal/engine/parser"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatTSV  Format = "tsv"
	FormatText Format = "text"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatTSV, FormatText:
		return f, nil
	default:
		return "", errors.New(errors.CodeValidationError, fmt.Sprintf("unknown output format %q (want json, tsv or text)", s))
	}
}

// Write renders a scan report.
func Write(w io.Writer, format Format, rep *app.Report) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, rep)
	case FormatTSV:
		return writeTSV(w, rep.Files)
	case FormatText:
		return writeText(w, rep)
	default:
		return errors.New(errors.CodeValidationError, fmt.Sprintf("unknown output format %q", format))
	}
}

// WriteFiles renders bare file results, as produced by parse and watch.
func WriteFiles(w io.Writer, format Format, files []app.FileReport) error {
	switch format {
	case FormatJSON:
		return writeFilesJSON(w, files)
	case FormatTSV:
		return writeTSV(w, files)
	case FormatText:
		for _, f := range files {
			writeTextFile(w, f)
		}
		return nil
	default:
		return errors.New(errors.CodeValidationError, fmt.Sprintf("unknown output format %q", format))
	}
}

type errorJSON struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}

func errorOf(err error) *errorJSON {
	if err == nil {
		return nil
	}
	out := &errorJSON{Code: string(errors.CodeOf(err)), Message: err.Error()}
	var synErr *parser.SyntaxError
	if stderrors.As(err, &synErr) {
		out.Message = "syntax error"
		out.Diagnostics = synErr.Messages()
	}
	return out
}

func importKindLabel(imp lexer.Import) string {
	return "import_" + imp.Kind.String()
}
