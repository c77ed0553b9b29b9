package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"esmlex/internal/core/app"
	"esmlex/internal/engine/lexer"

	"github.com/charmbracelet/lipgloss"
)

var (
	fileStyle  = lipgloss.NewStyle().Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func writeText(w io.Writer, rep *app.Report) error {
	for _, f := range rep.Files {
		writeTextFile(w, f)
	}
	s := rep.Stats()
	_, err := fmt.Fprintf(w, "\n%d files, %d failed, %d cached | %d imports, %d exports | %d facades | %s\n",
		s.Files, s.Failed, s.CacheHits, s.Imports, s.Exports, s.Facades, rep.Duration.Round(time.Millisecond))
	return err
}

func writeTextFile(w io.Writer, f app.FileReport) {
	if f.Err != nil {
		fmt.Fprintf(w, "%s %s\n", fileStyle.Render(f.Path), errorStyle.Render("error"))
		e := errorOf(f.Err)
		fmt.Fprintf(w, "  %s\n", e.Message)
		for _, d := range e.Diagnostics {
			fmt.Fprintf(w, "  %s\n", strings.ReplaceAll(d, "\n", "\n  "))
		}
		return
	}

	var tags []string
	if f.Result.Facade {
		tags = append(tags, "facade")
	}
	if f.Result.HasModuleSyntax {
		tags = append(tags, "esm")
	}
	if f.Cached {
		tags = append(tags, "cached")
	}
	fmt.Fprintf(w, "%s %s\n", fileStyle.Render(f.Path), dimStyle.Render(strings.Join(tags, ",")))

	for _, imp := range f.Result.Imports {
		fmt.Fprintf(w, "  %s\n", describeImport(imp))
	}
	for _, exp := range f.Result.Exports {
		line := fmt.Sprintf("export %s [%d,%d)", exp.Name, exp.Start, exp.End)
		if exp.Local != nil && exp.Local.Name != exp.Name {
			line += fmt.Sprintf(" from local %s", exp.Local.Name)
		}
		fmt.Fprintf(w, "  %s\n", line)
	}
}

func describeImport(imp lexer.Import) string {
	switch imp.Kind {
	case lexer.ImportMeta:
		return fmt.Sprintf("import.meta [%d,%d)", imp.Start, imp.End)
	case lexer.ImportDynamic:
		if imp.Name == nil {
			return fmt.Sprintf("import(<expr>) [%d,%d)", imp.Start, imp.End)
		}
		return fmt.Sprintf("import(%q) [%d,%d)", *imp.Name, imp.Start, imp.End)
	default:
		line := fmt.Sprintf("import %q [%d,%d)", *imp.Name, imp.Start, imp.End)
		if imp.Attributes.Valid {
			line += " with attributes"
		}
		return line
	}
}
