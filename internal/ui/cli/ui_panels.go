package cli

import (
	"fmt"
	"strings"

	"esmlex/internal/core/app"
	"esmlex/internal/engine/lexer"
)

func renderHelp(m model) string {
	keys := "Keys: tab panel | / filter | enter details | esc back | q quit"
	if m.mode == panelErrors {
		keys = "Keys: tab panel | / filter | enter details | q quit"
	}
	return statusStyle.Render(keys)
}

func fileSummary(f app.FileReport) string {
	if f.Err != nil {
		return "error"
	}
	parts := []string{
		f.Language,
		fmt.Sprintf("imports=%d", len(f.Result.Imports)),
		fmt.Sprintf("exports=%d", len(f.Result.Exports)),
	}
	if f.Result.Facade {
		parts = append(parts, "facade")
	}
	if !f.Result.HasModuleSyntax {
		parts = append(parts, "script")
	}
	return strings.Join(parts, " ")
}

func selectedPath(m model) (string, bool) {
	paths := m.ordered
	idx := m.fileList.Index()
	if m.mode == panelErrors {
		paths = m.failed
		idx = m.errorList.Index()
	}
	if len(paths) == 0 {
		return "", false
	}
	if idx < 0 || idx >= len(paths) {
		idx = 0
	}
	return paths[idx], true
}

func renderDetails(m model) string {
	path, ok := selectedPath(m)
	if !ok {
		return statusStyle.Render("No file selected.")
	}
	f := m.files[path]
	if f.Err != nil {
		return errorStyle.Render(path) + "\n" + indent(f.Err.Error())
	}

	lines := []string{fmt.Sprintf("File Detail: %s (%s)", path, f.Language)}
	lines = append(lines, fmt.Sprintf("  Imports (%d):", len(f.Result.Imports)))
	for _, imp := range f.Result.Imports {
		lines = append(lines, "    "+importLine(imp))
	}
	lines = append(lines, fmt.Sprintf("  Exports (%d):", len(f.Result.Exports)))
	for _, exp := range f.Result.Exports {
		line := fmt.Sprintf("    %s @%d", exp.Name, exp.Start)
		if exp.Local != nil && exp.Local.Name != exp.Name {
			line += " <- " + exp.Local.Name
		}
		lines = append(lines, line)
	}
	lines = append(lines, "  Press esc to close details.")
	return strings.Join(lines, "\n")
}

func importLine(imp lexer.Import) string {
	name := "<expr>"
	if imp.Name != nil {
		name = *imp.Name
	}
	switch imp.Kind {
	case lexer.ImportMeta:
		return fmt.Sprintf("import.meta @%d", imp.Start)
	case lexer.ImportDynamic:
		return fmt.Sprintf("import(%s) @%d", name, imp.Start)
	default:
		return fmt.Sprintf("%s @%d", name, imp.Start)
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}
