package report

import (
	"fmt"
	"io"
	"strings"

	"esmlex/internal/core/app"
	"esmlex/internal/engine/lexer"
)

const tsvHeader = "Kind\tFile\tName\tStart\tEnd\tStatementStart\tStatementEnd\tDynamic\tAttributes\tLocal\n"

func writeTSV(w io.Writer, files []app.FileReport) error {
	var buf strings.Builder
	buf.WriteString(tsvHeader)

	for _, f := range files {
		if f.Err != nil {
			buf.WriteString(fmt.Sprintf("error\t%s\t%s\t\t\t\t\t\t\t\n", f.Path, tsvEscape(errorOf(f.Err).Message)))
			continue
		}
		for _, imp := range f.Result.Imports {
			name := ""
			if imp.Name != nil {
				name = *imp.Name
			}
			buf.WriteString(fmt.Sprintf("%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\t%s\t\n",
				importKindLabel(imp),
				f.Path,
				tsvEscape(name),
				imp.Start,
				imp.End,
				imp.StatementStart,
				imp.StatementEnd,
				dynamicColumn(imp),
				positionColumn(imp.Attributes),
			))
		}
		for _, exp := range f.Result.Exports {
			local := ""
			if exp.Local != nil {
				local = exp.Local.Name
			}
			buf.WriteString(fmt.Sprintf("export\t%s\t%s\t%d\t%d\t\t\t\t\t%s\n",
				f.Path,
				tsvEscape(exp.Name),
				exp.Start,
				exp.End,
				tsvEscape(local),
			))
		}
	}

	_, err := io.WriteString(w, buf.String())
	return err
}

func dynamicColumn(imp lexer.Import) string {
	switch imp.Kind {
	case lexer.ImportMeta:
		return "meta"
	case lexer.ImportDynamic:
		return positionColumn(imp.DynamicStart)
	default:
		return ""
	}
}

func positionColumn(p lexer.Position) string {
	if !p.Valid {
		return ""
	}
	return fmt.Sprintf("%d", p.Offset)
}

var tsvReplacer = strings.NewReplacer("\t", `\t`, "\n", `\n`, "\r", `\r`)

func tsvEscape(s string) string {
	return tsvReplacer.Replace(s)
}
