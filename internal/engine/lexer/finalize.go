package lexer

// finalize converts the walk's byte-offset records into codepoint records.
func finalize(vc *visitContext, table *OffsetTable) *Result {
	res := &Result{
		Imports:         make([]Import, 0, len(vc.imports)),
		Exports:         make([]Export, 0, len(vc.exports)),
		Facade:          vc.facade,
		HasModuleSyntax: vc.hasModuleSyntax,
	}
	for _, raw := range vc.imports {
		res.Imports = append(res.Imports, finalizeImport(raw, table))
	}
	for _, raw := range vc.exports {
		res.Exports = append(res.Exports, finalizeExport(raw, table))
	}
	return res
}

func finalizeImport(raw rawImport, t *OffsetTable) Import {
	imp := Import(raw)
	imp.Start = t.Translate(imp.Start)
	imp.End = t.Translate(imp.End)
	imp.StatementStart = t.Translate(imp.StatementStart)
	imp.StatementEnd = t.Translate(imp.StatementEnd)
	imp.DynamicStart = translatePosition(imp.DynamicStart, t)
	imp.Attributes = translatePosition(imp.Attributes, t)
	return imp
}

func finalizeExport(raw rawExport, t *OffsetTable) Export {
	exp := Export(raw)
	exp.Start = t.Translate(exp.Start)
	exp.End = t.Translate(exp.End)
	if exp.Local != nil {
		local := *exp.Local
		local.Start = t.Translate(local.Start)
		local.End = t.Translate(local.End)
		exp.Local = &local
	}
	return exp
}

func translatePosition(p Position, t *OffsetTable) Position {
	if !p.Valid {
		return p
	}
	return At(t.Translate(p.Offset))
}
