package lexer

import (
	"esmlex/internal/engine/parser"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Byte-offset records produced during the walk. The finalizer turns them
// into Import and Export values.
type rawImport Import
type rawExport Export

// visitContext is the state threaded through a single walk of one file.
type visitContext struct {
	src             []byte
	imports         []rawImport
	exports         []rawExport
	facade          bool
	hasModuleSyntax bool

	// clauses are attribute clauses the parser blanked, keyed by the end of
	// the specifier they follow.
	clauses map[int]parser.AttributeClause
}

// nodeHandler returns true when it has covered the node's subtree and the walk
// must not descend.
type nodeHandler func(vc *visitContext, n *sitter.Node) bool

var nodeHandlers = map[string]nodeHandler{
	"program":           visitProgram,
	"import_statement":  visitImportStatement,
	"export_statement":  visitExportStatement,
	"call_expression":   visitCallExpression,
	"meta_property":     visitMetaProperty,
	"member_expression": visitMemberExpression,
}

// Declarations whose name becomes the local side of `export default`.
var defaultDeclarationKinds = map[string]bool{
	"function_declaration":           true,
	"generator_function_declaration": true,
	"class_declaration":              true,
	"abstract_class_declaration":     true,
}

// Declarations under `export` that bind their `name` field.
var namedDeclarationKinds = map[string]bool{
	"function_declaration":           true,
	"generator_function_declaration": true,
	"function_signature":             true,
	"class_declaration":              true,
	"abstract_class_declaration":     true,
	"enum_declaration":               true,
	"interface_declaration":          true,
	"type_alias_declaration":         true,
}

var attributeClauseKinds = map[string]bool{
	"import_attribute":  true,
	"import_attributes": true,
}

func newVisitContext(src []byte, clauses []parser.AttributeClause) *visitContext {
	vc := &visitContext{src: src}
	if len(clauses) > 0 {
		vc.clauses = make(map[int]parser.AttributeClause, len(clauses))
		for _, c := range clauses {
			vc.clauses[c.SourceEnd] = c
		}
	}
	return vc
}

// walk visits root and its descendants depth-first in document order.
func (vc *visitContext) walk(root *sitter.Node) {
	cursor := root.Walk()
	defer cursor.Close()

	for {
		n := cursor.Node()
		skip := false
		if h, ok := nodeHandlers[n.Kind()]; ok {
			skip = h(vc, n)
		}
		if !skip && cursor.GotoFirstChild() {
			continue
		}
		for !cursor.GotoNextSibling() {
			if !cursor.GotoParent() {
				return
			}
		}
	}
}

func visitProgram(vc *visitContext, n *sitter.Node) bool {
	vc.facade = true
	prologue := true
	for _, stmt := range namedChildren(n) {
		if prologue && isDirective(&stmt) {
			continue
		}
		if stmt.Kind() != "hash_bang_line" {
			prologue = false
		}
		if !isFacadeStatement(&stmt) {
			vc.facade = false
			break
		}
	}
	return false
}

func isFacadeStatement(stmt *sitter.Node) bool {
	switch stmt.Kind() {
	case "export_statement", "hash_bang_line":
		return true
	case "import_statement":
		return stmt.ChildByFieldName("source") != nil
	case "expression_statement":
		inner := firstNamedChild(stmt)
		return inner != nil && isImportCall(inner)
	}
	return false
}

// isDirective matches a directive prologue entry such as 'use client'.
func isDirective(stmt *sitter.Node) bool {
	if stmt.Kind() != "expression_statement" {
		return false
	}
	children := namedChildren(stmt)
	return len(children) == 1 && children[0].Kind() == "string"
}

func visitImportStatement(vc *visitContext, n *sitter.Node) bool {
	source := n.ChildByFieldName("source")
	if source == nil {
		// import x = require('y')
		return true
	}
	vc.hasModuleSyntax = true
	vc.imports = append(vc.imports, vc.staticImport(n, source))
	return true
}

func visitExportStatement(vc *visitContext, n *sitter.Node) bool {
	vc.hasModuleSyntax = true
	source := n.ChildByFieldName("source")

	if kw := tokenChild(n, "default"); kw != nil {
		vc.exportDefault(n, kw)
		return false
	}
	if ns := childOfKind(n, "namespace_export"); ns != nil || tokenChild(n, "*") != nil {
		if source != nil {
			vc.imports = append(vc.imports, vc.staticImport(n, source))
		}
		if ns != nil {
			if exported := lastNamedChild(ns); exported != nil {
				name, start, end := vc.moduleExportName(exported)
				vc.exports = append(vc.exports, rawExport{Name: name, Start: start, End: end})
			}
		}
		return true
	}

	hasImport := false
	if source != nil {
		hasImport = true
		vc.imports = append(vc.imports, vc.staticImport(n, source))
	}
	if decl := n.ChildByFieldName("declaration"); decl != nil {
		vc.facade = false
		vc.exportDeclaration(decl)
	}
	if clause := childOfKind(n, "export_clause"); clause != nil {
		for _, spec := range namedChildren(clause) {
			if spec.Kind() == "export_specifier" {
				vc.exportSpecifier(&spec, hasImport)
			}
		}
	}
	return false
}

func (vc *visitContext) exportDefault(n, keyword *sitter.Node) {
	vc.facade = false
	exp := rawExport{
		Name:  "default",
		Start: int(keyword.StartByte()),
		End:   int(keyword.EndByte()),
	}
	target := n.ChildByFieldName("declaration")
	if target == nil {
		target = n.ChildByFieldName("value")
	}
	if target != nil && defaultDeclarationKinds[target.Kind()] {
		if id := target.ChildByFieldName("name"); id != nil {
			exp.Local = vc.binding(id)
		}
	}
	vc.exports = append(vc.exports, exp)
}

func (vc *visitContext) exportDeclaration(decl *sitter.Node) {
	switch kind := decl.Kind(); {
	case kind == "lexical_declaration" || kind == "variable_declaration":
		for _, child := range namedChildren(decl) {
			if child.Kind() != "variable_declarator" {
				continue
			}
			// Only the first declarator, and only a plain identifier.
			if id := child.ChildByFieldName("name"); id != nil && id.Kind() == "identifier" {
				vc.exportBinding(id)
			}
			return
		}
	case kind == "ambient_declaration":
		for _, child := range namedChildren(decl) {
			vc.exportDeclaration(&child)
			return
		}
	case namedDeclarationKinds[kind]:
		if id := decl.ChildByFieldName("name"); id != nil {
			vc.exportBinding(id)
		}
	}
}

func (vc *visitContext) exportBinding(id *sitter.Node) {
	local := vc.binding(id)
	vc.exports = append(vc.exports, rawExport{
		Name:  local.Name,
		Start: local.Start,
		End:   local.End,
		Local: local,
	})
}

func (vc *visitContext) exportSpecifier(spec *sitter.Node, hasImport bool) {
	local := spec.ChildByFieldName("name")
	if local == nil {
		return
	}
	exported := spec.ChildByFieldName("alias")
	if exported == nil {
		exported = local
	}

	name, start, end := vc.moduleExportName(exported)
	exp := rawExport{Name: name, Start: start, End: end}
	if !hasImport {
		localName, localStart, localEnd := vc.moduleExportName(local)
		exp.Local = &Binding{Name: localName, Start: localStart, End: localEnd}
	}
	vc.exports = append(vc.exports, exp)
}

func visitCallExpression(vc *visitContext, n *sitter.Node) bool {
	if !isImportCall(n) {
		return false
	}
	args := n.ChildByFieldName("arguments")
	if args == nil {
		return false
	}
	params := namedChildren(args)
	if len(params) == 0 {
		return false
	}
	source := &params[0]

	imp := rawImport{
		Kind:           ImportDynamic,
		Start:          int(source.StartByte()),
		End:            int(source.EndByte()),
		StatementStart: int(n.StartByte()),
		StatementEnd:   AdjustStatementEnd(vc.src, int(n.EndByte())),
	}

	paren, err := ScanForChar(vc.src, imp.Start, '(', Backward)
	if err != nil {
		paren = int(args.StartByte())
	}
	imp.DynamicStart = At(paren)

	if source.Kind() == "string" {
		imp.Name = strPtr(cookString(source.Utf8Text(vc.src)))
	} else {
		vc.facade = false
	}

	if len(params) > 1 {
		vc.facade = false
		if opts := &params[1]; opts.Kind() == "object" {
			imp.Attributes = At(int(opts.StartByte()))
		}
	}

	vc.imports = append(vc.imports, imp)
	return false
}

func visitMetaProperty(vc *visitContext, n *sitter.Node) bool {
	first := n.Child(0)
	if first == nil || first.Kind() != "import" {
		// new.target
		return true
	}
	vc.importMeta(n)
	return true
}

// visitMemberExpression handles grammars that shape import.meta as a member
// access on the import keyword.
func visitMemberExpression(vc *visitContext, n *sitter.Node) bool {
	object := n.ChildByFieldName("object")
	property := n.ChildByFieldName("property")
	if object == nil || property == nil || object.Kind() != "import" {
		return false
	}
	if property.Utf8Text(vc.src) != "meta" {
		return false
	}
	vc.importMeta(n)
	return true
}

func (vc *visitContext) importMeta(n *sitter.Node) {
	vc.hasModuleSyntax = true
	start, end := int(n.StartByte()), int(n.EndByte())
	vc.imports = append(vc.imports, rawImport{
		Kind:           ImportMeta,
		Start:          start,
		End:            end,
		StatementStart: start,
		StatementEnd:   end,
	})
}

// staticImport builds the record for a declaration with a `from` source:
// imports, export-all and named re-exports.
func (vc *visitContext) staticImport(stmt, source *sitter.Node) rawImport {
	imp := rawImport{
		Kind:           ImportStatic,
		Name:           strPtr(cookString(source.Utf8Text(vc.src))),
		Start:          int(source.StartByte()) + 1,
		End:            int(source.EndByte()) - 1,
		StatementStart: int(stmt.StartByte()),
		StatementEnd:   AdjustStatementEnd(vc.src, int(stmt.EndByte())),
	}
	for _, child := range namedChildren(stmt) {
		if attributeClauseKinds[child.Kind()] {
			imp.Attributes = vc.attributesBrace(&child)
			break
		}
	}
	if clause, ok := vc.clauses[int(source.EndByte())]; ok && !imp.Attributes.Valid {
		imp.Attributes = At(clause.Brace)
		if end := AdjustStatementEnd(vc.src, clause.End); end > imp.StatementEnd {
			imp.StatementEnd = end
		}
	}
	return imp
}

func (vc *visitContext) attributesBrace(clause *sitter.Node) Position {
	keyword := clause.Child(0)
	if keyword == nil {
		return Position{}
	}
	if pos, err := ScanForChar(vc.src, int(keyword.EndByte()), '{', Forward); err == nil {
		return At(pos)
	}
	if obj := childOfKind(clause, "object"); obj != nil {
		return At(int(obj.StartByte()))
	}
	return Position{}
}

// moduleExportName reads an identifier or string export name. String names
// are cooked; their span keeps the quotes.
func (vc *visitContext) moduleExportName(n *sitter.Node) (string, int, int) {
	text := n.Utf8Text(vc.src)
	if n.Kind() == "string" {
		text = cookString(text)
	}
	return text, int(n.StartByte()), int(n.EndByte())
}

func (vc *visitContext) binding(id *sitter.Node) *Binding {
	return &Binding{
		Name:  id.Utf8Text(vc.src),
		Start: int(id.StartByte()),
		End:   int(id.EndByte()),
	}
}

func isImportCall(n *sitter.Node) bool {
	if n.Kind() != "call_expression" {
		return false
	}
	fn := n.ChildByFieldName("function")
	return fn != nil && fn.Kind() == "import"
}

// namedChildren lists named, non-extra children. Comments are extras.
func namedChildren(n *sitter.Node) []sitter.Node {
	cursor := n.Walk()
	defer cursor.Close()
	all := n.NamedChildren(cursor)
	out := all[:0]
	for _, child := range all {
		if !child.IsExtra() {
			out = append(out, child)
		}
	}
	return out
}

func firstNamedChild(n *sitter.Node) *sitter.Node {
	children := namedChildren(n)
	if len(children) == 0 {
		return nil
	}
	return &children[0]
}

func lastNamedChild(n *sitter.Node) *sitter.Node {
	children := namedChildren(n)
	if len(children) == 0 {
		return nil
	}
	return &children[len(children)-1]
}

func childOfKind(n *sitter.Node, kind string) *sitter.Node {
	for _, child := range namedChildren(n) {
		if child.Kind() == kind {
			return &child
		}
	}
	return nil
}

// tokenChild finds a direct anonymous child such as `default` or `*`.
func tokenChild(n *sitter.Node, token string) *sitter.Node {
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child != nil && !child.IsNamed() && child.Kind() == token {
			return child
		}
	}
	return nil
}
