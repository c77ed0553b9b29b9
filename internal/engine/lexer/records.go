package lexer

import "esmlex/internal/engine/parser"

// ImportKind separates the three import-like constructs.
type ImportKind uint8

const (
	ImportStatic ImportKind = iota
	ImportDynamic
	ImportMeta
)

func (k ImportKind) String() string {
	switch k {
	case ImportDynamic:
		return "dynamic"
	case ImportMeta:
		return "meta"
	default:
		return "static"
	}
}

// Position is an optional codepoint offset.
type Position struct {
	Offset int
	Valid  bool
}

func At(offset int) Position {
	return Position{Offset: offset, Valid: true}
}

// Import is one import declaration, re-export source, dynamic import() call
// or import.meta reference. Offsets are codepoint indices.
type Import struct {
	Kind ImportKind
	// Name is the module specifier. Nil for import.meta and for dynamic
	// imports whose argument is not a string literal.
	Name *string

	Start          int
	End            int
	StatementStart int
	StatementEnd   int

	// DynamicStart is the opening parenthesis of an import() call.
	DynamicStart Position
	// Attributes is the opening brace of a with/assert clause or of the
	// options object passed to import().
	Attributes Position
}

// Binding is the local side of an export.
type Binding struct {
	Name  string
	Start int
	End   int
}

// Export is one exported name.
type Export struct {
	Name  string
	Start int
	End   int
	// Local is nil when the export has no local binding: re-exports from
	// another module and export-all namespaces.
	Local *Binding
}

// Result is everything extracted from one file.
type Result struct {
	Imports         []Import
	Exports         []Export
	Facade          bool
	HasModuleSyntax bool
}

// Input is one file handed to the batch APIs.
type Input struct {
	Source []byte
	Path   string
}

// Outcome pairs a file with its result or error.
type Outcome struct {
	Path   string
	Result *Result
	Err    error
}

// SyntaxError is re-exported for callers that only import this package.
type SyntaxError = parser.SyntaxError

func strPtr(s string) *string {
	return &s
}
