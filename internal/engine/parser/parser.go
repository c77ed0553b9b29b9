package parser

import (
	"context"
	"fmt"
	"time"

	"esmlex/internal/core/errors"
	"esmlex/internal/shared/observability"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Parser turns source text into tree-sitter trees, choosing the grammar from
// the file extension. It is safe for concurrent use.
type Parser struct {
	loader   *GrammarLoader
	registry map[string]LanguageSpec
	pools    map[string]*ParserPool
}

func NewParser(loader *GrammarLoader) *Parser {
	p := &Parser{
		loader:   loader,
		registry: loader.LanguageRegistry(),
		pools:    make(map[string]*ParserPool),
	}
	for id := range p.registry {
		if lang, ok := loader.Language(id); ok {
			p.pools[id] = NewParserPool(lang)
		}
	}
	return p
}

// Tree is a successfully parsed file. Close releases the native tree.
type Tree struct {
	Path     string
	Language LanguageSpec
	Source   []byte
	tree     *sitter.Tree
	clauses  []AttributeClause
}

func (t *Tree) Root() *sitter.Node {
	return t.tree.RootNode()
}

// AttributeClauses lists the clauses that were blanked out so the grammar
// could parse the file. Empty when the first parse succeeded.
func (t *Tree) AttributeClauses() []AttributeClause {
	return t.clauses
}

func (t *Tree) Close() {
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

// Detect resolves the source kind for a path.
func (p *Parser) Detect(path string) (LanguageSpec, error) {
	spec, ok := LanguageForPath(p.registry, path)
	if !ok {
		return LanguageSpec{}, errors.AddContext(
			errors.New(errors.CodeNotSupported, "unsupported file extension"),
			errors.CtxPath, path,
		)
	}
	return spec, nil
}

func (p *Parser) SupportedExtensions() []string {
	return p.loader.SupportedExtensions()
}

// Parse parses source as the language owning path. A tree containing error or
// missing nodes is never returned; its diagnostics come back as a CodeSyntax
// error wrapping *SyntaxError.
func (p *Parser) Parse(ctx context.Context, path string, source []byte) (*Tree, error) {
	spec, err := p.Detect(path)
	if err != nil {
		return nil, err
	}
	pool, ok := p.pools[spec.Name]
	if !ok {
		return nil, errors.AddContext(
			errors.New(errors.CodeNotSupported, fmt.Sprintf("no grammar loaded for %s", spec.Name)),
			errors.CtxLanguage, spec.Name,
		)
	}

	sp := pool.Get()
	observability.ParsersLeased.WithLabelValues(spec.Name).Set(float64(pool.Stats()))
	defer func() {
		pool.Put(sp)
		observability.ParsersLeased.WithLabelValues(spec.Name).Set(float64(pool.Stats()))
	}()

	tree := parseSource(ctx, sp, source)
	if tree == nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.AddContext(errors.New(errors.CodeInternal, "parser returned no tree"), errors.CtxPath, path)
	}

	root := tree.RootNode()
	if root.HasError() {
		diags := CollectDiagnostics(root, source)
		tree.Close()
		if recovered, clauses := reparseWithoutAttributes(ctx, sp, source); recovered != nil {
			return &Tree{Path: path, Language: spec, Source: source, tree: recovered, clauses: clauses}, nil
		}
		synErr := &SyntaxError{Path: path, Diagnostics: diags}
		return nil, errors.AddContext(errors.Wrap(synErr, errors.CodeSyntax, "syntax errors"), errors.CtxPath, path)
	}

	return &Tree{Path: path, Language: spec, Source: source, tree: tree}, nil
}

// Leases reports parsers currently checked out across every language and
// the longest time one of them has been held.
func (p *Parser) Leases(now time.Time) (int, time.Duration) {
	var (
		leased int
		oldest time.Duration
	)
	for _, pool := range p.pools {
		leased += pool.Stats()
		if d := pool.OldestLease(now); d > oldest {
			oldest = d
		}
	}
	return leased, oldest
}

func parseSource(ctx context.Context, sp *sitter.Parser, source []byte) *sitter.Tree {
	length := len(source)
	return sp.ParseWithOptions(func(i int, _ sitter.Point) []byte {
		if i < length {
			return source[i:]
		}
		return []byte{}
	}, nil, &sitter.ParseOptions{
		ProgressCallback: func(sitter.ParseState) bool {
			return ctx.Err() != nil
		},
	})
}

// reparseWithoutAttributes retries a failed parse with every import
// attribute clause blanked. The result is nil unless the retry is clean.
func reparseWithoutAttributes(ctx context.Context, sp *sitter.Parser, source []byte) (*sitter.Tree, []AttributeClause) {
	clauses := FindAttributeClauses(source)
	if len(clauses) == 0 {
		return nil, nil
	}
	sp.Reset()
	tree := parseSource(ctx, sp, maskAttributeClauses(source, clauses))
	if tree == nil {
		return nil, nil
	}
	if tree.RootNode().HasError() {
		tree.Close()
		return nil, nil
	}
	return tree, clauses
}
