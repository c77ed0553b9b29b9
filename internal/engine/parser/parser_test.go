package parser

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"esmlex/internal/core/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	loader, err := NewGrammarLoader(nil)
	require.NoError(t, err)
	return NewParser(loader)
}

func TestParser_ParseByExtension(t *testing.T) {
	p := newTestParser(t)

	cases := []struct {
		path string
		src  string
		lang string
	}{
		{"a.js", "import x from 'x'\n", LangJavaScript},
		{"a.mjs", "export default 1\n", LangJavaScript},
		{"a.ts", "export enum Fruit { Apple }\n", LangTypeScript},
		{"a.tsx", "export const A = () => <div />\n", LangTSX},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			tree, err := p.Parse(context.Background(), tc.path, []byte(tc.src))
			require.NoError(t, err)
			defer tree.Close()
			assert.Equal(t, tc.lang, tree.Language.Name)
			assert.Equal(t, "program", tree.Root().Kind())
		})
	}
}

func TestParser_UnsupportedExtension(t *testing.T) {
	p := newTestParser(t)
	_, err := p.Parse(context.Background(), "styles.css", []byte("a{}"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotSupported))
}

func TestParser_SyntaxErrors(t *testing.T) {
	p := newTestParser(t)

	_, err := p.Parse(context.Background(), "index.ts", []byte("var a number = 1"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeSyntax))

	var synErr *SyntaxError
	require.True(t, stderrors.As(err, &synErr))
	assert.Equal(t, "index.ts", synErr.Path)
	require.NotEmpty(t, synErr.Diagnostics)

	d := synErr.Diagnostics[0]
	assert.Equal(t, 1, d.Line)
	assert.Contains(t, d.Snippet, "var a number = 1")
	assert.Contains(t, d.Snippet, "^")
}

func TestParser_TypeScriptOnlySyntaxFailsAsJavaScript(t *testing.T) {
	p := newTestParser(t)
	_, err := p.Parse(context.Background(), "a.js", []byte("let a: number = 1\n"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeSyntax))

	tree, err := p.Parse(context.Background(), "a.ts", []byte("let a: number = 1\n"))
	require.NoError(t, err)
	tree.Close()
}

func TestParser_Cancelled(t *testing.T) {
	p := newTestParser(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := []byte(strings.Repeat("import a from 'a'\n", 5000))
	tree, err := p.Parse(ctx, "big.js", src)
	if err == nil {
		// Small inputs can finish before the first progress callback.
		tree.Close()
		return
	}
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewDiagnostic_MultiByteColumn(t *testing.T) {
	src := []byte("let ü = 1\nfoo bar\n")
	d := newDiagnostic(src, strings.Index(string(src), "bar"), strings.Index(string(src), "bar")+3, "unexpected \"bar\"")
	assert.Equal(t, 2, d.Line)
	assert.Equal(t, 5, d.Column)
	assert.Equal(t, "2 | foo bar\n  |     ^^^", d.Snippet)
}

func TestSyntaxError_Indented(t *testing.T) {
	e := &SyntaxError{
		Path: "a.js",
		Diagnostics: []Diagnostic{{
			Line: 1, Column: 1, Message: "unexpected \"x\"",
			Snippet: "1 | x y\n  | ^",
		}},
	}
	got := e.Indented("  ")
	assert.Equal(t, "  a.js:\n    1:1: unexpected \"x\"\n    1 | x y\n      | ^", got)
}
