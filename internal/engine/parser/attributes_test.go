package parser

import (
	"context"
	"strings"
	"testing"
	"time"

	"esmlex/internal/core/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAttributeClauses(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []AttributeClause
	}{
		{
			name: "import assert",
			src:  "import json from './json.json' assert { type: 'json' }\n",
			want: []AttributeClause{{SourceEnd: 30, Keyword: 31, Brace: 38, End: 54}},
		},
		{
			name: "bare import with",
			src:  "import 'a.css' with { type: 'css' };",
			want: []AttributeClause{{SourceEnd: 14, Keyword: 15, Brace: 20, End: 35}},
		},
		{
			name: "export from with comment before brace",
			src:  "export * from \"x\" with /* c */ {type:'json'}",
			want: []AttributeClause{{SourceEnd: 17, Keyword: 18, Brace: 31, End: 44}},
		},
		{
			name: "nested braces and quoted brace",
			src:  "export { a } from 'x' with { a: { b: '}' } }",
			want: []AttributeClause{{SourceEnd: 21, Keyword: 22, Brace: 27, End: 44}},
		},
		{"inside comment", "// import x from 'y' with { type: 'json' }\n", nil},
		{"inside string", "const s = \"from 'y' with { }\"\n", nil},
		{"inside template", "const s = `import 'y' assert { }`\n", nil},
		{"dynamic import options", "import('x', { with: { type: 'json' } })\n", nil},
		{"with statement", "const a = 'x'\nwith (o) {}\n", nil},
		{"unterminated object", "import 'x' with { type: 'json'\n", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FindAttributeClauses([]byte(tc.src)))
		})
	}
}

func TestMaskAttributeClauses(t *testing.T) {
	src := []byte("import 'x' assert {\n  type: 'json'\n}\nexport {}\n")
	clauses := FindAttributeClauses(src)
	require.Len(t, clauses, 1)

	masked := maskAttributeClauses(src, clauses)
	assert.Len(t, masked, len(src))
	assert.Equal(t, "import 'x'" + strings.Repeat(" ", 9) + "\n" + strings.Repeat(" ", 14) + "\n \nexport {}\n", string(masked))
	assert.Equal(t, "import 'x' assert {\n  type: 'json'\n}\nexport {}\n", string(src), "source is left untouched")
}

func TestParser_RecoversAttributeClauses(t *testing.T) {
	p := newTestParser(t)

	cases := []struct {
		path string
		src  string
	}{
		{"index.js", "import json from './json.json' assert { type: 'json' }\n"},
		{"index.js", "export { a } from 'x' with { type: 'json' };\n"},
		{"index.ts", "export * as ns from 'x' with { type: 'json' }\n"},
	}
	for _, tc := range cases {
		t.Run(tc.path+" "+tc.src, func(t *testing.T) {
			tree, err := p.Parse(context.Background(), tc.path, []byte(tc.src))
			require.NoError(t, err)
			defer tree.Close()

			require.Len(t, tree.AttributeClauses(), 1)
			assert.Equal(t, tc.src, string(tree.Source))
			assert.False(t, tree.Root().HasError())
		})
	}
}

func TestParser_NativeAttributesNeedNoRecovery(t *testing.T) {
	p := newTestParser(t)
	tree, err := p.Parse(context.Background(), "index.js", []byte("import json from './json.json' with { type: 'json' };\n"))
	require.NoError(t, err)
	defer tree.Close()
	assert.Empty(t, tree.AttributeClauses())
}

func TestParser_RecoveryKeepsOtherSyntaxErrors(t *testing.T) {
	p := newTestParser(t)
	src := "import json from './json.json' assert { type: 'json' }\nvar a number = 1\n"

	_, err := p.Parse(context.Background(), "index.js", []byte(src))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeSyntax))
}

func TestParser_LeasesReturnToPool(t *testing.T) {
	p := newTestParser(t)
	tree, err := p.Parse(context.Background(), "index.js", []byte("export {}\n"))
	require.NoError(t, err)
	tree.Close()

	leased, oldest := p.Leases(time.Now())
	assert.Zero(t, leased)
	assert.Zero(t, oldest)
}
