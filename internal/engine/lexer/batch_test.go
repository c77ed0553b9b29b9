package lexer

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"esmlex/internal/core/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func batchInputs() []Input {
	return []Input{
		{Path: "a.js", Source: []byte("import a from './a'\nexport { a }\n")},
		{Path: "b.js", Source: []byte("var a number = 1")},
		{Path: "c.ts", Source: []byte("export type T = string\n")},
	}
}

func TestParseAll_OrderAndIsolation(t *testing.T) {
	l := newTestLexer(t, WithWorkers(2))
	inputs := batchInputs()

	outcomes := l.ParseAll(context.Background(), inputs)
	require.Len(t, outcomes, 3)

	for i, in := range inputs {
		assert.Equal(t, in.Path, outcomes[i].Path)
	}
	assert.NoError(t, outcomes[0].Err)
	assert.True(t, errors.IsCode(outcomes[1].Err, errors.CodeSyntax))
	assert.NoError(t, outcomes[2].Err)

	for _, i := range []int{0, 2} {
		single, err := l.Parse(context.Background(), inputs[i].Source, inputs[i].Path)
		require.NoError(t, err)
		assert.Equal(t, single, outcomes[i].Result, "batch result must match single-file result for %s", inputs[i].Path)
	}
}

func TestParseMultiple_ByPath(t *testing.T) {
	l := newTestLexer(t)
	byPath := l.ParseMultiple(context.Background(), batchInputs())

	require.Len(t, byPath, 3)
	assert.NotNil(t, byPath["a.js"].Result)
	assert.Error(t, byPath["b.js"].Err)
	assert.Nil(t, byPath["b.js"].Result)
	assert.Equal(t, "T", byPath["c.ts"].Result.Exports[0].Name)
}

func TestParseMultiple_DuplicatePathLastWins(t *testing.T) {
	l := newTestLexer(t)
	byPath := l.ParseMultiple(context.Background(), []Input{
		{Path: "x.js", Source: []byte("export const first = 1")},
		{Path: "x.js", Source: []byte("export const second = 2")},
	})
	require.Len(t, byPath, 1)
	assert.Equal(t, "second", byPath["x.js"].Result.Exports[0].Name)
}

func TestParseMultipleStrict(t *testing.T) {
	l := newTestLexer(t)

	t.Run("all succeed", func(t *testing.T) {
		inputs := batchInputs()
		inputs = append(inputs[:1], inputs[2:]...)
		results, err := l.ParseMultipleStrict(context.Background(), inputs)
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("one fails", func(t *testing.T) {
		results, err := l.ParseMultipleStrict(context.Background(), batchInputs())
		require.Error(t, err)
		assert.Nil(t, results)
		assert.True(t, errors.IsCode(err, errors.CodeSyntax))
		assert.Regexp(t, `\s+b\.js:[\s\S]+?var a number`, err.Error())
		assert.NotContains(t, err.Error(), "a.js:")

		var batchErr *BatchError
		require.True(t, stderrors.As(err, &batchErr))
		assert.Equal(t, 3, batchErr.Total)
		require.Len(t, batchErr.Failures, 1)
		assert.Equal(t, "b.js", batchErr.Failures[0].Path)

		var synErr *SyntaxError
		assert.True(t, stderrors.As(err, &synErr))
	})

	t.Run("non-syntax failure", func(t *testing.T) {
		_, err := l.ParseMultipleStrict(context.Background(), []Input{
			{Path: "x.vue", Source: []byte("<template/>")},
		})
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.CodeNotSupported))
		assert.Contains(t, err.Error(), "  x.vue:")
	})
}

func TestParseAll_Cancelled(t *testing.T) {
	l := newTestLexer(t, WithWorkers(1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes := l.ParseAll(ctx, batchInputs())
	for _, o := range outcomes {
		assert.ErrorIs(t, o.Err, context.Canceled)
	}
}

func TestParseAllAsync_Many(t *testing.T) {
	l := newTestLexer(t, WithWorkers(4))
	inputs := make([]Input, 0, 64)
	for i := 0; i < 64; i++ {
		src := fmt.Sprintf("import x%d from './m%d'\nexport { x%d }\n", i, i, i)
		inputs = append(inputs, Input{Path: fmt.Sprintf("f%02d.js", i), Source: []byte(src)})
	}

	outcomes := <-l.ParseAllAsync(context.Background(), inputs)
	require.Len(t, outcomes, 64)
	for i, o := range outcomes {
		require.NoError(t, o.Err)
		require.Len(t, o.Result.Imports, 1)
		assert.Equal(t, fmt.Sprintf("./m%d", i), *o.Result.Imports[0].Name)
		assert.True(t, o.Result.Facade)
	}
}
