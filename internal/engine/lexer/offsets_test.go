package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOffsetTable_ASCII(t *testing.T) {
	table := NewOffsetTable([]byte("import a"))
	for i := 0; i <= 8; i++ {
		assert.Equal(t, i, table.Translate(i))
	}
	assert.Equal(t, 8, table.Len())
}

func TestOffsetTable_MultiByte(t *testing.T) {
	// ü is 2 bytes, € is 3, 😀 is 4.
	src := []byte("aü€😀b")
	table := NewOffsetTable(src)

	want := []int{0, 1, 1, 2, 2, 2, 3, 3, 3, 3, 4, 5}
	for off, cp := range want {
		assert.Equal(t, cp, table.Translate(off), "byte offset %d", off)
	}
	assert.Equal(t, 5, table.Len())
}

func TestOffsetTable_SentinelsPassThrough(t *testing.T) {
	table := NewOffsetTable([]byte("ü"))
	assert.Equal(t, -1, table.Translate(-1))
	assert.Equal(t, -2, table.Translate(-2))
	assert.Equal(t, 99, table.Translate(99))
	assert.Equal(t, 1, table.Translate(2))
}

func TestOffsetTable_InvalidUTF8(t *testing.T) {
	table := NewOffsetTable([]byte{'a', 0xff, 0xfe, 'b'})
	assert.Equal(t, []int{0, 1, 2, 3, 4}, []int{
		table.Translate(0), table.Translate(1), table.Translate(2), table.Translate(3), table.Translate(4),
	})
}

func TestOffsetTable_Empty(t *testing.T) {
	table := NewOffsetTable(nil)
	assert.Equal(t, 0, table.Translate(0))
	assert.Equal(t, 0, table.Len())
}
