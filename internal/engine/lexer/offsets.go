package lexer

import "unicode/utf8"

// OffsetTable maps byte offsets of one source text to codepoint indices.
// Build it once per file, before the tree walk.
type OffsetTable struct {
	index []int32
}

// NewOffsetTable indexes src. Every byte inside a codepoint's encoding maps to
// that codepoint's ordinal; invalid bytes count as one codepoint each. The
// slot at len(src) holds the total codepoint count so end-of-text spans
// translate too.
func NewOffsetTable(src []byte) *OffsetTable {
	index := make([]int32, len(src)+1)
	var ordinal int32
	for i := 0; i < len(src); {
		_, size := utf8.DecodeRune(src[i:])
		for j := 0; j < size; j++ {
			index[i+j] = ordinal
		}
		ordinal++
		i += size
	}
	index[len(src)] = ordinal
	return &OffsetTable{index: index}
}

// Translate converts a byte offset. Offsets outside [0, len] come back
// unchanged, which keeps sentinel values intact.
func (t *OffsetTable) Translate(offset int) int {
	if offset < 0 || offset >= len(t.index) {
		return offset
	}
	return int(t.index[offset])
}

// Len is the number of codepoints in the indexed text.
func (t *OffsetTable) Len() int {
	return int(t.index[len(t.index)-1])
}
