package lexer

import (
	"errors"
	"unicode/utf8"
)

// ErrDelimiterNotFound is returned by ScanForChar when the buffer ends before
// the target codepoint is seen.
var ErrDelimiterNotFound = errors.New("delimiter not found")

// Direction selects which way ScanForChar walks from its anchor.
type Direction int

// Scan directions for ScanForChar.
const (
	Backward Direction = iota
	Forward
)

// AdjustStatementEnd trims the terminator tree-sitter folds into statement
// spans. The end is kept when the codepoint ending there is a quote, a
// closing brace or a closing parenthesis; otherwise it moves back by one.
func AdjustStatementEnd(src []byte, end int) int {
	if end <= 0 || end > len(src) {
		return end
	}
	r, _ := utf8.DecodeLastRune(src[:end])
	switch r {
	case '\'', '"', '}', ')':
		return end
	}
	return end - 1
}

// ScanForChar walks codepoint by codepoint from `from` in the given direction
// and returns the byte offset of the first codepoint equal to target. The
// anchor itself is checked first.
func ScanForChar(src []byte, from int, target rune, dir Direction) (int, error) {
	if from < 0 || from >= len(src) {
		return -1, ErrDelimiterNotFound
	}
	pos := from
	for {
		r, _ := utf8.DecodeRune(src[pos:])
		if r == target {
			return pos, nil
		}
		switch dir {
		case Backward:
			if pos == 0 {
				return -1, ErrDelimiterNotFound
			}
			_, size := utf8.DecodeLastRune(src[:pos])
			pos -= size
		default:
			_, size := utf8.DecodeRune(src[pos:])
			pos += size
			if pos >= len(src) {
				return -1, ErrDelimiterNotFound
			}
		}
	}
}
