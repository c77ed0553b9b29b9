package lexer

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// cookString returns the value of a quoted JavaScript string literal. raw
// includes the surrounding quotes.
func cookString(raw string) string {
	if len(raw) >= 2 {
		raw = raw[1 : len(raw)-1]
	}
	if strings.IndexByte(raw, '\\') < 0 {
		return raw
	}

	var b strings.Builder
	b.Grow(len(raw))
	var pendingHigh rune = -1

	flushHigh := func() {
		if pendingHigh >= 0 {
			b.WriteRune(utf8.RuneError)
			pendingHigh = -1
		}
	}
	writeUnit := func(r rune) {
		switch {
		case utf16.IsSurrogate(r) && r < 0xDC00:
			flushHigh()
			pendingHigh = r
		case utf16.IsSurrogate(r):
			if pendingHigh >= 0 {
				b.WriteRune(utf16.DecodeRune(pendingHigh, r))
				pendingHigh = -1
				return
			}
			b.WriteRune(utf8.RuneError)
		default:
			flushHigh()
			b.WriteRune(r)
		}
	}

	for i := 0; i < len(raw); {
		c := raw[i]
		if c != '\\' || i+1 >= len(raw) {
			flushHigh()
			r, size := utf8.DecodeRuneInString(raw[i:])
			b.WriteRune(r)
			i += size
			continue
		}
		i++
		switch esc := raw[i]; esc {
		case 'n':
			writeUnit('\n')
			i++
		case 'r':
			writeUnit('\r')
			i++
		case 't':
			writeUnit('\t')
			i++
		case 'b':
			writeUnit('\b')
			i++
		case 'f':
			writeUnit('\f')
			i++
		case 'v':
			writeUnit('\v')
			i++
		case '0':
			writeUnit(0)
			i++
		case '\r':
			// line continuation, CRLF counts as one terminator
			i++
			if i < len(raw) && raw[i] == '\n' {
				i++
			}
		case '\n':
			i++
		case 'x':
			if r, ok := parseHex(raw, i+1, 2); ok {
				writeUnit(r)
				i += 3
			} else {
				writeUnit('x')
				i++
			}
		case 'u':
			r, n := parseUnicodeEscape(raw, i+1)
			if n == 0 {
				writeUnit('u')
				i++
				continue
			}
			writeUnit(r)
			i += 1 + n
		default:
			r, size := utf8.DecodeRuneInString(raw[i:])
			i += size
			// U+2028 and U+2029 are line continuations as well.
			if r == '\u2028' || r == '\u2029' {
				continue
			}
			writeUnit(r)
		}
	}
	flushHigh()
	return b.String()
}

// parseUnicodeEscape reads the part after "\u": either XXXX or {X...}. It
// returns the codepoint and the number of bytes consumed, 0 when malformed.
func parseUnicodeEscape(s string, at int) (rune, int) {
	if at < len(s) && s[at] == '{' {
		end := strings.IndexByte(s[at:], '}')
		if end < 2 {
			return 0, 0
		}
		v, err := strconv.ParseUint(s[at+1:at+end], 16, 32)
		if err != nil || v > utf8.MaxRune {
			return 0, 0
		}
		return rune(v), end + 1
	}
	r, ok := parseHex(s, at, 4)
	if !ok {
		return 0, 0
	}
	return r, 4
}

func parseHex(s string, at, digits int) (rune, bool) {
	if at+digits > len(s) {
		return 0, false
	}
	v, err := strconv.ParseUint(s[at:at+digits], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}
