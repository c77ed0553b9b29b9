package parser

// AttributeClause is a `with { … }` or `assert { … }` clause after a module
// specifier that the grammar could not parse in place: `assert` in the
// javascript grammar, and any clause after an export-from source. Offsets
// are bytes into the original source.
type AttributeClause struct {
	// SourceEnd is one past the closing quote of the specifier the clause follows.
	SourceEnd int
	Keyword   int
	Brace     int
	// End is one past the closing brace.
	End int
}

type tokenKind uint8

const (
	tokenOther tokenKind = iota
	tokenWord
	tokenString
)

type token struct {
	kind       tokenKind
	start, end int
}

// FindAttributeClauses lists every `from|import <string> with|assert {…}`
// sequence outside comments, strings and template literals.
func FindAttributeClauses(src []byte) []AttributeClause {
	var (
		out        []AttributeClause
		prev, prev2 token
	)
	word := func(t token) string { return string(src[t.start:t.end]) }

	for i := 0; i < len(src); {
		c := src[i]
		var tok token
		switch {
		case isSpace(c):
			i++
			continue
		case c == '/' && i+1 < len(src) && (src[i+1] == '/' || src[i+1] == '*'):
			i = skipComment(src, i)
			continue
		case c == '\'' || c == '"':
			end := skipString(src, i)
			tok = token{kind: tokenString, start: i, end: end}
		case c == '`':
			end := skipTemplate(src, i)
			tok = token{kind: tokenOther, start: i, end: end}
		case isWordByte(c):
			end := i
			for end < len(src) && isWordByte(src[end]) {
				end++
			}
			tok = token{kind: tokenWord, start: i, end: end}
		default:
			tok = token{kind: tokenOther, start: i, end: i + 1}
		}
		i = tok.end

		if tok.kind == tokenWord && prev.kind == tokenString && prev2.kind == tokenWord {
			kw, lead := word(tok), word(prev2)
			if (kw == "with" || kw == "assert") && (lead == "from" || lead == "import") {
				brace := skipTrivia(src, tok.end)
				if brace < len(src) && src[brace] == '{' {
					if end, ok := matchBrace(src, brace); ok {
						out = append(out, AttributeClause{
							SourceEnd: prev.end,
							Keyword:   tok.start,
							Brace:     brace,
							End:       end,
						})
						i = end
						prev, prev2 = token{}, token{}
						continue
					}
				}
			}
		}
		prev2, prev = prev, tok
	}
	return out
}

// maskAttributeClauses blanks every clause, keeping line breaks so byte
// offsets and line numbers stay put.
func maskAttributeClauses(src []byte, clauses []AttributeClause) []byte {
	masked := make([]byte, len(src))
	copy(masked, src)
	for _, c := range clauses {
		for i := c.Keyword; i < c.End && i < len(masked); i++ {
			if masked[i] != '\n' && masked[i] != '\r' {
				masked[i] = ' '
			}
		}
	}
	return masked
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isWordByte(c byte) bool {
	return c == '_' || c == '$' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func skipComment(src []byte, i int) int {
	if src[i+1] == '/' {
		for i < len(src) && src[i] != '\n' {
			i++
		}
		return i
	}
	for i += 2; i+1 < len(src); i++ {
		if src[i] == '*' && src[i+1] == '/' {
			return i + 2
		}
	}
	return len(src)
}

// skipString returns the index after the closing quote. An unterminated
// string stops at the line break.
func skipString(src []byte, i int) int {
	quote := src[i]
	for i++; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case quote:
			return i + 1
		case '\n':
			return i
		}
	}
	return len(src)
}

func skipTemplate(src []byte, i int) int {
	for i++; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '`':
			return i + 1
		}
	}
	return len(src)
}

func skipTrivia(src []byte, i int) int {
	for i < len(src) {
		switch {
		case isSpace(src[i]):
			i++
		case src[i] == '/' && i+1 < len(src) && (src[i+1] == '/' || src[i+1] == '*'):
			i = skipComment(src, i)
		default:
			return i
		}
	}
	return i
}

// matchBrace returns the index after the brace closing the one at open.
func matchBrace(src []byte, open int) (int, bool) {
	depth := 0
	for i := open; i < len(src); {
		switch c := src[i]; {
		case c == '\'' || c == '"':
			i = skipString(src, i)
			continue
		case c == '`':
			i = skipTemplate(src, i)
			continue
		case c == '/' && i+1 < len(src) && (src[i+1] == '/' || src[i+1] == '*'):
			i = skipComment(src, i)
			continue
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
		i++
	}
	return 0, false
}
