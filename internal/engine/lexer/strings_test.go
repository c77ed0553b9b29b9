package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCookString(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{`'mod'`, "mod"},
		{`"./a.js"`, "./a.js"},
		{`''`, ""},
		{`'mod\u1011'`, "mod\u1011"},
		{`'\u{1F600}'`, "\U0001F600"},
		{`'\uD83D\uDE00'`, "\U0001F600"},
		{`'\x41\n\t'`, "A\n\t"},
		{`'it\'s'`, "it's"},
		{`"a\"b"`, `a"b`},
		{"'line\\\ncontinued'", "linecontinued"},
		{"'crlf\\\r\ncontinued'", "crlfcontinued"},
		{`'\q'`, "q"},
		{`'\xZZ'`, "xZZ"},
		{`'ü€'`, "ü€"},
		{`'\uD83D'`, "\uFFFD"},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.want, cookString(tc.raw))
		})
	}
}
