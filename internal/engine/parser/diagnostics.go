package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

const maxTokenPreview = 24

// Diagnostic is one syntax problem found in a tree. Line and Column are
// 1-based; Column counts codepoints.
type Diagnostic struct {
	Offset  int
	Line    int
	Column  int
	Message string
	Snippet string
}

func (d Diagnostic) String() string {
	head := fmt.Sprintf("%d:%d: %s", d.Line, d.Column, d.Message)
	if d.Snippet == "" {
		return head
	}
	return head + "\n" + d.Snippet
}

// SyntaxError carries every diagnostic for one file.
type SyntaxError struct {
	Path        string
	Diagnostics []Diagnostic
}

func (e *SyntaxError) Error() string {
	return strings.Join(e.Messages(), "\n")
}

// Messages returns each diagnostic formatted with its snippet.
func (e *SyntaxError) Messages() []string {
	out := make([]string, 0, len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		out = append(out, d.String())
	}
	return out
}

// Indented renders the diagnostics under a "path:" heading, every line
// prefixed by indent.
func (e *SyntaxError) Indented(indent string) string {
	var b strings.Builder
	b.WriteString(indent)
	b.WriteString(e.Path)
	b.WriteString(":")
	for _, msg := range e.Messages() {
		for _, line := range strings.Split(msg, "\n") {
			b.WriteString("\n")
			b.WriteString(indent)
			b.WriteString(indent)
			b.WriteString(line)
		}
	}
	return b.String()
}

// CollectDiagnostics reports the outermost ERROR and MISSING nodes below root
// in document order.
func CollectDiagnostics(root *sitter.Node, source []byte) []Diagnostic {
	var out []Diagnostic
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		switch {
		case n.IsMissing():
			out = append(out, newDiagnostic(source, int(n.StartByte()), int(n.EndByte()),
				fmt.Sprintf("expected %q", n.Kind())))
			return
		case n.IsError():
			out = append(out, newDiagnostic(source, int(n.StartByte()), int(n.EndByte()),
				unexpectedMessage(n, source)))
			return
		case !n.HasError():
			return
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)

	if len(out) == 0 && root != nil && root.HasError() {
		out = append(out, newDiagnostic(source, 0, 0, "syntax error"))
	}
	return out
}

func unexpectedMessage(n *sitter.Node, source []byte) string {
	text := strings.TrimSpace(n.Utf8Text(source))
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	if text == "" {
		return "unexpected end of input"
	}
	if utf8.RuneCountInString(text) > maxTokenPreview {
		runes := []rune(text)
		text = string(runes[:maxTokenPreview]) + "..."
	}
	return fmt.Sprintf("unexpected %q", text)
}

func newDiagnostic(source []byte, start, end int, msg string) Diagnostic {
	if start > len(source) {
		start = len(source)
	}
	if end < start {
		end = start
	}
	lineStart := 0
	line := 1
	for i := 0; i < start; i++ {
		if source[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	lineEnd := len(source)
	for i := start; i < len(source); i++ {
		if source[i] == '\n' {
			lineEnd = i
			break
		}
	}
	if end > lineEnd {
		end = lineEnd
	}

	text := strings.TrimRight(string(source[lineStart:lineEnd]), "\r")
	col := utf8.RuneCount(source[lineStart:start]) + 1
	width := utf8.RuneCount(source[start:end])
	if width < 1 {
		width = 1
	}

	gutter := fmt.Sprintf("%d", line)
	pad := strings.Repeat(" ", len(gutter))
	snippet := fmt.Sprintf("%s | %s\n%s | %s%s", gutter, text, pad,
		strings.Repeat(" ", col-1), strings.Repeat("^", width))

	return Diagnostic{
		Offset:  start,
		Line:    line,
		Column:  col,
		Message: msg,
		Snippet: snippet,
	}
}
