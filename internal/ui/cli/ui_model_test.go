package cli

import (
	"strings"
	"testing"
	"time"

	"esmlex/internal/core/app"
	"esmlex/internal/core/errors"
	"esmlex/internal/engine/lexer"

	tea "github.com/charmbracelet/bubbletea"
)

func str(s string) *string { return &s }

func sampleUpdate() updateMsg {
	return updateMsg{
		at: time.Now(),
		files: []app.FileReport{
			{
				Path:     "src/index.js",
				Language: "javascript",
				Result: &lexer.Result{
					Imports: []lexer.Import{
						{Kind: lexer.ImportStatic, Name: str("./a.js"), Start: 15, End: 21},
						{Kind: lexer.ImportDynamic, Start: 30, End: 34, DynamicStart: lexer.At(29)},
					},
					Exports: []lexer.Export{
						{Name: "b", Start: 50, End: 51, Local: &lexer.Binding{Name: "a", Start: 45, End: 46}},
					},
					Facade:          true,
					HasModuleSyntax: true,
				},
			},
			{
				Path:     "src/bad.js",
				Language: "javascript",
				Err:      errors.New(errors.CodeSyntax, "syntax errors"),
			},
		},
	}
}

func TestModel_UpdateAndPanels(t *testing.T) {
	m := initialModel()

	updated, _ := m.Update(sampleUpdate())
	state, ok := updated.(model)
	if !ok {
		t.Fatalf("expected model type, got %T", updated)
	}
	if len(state.fileList.Items()) != 2 {
		t.Fatalf("expected 2 file items, got %d", len(state.fileList.Items()))
	}
	if len(state.errorList.Items()) != 1 {
		t.Fatalf("expected 1 error item, got %d", len(state.errorList.Items()))
	}
	if state.ordered[0] != "src/bad.js" {
		t.Fatalf("expected sorted files, got %v", state.ordered)
	}

	updated, _ = state.Update(tea.KeyMsg{Type: tea.KeyTab})
	state = updated.(model)
	if state.mode != panelErrors {
		t.Fatalf("expected error panel after tab, got %v", state.mode)
	}

	updated, _ = state.Update(tea.KeyMsg{Type: tea.KeyTab})
	state = updated.(model)
	if state.mode != panelFiles {
		t.Fatalf("expected file panel after second tab, got %v", state.mode)
	}

	view := state.View()
	if !strings.Contains(view, "1 failing") {
		t.Fatalf("expected failure count in view:\n%s", view)
	}
}

func TestModel_DetailsAndRemoval(t *testing.T) {
	m := initialModel()
	updated, _ := m.Update(sampleUpdate())
	state := updated.(model)

	// Select the second file (src/index.js).
	state.fileList.Select(1)
	updated, _ = state.Update(tea.KeyMsg{Type: tea.KeyEnter})
	state = updated.(model)
	if !state.showDetails {
		t.Fatal("expected details to open on enter")
	}
	details := renderDetails(state)
	for _, want := range []string{"File Detail: src/index.js", "./a.js @15", "import(<expr>) @30", "b @50 <- a"} {
		if !strings.Contains(details, want) {
			t.Fatalf("expected %q in details:\n%s", want, details)
		}
	}

	updated, _ = state.Update(tea.KeyMsg{Type: tea.KeyEsc})
	state = updated.(model)
	if state.showDetails {
		t.Fatal("expected details to close on esc")
	}

	updated, _ = state.Update(updateMsg{at: time.Now(), removed: []string{"src/bad.js"}})
	state = updated.(model)
	if len(state.files) != 1 || len(state.failed) != 0 {
		t.Fatalf("expected removed file to drop out, files=%d failed=%d", len(state.files), len(state.failed))
	}
	if state.removed != 1 || state.cycles != 2 {
		t.Fatalf("unexpected counters removed=%d cycles=%d", state.removed, state.cycles)
	}
}

func TestModel_Quit(t *testing.T) {
	_, cmd := initialModel().Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}

func TestFileSummary(t *testing.T) {
	got := fileSummary(sampleUpdate().files[0])
	if got != "javascript imports=2 exports=1 facade" {
		t.Fatalf("unexpected summary %q", got)
	}
}
