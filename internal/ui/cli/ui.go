package cli

import (
	"fmt"
	"sort"
	"time"

	"esmlex/internal/core/app"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	facadeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type panelMode int

const (
	panelFiles panelMode = iota
	panelErrors
)

type model struct {
	fileList  list.Model
	errorList list.Model
	mode      panelMode

	files      map[string]app.FileReport
	ordered    []string
	failed     []string
	lastUpdate time.Time
	cycles     int
	removed    int

	showDetails bool
}

// updateMsg carries one scan or watch cycle into the model.
type updateMsg struct {
	at      time.Time
	files   []app.FileReport
	removed []string
}

type watchErrMsg struct {
	err error
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return handleKeyActions(msg, m)
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		width := msg.Width - h
		height := msg.Height - v - 8
		if height < 5 {
			height = 5
		}
		m.fileList.SetSize(width, height)
		m.errorList.SetSize(width, height)
	case updateMsg:
		m = m.apply(msg)
	case watchErrMsg:
		m.errorList.NewStatusMessage(errorStyle.Render(fmt.Sprintf("watch stopped: %v", msg.err)))
	}

	var cmd tea.Cmd
	if m.mode == panelFiles {
		m.fileList, cmd = m.fileList.Update(msg)
	} else {
		m.errorList, cmd = m.errorList.Update(msg)
	}
	return m, cmd
}

func (m model) apply(msg updateMsg) model {
	for _, f := range msg.files {
		m.files[f.Path] = f
	}
	for _, path := range msg.removed {
		delete(m.files, path)
	}
	m.removed += len(msg.removed)
	m.cycles++
	m.lastUpdate = msg.at

	m.ordered = make([]string, 0, len(m.files))
	m.failed = nil
	for path, f := range m.files {
		m.ordered = append(m.ordered, path)
		if f.Err != nil {
			m.failed = append(m.failed, path)
		}
	}
	sort.Strings(m.ordered)
	sort.Strings(m.failed)

	fileItems := make([]list.Item, 0, len(m.ordered))
	for _, path := range m.ordered {
		fileItems = append(fileItems, item{title: path, desc: fileSummary(m.files[path])})
	}
	m.fileList.SetItems(fileItems)

	errItems := make([]list.Item, 0, len(m.failed))
	for _, path := range m.failed {
		errItems = append(errItems, item{title: path, desc: firstLine(m.files[path].Err.Error())})
	}
	m.errorList.SetItems(errItems)
	return m
}

func (m model) View() string {
	imports, exports, facades := 0, 0, 0
	for _, f := range m.files {
		if f.Err != nil {
			continue
		}
		imports += len(f.Result.Imports)
		exports += len(f.Result.Exports)
		if f.Result.Facade {
			facades++
		}
	}

	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d files | %d imports | %d exports | %d cycles",
		m.lastUpdate.Format("15:04:05"), len(m.files), imports, exports, m.cycles))

	var summary string
	if len(m.failed) == 0 {
		summary = successStyle.Render("All files lex cleanly")
	} else {
		summary = errorStyle.Render(fmt.Sprintf("%d failing", len(m.failed)))
	}
	summary += " | " + facadeStyle.Render(fmt.Sprintf("%d facades", facades))

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("ES Module Lexer"), status, summary)

	body := m.fileList.View()
	if m.mode == panelErrors {
		body = m.errorList.View()
	}
	if m.showDetails {
		body += "\n\n" + renderDetails(m)
	}
	return docStyle.Render(header + "\n" + renderHelp(m) + "\n\n" + body)
}

func initialModel() model {
	fileList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	fileList.Title = "Files"
	fileList.SetShowStatusBar(false)
	fileList.SetFilteringEnabled(true)

	errorList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	errorList.Title = "Syntax Errors"
	errorList.SetShowStatusBar(false)
	errorList.SetFilteringEnabled(true)

	return model{
		fileList:   fileList,
		errorList:  errorList,
		mode:       panelFiles,
		files:      make(map[string]app.FileReport),
		lastUpdate: time.Now(),
	}
}
