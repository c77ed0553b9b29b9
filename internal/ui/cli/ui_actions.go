package cli

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

func handleKeyActions(msg tea.KeyMsg, m model) (tea.Model, tea.Cmd) {
	filtering := m.fileList.FilterState() == list.Filtering || m.errorList.FilterState() == list.Filtering
	if !filtering {
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			if m.mode == panelFiles {
				m.mode = panelErrors
			} else {
				m.mode = panelFiles
			}
			m.showDetails = false
			return m, nil
		case "enter":
			m.showDetails = true
			return m, nil
		case "esc":
			if m.showDetails {
				m.showDetails = false
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	if m.mode == panelFiles {
		m.fileList, cmd = m.fileList.Update(msg)
	} else {
		m.errorList, cmd = m.errorList.Update(msg)
	}
	return m, cmd
}
