package tui

import "github.com/charmbracelet/lipgloss"

// MinContentHeight keeps at least one list row on very short terminals
const MinContentHeight = 8

// contentHeight returns the height left for the active screen
func (m Model) contentHeight() int {
	return max(m.Height-ChromeHeight, MinContentHeight)
}

// updateLayout pushes the terminal size down to the components
func (m *Model) updateLayout() {
	if !m.Ready {
		return
	}

	promptWidth := lipgloss.Width(m.SearchInput.Prompt)
	m.SearchInput.Width = max(m.Width-promptWidth-lipgloss.Width(appTitle)-2, 10)

	height := m.contentHeight()
	m.List.SetSize(m.Width, height)
	if m.Details != nil {
		m.Details.SetSize(m.Width, height)
	}
}
