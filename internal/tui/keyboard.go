package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/service"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	if m.ShowHelp {
		if key.Matches(msg, Keys.Escape, Keys.Help, Keys.Quit) {
			m.ShowHelp = false
		}
		return m, nil
	}

	if m.Screen == ScreenDetails {
		return m.handleDetailsKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Search bar typing mode
	if m.SearchInput.Focused() {
		switch {
		case key.Matches(msg, Keys.Submit):
			query := strings.TrimSpace(m.SearchInput.Value())
			if query == "" {
				return m, m.setStatus("Type a movie title to search", false)
			}
			m.focusList()
			return m, SearchCmd(query)
		case key.Matches(msg, Keys.Escape), msg.Type == tea.KeyTab:
			m.focusList()
			return m, nil
		}

		var cmd tea.Cmd
		m.SearchInput, cmd = m.SearchInput.Update(msg)
		return m, cmd
	}

	// Filter typing mode belongs to the list
	if m.List.IsFilterTyping() {
		_, cmd := m.List.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m.quit()

	case key.Matches(msg, Keys.Help):
		m.ShowHelp = true
		return m, nil

	case key.Matches(msg, Keys.Refresh):
		if m.ListVM.Query() == "" {
			return m, nil
		}
		m.ListVM.Refresh()
		return m, nil

	case key.Matches(msg, Keys.Search):
		m.focusSearch()
		return m, textinput.Blink

	case key.Matches(msg, Keys.Retry):
		m.List.RetrySelected()
		return m, nil

	case key.Matches(msg, Keys.Filter) && !m.List.IsFiltering():
		if m.List.ItemCount() == 0 {
			return m, nil
		}
		m.List.ToggleFilter()
		return m, textinput.Blink

	case key.Matches(msg, Keys.Escape) && !m.List.IsFiltering() && m.List.Error() != "":
		m.List.SetError("")
		return m, nil

	case key.Matches(msg, Keys.Enter):
		if c := m.List.SelectedController(); c != nil {
			return m, OpenDetailsCmd(c)
		}
		return m, nil

	case key.Matches(msg, Keys.Open):
		if c := m.List.SelectedController(); c != nil {
			return m, m.openPage(c.Model)
		}
		return m, nil
	}

	_, cmd := m.List.Update(msg)
	return m, cmd
}

func (m Model) handleDetailsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Quit):
		return m.quit()

	case key.Matches(msg, Keys.Help):
		m.ShowHelp = true
		return m, nil

	case key.Matches(msg, Keys.Back):
		m.closeDetails()
		return m, nil

	case key.Matches(msg, Keys.Open):
		return m, m.openPage(m.Details.ViewModel().Movie)

	case key.Matches(msg, Keys.Retry):
		vm := m.Details.ViewModel()
		if vm.State() == service.StateFailure {
			vm.OnRetry()
			return m, nil
		}
		if content := vm.Content(); content != nil {
			content.OnImageLoadRetry()
		}
		return m, nil
	}

	_, cmd := m.Details.Update(msg)
	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.shutdown()
	return m, tea.Quit
}
