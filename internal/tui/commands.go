package tui

import (
	"net/url"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/service"
)

// Command factories

// SearchCmd asks the update loop to search for query
func SearchCmd(query string) tea.Cmd {
	return func() tea.Msg {
		return SearchMsg{Query: query}
	}
}

// OpenDetailsCmd asks the update loop to open the details of c
func OpenDetailsCmd(c *service.CellController) tea.Cmd {
	return func() tea.Msg {
		return OpenDetailsMsg{Controller: c}
	}
}

// OpenPageCmd opens u with opener off the update loop
func OpenPageCmd(opener Opener, u *url.URL, title string) tea.Cmd {
	return func() tea.Msg {
		return PageOpenedMsg{Title: title, Err: opener.Open(u)}
	}
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
