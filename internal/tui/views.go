package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/tui/styles"
)

const appTitle = "reel"

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.ShowHelp {
		return m.renderHelp()
	}

	var content string
	switch m.Screen {
	case ScreenDetails:
		content = m.Details.View()
	default:
		content = m.List.View()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		content,
		m.renderFooter(),
	)
}

// renderHeader renders the title and search bar, or a breadcrumb on details
func (m Model) renderHeader() string {
	title := styles.AccentStyle.Bold(true).Render(appTitle)
	if m.Screen == ScreenDetails && m.Details != nil {
		crumb := styles.DimStyle.Render(" › ") +
			styles.TitleStyle.Render(styles.Truncate(m.Details.ViewModel().Movie.Title, m.Width-10))
		return title + crumb
	}
	return title + "  " + m.SearchInput.View()
}

// renderFooter renders a single-line minimal footer
func (m Model) renderFooter() string {
	var left string
	switch {
	case m.ListVM.IsSearching():
		left = m.Spinner.View() + " " + styles.DimStyle.Render("Searching \""+m.ListVM.Query()+"\"...")
	case m.StatusMsg != "":
		if m.StatusIsErr {
			left = styles.ErrorStyle.Render(m.StatusMsg)
		} else {
			left = styles.DimStyle.Render(m.StatusMsg)
		}
	}

	var hints []string
	switch {
	case m.Screen == ScreenDetails:
		hints = []string{
			styles.RenderHint("esc", "back"),
			styles.RenderHint("r", "retry"),
			styles.RenderHint("o", "open"),
		}
	case m.SearchInput.Focused():
		hints = []string{
			styles.RenderHint("enter", "search"),
			styles.RenderHint("tab", "results"),
		}
	default:
		hints = []string{
			styles.RenderHint("enter", "details"),
			styles.RenderHint("s", "search"),
			styles.RenderHint("/", "filter"),
			styles.RenderHint("C-r", "refresh"),
		}
	}
	hints = append(hints, styles.RenderHint("?", "help"))
	right := strings.Join(hints, "  ")

	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
SEARCH                          RESULTS
  s/Tab      Focus search bar     j/k        Up/down
  Enter      Run search           g/G        First/last row
  Esc        Back to results      PgUp/PgDn  Scroll page
  C-r        Repeat last search   /          Filter rows
                                  Enter      Movie details
DETAILS                           r          Retry poster
  j/k        Scroll               o          Open TMDB page
  r          Retry
  o          Open TMDB page       OTHER
  Esc        Back to results      q          Quit
                                  ?          This help

Press any key to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ActiveBorder.Padding(1, 2).Render(help))
}
