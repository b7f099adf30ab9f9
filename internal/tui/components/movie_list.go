package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/mmcdole/reel/internal/service"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// Layout constants for the movie list
const (
	BorderWidth  = 2
	BorderHeight = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2

	// ShimmerRows is the number of placeholder rows shown while a search runs
	ShimmerRows = 3
)

// MovieList shows the current result rows. Only rows inside the visible window
// own a MovieRow; rows in the prefetch margin are preloaded without one, and
// rows beyond it have their poster loads cancelled.
type MovieList struct {
	controllers []*service.CellController // full result set
	visible     []*service.CellController // after the local filter

	// Cell reuse
	cells  map[uuid.UUID]*MovieRow
	active map[uuid.UUID]*service.CellController
	pool   []*MovieRow

	// Selection
	cursor     int
	offset     int
	maxVisible int
	prefetch   int

	// Dimensions
	width   int
	height  int
	focused bool

	// Loading state
	loading bool
	frame   int
	glyph   string

	message   string // list load error, empty when hidden
	highlight string // search text used for match highlighting

	// Filter state
	filterActive bool
	filterInput  textinput.Model
}

// NewMovieList creates an empty list that preloads prefetch rows beyond the window
func NewMovieList(prefetch int) *MovieList {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	if prefetch < 0 {
		prefetch = 0
	}
	return &MovieList{
		cells:       make(map[uuid.UUID]*MovieRow),
		active:      make(map[uuid.UUID]*service.CellController),
		prefetch:    prefetch,
		filterInput: ti,
	}
}

// SetControllers replaces the rows. Rows of the previous set are abandoned:
// their cells return to the pool and their in-flight loads are left to finish.
func (l *MovieList) SetControllers(controllers []*service.CellController) {
	for id, c := range l.active {
		c.ReleaseCell()
		l.releaseRow(id)
	}
	l.active = make(map[uuid.UUID]*service.CellController)

	l.controllers = controllers
	l.visible = controllers
	l.cursor = 0
	l.offset = 0
	l.clearFilterState()
	l.syncWindow()
}

// SetSize updates the list dimensions and rebinds the window
func (l *MovieList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.recalcMaxVisible()
	l.ensureVisible()
	l.syncWindow()
}

func (l *MovieList) SetFocused(focused bool) { l.focused = focused }

// SetLoading toggles the shimmer rows
func (l *MovieList) SetLoading(loading bool) { l.loading = loading }
func (l *MovieList) IsLoading() bool         { return l.loading }

// SetFrame advances the shimmer and the poster loading glyph
func (l *MovieList) SetFrame(frame int, glyph string) {
	l.frame = frame
	l.glyph = glyph
}

// SetError shows message above the rows; empty hides it
func (l *MovieList) SetError(message string) {
	l.message = message
	l.recalcMaxVisible()
	l.ensureVisible()
	l.syncWindow()
}

func (l *MovieList) Error() string { return l.message }

// SetHighlight sets the search text highlighted in titles
func (l *MovieList) SetHighlight(query string) { l.highlight = query }

// SelectedController returns the controller under the cursor, or nil
func (l *MovieList) SelectedController() *service.CellController {
	if l.cursor < 0 || l.cursor >= len(l.visible) {
		return nil
	}
	return l.visible[l.cursor]
}

// RowFor returns the cell bound to c, or nil when c is outside the window
func (l *MovieList) RowFor(c *service.CellController) *MovieRow {
	if c == nil {
		return nil
	}
	return l.cells[c.ID]
}

// RetrySelected retries the poster of the selected row when it failed
func (l *MovieList) RetrySelected() bool {
	row := l.RowFor(l.SelectedController())
	if row == nil {
		return false
	}
	return row.Retry()
}

// ItemCount returns the number of rows after filtering
func (l *MovieList) ItemCount() int { return len(l.visible) }

// Close cancels the loads of every row that still holds one
func (l *MovieList) Close() {
	for id, c := range l.active {
		c.CancelLoad()
		l.releaseRow(id)
	}
	l.active = make(map[uuid.UUID]*service.CellController)
}

// ToggleFilter activates the filter input
func (l *MovieList) ToggleFilter() {
	l.filterActive = true
	l.filterInput.Focus()
	l.recalcMaxVisible()
	l.ensureVisible()
	l.syncWindow()
}

// IsFiltering returns true if filter mode is active
func (l *MovieList) IsFiltering() bool { return l.filterActive }

// IsFilterTyping returns true if filter is active AND input is focused
func (l *MovieList) IsFilterTyping() bool {
	return l.filterActive && l.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all rows
func (l *MovieList) ClearFilter() {
	l.clearFilterState()
	l.visible = l.controllers
	l.cursor = 0
	l.offset = 0
	l.syncWindow()
}

// Update handles navigation and filter keys
func (l *MovieList) Update(msg tea.Msg) (*MovieList, tea.Cmd) {
	if !l.focused {
		return l, nil
	}

	keyMsg, isKey := msg.(tea.KeyMsg)

	// Filter typing mode
	if l.IsFilterTyping() {
		if isKey {
			switch {
			case key.Matches(keyMsg, MovieListKeys.Escape):
				l.ClearFilter()
				return l, nil
			case key.Matches(keyMsg, MovieListKeys.Enter):
				l.filterInput.Blur()
				return l, nil
			case keyMsg.String() == "backspace" && l.filterInput.Value() == "":
				l.ClearFilter()
				return l, nil
			}
		}

		prev := l.filterInput.Value()
		var cmd tea.Cmd
		l.filterInput, cmd = l.filterInput.Update(msg)
		if l.filterInput.Value() != prev {
			l.applyFilter()
		}
		return l, cmd
	}

	if !isKey {
		return l, nil
	}

	if l.filterActive {
		switch {
		case key.Matches(keyMsg, MovieListKeys.Escape):
			l.ClearFilter()
			return l, nil
		case key.Matches(keyMsg, MovieListKeys.Filter):
			l.filterInput.Focus()
			return l, nil
		}
	}

	count := len(l.visible)
	if count == 0 {
		return l, nil
	}

	switch {
	case key.Matches(keyMsg, MovieListKeys.Down):
		l.moveCursor(1)
	case key.Matches(keyMsg, MovieListKeys.Up):
		l.moveCursor(-1)
	case key.Matches(keyMsg, MovieListKeys.Home):
		l.moveCursor(-count)
	case key.Matches(keyMsg, MovieListKeys.End):
		l.moveCursor(count)
	case key.Matches(keyMsg, MovieListKeys.PageDown):
		l.moveCursor(l.maxVisible)
	case key.Matches(keyMsg, MovieListKeys.PageUp):
		l.moveCursor(-l.maxVisible)
	}
	return l, nil
}

func (l *MovieList) moveCursor(delta int) {
	count := len(l.visible)
	if count == 0 {
		return
	}
	l.cursor += delta
	if l.cursor < 0 {
		l.cursor = 0
	}
	if l.cursor >= count {
		l.cursor = count - 1
	}
	l.ensureVisible()
	l.syncWindow()
}

// View renders the list
func (l *MovieList) View() string {
	style := styles.InactiveBorder
	if l.focused {
		style = styles.ActiveBorder
	}
	frameW, frameH := style.GetFrameSize()

	return style.
		Width(l.width - frameW).
		Height(l.height - frameH).
		Render(l.renderContent())
}

func (l *MovieList) renderContent() string {
	itemWidth := l.width - BorderWidth
	if itemWidth < 10 {
		itemWidth = 10
	}

	var sections []string
	if l.message != "" {
		sections = append(sections, styles.ErrorBannerStyle.Render(styles.Truncate(l.message, itemWidth-2)))
	}

	if l.loading {
		for i := 0; i < ShimmerRows; i++ {
			sections = append(sections, ShimmerRowView(itemWidth, l.frame+i))
		}
		return strings.Join(sections, "\n")
	}

	count := len(l.visible)
	if count == 0 {
		empty := "No results"
		if l.filterActive && l.filterInput.Value() != "" {
			empty = "No matches"
		}
		sections = append(sections, " ", styles.DimStyle.Render(empty))
		if l.filterActive {
			sections = append(sections, l.renderFilterBar())
		}
		return strings.Join(sections, "\n")
	}

	header := " "
	if l.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	sections = append(sections, header)

	start, end := l.window()
	query := l.highlight
	if l.filterActive && l.filterInput.Value() != "" {
		query = l.filterInput.Value()
	}
	for i := start; i < end; i++ {
		c := l.visible[i]
		row := l.cells[c.ID]
		if row == nil {
			continue
		}
		sections = append(sections, row.View(itemWidth, i == l.cursor, query, l.glyph))
	}

	footer := " "
	if end < count {
		footer = styles.DimStyle.Render("↓ more")
	}
	sections = append(sections, footer)

	if l.filterActive {
		sections = append(sections, l.renderFilterBar())
	}
	return strings.Join(sections, "\n")
}

func (l *MovieList) renderFilterBar() string {
	input := l.filterInput.View()
	if l.filterInput.Value() == "" {
		return input
	}
	return input + styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", len(l.visible), len(l.controllers)))
}

// Internal methods

func (l *MovieList) window() (int, int) {
	start := l.offset
	end := start + l.maxVisible
	if end > len(l.visible) {
		end = len(l.visible)
	}
	if start > end {
		start = end
	}
	return start, end
}

// syncWindow binds cells to rows entering the window and preloads the
// prefetch margin. A row leaving the window has its poster load cancelled even
// when it is still inside the margin; it stays active so it is not preloaded
// again until it scrolls back into view.
func (l *MovieList) syncWindow() {
	start, end := l.window()
	pStart := start - l.prefetch
	if pStart < 0 {
		pStart = 0
	}
	pEnd := end + l.prefetch
	if pEnd > len(l.visible) {
		pEnd = len(l.visible)
	}
	if l.maxVisible == 0 {
		pStart, pEnd = 0, 0
	}

	inRange := make(map[uuid.UUID]int, pEnd-pStart)
	for i := pStart; i < pEnd; i++ {
		inRange[l.visible[i].ID] = i
	}

	for id, c := range l.active {
		i, ok := inRange[id]
		if !ok {
			c.CancelLoad()
			l.releaseRow(id)
			delete(l.active, id)
			continue
		}
		if (i < start || i >= end) && l.cells[id] != nil {
			c.CancelLoad()
			l.releaseRow(id)
		}
	}

	for i := pStart; i < pEnd; i++ {
		c := l.visible[i]
		_, wasActive := l.active[c.ID]
		l.active[c.ID] = c

		if i >= start && i < end {
			if l.cells[c.ID] == nil {
				row := l.acquireRow()
				l.cells[c.ID] = row
				c.Bind(row)
			}
			continue
		}
		if !wasActive {
			c.Preload()
		}
	}
}

func (l *MovieList) acquireRow() *MovieRow {
	if n := len(l.pool); n > 0 {
		row := l.pool[n-1]
		l.pool = l.pool[:n-1]
		return row
	}
	return NewMovieRow()
}

func (l *MovieList) releaseRow(id uuid.UUID) {
	row, ok := l.cells[id]
	if !ok {
		return
	}
	delete(l.cells, id)
	l.pool = append(l.pool, row)
}

func (l *MovieList) recalcMaxVisible() {
	interior := l.height - BorderHeight - ScrollIndicatorLines
	if l.filterActive {
		interior--
	}
	if l.message != "" {
		interior--
	}
	l.maxVisible = interior / RowHeight
	if l.maxVisible < 1 && l.height > 0 {
		l.maxVisible = 1
	}
}

func (l *MovieList) ensureVisible() {
	if l.maxVisible <= 0 {
		return
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.maxVisible {
		l.offset = l.cursor - l.maxVisible + 1
	}
	if l.offset < 0 {
		l.offset = 0
	}
}

func (l *MovieList) applyFilter() {
	l.visible = service.FilterControllers(l.controllers, l.filterInput.Value())
	l.cursor = 0
	l.offset = 0
	l.syncWindow()
}

func (l *MovieList) clearFilterState() {
	l.filterActive = false
	l.filterInput.SetValue("")
	l.filterInput.Blur()
	l.recalcMaxVisible()
}
