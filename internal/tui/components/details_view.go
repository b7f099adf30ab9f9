package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/service"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// DetailsView renders a MovieDetailsViewModel inside a scrollable viewport
type DetailsView struct {
	vm          *service.MovieDetailsViewModel
	viewport    viewport.Model
	posterWidth int
	glyph       string

	width  int
	height int
}

// NewDetailsView creates a details view for vm with posters posterWidth cells wide
func NewDetailsView(vm *service.MovieDetailsViewModel, posterWidth int) *DetailsView {
	if posterWidth < 4 {
		posterWidth = 4
	}
	vp := viewport.New(0, 0)
	vp.KeyMap.Up = DetailsKeys.Up
	vp.KeyMap.Down = DetailsKeys.Down
	vp.KeyMap.PageUp = DetailsKeys.PageUp
	vp.KeyMap.PageDown = DetailsKeys.PageDown
	vp.KeyMap.HalfPageUp = key.NewBinding(key.WithDisabled())
	vp.KeyMap.HalfPageDown = key.NewBinding(key.WithDisabled())

	return &DetailsView{
		vm:          vm,
		viewport:    vp,
		posterWidth: posterWidth,
	}
}

// ViewModel returns the view-model being rendered
func (d *DetailsView) ViewModel() *service.MovieDetailsViewModel { return d.vm }

// SetSize updates the view dimensions
func (d *DetailsView) SetSize(width, height int) {
	d.width = width
	d.height = height
	frameW, frameH := styles.ActiveBorder.GetFrameSize()
	d.viewport.Width = max(width-frameW, 0)
	d.viewport.Height = max(height-frameH, 0)
	d.Refresh()
}

// SetGlyph sets the spinner frame shown while loading
func (d *DetailsView) SetGlyph(glyph string) {
	d.glyph = glyph
	if d.isLoading() {
		d.Refresh()
	}
}

// Refresh re-renders the content from the view-model
func (d *DetailsView) Refresh() {
	d.viewport.SetContent(d.renderContent())
}

// Update forwards scroll keys to the viewport
func (d *DetailsView) Update(msg tea.Msg) (*DetailsView, tea.Cmd) {
	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(msg)
	return d, cmd
}

// View renders the bordered details view
func (d *DetailsView) View() string {
	frameW, frameH := styles.ActiveBorder.GetFrameSize()
	return styles.ActiveBorder.
		Width(max(d.width-frameW, 0)).
		Height(max(d.height-frameH, 0)).
		Render(d.viewport.View())
}

func (d *DetailsView) isLoading() bool {
	if d.vm.State() == service.StateLoading {
		return true
	}
	content := d.vm.Content()
	return content != nil && content.ImageState() == service.StateLoading
}

func (d *DetailsView) renderContent() string {
	width := d.viewport.Width
	if width <= 0 {
		return ""
	}

	switch d.vm.State() {
	case service.StateEmpty, service.StateLoading:
		return d.renderHeader(d.vm.Movie.Title, d.vm.Movie.ReleaseDate, "", "") +
			"\n\n" + styles.SpinnerStyle.Render(d.glyph) + styles.DimStyle.Render(" Loading details...")

	case service.StateFailure:
		return d.renderHeader(d.vm.Movie.Title, d.vm.Movie.ReleaseDate, "", "") +
			"\n\n" + styles.ErrorStyle.Render(service.ConnectivityErrorMessage) +
			"\n" + styles.RenderHint("r", "retry")
	}

	details := d.vm.Details()
	header := d.renderHeader(details.Title, details.ReleaseDate, details.Duration, details.OriginalTitle)

	poster := d.renderPoster()
	overviewWidth := width - d.posterWidth - 3
	var body string
	if overviewWidth < 20 {
		// too narrow for side by side
		body = poster + "\n\n" + lipgloss.NewStyle().Width(width).Render(details.Overview)
	} else {
		overview := lipgloss.NewStyle().Width(overviewWidth).Render(details.Overview)
		body = lipgloss.JoinHorizontal(lipgloss.Top, poster, "   ", overview)
	}
	return header + "\n\n" + body
}

func (d *DetailsView) renderHeader(title, year, duration, originalTitle string) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(title))
	if originalTitle != "" {
		b.WriteString("\n" + styles.DimStyle.Render(originalTitle))
	}

	meta := []string{year}
	if duration != "" {
		meta = append(meta, duration)
	}
	b.WriteString("\n" + styles.SubtitleStyle.Render(strings.Join(meta, " · ")))
	return b.String()
}

func (d *DetailsView) renderPoster() string {
	width, height := PosterSize(d.posterWidth)
	content := d.vm.Content()
	if content == nil || content.Details.PosterImageURL == nil {
		return RenderPosterPlaceholder(width, height)
	}

	switch content.ImageState() {
	case service.StateLoaded:
		return RenderPoster(content.Image(), width, height)
	case service.StateFailure:
		return RenderPosterRetry(width, height) + "\n" +
			styles.ErrorStyle.Render(styles.Truncate(service.ImageErrorMessage, width)) + "\n" +
			styles.RenderHint("r", "retry")
	default:
		return RenderPosterLoading(d.glyph, width, height)
	}
}
