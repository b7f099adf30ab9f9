package components

import (
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/service"
	"github.com/mmcdole/reel/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

// Row layout
const (
	RowHeight      = 4
	ThumbnailWidth = 6
	thumbGap       = 2
)

// Ensure *MovieRow implements service.MovieCell at compile time.
var _ service.MovieCell = (*MovieRow)(nil)

// MovieRow is a reusable list row. A CellController fills it while bound.
type MovieRow struct {
	title       string
	releaseDate string

	poster      image.Image
	thumbnail   string // poster rendered at thumbnail size, cached per poster
	placeholder bool
	loading     bool
	retry       bool
	onRetry     func()
}

// NewMovieRow creates an empty row
func NewMovieRow() *MovieRow {
	return &MovieRow{}
}

func (r *MovieRow) SetTitle(title string)        { r.title = title }
func (r *MovieRow) SetReleaseDate(date string)   { r.releaseDate = date }
func (r *MovieRow) SetLoading(loading bool)      { r.loading = loading }
func (r *MovieRow) SetRetryVisible(visible bool) { r.retry = visible }
func (r *MovieRow) SetOnRetry(fn func())         { r.onRetry = fn }

// SetPoster shows img; nil clears the poster area
func (r *MovieRow) SetPoster(img image.Image) {
	r.poster = img
	r.thumbnail = ""
	r.placeholder = false
}

// SetPlaceholder shows the "no poster" glyph
func (r *MovieRow) SetPlaceholder() {
	r.poster = nil
	r.thumbnail = ""
	r.placeholder = true
}

// Retry invokes the retry action when the retry control is showing
func (r *MovieRow) Retry() bool {
	if !r.retry || r.onRetry == nil {
		return false
	}
	r.onRetry()
	return true
}

func (r *MovieRow) Title() string      { return r.title }
func (r *MovieRow) HasPoster() bool    { return r.poster != nil }
func (r *MovieRow) IsLoading() bool    { return r.loading }
func (r *MovieRow) RetryVisible() bool { return r.retry }

// View renders the row. query highlights matched title characters; glyph is
// the current spinner frame used while the poster loads.
func (r *MovieRow) View(width int, selected bool, query, glyph string) string {
	thumbW, thumbH := ThumbnailWidth, RowHeight
	thumb := r.renderThumbnail(thumbW, thumbH, glyph)

	textWidth := width - thumbW - thumbGap - 2
	if textWidth < 4 {
		textWidth = 4
	}

	lines := []string{
		highlightTitle(styles.Truncate(r.title, textWidth), query, selected),
		styles.SubtitleStyle.Render(styles.Truncate(r.releaseDate, textWidth)),
	}
	switch {
	case r.retry:
		lines = append(lines, styles.ErrorStyle.Render(styles.Truncate(service.ImageErrorMessage+" · r to retry", textWidth)))
	case r.loading:
		lines = append(lines, styles.DimStyle.Render("loading poster"))
	}

	text := lipgloss.NewStyle().Width(textWidth).Height(RowHeight).Render(strings.Join(lines, "\n"))
	row := lipgloss.JoinHorizontal(lipgloss.Top, thumb, strings.Repeat(" ", thumbGap), text)

	if selected {
		return styles.SelectedRowStyle.Render(row)
	}
	return styles.NormalRowStyle.Render(row)
}

func (r *MovieRow) renderThumbnail(width, height int, glyph string) string {
	switch {
	case r.poster != nil:
		if r.thumbnail == "" {
			r.thumbnail = RenderPoster(r.poster, width, height)
		}
		return r.thumbnail
	case r.placeholder:
		return RenderPosterPlaceholder(width, height)
	case r.retry:
		return RenderPosterRetry(width, height)
	case r.loading:
		return RenderPosterLoading(glyph, width, height)
	default:
		return blankBlock(width, height, styles.PosterFrameStyle)
	}
}

// ShimmerRowView renders a loading placeholder row
func ShimmerRowView(width, frame int) string {
	thumb := RenderShimmer(ThumbnailWidth, RowHeight, frame)

	textWidth := width - ThumbnailWidth - thumbGap - 2
	if textWidth < 4 {
		textWidth = 4
	}
	titleW := textWidth * 2 / 3
	dateW := textWidth / 4
	text := RenderShimmer(titleW, 1, frame) + "\n" + RenderShimmer(dateW, 1, frame+1)

	row := lipgloss.JoinHorizontal(lipgloss.Top, thumb, strings.Repeat(" ", thumbGap), text)
	return styles.NormalRowStyle.Render(row)
}

// highlightTitle renders title with the characters matched by query emphasized
func highlightTitle(title, query string, selected bool) string {
	base := styles.SubtitleStyle
	match := styles.MatchHighlightStyle
	if selected {
		base = styles.TitleStyle
		match = styles.MatchHighlightSelectedStyle
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return base.Render(title)
	}

	matches := fuzzy.Find(strings.ToLower(query), []string{strings.ToLower(title)})
	if len(matches) == 0 {
		return base.Render(title)
	}

	matched := make(map[int]bool, len(matches[0].MatchedIndexes))
	for _, idx := range matches[0].MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder
	for i, ch := range title {
		if matched[i] {
			b.WriteString(match.Render(string(ch)))
		} else {
			b.WriteString(base.Render(string(ch)))
		}
	}
	return b.String()
}
