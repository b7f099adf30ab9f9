package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Color palette
var (
	TMDBTeal   = lipgloss.Color("#01B4E4")
	TMDBGreen  = lipgloss.Color("#90CEA1")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Red        = lipgloss.Color("#EF4444")
)

// Borders
var (
	ActiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(TMDBTeal)

	InactiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(TMDBTeal)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	// ErrorBannerStyle is the dismissable list error shown above the rows
	ErrorBannerStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(Red).
				Bold(true).
				Padding(0, 1)
)

// Row styles
var (
	SelectedRowStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(TMDBTeal).
				PaddingLeft(1)

	NormalRowStyle = lipgloss.NewStyle().
			Border(lipgloss.HiddenBorder(), false, false, false, true).
			PaddingLeft(1)
)

// Poster styles
var (
	PosterFrameStyle = lipgloss.NewStyle().
				Foreground(DimGray).
				Background(SlateDark)

	RetryStyle = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)
)

// Shimmer gradient, brightest last
var ShimmerRamp = []lipgloss.Color{SlateDark, SlateLight, DimGray, SlateLight}

// Spinner style
var (
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(TMDBTeal)
)

// Search and filter styles
var (
	SearchPromptStyle = lipgloss.NewStyle().
				Foreground(TMDBTeal).
				Bold(true)

	FilterStyle = lipgloss.NewStyle().
			Foreground(TMDBGreen)

	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(TMDBGreen).
				Bold(true)
)

// Match highlight styles for titles
var (
	MatchHighlightStyle = lipgloss.NewStyle().
				Foreground(TMDBTeal).
				Bold(true)

	MatchHighlightSelectedStyle = lipgloss.NewStyle().
					Foreground(TMDBGreen).
					Bold(true)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(TMDBTeal)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Helper functions

// Truncate shortens s to the given display width, ending with an ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

// Pad pads or truncates s to exactly width display columns
func Pad(s string, width int) string {
	if runewidth.StringWidth(s) >= width {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.FillRight(s, width)
}

// RenderHint renders a "key description" pair for the footer
func RenderHint(key, desc string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(desc)
}
