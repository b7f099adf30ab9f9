package components

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/tui/styles"
	"golang.org/x/image/draw"
)

// upperHalfBlock draws the top pixel in the foreground and the bottom pixel in
// the background, giving two vertical pixels per terminal cell
const upperHalfBlock = "▀"

// PosterSize returns the cell height for a poster of the given cell width,
// keeping the usual 2:3 poster aspect
func PosterSize(width int) (int, int) {
	if width < 1 {
		width = 1
	}
	// each cell is two pixels tall, so width*3/2 pixels is width*3/4 rows
	height := (width*3 + 3) / 4
	if height < 1 {
		height = 1
	}
	return width, height
}

// RenderPoster scales img into a width x height cell block
func RenderPoster(img image.Image, width, height int) string {
	if img == nil || width <= 0 || height <= 0 {
		return blankBlock(width, height, styles.PosterFrameStyle)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height*2))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	var b strings.Builder
	for row := 0; row < height; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < width; col++ {
			top := dst.RGBAAt(col, row*2)
			bottom := dst.RGBAAt(col, row*2+1)
			b.WriteString(lipgloss.NewStyle().
				Foreground(hexColor(top.R, top.G, top.B)).
				Background(hexColor(bottom.R, bottom.G, bottom.B)).
				Render(upperHalfBlock))
		}
	}
	return b.String()
}

// RenderPosterPlaceholder draws the "no poster" frame with a centered glyph
func RenderPosterPlaceholder(width, height int) string {
	return centeredBlock("∅", width, height, styles.PosterFrameStyle)
}

// RenderPosterLoading draws the poster frame with a loading glyph
func RenderPosterLoading(glyph string, width, height int) string {
	return centeredBlock(glyph, width, height, styles.PosterFrameStyle)
}

// RenderPosterRetry draws the poster frame with the retry glyph
func RenderPosterRetry(width, height int) string {
	return centeredBlock(styles.RetryStyle.Render("↻"), width, height, styles.PosterFrameStyle)
}

// RenderShimmer draws a width x height block of the shimmer gradient shifted by frame
func RenderShimmer(width, height, frame int) string {
	ramp := styles.ShimmerRamp
	var b strings.Builder
	for row := 0; row < height; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < width; col++ {
			c := ramp[(col+row+frame)%len(ramp)]
			b.WriteString(lipgloss.NewStyle().Background(c).Render(" "))
		}
	}
	return b.String()
}

func centeredBlock(content string, width, height int, style lipgloss.Style) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	return style.
		Width(width).
		Height(height).
		MaxWidth(width).
		MaxHeight(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func blankBlock(width, height int, style lipgloss.Style) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	line := style.Render(strings.Repeat(" ", width))
	lines := make([]string, height)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

func hexColor(r, g, b uint8) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r, g, b))
}
