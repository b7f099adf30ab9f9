package service

import (
	"image"

	"github.com/google/uuid"
	"github.com/mmcdole/reel/internal/domain"
)

// MovieCell is the reusable visual row a CellController renders into
type MovieCell interface {
	SetTitle(title string)
	SetReleaseDate(date string)

	// SetPoster shows img; nil clears the poster area
	SetPoster(img image.Image)

	// SetPlaceholder shows the "no poster" glyph
	SetPlaceholder()

	SetLoading(loading bool)
	SetRetryVisible(visible bool)
	SetOnRetry(fn func())
}

// CellControllerDelegate receives image lifecycle requests from cell controllers.
// The orchestrator implements it; controllers hold it as a plain interface
// value and never manage its lifetime.
type CellControllerDelegate interface {
	DidRequestImage(c *CellController)
	DidCancelImageRequest(c *CellController)
}

// CellController binds one Movie row to at most one live MovieCell and drives
// that row's poster load through its delegate
type CellController struct {
	ID    uuid.UUID
	Model domain.Movie

	generation uint64
	delegate   CellControllerDelegate
	cell       MovieCell
}

// NewCellController creates a controller for a movie in the given result generation
func NewCellController(model domain.Movie, generation uint64, delegate CellControllerDelegate) *CellController {
	return &CellController{
		ID:         uuid.New(),
		Model:      model,
		generation: generation,
		delegate:   delegate,
	}
}

// Bind installs the row text into cell, clears any stale poster, wires retry
// and requests the poster
func (c *CellController) Bind(cell MovieCell) {
	c.cell = cell
	cell.SetTitle(c.Model.Title)
	cell.SetReleaseDate(c.Model.ReleaseDate)
	cell.SetRetryVisible(false)
	cell.SetOnRetry(c.Preload)
	cell.SetPoster(nil)
	c.delegate.DidRequestImage(c)
}

// Preload requests the poster without a bound cell
func (c *CellController) Preload() {
	c.delegate.DidRequestImage(c)
}

// CancelLoad releases the cell for reuse and cancels the poster request
func (c *CellController) CancelLoad() {
	c.ReleaseCell()
	c.delegate.DidCancelImageRequest(c)
}

// ReleaseCell drops the cell reference without touching the image request
func (c *CellController) ReleaseCell() {
	c.cell = nil
}

// IsBound returns true while the controller owns a cell
func (c *CellController) IsBound() bool { return c.cell != nil }

// DisplayImage shows a decoded poster in the bound cell
func (c *CellController) DisplayImage(img image.Image) {
	if c.cell != nil {
		c.cell.SetPoster(img)
	}
}

// DisplayPlaceholder shows the "no poster" glyph in the bound cell
func (c *CellController) DisplayPlaceholder() {
	if c.cell != nil {
		c.cell.SetPlaceholder()
	}
}

// DisplayLoading toggles the loading indicator in the bound cell
func (c *CellController) DisplayLoading(loading bool) {
	if c.cell != nil {
		c.cell.SetLoading(loading)
	}
}

// DisplayError shows the retry control when message is non-empty
func (c *CellController) DisplayError(message string) {
	if c.cell != nil {
		c.cell.SetRetryVisible(message != "")
	}
}
