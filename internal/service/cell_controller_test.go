package service

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type delegateSpy struct {
	requested []*CellController
	cancelled []*CellController
}

func (d *delegateSpy) DidRequestImage(c *CellController)       { d.requested = append(d.requested, c) }
func (d *delegateSpy) DidCancelImageRequest(c *CellController) { d.cancelled = append(d.cancelled, c) }

func TestCellController_BindRendersRowAndRequestsImage(t *testing.T) {
	delegate := &delegateSpy{}
	c := NewCellController(makeMovie(t, "1", "A movie", "2021", ""), 1, delegate)
	cell := &cellSpy{poster: image.NewRGBA(image.Rect(0, 0, 1, 1)), retryVisible: true}

	c.Bind(cell)

	assert.Equal(t, "A movie", cell.title)
	assert.Equal(t, "2021", cell.releaseDate)
	assert.Nil(t, cell.poster, "a reused cell loses its previous poster")
	assert.False(t, cell.retryVisible)
	require.NotNil(t, cell.onRetry)
	assert.Equal(t, []*CellController{c}, delegate.requested)
	assert.True(t, c.IsBound())
}

func TestCellController_RetryRequestsImageAgain(t *testing.T) {
	delegate := &delegateSpy{}
	c := NewCellController(makeMovie(t, "1", "A", "2021", ""), 1, delegate)
	cell := &cellSpy{}
	c.Bind(cell)

	cell.simulateRetry()

	assert.Len(t, delegate.requested, 2)
}

func TestCellController_PreloadWithoutCell(t *testing.T) {
	delegate := &delegateSpy{}
	c := NewCellController(makeMovie(t, "1", "A", "2021", ""), 1, delegate)

	c.Preload()
	c.DisplayImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	c.DisplayLoading(true)
	c.DisplayError(ImageErrorMessage)
	c.DisplayPlaceholder()

	assert.Len(t, delegate.requested, 1)
	assert.False(t, c.IsBound())
}

func TestCellController_CancelLoadReleasesCell(t *testing.T) {
	delegate := &delegateSpy{}
	c := NewCellController(makeMovie(t, "1", "A", "2021", ""), 1, delegate)
	cell := &cellSpy{}
	c.Bind(cell)

	c.CancelLoad()
	c.DisplayError(ImageErrorMessage)

	assert.Equal(t, []*CellController{c}, delegate.cancelled)
	assert.False(t, c.IsBound())
	assert.False(t, cell.retryVisible, "a released cell is no longer updated")
}

func TestCellController_ReleaseCellKeepsRequest(t *testing.T) {
	delegate := &delegateSpy{}
	c := NewCellController(makeMovie(t, "1", "A", "2021", ""), 1, delegate)
	c.Bind(&cellSpy{})

	c.ReleaseCell()

	assert.Empty(t, delegate.cancelled)
	assert.False(t, c.IsBound())
}

func TestCellController_DisplayErrorTogglesRetry(t *testing.T) {
	c := NewCellController(makeMovie(t, "1", "A", "2021", ""), 1, &delegateSpy{})
	cell := &cellSpy{}
	c.Bind(cell)

	c.DisplayError(ImageErrorMessage)
	assert.True(t, cell.retryVisible)

	c.DisplayError("")
	assert.False(t, cell.retryVisible)
}

func TestCellController_IdentityIsUnique(t *testing.T) {
	movie := makeMovie(t, "1", "A", "2021", "")
	a := NewCellController(movie, 3, &delegateSpy{})
	b := NewCellController(movie, 3, &delegateSpy{})

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, uint64(3), a.generation)
}
