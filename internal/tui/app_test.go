package tui

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"net/url"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loaderStub records requests and lets the test complete them
type loaderStub[T any] struct {
	mu          sync.Mutex
	requests    []*url.URL
	cancelled   []*url.URL
	completions []func(T, error)
}

func (s *loaderStub[T]) Load(u *url.URL, completion func(T, error)) domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, u)
	task := domain.NewTaskWrapper(completion)
	task.SetWrapped(domain.TaskFunc(func() {
		s.mu.Lock()
		s.cancelled = append(s.cancelled, u)
		s.mu.Unlock()
	}))
	s.completions = append(s.completions, task.Complete)
	return task
}

func (s *loaderStub[T]) complete(i int, v T) { s.completions[i](v, nil) }

func (s *loaderStub[T]) fail(i int) {
	var zero T
	s.completions[i](zero, domain.ErrConnectivity)
}

type stubURLs struct{}

func (stubURLs) SearchURL(query string, page int) (*url.URL, error) {
	return &url.URL{Scheme: "https", Host: "search.test", RawQuery: url.Values{"query": {query}}.Encode()}, nil
}

func (stubURLs) DetailsURL(id string) (*url.URL, error) {
	return &url.URL{Scheme: "https", Host: "details.test", Path: "/" + id}, nil
}

func (stubURLs) MovieURL(id string) (*url.URL, error) {
	return &url.URL{Scheme: "https", Host: "web.test", Path: "/movie/" + id}, nil
}

type openerStub struct {
	opened []*url.URL
	err    error
}

func (o *openerStub) Open(u *url.URL) error {
	o.opened = append(o.opened, u)
	return o.err
}

type harness struct {
	movies  *loaderStub[[]domain.Movie]
	details *loaderStub[domain.MovieDetails]
	images  *loaderStub[[]byte]
	browser *openerStub
}

func newTestModel(t *testing.T, width, height, prefetch int) (Model, *harness) {
	t.Helper()
	h := &harness{
		movies:  &loaderStub[[]domain.Movie]{},
		details: &loaderStub[domain.MovieDetails]{},
		images:  &loaderStub[[]byte]{},
		browser: &openerStub{},
	}
	m := NewModel(Services{
		Movies:  h.movies,
		Details: h.details,
		Images:  h.images,
		URLs:    stubURLs{},
		Pages:   stubURLs{},
		Browser: h.browser,
	}, Options{Page: 1, PrefetchRows: prefetch, PosterWidth: 8}, nil)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: width, Height: height})
	return m, h
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

// drain runs every callback loaders have dispatched so far
func drain(t *testing.T, m Model) Model {
	t.Helper()
	for {
		select {
		case fn := <-m.queue.ch:
			m, _ = update(t, m, dispatchMsg{fn: fn})
		default:
			return m
		}
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func submitSearch(t *testing.T, m Model, query string) Model {
	t.Helper()
	m, _ = update(t, m, keyRunes(query))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, SearchMsg{}, msg)
	m, _ = update(t, m, msg)
	return m
}

func movie(id, title string) domain.Movie {
	return domain.Movie{
		ID:             id,
		Title:          title,
		ReleaseDate:    "2021",
		PosterImageURL: &url.URL{Scheme: "https", Host: "image.test", Path: "/" + id + ".png"},
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 6))))
	return buf.Bytes()
}

func TestModel_SearchLoadsRowsAndPosters(t *testing.T) {
	m, h := newTestModel(t, 100, 40, 0)

	m = submitSearch(t, m, "alien")

	require.Len(t, h.movies.requests, 1)
	assert.Equal(t, "alien", h.movies.requests[0].Query().Get("query"))
	assert.True(t, m.ListVM.IsSearching())
	assert.False(t, m.SearchInput.Focused())

	h.movies.complete(0, []domain.Movie{movie("1", "Alien"), movie("2", "Aliens")})
	m = drain(t, m)

	assert.False(t, m.List.IsLoading())
	assert.Equal(t, 2, m.List.ItemCount())
	require.Len(t, h.images.requests, 2, "visible rows request their posters")

	h.images.complete(0, pngBytes(t))
	m = drain(t, m)

	row := m.List.RowFor(m.List.SelectedController())
	require.NotNil(t, row)
	assert.True(t, row.HasPoster())
	assert.Contains(t, m.View(), "Aliens")
}

func TestModel_EmptySearchIsIgnored(t *testing.T) {
	m, h := newTestModel(t, 100, 40, 0)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd, "a status message is scheduled to clear")
	assert.Empty(t, h.movies.requests)
	assert.NotEmpty(t, m.StatusMsg)
}

func TestModel_SearchFailureKeepsRowsAndShowsBanner(t *testing.T) {
	m, h := newTestModel(t, 100, 40, 0)

	m = submitSearch(t, m, "alien")
	h.movies.complete(0, []domain.Movie{movie("1", "Alien")})
	m = drain(t, m)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	require.Len(t, h.movies.requests, 2, "ctrl+r repeats the search")
	h.movies.fail(1)
	m = drain(t, m)

	assert.Equal(t, service.ConnectivityErrorMessage, m.List.Error())
	assert.Equal(t, 1, m.List.ItemCount())
	assert.Contains(t, m.View(), service.ConnectivityErrorMessage)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, m.List.Error(), "esc dismisses the banner")
}

func TestModel_ScrollingPrefetchesAndCancels(t *testing.T) {
	// one visible row with a prefetch margin of one
	m, h := newTestModel(t, 100, 10, 1)

	m = submitSearch(t, m, "x")
	h.movies.complete(0, []domain.Movie{
		movie("1", "One"), movie("2", "Two"), movie("3", "Three"), movie("4", "Four"), movie("5", "Five"),
	})
	m = drain(t, m)
	require.Len(t, h.images.requests, 2, "visible row plus one prefetched row")

	m, _ = update(t, m, keyRunes("j"))
	assert.Len(t, h.images.requests, 4)
	assert.Len(t, h.images.cancelled, 2)
	assert.Contains(t, h.images.cancelled, h.images.requests[0], "the row scrolled off-screen is cancelled")
	assert.Contains(t, h.images.cancelled, h.images.requests[1], "the prefetch is superseded when its row is bound")

	m, _ = update(t, m, keyRunes("G"))
	assert.Len(t, h.images.requests, 6)
	assert.Len(t, h.images.cancelled, 4, "rows beyond the prefetch margin are cancelled")
	assert.Equal(t, "Five", m.List.SelectedController().Model.Title)
}

func TestModel_ScrollingOffCancelsInsidePrefetchMargin(t *testing.T) {
	// one visible row with a prefetch margin of two
	m, h := newTestModel(t, 100, 10, 2)

	m = submitSearch(t, m, "x")
	h.movies.complete(0, []domain.Movie{
		movie("1", "One"), movie("2", "Two"), movie("3", "Three"), movie("4", "Four"), movie("5", "Five"),
	})
	m = drain(t, m)
	require.Len(t, h.images.requests, 3, "visible row plus two prefetched rows")
	first := m.List.SelectedController()
	firstPoster := h.images.requests[0]
	require.Equal(t, "/1.png", firstPoster.Path)

	m, _ = update(t, m, keyRunes("j"))
	assert.Nil(t, m.List.RowFor(first), "the row left the screen")
	assert.Contains(t, h.images.cancelled, firstPoster, "its poster load is cancelled")

	requested := len(h.images.requests)
	m, _ = update(t, m, keyRunes("k"))
	require.Len(t, h.images.requests, requested+1, "scrolling back requests the poster again")
	assert.Equal(t, "/1.png", h.images.requests[requested].Path)
	assert.NotNil(t, m.List.RowFor(first))
}

func TestModel_PosterRetryOnSelectedRow(t *testing.T) {
	m, h := newTestModel(t, 100, 40, 0)

	m = submitSearch(t, m, "x")
	h.movies.complete(0, []domain.Movie{movie("1", "One")})
	m = drain(t, m)

	h.images.complete(0, []byte("not an image"))
	m = drain(t, m)
	row := m.List.RowFor(m.List.SelectedController())
	require.NotNil(t, row)
	assert.True(t, row.RetryVisible())

	m, _ = update(t, m, keyRunes("r"))
	assert.Len(t, h.images.requests, 2)
	assert.False(t, row.RetryVisible())
}

func TestModel_FilterNarrowsRows(t *testing.T) {
	m, h := newTestModel(t, 100, 40, 0)

	m = submitSearch(t, m, "matrix")
	h.movies.complete(0, []domain.Movie{movie("1", "The Matrix"), movie("2", "Alien"), movie("3", "Matrix")})
	m = drain(t, m)

	m, _ = update(t, m, keyRunes("/"))
	require.True(t, m.List.IsFilterTyping())
	m, _ = update(t, m, keyRunes("mat"))
	assert.Equal(t, 2, m.List.ItemCount())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.List.IsFiltering())
	assert.Equal(t, 3, m.List.ItemCount())
}

func TestModel_DetailsFailureRetryAndBack(t *testing.T) {
	m, h := newTestModel(t, 100, 40, 0)

	m = submitSearch(t, m, "x")
	h.movies.complete(0, []domain.Movie{movie("42", "Answer")})
	m = drain(t, m)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	require.Equal(t, ScreenDetails, m.Screen)
	require.Len(t, h.details.requests, 1)
	assert.Equal(t, "/42", h.details.requests[0].Path)
	assert.Contains(t, m.View(), "Loading details...")

	h.details.fail(0)
	m = drain(t, m)
	assert.Equal(t, service.StateFailure, m.Details.ViewModel().State())
	assert.Contains(t, m.View(), service.ConnectivityErrorMessage)
	assert.NotContains(t, m.View(), "Loading details...", "the failure view replaces the loading view")

	m, _ = update(t, m, keyRunes("r"))
	require.Len(t, h.details.requests, 2)

	h.details.complete(1, domain.MovieDetails{
		ID:             "42",
		Title:          "Answer",
		ReleaseDate:    "2021",
		Overview:       "Deep Thought computes.",
		Duration:       "1hr 30min",
		PosterImageURL: &url.URL{Scheme: "https", Host: "image.test", Path: "/42.png"},
	})
	m = drain(t, m)
	assert.Equal(t, service.StateLoaded, m.Details.ViewModel().State())
	view := m.View()
	assert.Contains(t, view, "Deep Thought computes.")
	assert.Contains(t, view, "1hr 30min")
	assert.NotContains(t, view, service.ConnectivityErrorMessage, "the failure view is gone after a successful retry")
	assert.NotContains(t, view, "Loading details...")

	detailsPosters := len(h.images.requests)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ScreenList, m.Screen)
	assert.Nil(t, m.Details)
	assert.Contains(t, h.images.cancelled, h.images.requests[detailsPosters-1], "leaving details cancels the poster")
}

func TestModel_OpenPageFromListAndDetails(t *testing.T) {
	m, h := newTestModel(t, 100, 40, 0)

	m = submitSearch(t, m, "x")
	h.movies.complete(0, []domain.Movie{movie("603", "The Matrix")})
	m = drain(t, m)

	m, cmd := update(t, m, keyRunes("o"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	require.Len(t, h.browser.opened, 1)
	assert.Equal(t, "https://web.test/movie/603", h.browser.opened[0].String())
	assert.Contains(t, m.StatusMsg, "The Matrix")
	assert.False(t, m.StatusIsErr)

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, cmd())
	require.Equal(t, ScreenDetails, m.Screen)

	h.browser.err = errors.New("no display")
	m, cmd = update(t, m, keyRunes("o"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Len(t, h.browser.opened, 2)
	assert.True(t, m.StatusIsErr)
}

func TestModel_QuitCancelsOutstandingLoads(t *testing.T) {
	m, h := newTestModel(t, 100, 40, 0)

	m = submitSearch(t, m, "x")
	_, cmd := update(t, m, keyRunes("q"))

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Len(t, h.movies.cancelled, 1)
}

func TestChannelQueue_CloseReleasesDispatchers(t *testing.T) {
	q := NewChannelQueue(1)
	q.Dispatch(func() {})

	done := make(chan struct{})
	go func() {
		q.Dispatch(func() {})
		close(done)
	}()

	q.Close()
	<-done

	msg := listenToQueueCmd(q)()
	// the buffered callback may still be read; after that the listener stops
	if _, ok := msg.(dispatchMsg); ok {
		msg = listenToQueueCmd(q)()
	}
	assert.Nil(t, msg)
}
