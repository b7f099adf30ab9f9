package service

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/url"
	"testing"

	"github.com/mmcdole/reel/internal/domain"
)

// loaderSpy records requests and cancellations and completes loads on demand
type loaderSpy[T any] struct {
	requests    []*url.URL
	cancelled   []*url.URL
	completions []func(T, error)
}

func (s *loaderSpy[T]) Load(u *url.URL, completion func(T, error)) domain.Task {
	s.requests = append(s.requests, u)
	task := domain.NewTaskWrapper(completion)
	task.SetWrapped(domain.TaskFunc(func() { s.cancelled = append(s.cancelled, u) }))
	s.completions = append(s.completions, task.Complete)
	return task
}

func (s *loaderSpy[T]) complete(index int, value T) {
	s.completions[index](value, nil)
}

func (s *loaderSpy[T]) fail(index int) {
	var zero T
	s.completions[index](zero, domain.ErrConnectivity)
}

func (s *loaderSpy[T]) loadCallCount() int { return len(s.requests) }

// manualQueue holds dispatched work until flush
type manualQueue struct {
	pending []func()
}

func (q *manualQueue) Dispatch(fn func()) { q.pending = append(q.pending, fn) }

func (q *manualQueue) flush() {
	for len(q.pending) > 0 {
		fn := q.pending[0]
		q.pending = q.pending[1:]
		fn()
	}
}

// fakeURLs builds deterministic URLs without touching config
type fakeURLs struct{}

func (fakeURLs) SearchURL(query string, page int) (*url.URL, error) {
	q := url.Values{}
	q.Set("query", query)
	return &url.URL{Scheme: "https", Host: "search.test", RawQuery: q.Encode()}, nil
}

func (fakeURLs) DetailsURL(id string) (*url.URL, error) {
	if id == "" {
		return nil, errors.New("empty id")
	}
	return &url.URL{Scheme: "https", Host: "details.test", Path: "/" + id}, nil
}

// cellSpy records what a controller rendered
type cellSpy struct {
	title        string
	releaseDate  string
	poster       image.Image
	placeholder  bool
	loading      bool
	retryVisible bool
	onRetry      func()
}

func (c *cellSpy) SetTitle(title string)        { c.title = title }
func (c *cellSpy) SetReleaseDate(date string)   { c.releaseDate = date }
func (c *cellSpy) SetLoading(loading bool)      { c.loading = loading }
func (c *cellSpy) SetRetryVisible(visible bool) { c.retryVisible = visible }
func (c *cellSpy) SetOnRetry(fn func())         { c.onRetry = fn }

func (c *cellSpy) SetPoster(img image.Image) {
	c.poster = img
	c.placeholder = false
}

func (c *cellSpy) SetPlaceholder() {
	c.poster = nil
	c.placeholder = true
}

func (c *cellSpy) simulateRetry() { c.onRetry() }

func posterURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("url.Parse(%q): %v", raw, err)
	}
	return u
}

func makeMovie(t *testing.T, id, title, date, poster string) domain.Movie {
	m := domain.Movie{ID: id, Title: title, ReleaseDate: date}
	if poster != "" {
		m.PosterImageURL = posterURL(t, poster)
	}
	return m
}

func pngData(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 3))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}
