package domain

import "net/url"

// Task is the handle returned by every asynchronous load.
// After Cancel returns no completion is delivered for the load.
type Task interface {
	Cancel()
}

// Loader fetches one typed payload from a URL.
// The completion is invoked at most once and never after the returned Task is cancelled.
// It may be invoked from any goroutine.
type Loader[T any] interface {
	Load(u *url.URL, completion func(T, error)) Task
}

// MoviesLoader loads a search result page
type MoviesLoader = Loader[[]Movie]

// MovieDetailsLoader loads a single movie's details
type MovieDetailsLoader = Loader[MovieDetails]

// ImageDataLoader loads raw poster bytes
type ImageDataLoader = Loader[[]byte]

// LoaderFunc adapts a function to the Loader interface
type LoaderFunc[T any] func(u *url.URL, completion func(T, error)) Task

// Load calls f
func (f LoaderFunc[T]) Load(u *url.URL, completion func(T, error)) Task {
	return f(u, completion)
}

// TaskFunc adapts a cancel function to the Task interface
type TaskFunc func()

// Cancel calls f
func (f TaskFunc) Cancel() {
	if f != nil {
		f()
	}
}
