package tmdb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/mmcdole/reel/internal/adapter/httpclient"
	"github.com/mmcdole/reel/internal/domain"
)

// HTTPClient issues a cancellable GET and reports the response on completion
type HTTPClient interface {
	Get(u *url.URL, completion func(httpclient.Response, error)) domain.Task
}

// Ensure *httpclient.Client implements HTTPClient at compile time.
var _ HTTPClient = (*httpclient.Client)(nil)

// RemoteLoader loads one typed payload over HTTP and maps it with mapper
type RemoteLoader[T any] struct {
	client HTTPClient
	mapper func(httpclient.Response) (T, error)
	name   string
	logger *slog.Logger
}

// NewRemoteLoader creates a loader that GETs a URL and maps the response
func NewRemoteLoader[T any](client HTTPClient, name string, mapper func(httpclient.Response) (T, error), logger *slog.Logger) *RemoteLoader[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &RemoteLoader[T]{
		client: client,
		mapper: mapper,
		name:   name,
		logger: logger,
	}
}

// NewMoviesLoader creates the search results loader
func NewMoviesLoader(client HTTPClient, endpoints Endpoints, logger *slog.Logger) *RemoteLoader[[]domain.Movie] {
	return NewRemoteLoader(client, "movies", func(resp httpclient.Response) ([]domain.Movie, error) {
		return MapMovies(resp, endpoints)
	}, logger)
}

// NewMovieDetailsLoader creates the movie details loader
func NewMovieDetailsLoader(client HTTPClient, endpoints Endpoints, logger *slog.Logger) *RemoteLoader[domain.MovieDetails] {
	return NewRemoteLoader(client, "details", func(resp httpclient.Response) (domain.MovieDetails, error) {
		return MapMovieDetails(resp, endpoints)
	}, logger)
}

// NewImageDataLoader creates the poster bytes loader
func NewImageDataLoader(client HTTPClient, logger *slog.Logger) *RemoteLoader[[]byte] {
	return NewRemoteLoader(client, "image", MapImageData, logger)
}

// Load issues one GET for u. Transport failures complete with ErrConnectivity;
// oversized bodies and mapping failures complete with ErrInvalidData.
func (l *RemoteLoader[T]) Load(u *url.URL, completion func(T, error)) domain.Task {
	task := domain.NewTaskWrapper(completion)
	task.SetWrapped(l.client.Get(u, func(resp httpclient.Response, err error) {
		var zero T
		if errors.Is(err, httpclient.ErrResponseTooLarge) {
			l.logger.Warn("invalid response", "loader", l.name, "error", err)
			task.Complete(zero, fmt.Errorf("%w: %v", domain.ErrInvalidData, err))
			return
		}
		if err != nil {
			if errors.Is(err, context.Canceled) {
				l.logger.Debug("load cancelled", "loader", l.name)
			} else {
				l.logger.Warn("load failed", "loader", l.name, "error", err)
			}
			task.Complete(zero, fmt.Errorf("%w: %v", domain.ErrConnectivity, err))
			return
		}

		value, err := l.mapper(resp)
		if err != nil {
			if !errors.Is(err, domain.ErrInvalidData) {
				err = fmt.Errorf("%w: %v", domain.ErrInvalidData, err)
			}
			l.logger.Debug("invalid response", "loader", l.name, "status", resp.StatusCode, "bytes", len(resp.Body), "error", err)
			task.Complete(zero, err)
			return
		}
		task.Complete(value, nil)
	}))
	return task
}
