package tmdb

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/reel/internal/adapter/httpclient"
	"github.com/mmcdole/reel/internal/domain"
)

const (
	releaseDateLayout      = "2006-01-02"
	releaseDateUnavailable = "Release date unavailable"
	originalTitleSuffix    = " (original title)"
)

// validate rejects non-2xx responses and empty bodies
func validate(resp httpclient.Response) error {
	if !resp.IsSuccess() {
		return fmt.Errorf("%w: unexpected status code %d", domain.ErrInvalidData, resp.StatusCode)
	}
	if len(resp.Body) == 0 {
		return fmt.Errorf("%w: empty body", domain.ErrInvalidData)
	}
	return nil
}

// MapMovies converts a search response into movies
func MapMovies(resp httpclient.Response, endpoints Endpoints) ([]domain.Movie, error) {
	if err := validate(resp); err != nil {
		return nil, err
	}

	var root SearchResponse
	if err := json.Unmarshal(resp.Body, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidData, err)
	}
	if root.Results == nil {
		return nil, fmt.Errorf("%w: missing results", domain.ErrInvalidData)
	}

	movies := make([]domain.Movie, 0, len(*root.Results))
	for i, dto := range *root.Results {
		if dto.ID == nil || dto.Title == nil || dto.ReleaseDate == nil {
			return nil, fmt.Errorf("%w: result %d is missing a required field", domain.ErrInvalidData, i)
		}
		movies = append(movies, domain.Movie{
			ID:             strconv.Itoa(*dto.ID),
			Title:          *dto.Title,
			PosterImageURL: endpoints.PosterURL(dto.PosterPath),
			ReleaseDate:    ReleaseYear(*dto.ReleaseDate),
		})
	}
	return movies, nil
}

// MapMovieDetails converts a details response into MovieDetails
func MapMovieDetails(resp httpclient.Response, endpoints Endpoints) (domain.MovieDetails, error) {
	if err := validate(resp); err != nil {
		return domain.MovieDetails{}, err
	}

	var dto MovieDetailsDTO
	if err := json.Unmarshal(resp.Body, &dto); err != nil {
		return domain.MovieDetails{}, fmt.Errorf("%w: %v", domain.ErrInvalidData, err)
	}
	if dto.ID == nil || dto.Title == nil || dto.ReleaseDate == nil || dto.Overview == nil {
		return domain.MovieDetails{}, fmt.Errorf("%w: details missing a required field", domain.ErrInvalidData)
	}

	details := domain.MovieDetails{
		ID:             strconv.Itoa(*dto.ID),
		Title:          *dto.Title,
		PosterImageURL: endpoints.PosterURL(dto.PosterPath),
		ReleaseDate:    ReleaseYear(*dto.ReleaseDate),
		Overview:       *dto.Overview,
		Duration:       FormatDuration(dto.Runtime),
	}
	if dto.OriginalTitle != nil {
		details.OriginalTitle = *dto.OriginalTitle + originalTitleSuffix
	}
	return details, nil
}

// MapImageData returns the body of a valid image response
func MapImageData(resp httpclient.Response) ([]byte, error) {
	if err := validate(resp); err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// ReleaseYear extracts the year from a YYYY-MM-DD release date
func ReleaseYear(date string) string {
	t, err := time.Parse(releaseDateLayout, strings.TrimSpace(date))
	if err != nil {
		return releaseDateUnavailable
	}
	return strconv.Itoa(t.Year())
}

// FormatDuration formats a runtime in minutes as "2hrs 15min". A nil runtime
// formats as the empty string.
func FormatDuration(minutes *int) string {
	if minutes == nil || *minutes < 0 {
		return ""
	}

	h := *minutes / 60
	m := *minutes % 60

	var parts []string
	switch {
	case h == 1:
		parts = append(parts, "1hr")
	case h > 1:
		parts = append(parts, fmt.Sprintf("%dhrs", h))
	}
	if m > 0 || h == 0 {
		parts = append(parts, fmt.Sprintf("%dmin", m))
	}
	return strings.Join(parts, " ")
}
