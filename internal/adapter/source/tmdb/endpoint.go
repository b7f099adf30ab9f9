package tmdb

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	searchPath  = "/3/search/movie"
	detailsPath = "/3/movie/"
	imagePath   = "/t/p/"
	webPath     = "/movie/"
)

// Endpoints builds TMDB API and image URLs
type Endpoints struct {
	APIHost    string
	ImageHost  string
	PosterSize string
	Language   string
	APIKey     string
	WebHost    string
}

// SearchURL returns the movie search URL for query and page
func (e Endpoints) SearchURL(query string, page int) (*url.URL, error) {
	if e.APIHost == "" {
		return nil, fmt.Errorf("tmdb api host is not configured")
	}
	if page < 1 {
		page = 1
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("page", strconv.Itoa(page))
	q.Set("language", e.Language)
	q.Set("api_key", e.APIKey)

	return &url.URL{
		Scheme:   "https",
		Host:     e.APIHost,
		Path:     searchPath,
		RawQuery: q.Encode(),
	}, nil
}

// DetailsURL returns the movie details URL for a movie id
func (e Endpoints) DetailsURL(id string) (*url.URL, error) {
	if e.APIHost == "" {
		return nil, fmt.Errorf("tmdb api host is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("empty movie id")
	}

	q := url.Values{}
	q.Set("language", e.Language)
	q.Set("api_key", e.APIKey)

	return &url.URL{
		Scheme:   "https",
		Host:     e.APIHost,
		Path:     detailsPath + id,
		RawQuery: q.Encode(),
	}, nil
}

// PosterURL returns the poster thumbnail URL for a TMDB poster path, or nil
// when the movie has no poster
func (e Endpoints) PosterURL(path *string) *url.URL {
	if path == nil {
		return nil
	}
	p := strings.TrimLeft(strings.TrimSpace(*path), "/")
	if p == "" {
		return nil
	}
	return &url.URL{
		Scheme: "https",
		Host:   e.ImageHost,
		Path:   imagePath + e.PosterSize + "/" + p,
	}
}

// MovieURL returns the TMDB web page of a movie
func (e Endpoints) MovieURL(id string) (*url.URL, error) {
	if e.WebHost == "" {
		return nil, fmt.Errorf("tmdb web host is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("empty movie id")
	}
	return &url.URL{
		Scheme: "https",
		Host:   e.WebHost,
		Path:   webPath + id,
	}, nil
}
