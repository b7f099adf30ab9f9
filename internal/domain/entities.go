package domain

import "net/url"

// Movie is a single search result row
type Movie struct {
	ID             string   // TMDB movie id
	Title          string   // Display title
	PosterImageURL *url.URL // Poster thumbnail (nil when TMDB has no poster)
	ReleaseDate    string   // Release year, or a placeholder when unknown
}

// HasPoster returns true if a poster can be requested for this movie
func (m Movie) HasPoster() bool {
	return m.PosterImageURL != nil
}

// MovieDetails is the payload of the details screen
type MovieDetails struct {
	ID             string
	Title          string
	PosterImageURL *url.URL
	ReleaseDate    string
	Overview       string

	// Optional fields, empty when TMDB omits them
	OriginalTitle string
	Duration      string
}

// Movie returns the list representation of the details
func (d MovieDetails) Movie() Movie {
	return Movie{
		ID:             d.ID,
		Title:          d.Title,
		PosterImageURL: d.PosterImageURL,
		ReleaseDate:    d.ReleaseDate,
	}
}
