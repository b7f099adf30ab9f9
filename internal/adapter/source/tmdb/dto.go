package tmdb

// Required fields are pointers so a missing key can be told apart from a zero value

// SearchResponse is the /3/search/movie envelope
type SearchResponse struct {
	Page    int         `json:"page"`
	Results *[]MovieDTO `json:"results"`
	Total   int         `json:"total_results"`
}

// MovieDTO is a single search result
type MovieDTO struct {
	ID          *int    `json:"id"`
	Title       *string `json:"title"`
	PosterPath  *string `json:"poster_path"`
	ReleaseDate *string `json:"release_date"`
}

// MovieDetailsDTO is the /3/movie/{id} payload
type MovieDetailsDTO struct {
	ID            *int    `json:"id"`
	Title         *string `json:"title"`
	PosterPath    *string `json:"poster_path"`
	ReleaseDate   *string `json:"release_date"`
	Overview      *string `json:"overview"`
	OriginalTitle *string `json:"original_title"`
	Runtime       *int    `json:"runtime"`
}
