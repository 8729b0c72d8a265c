package models

// DateRange is an inclusive year range inferred from a query.
type DateRange struct {
	StartYear int `json:"startYear"`
	EndYear   int `json:"endYear"`
}

// Contains reports whether year falls inside the range.
func (r *DateRange) Contains(year int) bool {
	return r == nil || (year >= r.StartYear && year <= r.EndYear)
}

// GenreCriteria holds genre and tone constraints inferred from a query.
type GenreCriteria struct {
	Include []string `json:"include"`
	Exclude []string `json:"exclude"`
	Mood    []string `json:"mood"`
}

// SearchCriteria is the full set of constraints derived from one query.
// It is recomputed per request and never persisted.
type SearchCriteria struct {
	ContentTypeHint string         `json:"contentTypeHint"` // "movie" | "series" | "ambiguous"
	DateRange       *DateRange     `json:"dateRange,omitempty"`
	Genres          *GenreCriteria `json:"genreCriteria,omitempty"`
}

// Recommendation is a single validated title suggested by the model.
type Recommendation struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Year        int    `json:"year"`
	Type        string `json:"type"` // "movie" | "series"
	Description string `json:"description"`
	Relevance   string `json:"relevance"`
}

// RecommendationSet buckets recommendations per content type. A nil slice
// means the type was not requested; an empty slice means it was requested
// and produced zero results.
type RecommendationSet struct {
	Movies []Recommendation `json:"movies,omitempty"`
	Series []Recommendation `json:"series,omitempty"`
}

// ForType returns the bucket matching the given content type.
func (s RecommendationSet) ForType(contentType string) []Recommendation {
	if contentType == "series" {
		return s.Series
	}
	return s.Movies
}

// MetadataRecord is a normalized metadata provider result for one title.
type MetadataRecord struct {
	PosterURL      string  `json:"posterUrl"`
	BackdropURL    string  `json:"backdropUrl"`
	Rating         float64 `json:"rating"`
	GenreIDs       []int   `json:"genreIds"`
	Overview       string  `json:"overview"`
	ExternalID     string  `json:"externalId"` // cross-catalog (IMDB) id, may be absent
	CanonicalTitle string  `json:"canonicalTitle"`
	ReleaseDate    string  `json:"releaseDate"` // YYYY-MM-DD
}

// Usable reports whether the record can be surfaced. A record lacking either
// a poster or the external identifier is equivalent to a lookup miss.
func (r *MetadataRecord) Usable() bool {
	return r != nil && r.PosterURL != "" && r.ExternalID != ""
}

// CatalogEntry is the externally visible catalog item shape.
type CatalogEntry struct {
	ID          string   `json:"id"` // always the metadata provider's external id
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Year        int      `json:"year,omitempty"`
	Poster      string   `json:"poster"`
	Background  string   `json:"background,omitempty"`
	PosterShape string   `json:"posterShape"`
	Genres      []string `json:"genres,omitempty"`
}

// CatalogResponse is the catalog endpoint payload. Metas is never nil so the
// response always serializes as {"metas":[...]}.
type CatalogResponse struct {
	Metas []CatalogEntry `json:"metas"`
}
