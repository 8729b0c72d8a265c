// Package criteria derives search constraints from free-text queries: the
// likely content type, an inclusive year range, and genre/mood terms. All
// functions are pure and operate on fixed vocabularies.
package criteria

import "strings"

// The two vocabularies are disjoint; a query matching exactly one of them has
// an unambiguous content type.
var movieKeywords = []string{
	"movie", "film", "cinema", "flick",
}

var seriesKeywords = []string{
	"series", "tv", "show", "episode", "season", "sitcom", "anime", "television",
}

// ClassifyContentType returns "movie" or "series" when the query contains a
// keyword from exactly one vocabulary, and "ambiguous" when it matches
// neither or both.
func ClassifyContentType(query string) string {
	q := strings.ToLower(query)
	movie := matchesAny(q, movieKeywords)
	series := matchesAny(q, seriesKeywords)
	switch {
	case movie && !series:
		return "movie"
	case series && !movie:
		return "series"
	default:
		return "ambiguous"
	}
}

func matchesAny(q string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}
