package recommend

import (
	"fmt"
	"strings"

	"cinesage/models"
)

// buildPrompt composes the generation instruction. Date and genre constraints
// derived from the query are appended as numbered rules only when present, so
// an unconstrained query keeps the base instruction unchanged.
func buildPrompt(query, contentType string, dateRange *models.DateRange, genres *models.GenreCriteria) string {
	kind := "movies"
	if contentType == "series" {
		kind = "TV series"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `You are a movie and TV recommendation engine. A user searched for:

"%s"

Recommend exactly 20 %s that best match the request. Respond with ONLY the recommendations, one per line, no other text, each line in this exact pipe-delimited format:

type|name|year|description|relevance

- "type" must be "%s" on every line
- "name" is the exact title as listed on TMDB (The Movie Database)
- "year" is the original release year (integer)
- "description" is one short sentence, with no pipe characters
- "relevance" is one short phrase explaining why it matches the request`,
		query, kind, contentType)

	var rules []string
	if dateRange != nil {
		rules = append(rules, fmt.Sprintf("Only include titles first released between %d and %d.", dateRange.StartYear, dateRange.EndYear))
	}
	if genres != nil {
		if len(genres.Include) > 0 {
			rules = append(rules, "Strongly prefer titles in these genres: "+strings.Join(genres.Include, ", ")+".")
		}
		if len(genres.Exclude) > 0 {
			rules = append(rules, "Do NOT include titles in these genres: "+strings.Join(genres.Exclude, ", ")+".")
		}
		if len(genres.Mood) > 0 {
			rules = append(rules, "Match this mood or tone: "+strings.Join(genres.Mood, ", ")+".")
		}
	}
	if len(rules) > 0 {
		b.WriteString("\n\nAdditional rules:")
		for i, rule := range rules {
			fmt.Fprintf(&b, "\n%d. %s", i+1, rule)
		}
	}

	return b.String()
}
