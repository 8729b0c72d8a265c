package recommend

import (
	"regexp"
	"strconv"
	"strings"

	"cinesage/models"
)

// Parse attempts are tried in order until one yields records. The raw text is
// tried first; the fallback strips the markdown code fences some models wrap
// around their output despite instructions.
var parseAttempts = []func(string) string{
	func(text string) string { return text },
	stripCodeFence,
}

// parseRecommendations turns the model's freeform reply into validated
// records of the requested type. Malformed lines are discarded, never
// repaired; duplicates are kept and provider order is preserved.
func parseRecommendations(text, contentType string) []models.Recommendation {
	for _, attempt := range parseAttempts {
		if recs := parseDelimited(attempt(text), contentType); len(recs) > 0 {
			return recs
		}
	}
	return nil
}

var ordinalPrefixRe = regexp.MustCompile(`^\d+[.)]\s*`)

func parseDelimited(text, contentType string) []models.Recommendation {
	var recs []models.Recommendation
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = ordinalPrefixRe.ReplaceAllString(line, "")
		if line == "" || isHeaderEcho(line) {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) < 5 {
			continue
		}
		typ := strings.ToLower(strings.TrimSpace(parts[0]))
		if typ != contentType {
			continue
		}
		name := strings.TrimSpace(parts[1])
		if name == "" {
			continue
		}
		year, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			continue
		}
		recs = append(recs, models.Recommendation{
			ID:          models.RecommendationID(typ, name),
			Name:        name,
			Year:        year,
			Type:        typ,
			Description: strings.TrimSpace(parts[3]),
			// Descriptions are told to avoid pipes but relevance is last, so
			// stray pipes fold into it rather than shifting fields.
			Relevance: strings.TrimSpace(strings.Join(parts[4:], "|")),
		})
	}
	return recs
}

// isHeaderEcho reports whether a line merely repeats the format header from
// the prompt.
func isHeaderEcho(line string) bool {
	return strings.HasPrefix(strings.ToLower(line), "type|")
}

func stripCodeFence(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```text")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}
