package models

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)

// RecommendationID derives the deterministic content-type-prefixed slug for a
// title: ASCII-transliterated, lower-cased, non-alphanumerics collapsed to
// single hyphens. Distinct titles that normalize to the same slug collide;
// that is an accepted limitation, not something to deduplicate.
func RecommendationID(contentType, name string) string {
	s := unidecode.Unidecode(strings.ToLower(name))
	s = strings.ToLower(s) // transliteration can reintroduce uppercase
	s = strings.Trim(nonAlnumRe.ReplaceAllString(s, "-"), "-")
	return contentType + "-" + s
}
