package criteria

import (
	"regexp"
	"strings"

	"cinesage/models"
)

type genreTerm struct {
	term      string
	canonical string
}

// Combined genres are matched before their component words so "dark comedy"
// stays one genre instead of becoming comedy plus a dark mood.
var combinedGenres = []genreTerm{
	{"dark comedy", "dark comedy"},
	{"romantic comedy", "romantic comedy"},
	{"action comedy", "action comedy"},
	{"horror comedy", "horror comedy"},
	{"sci-fi horror", "sci-fi horror"},
	{"crime thriller", "crime thriller"},
	{"psychological thriller", "psychological thriller"},
	{"crime drama", "crime drama"},
	{"romantic drama", "romantic drama"},
	{"space western", "space western"},
}

var baseGenres = []genreTerm{
	{"action", "action"},
	{"adventure", "adventure"},
	{"animation", "animation"},
	{"animated", "animation"},
	{"comedy", "comedy"},
	{"comedies", "comedy"},
	{"crime", "crime"},
	{"documentary", "documentary"},
	{"documentaries", "documentary"},
	{"drama", "drama"},
	{"family", "family"},
	{"fantasy", "fantasy"},
	{"history", "history"},
	{"historical", "history"},
	{"horror", "horror"},
	{"music", "music"},
	{"musical", "music"},
	{"mystery", "mystery"},
	{"romance", "romance"},
	{"romantic", "romance"},
	{"sci-fi", "sci-fi"},
	{"sci fi", "sci-fi"},
	{"scifi", "sci-fi"},
	{"science fiction", "sci-fi"},
	{"thriller", "thriller"},
	{"war", "war"},
	{"western", "western"},
}

// Sub-genres are kept as their own terms rather than folded into a base genre.
var subGenres = []genreTerm{
	{"slasher", "slasher"},
	{"zombie", "zombie"},
	{"vampire", "vampire"},
	{"superhero", "superhero"},
	{"heist", "heist"},
	{"noir", "noir"},
	{"space opera", "space opera"},
	{"time travel", "time travel"},
	{"post-apocalyptic", "post-apocalyptic"},
	{"cyberpunk", "cyberpunk"},
	{"martial arts", "martial arts"},
	{"spy", "spy"},
	{"biopic", "biopic"},
	{"coming of age", "coming of age"},
	{"whodunit", "whodunit"},
	{"mockumentary", "mockumentary"},
}

var moodTerms = []genreTerm{
	{"feel-good", "feel-good"},
	{"feel good", "feel-good"},
	{"uplifting", "uplifting"},
	{"heartwarming", "heartwarming"},
	{"wholesome", "wholesome"},
	{"gritty", "gritty"},
	{"dark", "dark"},
	{"bleak", "bleak"},
	{"lighthearted", "lighthearted"},
	{"light-hearted", "lighthearted"},
	{"quirky", "quirky"},
	{"mind-bending", "mind-bending"},
	{"emotional", "emotional"},
	{"scary", "scary"},
	{"funny", "funny"},
	{"suspenseful", "suspenseful"},
	{"tense", "tense"},
	{"atmospheric", "atmospheric"},
}

// negationRe captures up to two words following a negation marker, e.g.
// "no horror", "not too scary", "except romantic comedies".
var negationRe = regexp.MustCompile(`\b(?:not|no|except|without)\s+([a-z]+(?:[\s-][a-z]+)?)`)

// ExtractGenreCriteria infers include/exclude genre sets and mood terms from
// the query, or nil when no vocabulary matched anything.
func ExtractGenreCriteria(query string) *models.GenreCriteria {
	q := strings.ToLower(query)
	var include, exclude, mood []string

	// Negations first, so "no horror" does not also register a positive hit.
	// Spans that resolved to a genre are blanked out of the working query.
	for _, m := range negationRe.FindAllStringSubmatchIndex(q, -1) {
		phrase := q[m[2]:m[3]]
		resolved := resolveGenreTerms(phrase)
		if len(resolved) == 0 {
			continue
		}
		for _, g := range resolved {
			exclude = appendUnique(exclude, g)
		}
		q = blankSpan(q, m[0], m[1])
	}

	for _, gt := range combinedGenres {
		if i := findTerm(q, gt.term); i >= 0 {
			include = appendUnique(include, gt.canonical)
			q = blankSpan(q, i, i+len(gt.term))
		}
	}
	for _, gt := range baseGenres {
		if findTerm(q, gt.term) >= 0 {
			include = appendUnique(include, gt.canonical)
		}
	}
	for _, gt := range subGenres {
		if findTerm(q, gt.term) >= 0 {
			include = appendUnique(include, gt.canonical)
		}
	}
	for _, gt := range moodTerms {
		if findTerm(q, gt.term) >= 0 {
			mood = appendUnique(mood, gt.canonical)
		}
	}

	// A genre both asked for and negated is dropped from the include side.
	include = subtract(include, exclude)

	if len(include) == 0 && len(exclude) == 0 && len(mood) == 0 {
		return nil
	}
	return &models.GenreCriteria{Include: include, Exclude: exclude, Mood: mood}
}

// resolveGenreTerms maps a short phrase onto canonical genre names.
func resolveGenreTerms(phrase string) []string {
	var out []string
	for _, vocab := range [][]genreTerm{combinedGenres, baseGenres, subGenres} {
		for _, gt := range vocab {
			if findTerm(phrase, gt.term) >= 0 {
				out = appendUnique(out, gt.canonical)
			}
		}
	}
	return out
}

// findTerm locates term in q at word boundaries, returning -1 when absent.
func findTerm(q, term string) int {
	for i := 0; ; {
		j := strings.Index(q[i:], term)
		if j < 0 {
			return -1
		}
		start := i + j
		end := start + len(term)
		beforeOK := start == 0 || !isTermChar(q[start-1])
		afterOK := end == len(q) || !isTermChar(q[end])
		if beforeOK && afterOK {
			return start
		}
		i = start + 1
	}
}

func isTermChar(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}

func blankSpan(q string, start, end int) string {
	return q[:start] + strings.Repeat(" ", end-start) + q[end:]
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

func subtract(list, remove []string) []string {
	out := list[:0]
	for _, v := range list {
		drop := false
		for _, r := range remove {
			if v == r {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
