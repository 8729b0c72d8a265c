package criteria

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"cinesage/models"
)

// Date rules are evaluated top to bottom and the first rule producing a range
// wins, so specific year mentions deliberately outrank vague qualitative
// terms. Each rule pairs a pattern with a resolver; a resolver may decline by
// returning nil, letting evaluation continue down the table.
type dateRule struct {
	re      *regexp.Regexp
	resolve func(q string, m []string, now time.Time) *models.DateRange
}

const yearPattern = `(19|20)\d{2}`

var (
	yearRe      = regexp.MustCompile(yearPattern)
	rangeRe     = regexp.MustCompile(`(?:between\s+)?(` + yearPattern + `)\s*(?:-|–|to|through|and)\s*(` + yearPattern + `)`)
	lastYearsRe = regexp.MustCompile(`(?:last|past)\s+(\d{1,3})\s+years?`)
	decadeNumRe = regexp.MustCompile(`(?:^|[^0-9])((?:19|20)?\d0)'?s\b`)
	decadeNameRe = regexp.MustCompile(`\b(twenties|thirties|forties|fifties|sixties|seventies|eighties|nineties|noughties|aughts)\b`)
	relativeRe  = regexp.MustCompile(`(?:newer|later|more recent)\s+than\s+(` + yearPattern + `)|(?:older|earlier)\s+than\s+(` + yearPattern + `)|(?:after|since)\s+(` + yearPattern + `)|before\s+(` + yearPattern + `)`)
	qualitativeRe = regexp.MustCompile(`\b(modern|recent|latest|brand new)\b|\b(classic|classics|vintage|retro|old school)\b`)
	prePostRe   = regexp.MustCompile(`\bpre[\s-](` + yearPattern + `)|\bpost[\s-](` + yearPattern + `)`)
)

// decadeNames maps a spelled-out decade to its two-digit form so it shares
// the century cutoff with numeral decades.
var decadeNames = map[string]string{
	"twenties":  "20",
	"thirties":  "30",
	"forties":   "40",
	"fifties":   "50",
	"sixties":   "60",
	"seventies": "70",
	"eighties":  "80",
	"nineties":  "90",
	"noughties": "00",
	"aughts":    "00",
}

var dateRules = []dateRule{
	{yearRe, resolveExplicitYear},
	{rangeRe, func(q string, m []string, now time.Time) *models.DateRange {
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[3])
		if a > b {
			a, b = b, a
		}
		return &models.DateRange{StartYear: a, EndYear: b}
	}},
	{lastYearsRe, func(q string, m []string, now time.Time) *models.DateRange {
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			return nil
		}
		return &models.DateRange{StartYear: now.Year() - n, EndYear: now.Year()}
	}},
	{decadeNumRe, func(q string, m []string, now time.Time) *models.DateRange {
		return decadeRange(m[1])
	}},
	{decadeNameRe, func(q string, m []string, now time.Time) *models.DateRange {
		return decadeRange(decadeNames[m[1]])
	}},
	{relativeRe, func(q string, m []string, now time.Time) *models.DateRange {
		switch {
		case m[1] != "": // newer than
			y, _ := strconv.Atoi(m[1])
			return &models.DateRange{StartYear: y, EndYear: now.Year()}
		case m[3] != "": // older than
			y, _ := strconv.Atoi(m[3])
			return &models.DateRange{StartYear: 1900, EndYear: y}
		case m[5] != "": // after / since
			y, _ := strconv.Atoi(m[5])
			return &models.DateRange{StartYear: y, EndYear: now.Year()}
		case m[7] != "": // before
			y, _ := strconv.Atoi(m[7])
			return &models.DateRange{StartYear: 1900, EndYear: y}
		}
		return nil
	}},
	{qualitativeRe, func(q string, m []string, now time.Time) *models.DateRange {
		if m[1] != "" {
			return &models.DateRange{StartYear: now.Year() - 10, EndYear: now.Year()}
		}
		return &models.DateRange{StartYear: 1920, EndYear: 1980}
	}},
	{prePostRe, func(q string, m []string, now time.Time) *models.DateRange {
		if m[1] != "" {
			y, _ := strconv.Atoi(m[1])
			return &models.DateRange{StartYear: 1900, EndYear: y - 1}
		}
		y, _ := strconv.Atoi(m[3])
		return &models.DateRange{StartYear: y + 1, EndYear: now.Year()}
	}},
}

// ExtractDateRange infers an inclusive year range from the query, or nil when
// no rule matches. "Today" as an endpoint means the current calendar year.
func ExtractDateRange(query string) *models.DateRange {
	return extractDateRangeAt(query, time.Now())
}

func extractDateRangeAt(query string, now time.Time) *models.DateRange {
	q := strings.ToLower(query)
	for _, rule := range dateRules {
		m := rule.re.FindStringSubmatch(q)
		if m == nil {
			continue
		}
		if dr := rule.resolve(q, m, now); dr != nil {
			return dr
		}
	}
	return nil
}

// resolveExplicitYear picks the first standalone four-digit year: one that is
// not part of a range, a decade ("1990s"), a pre/post prefix, or a relational
// phrase ("newer than 2010"), all of which later rules own.
func resolveExplicitYear(q string, _ []string, _ time.Time) *models.DateRange {
	for _, loc := range yearRe.FindAllStringIndex(q, -1) {
		start, end := loc[0], loc[1]
		if start > 0 {
			prev := q[start-1]
			if prev == '-' || (prev >= '0' && prev <= '9') || isWordByte(prev) {
				continue
			}
		}
		if strings.HasSuffix(q[:start], "–") {
			continue
		}
		if end < len(q) {
			next := q[end]
			if next == '-' || next == 's' || (next >= '0' && next <= '9') {
				continue
			}
		}
		if strings.HasPrefix(q[end:], "–") {
			continue
		}
		switch prevWord(q, start) {
		case "than", "after", "before", "since", "between", "to", "through", "and", "pre", "post":
			continue
		}
		if w, rest := nextWord(q, end); (w == "to" || w == "through" || w == "and") && yearStarts(rest) {
			continue
		}
		y, _ := strconv.Atoi(q[start:end])
		return &models.DateRange{StartYear: y, EndYear: y}
	}
	return nil
}

// decadeRange resolves a two- or four-digit decade. Two-digit values lexically
// greater than "20" belong to the 1900s, the rest to the 2000s.
func decadeRange(v string) *models.DateRange {
	var start int
	if len(v) == 4 {
		start, _ = strconv.Atoi(v)
	} else {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil
		}
		if v > "20" {
			start = 1900 + n
		} else {
			start = 2000 + n
		}
	}
	return &models.DateRange{StartYear: start, EndYear: start + 9}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z'
}

// prevWord returns the word immediately before position i, if any.
func prevWord(q string, i int) string {
	s := strings.TrimRight(q[:i], " \t")
	j := strings.LastIndexAny(s, " \t")
	return s[j+1:]
}

// nextWord returns the word immediately after position i and the remainder
// following that word.
func nextWord(q string, i int) (string, string) {
	s := strings.TrimLeft(q[i:], " \t")
	j := strings.IndexAny(s, " \t")
	if j < 0 {
		return s, ""
	}
	return s[:j], strings.TrimLeft(s[j:], " \t")
}

func yearStarts(s string) bool {
	m := yearRe.FindStringIndex(s)
	return m != nil && m[0] == 0
}
