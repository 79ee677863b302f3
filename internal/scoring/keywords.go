package scoring

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/dshills/auditscore/internal/normalize"
)

var positiveKeywords = []string{
	"yes", "correct", "accurate", "polite", "clean", "functional",
	"good", "excellent", "professional", "true", "agree",
}

var negativeKeywords = []string{
	"no", "not", "incorrect", "inaccurate", "rude", "dirty", "broken",
	"poor", "unprofessional", "false", "disagree", "denial", "redirect",
}

// IsPositive reports whether an answer contains a positive keyword.
// Matching is by substring, so "incorrect" also counts as positive; the
// positive and negative sets are not complements.
func IsPositive(value string) bool {
	return normalize.ContainsAny(strings.ToLower(value), positiveKeywords)
}

// IsNegative reports whether an answer contains a negative keyword.
func IsNegative(value string) bool {
	return normalize.ContainsAny(strings.ToLower(value), negativeKeywords)
}

var (
	ratioPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*/\s*(\d+(?:\.\d+)?)`)
	outOfPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*out\s+of\s+(\d+(?:\.\d+)?)`)
)

// qualitativeRatings is ordered: "very good" must be tried before "good".
var qualitativeRatings = []struct {
	word  string
	score float64
}{
	{"excellent", 100},
	{"very good", 80},
	{"good", 60},
	{"average", 40},
	{"poor", 20},
}

// ExtractRating turns "4/5", "8 out of 10" or a qualitative word into a
// percentage in [0,100]. The first rule that matches wins.
func ExtractRating(value string) (float64, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return 0, false
	}
	for _, re := range []*regexp.Regexp{ratioPattern, outOfPattern} {
		if m := re.FindStringSubmatch(v); m != nil {
			if pct, ok := ratio(m[1], m[2]); ok {
				return pct, true
			}
		}
	}
	for _, q := range qualitativeRatings {
		if strings.Contains(v, q.word) {
			return q.score, true
		}
	}
	return 0, false
}

func ratio(num, den string) (float64, bool) {
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0, false
	}
	return math.Min(math.Max(n/d*100, 0), 100), true
}
