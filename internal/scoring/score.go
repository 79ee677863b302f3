package scoring

import (
	"math"
	"strings"

	"github.com/dshills/auditscore/internal/audit"
	"github.com/dshills/auditscore/internal/normalize"
	"github.com/dshills/auditscore/internal/profile"
)

const (
	// CategoryShare and OverallShare split the final score between the
	// weighted categories and an explicit overall-experience rating.
	CategoryShare = 0.7
	OverallShare  = 0.3

	// TargetedPenalty is subtracted per affirmative answer to a question
	// naming a bad behavior in a targeted-inversion category.
	TargetedPenalty = 20
)

// Headers matching these are free text or attachments, not yes/no questions.
var categoryExclusions = []string{"upload", "document", "proof", "timestamp", "email", "narrate"}

// Headers matching these are left out of the question counts.
var metadataExclusions = []string{"timestamp", "email", "upload", "document", "narrate", "name", "score", "month", "year"}

// fieldRules decide which headers are record fields rather than questions.
// Unknown types use the store rules, as the row parser does.
var fieldRules = map[audit.Type]*profile.Profile{
	audit.TypeStore: profile.MustLoadBuiltin(string(audit.TypeStore)),
	audit.TypeILMS:  profile.MustLoadBuiltin(string(audit.TypeILMS)),
	audit.TypeXFE:   profile.MustLoadBuiltin(string(audit.TypeXFE)),
}

// CategoryScore is one row of a breakdown.
type CategoryScore struct {
	Name string `json:"name"`
	// RawScore is the share of affirmative answers before any inversion.
	RawScore int `json:"raw_score"`
	// Score is the value that is weighted.
	Score                int       `json:"score"`
	Weight               float64   `json:"weight"`
	WeightedContribution float64   `json:"weighted_contribution"`
	Questions            int       `json:"questions"`
	Inversion            Inversion `json:"inversion,omitempty"`
}

// QuestionCounts summarizes every non-metadata answer in a row.
type QuestionCounts struct {
	Total    int `json:"total"`
	Answered int `json:"answered"`
	Positive int `json:"positive"`
	Negative int `json:"negative"`
}

// Breakdown explains how a score was reached. It is derived from the raw
// answers and never stored as the source of truth.
type Breakdown struct {
	TotalScore    int             `json:"total_score"`
	WeightedTotal int             `json:"weighted_total"`
	OverallRating *float64        `json:"overall_rating,omitempty"`
	Categories    []CategoryScore `json:"categories"`
	Counts        QuestionCounts  `json:"question_counts"`
}

// Calculate returns the 0-100 score for a row's answers. An empty answer
// map scores 0.
func Calculate(t audit.Type, a audit.Answers) int {
	b := BreakdownFor(t, a)
	if b == nil {
		return 0
	}
	return b.TotalScore
}

// BreakdownFor scores every category of the audit type, sums the weighted
// category scores, and blends in an overall-experience rating when the
// row has one. It returns nil for an empty answer map.
func BreakdownFor(t audit.Type, a audit.Answers) *Breakdown {
	if len(a) == 0 {
		return nil
	}
	keys := foldedKeys(a)
	markFields(keys, t)

	b := &Breakdown{Counts: countQuestions(a, keys)}
	var sum float64
	for _, c := range Categories(t) {
		cs := scoreCategory(a, keys, c)
		sum += cs.WeightedContribution
		b.Categories = append(b.Categories, cs)
	}
	b.WeightedTotal = int(math.Round(sum))
	b.TotalScore = b.WeightedTotal

	if rating, ok := overallRating(a, keys); ok {
		b.OverallRating = &rating
		b.TotalScore = Blend(b.WeightedTotal, rating)
	}
	b.TotalScore = clamp(b.TotalScore)
	return b
}

// Blend combines a weighted category total with an overall rating:
// round(weighted*0.7 + rating*0.3).
func Blend(weighted int, rating float64) int {
	return int(math.Round(float64(weighted)*CategoryShare + rating*OverallShare))
}

// ScoreCategory returns the rounded percentage of affirmative answers among
// the questions whose header contains one of patterns, and how many
// questions matched. No matching question scores 0.
func ScoreCategory(a audit.Answers, patterns []string) (score, matched int) {
	return categoryRatio(a, foldedKeys(a), patterns)
}

type foldedKey struct {
	header string
	key    string
	// field is set for identifying columns such as "Advisor Name" or
	// "Visit Date", which never count toward a category.
	field bool
}

// foldedKeys pairs each header, in sorted order, with its folded form.
func foldedKeys(a audit.Answers) []foldedKey {
	headers := a.Keys()
	keys := make([]foldedKey, len(headers))
	for i, h := range headers {
		keys[i] = foldedKey{header: h, key: normalize.Key(h)}
	}
	return keys
}

func markFields(keys []foldedKey, t audit.Type) {
	rules, ok := fieldRules[t]
	if !ok {
		rules = fieldRules[audit.TypeStore]
	}
	for i := range keys {
		keys[i].field = rules.IsFieldHeader(keys[i].key)
	}
}

func inCategory(key string, patterns []string) bool {
	if !normalize.ContainsAny(key, patterns) {
		return false
	}
	if normalize.ContainsAny(key, categoryExclusions) {
		return false
	}
	return !(strings.Contains(key, "experience") && strings.Contains(key, "please"))
}

func categoryRatio(a audit.Answers, keys []foldedKey, patterns []string) (score, matched int) {
	positive := 0
	for _, k := range keys {
		if k.field || !inCategory(k.key, patterns) {
			continue
		}
		matched++
		if IsPositive(a[k.header].String()) {
			positive++
		}
	}
	if matched == 0 {
		return 0, 0
	}
	return int(math.Round(100 * float64(positive) / float64(matched))), matched
}

func scoreCategory(a audit.Answers, keys []foldedKey, c Category) CategoryScore {
	raw, matched := categoryRatio(a, keys, c.Patterns)
	score := raw
	switch c.Inversion {
	case InversionFull:
		score = 100 - raw
	case InversionTargeted:
		score = targetedScore(a, keys, c, raw)
	}
	return CategoryScore{
		Name:                 c.Name,
		RawScore:             raw,
		Score:                score,
		Weight:               c.Weight,
		WeightedContribution: float64(score) * c.Weight,
		Questions:            matched,
		Inversion:            c.Inversion,
	}
}

// targetedScore subtracts TargetedPenalty from raw for each matched
// question that names a bad behavior and was answered affirmatively.
func targetedScore(a audit.Answers, keys []foldedKey, c Category, raw int) int {
	hits := 0
	for _, k := range keys {
		if k.field || !inCategory(k.key, c.Patterns) || !normalize.ContainsAny(k.key, c.NegativeIndicators) {
			continue
		}
		if IsPositive(a[k.header].String()) {
			hits++
		}
	}
	return max(0, raw-hits*TargetedPenalty)
}

// overallRating finds the first overall-experience question with a
// parseable rating.
func overallRating(a audit.Answers, keys []foldedKey) (float64, bool) {
	for _, k := range keys {
		if !strings.Contains(k.key, "overall") {
			continue
		}
		if !strings.Contains(k.key, "experience") && !strings.Contains(k.key, "rating") {
			continue
		}
		if r, ok := ExtractRating(a[k.header].String()); ok {
			return r, true
		}
	}
	return 0, false
}

func countQuestions(a audit.Answers, keys []foldedKey) QuestionCounts {
	var qc QuestionCounts
	for _, k := range keys {
		if normalize.ContainsAny(k.key, metadataExclusions) {
			continue
		}
		qc.Total++
		c := a[k.header]
		if c.IsEmpty() {
			continue
		}
		qc.Answered++
		v := c.String()
		if IsPositive(v) {
			qc.Positive++
		}
		if IsNegative(v) {
			qc.Negative++
		}
	}
	return qc
}

func clamp(score int) int {
	return min(max(score, audit.MinScore), audit.MaxScore)
}
