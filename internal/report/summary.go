package report

import (
	"math"
	"sort"

	"github.com/dshills/auditscore/internal/audit"
)

// ComputeSummary derives batch totals from entries. rows is the number of
// data rows read; rows that produced no entry count as skipped.
func ComputeSummary(entries []Entry, rows, threshold int) Summary {
	s := Summary{
		Rows:           rows,
		Parsed:         len(entries),
		Skipped:        max(rows-len(entries), 0),
		FatalThreshold: threshold,
	}

	byType := map[string]*groupAcc{}
	byCircle := map[string]*groupAcc{}
	total := 0
	for _, e := range entries {
		switch e.ScoreSource {
		case audit.ScoreExplicit:
			s.Explicit++
		case audit.ScoreCalculated:
			s.Calculated++
		}
		fatal := IsFatal(e.Score, threshold)
		if fatal {
			s.FatalCount++
		}
		total += e.Score
		accumulate(byType, string(e.Type), e.Score, fatal)
		accumulate(byCircle, e.Circle, e.Score, fatal)
	}
	if len(entries) > 0 {
		s.AverageScore = round1(float64(total) / float64(len(entries)))
	}
	s.ByType = groups(byType)
	s.ByCircle = groups(byCircle)
	return s
}

type groupAcc struct {
	count, total, fatal int
}

func accumulate(m map[string]*groupAcc, key string, score int, fatal bool) {
	if key == "" {
		key = "unassigned"
	}
	g := m[key]
	if g == nil {
		g = &groupAcc{}
		m[key] = g
	}
	g.count++
	g.total += score
	if fatal {
		g.fatal++
	}
}

func groups(m map[string]*groupAcc) []Group {
	out := make([]Group, 0, len(m))
	for k, g := range m {
		out = append(out, Group{
			Key:          k,
			Count:        g.count,
			AverageScore: round1(float64(g.total) / float64(g.count)),
			FatalCount:   g.fatal,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
