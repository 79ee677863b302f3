package normalize

import (
	"math"
	"strconv"
	"strings"

	"github.com/dshills/auditscore/internal/audit"
	"github.com/dshills/auditscore/internal/cell"
)

// ClampScore reads an explicit score cell. Non-numeric input becomes 0
// and values outside [0,100] are clamped; adjusted reports either case.
// The result is rounded to the nearest integer.
func ClampScore(c cell.Cell) (score int, adjusted bool) {
	f, ok := c.Float()
	if !ok {
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(c.String()), "%"))
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return audit.MinScore, true
		}
		f = v
	}
	switch {
	case math.IsNaN(f):
		return audit.MinScore, true
	case f > audit.MaxScore:
		return audit.MaxScore, true
	case f < audit.MinScore:
		return audit.MinScore, true
	}
	return int(math.Round(f)), false
}
