package parser

import (
	"github.com/dshills/auditscore/internal/audit"
	"github.com/dshills/auditscore/internal/normalize"
	"github.com/dshills/auditscore/internal/profile"
)

// profiles holds the built-in field rules, loaded once at start-up.
var profiles = mustLoadProfiles()

func mustLoadProfiles() map[audit.Type]*profile.Profile {
	m := make(map[audit.Type]*profile.Profile, len(audit.Types))
	for _, t := range audit.Types {
		m[t] = profile.MustLoadBuiltin(string(t))
	}
	return m
}

// DetectAuditType classifies a sheet by its headers. Each type's
// indicators are checked against every header, store first, then ilms,
// then xfe; the first type with a hit wins.
func DetectAuditType(headers []string) audit.Type {
	folded := make([]string, len(headers))
	for i, h := range headers {
		folded[i] = normalize.Key(h)
	}
	for _, t := range audit.Types {
		indicators := profiles[t].Indicators
		for _, h := range folded {
			if normalize.ContainsAny(h, indicators) {
				return t
			}
		}
	}
	return audit.TypeUnknown
}
