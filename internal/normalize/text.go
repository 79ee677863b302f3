// Package normalize cleans up the free-form values found in audit sheets:
// header text, region names, dates and explicit scores.
package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Key folds header or answer text for substring matching: NFKC, single
// spaces, lower case.
func Key(s string) string {
	s = norm.NFKC.String(s)
	s = strings.Join(strings.Fields(s), " ")
	return strings.ToLower(s)
}

// ContainsAny reports whether folded text contains any of the needles.
// Needles are expected to be lower case already.
func ContainsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
