// Package scoring turns an audit's raw answers into a 0-100 quality score
// using per-type tables of weighted keyword categories.
package scoring

import (
	"slices"

	"github.com/dshills/auditscore/internal/audit"
)

// Inversion selects how a category treats affirmative answers.
type Inversion string

const (
	// InversionNone scores the share of affirmative answers.
	InversionNone Inversion = ""
	// InversionFull replaces the score with 100 minus the score, for
	// categories that ask whether something bad happened.
	InversionFull Inversion = "full"
	// InversionTargeted keeps the normal score and subtracts a penalty
	// for each affirmative answer to a question naming a bad behavior.
	InversionTargeted Inversion = "targeted"
)

// Category is one weighted bucket of questions. A question belongs to the
// category when its header contains any of Patterns.
type Category struct {
	Name               string    `json:"name" yaml:"name"`
	Weight             float64   `json:"weight" yaml:"weight"`
	Patterns           []string  `json:"patterns" yaml:"patterns"`
	Inversion          Inversion `json:"inversion,omitempty" yaml:"inversion,omitempty"`
	NegativeIndicators []string  `json:"negative_indicators,omitempty" yaml:"negative_indicators,omitempty"`
}

var (
	groomingPatterns = []string{"groom", "uniform", "dress", "id card", "name badge", "name tag"}
	needsPatterns    = []string{"need", "requirement", "usage", "probe", "understand"}
)

var storeCategories = []Category{
	{Name: "Discovery", Weight: 0.10, Patterns: []string{"discover", "locate", "find the store", "signage", "signboard", "visible"}},
	{Name: "Hygiene", Weight: 0.20, Patterns: []string{"clean", "hygiene", "tidy", "dust", "washroom", "smell", "clutter"}},
	{Name: "Greet&Behavior", Weight: 0.25, Patterns: []string{"greet", "welcome", "behav", "polite", "courteous", "smile", "attentive", "acknowledge"}},
	{Name: "NeedsAnalysis", Weight: 0.15, Patterns: append(slices.Clone(needsPatterns), "recommend")},
	{Name: "Grooming", Weight: 0.10, Patterns: groomingPatterns},
	{Name: "Branding", Weight: 0.10, Patterns: []string{"brand", "poster", "display", "merchandis", "collateral", "standee"}},
	{Name: "NoDenials", Weight: 0.05, Patterns: []string{"denied", "denial", "deny", "redirect", "refuse", "turned away"}, Inversion: InversionFull},
	{Name: "NoIllegalPractices", Weight: 0.05, Patterns: []string{"illegal", "extra money", "extra charge", "overcharg", "bribe", "malpractice", "unauthori"}, Inversion: InversionFull},
}

var ilmsCategories = []Category{
	{Name: "ResponseTime", Weight: 0.15, Patterns: []string{"response time", "respond", "call back", "callback", "turnaround", "within"}},
	{Name: "AdvisorInteraction", Weight: 0.25, Patterns: []string{"advisor", "adviser"}},
	{Name: "AmbassadorVisit", Weight: 0.25, Patterns: []string{"ambassador", "visit"}},
	{Name: "Grooming", Weight: 0.10, Patterns: groomingPatterns},
	{Name: "NeedsAnalysis", Weight: 0.15, Patterns: needsPatterns},
	{Name: "ProcessCompliance", Weight: 0.10, Patterns: []string{"process", "kyc", "application form", "payment", "receipt", "otp"}},
}

var xfeCategories = []Category{
	{Name: "CallConnectivity", Weight: 0.10, Patterns: []string{"connect", "call drop", "audible", "clarity", "network"}},
	{Name: "XFEIntroduction", Weight: 0.15, Patterns: []string{"introduc", "greet", "self", "opening"}},
	{Name: "NeedsAnalysis", Weight: 0.25, Patterns: needsPatterns},
	{Name: "ProductKnowledge", Weight: 0.25, Patterns: []string{"product", "plan", "offer", "tariff", "benefit", "knowledge"}},
	{
		Name: "ServiceQuality", Weight: 0.15,
		Patterns:           []string{"rude", "polite", "patient", "courteous", "tone", "service"},
		Inversion:          InversionTargeted,
		NegativeIndicators: []string{"rude", "impolite", "argu", "interrupt"},
	},
	{
		Name: "Compliance", Weight: 0.10,
		Patterns:           []string{"overcharge", "extra", "compliance", "consent", "disclos", "mis-sell", "missell", "false promise"},
		Inversion:          InversionTargeted,
		NegativeIndicators: []string{"overcharge", "extra", "mis-sell", "missell", "false promise"},
	},
}

// Categories returns the category table for an audit type. Types other
// than ilms and xfe use the store table.
func Categories(t audit.Type) []Category {
	switch t {
	case audit.TypeILMS:
		return slices.Clone(ilmsCategories)
	case audit.TypeXFE:
		return slices.Clone(xfeCategories)
	default:
		return slices.Clone(storeCategories)
	}
}
