// Package render produces Markdown output from a batch report.
package render

import (
	"fmt"
	"strings"

	"github.com/dshills/auditscore/internal/report"
	"github.com/dshills/auditscore/internal/scoring"
)

// Markdown renders a report as a Markdown document.
func Markdown(r *report.Report) string {
	var b strings.Builder

	// Summary
	b.WriteString("# Audit Batch Report\n\n")
	fmt.Fprintf(&b, "**File:** %s\n", r.Input.File)
	if r.Input.Sheet != "" {
		fmt.Fprintf(&b, "**Sheet:** %s\n", r.Input.Sheet)
	}
	detected := "given"
	if r.Input.Detected {
		detected = "detected"
	}
	fmt.Fprintf(&b, "**Audit type:** %s (%s)\n", r.Input.AuditType, detected)
	if r.Input.DateOrder != "" {
		fmt.Fprintf(&b, "**Date order:** %s\n", r.Input.DateOrder)
	}
	fmt.Fprintf(&b, "**Batch:** %s\n\n", r.BatchID)

	s := r.Summary
	fmt.Fprintf(&b, "**Records:** %d parsed, %d skipped of %d rows\n", s.Parsed, s.Skipped, s.Rows)
	fmt.Fprintf(&b, "**Scores:** %d explicit, %d calculated\n", s.Explicit, s.Calculated)
	fmt.Fprintf(&b, "**Average score:** %.1f / 100\n", s.AverageScore)
	fmt.Fprintf(&b, "**Fatal audits:** %d (below %d)\n\n", s.FatalCount, s.FatalThreshold)

	if len(r.Records) == 0 {
		b.WriteString("No audits found.\n\n")
		return b.String()
	}

	renderGroups(&b, "By Audit Type", s.ByType)
	renderGroups(&b, "By Circle", s.ByCircle)

	var fatal, passing []report.Entry
	for _, e := range r.Records {
		if e.Fatal {
			fatal = append(fatal, e)
		} else {
			passing = append(passing, e)
		}
	}
	if len(fatal) > 0 {
		b.WriteString("## Fatal Audits\n\n")
		renderTable(&b, fatal)
	}
	if len(passing) > 0 {
		b.WriteString("## Audits\n\n")
		renderTable(&b, passing)
	}

	// Breakdowns
	for _, e := range r.Records {
		if e.Breakdown != nil {
			renderBreakdown(&b, e)
		}
	}

	return b.String()
}

func renderGroups(b *strings.Builder, title string, groups []report.Group) {
	if len(groups) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	b.WriteString("| Group | Audits | Average | Fatal |\n")
	b.WriteString("|---|---:|---:|---:|\n")
	for _, g := range groups {
		fmt.Fprintf(b, "| %s | %d | %.1f | %d |\n", cellText(g.Key), g.Count, g.AverageScore, g.FatalCount)
	}
	b.WriteString("\n")
}

func renderTable(b *strings.Builder, entries []report.Entry) {
	b.WriteString("| ID | Name | Type | Circle | Date | Auditor | Score | Source |\n")
	b.WriteString("|---|---|---|---|---|---|---:|---|\n")
	for _, e := range entries {
		date := ""
		if e.AuditDate != nil {
			date = e.AuditDate.Format("2006-01-02")
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s | %d | %s |\n",
			cellText(e.ID), cellText(e.Name), e.Type, cellText(e.Circle),
			date, cellText(e.AuditorName), e.Score, e.ScoreSource)
	}
	b.WriteString("\n")
}

func renderBreakdown(b *strings.Builder, e report.Entry) {
	bd := e.Breakdown
	fmt.Fprintf(b, "### %s breakdown\n\n", cellText(e.ID))
	fmt.Fprintf(b, "Weighted %d", bd.WeightedTotal)
	if bd.OverallRating != nil {
		fmt.Fprintf(b, ", overall rating %.0f", *bd.OverallRating)
	}
	fmt.Fprintf(b, ", total %d. %d of %d questions answered (%d positive, %d negative).\n\n",
		bd.TotalScore, bd.Counts.Answered, bd.Counts.Total, bd.Counts.Positive, bd.Counts.Negative)

	b.WriteString("| Category | Questions | Raw | Score | Weight | Contribution |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|\n")
	for _, c := range bd.Categories {
		name := c.Name
		if c.Inversion != scoring.InversionNone {
			name += " (" + string(c.Inversion) + ")"
		}
		fmt.Fprintf(b, "| %s | %d | %d | %d | %.2f | %.1f |\n",
			name, c.Questions, c.RawScore, c.Score, c.Weight, c.WeightedContribution)
	}
	b.WriteString("\n")
}

// cellText escapes pipes so free-text answers cannot break a table row.
func cellText(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
