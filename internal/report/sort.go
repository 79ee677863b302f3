package report

import "sort"

// SortEntries orders entries by ascending score, then by ID, so fatal
// audits come first whatever the threshold.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score < entries[j].Score
		}
		return entries[i].ID < entries[j].ID
	})
}
