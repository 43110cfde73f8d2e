package runlist

import "sort"

// SortByTime returns a copy of runs ordered by submission time, newest
// first. Runs submitted at the same instant keep their input order.
func SortByTime(runs []Run) []Run {
	sorted := make([]Run, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.After(sorted[j].Time)
	})
	return sorted
}
