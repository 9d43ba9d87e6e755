package analytics

// growthRate is a signed percentage delta between two windowed counts.
// From zero, any activity reads as +100%; stagnation at zero reads as 0%.
func growthRate(previous, current int) int {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return roundDiv((current-previous)*100, previous)
}

// applyGrowth compares the current pass against the previous snapshot and
// sets the growth fields for every entity found in both. Entities absent
// from the previous snapshot keep nil growth fields (new, no trend yet).
// With no previous snapshot at all, applyGrowth is not called.
func applyGrowth(curr *Snapshot, prev Snapshot) {
	levels := []struct {
		curr map[string]*LevelStats
		prev map[string]*LevelStats
	}{
		{curr.StudentStats, prev.StudentStats},
		{curr.ClassStats, prev.ClassStats},
		{curr.SchoolStats, prev.SchoolStats},
		{curr.DistrictStats, prev.DistrictStats},
	}
	for _, lvl := range levels {
		for id, ls := range lvl.curr {
			pls, ok := lvl.prev[id]
			if !ok {
				continue
			}
			weekly := growthRate(pls.WeeklyEntries, ls.WeeklyEntries)
			monthly := growthRate(pls.MonthlyEntries, ls.MonthlyEntries)
			ls.WeeklyGrowth = &weekly
			ls.MonthlyGrowth = &monthly
		}
	}
}
