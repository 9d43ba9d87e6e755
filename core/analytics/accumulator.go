package analytics

import (
	"math"
	"time"

	"github.com/trezcool/jarida/core/journal"
)

// accumulator folds (entry, identity) pairs into the four stats maps of a
// snapshot in progress. The fold is commutative: apart from explicit
// max-comparisons the result is independent of entry order. It is not safe
// for concurrent use; the collector materializes all input first.
type accumulator struct {
	now      time.Time
	weekAgo  time.Time
	monthAgo time.Time
	snap     *Snapshot
}

func newAccumulator(now time.Time) *accumulator {
	return &accumulator{
		now:      now,
		weekAgo:  now.Add(-weeklyWindow),
		monthAgo: now.Add(-monthlyWindow),
		snap: &Snapshot{
			ID:            SnapshotID(now),
			Timestamp:     now,
			DistrictStats: make(map[string]*LevelStats),
			SchoolStats:   make(map[string]*LevelStats),
			ClassStats:    make(map[string]*LevelStats),
			StudentStats:  make(map[string]*LevelStats),
		},
	}
}

// add counts one entry at all four granularities and once globally.
func (a *accumulator) add(id Identity, entry journal.Entry) {
	words := entry.Content.Words()

	student := statsFor(a.snap.StudentStats, id.StudentID, func() *LevelStats {
		return &LevelStats{
			Name:         id.StudentName,
			ClassID:      id.ClassID,
			ClassName:    id.ClassName,
			SchoolID:     id.SchoolID,
			SchoolName:   id.SchoolName,
			DistrictID:   id.DistrictID,
			DistrictName: id.DistrictName,
		}
	})
	class := statsFor(a.snap.ClassStats, id.ClassID, func() *LevelStats {
		return &LevelStats{
			Name:         id.ClassName,
			SchoolID:     id.SchoolID,
			SchoolName:   id.SchoolName,
			DistrictID:   id.DistrictID,
			DistrictName: id.DistrictName,
		}
	})
	school := statsFor(a.snap.SchoolStats, id.SchoolID, func() *LevelStats {
		return &LevelStats{
			Name:         id.SchoolName,
			DistrictID:   id.DistrictID,
			DistrictName: id.DistrictName,
		}
	})
	district := statsFor(a.snap.DistrictStats, id.DistrictID, func() *LevelStats {
		return &LevelStats{Name: id.DistrictName}
	})

	for _, ls := range []*LevelStats{student, class, school, district} {
		a.count(ls, entry, words)
	}

	// track the latest entry instant per student as an explicit max, so the
	// result does not depend on processing order
	if entry.CreatedAt.After(student.lastEntry) {
		student.lastEntry = entry.CreatedAt
	}

	a.snap.TotalWords += words
	a.snap.TotalEntries++
}

func (a *accumulator) count(ls *LevelStats, entry journal.Entry, words int) {
	ls.TotalWords += words
	ls.TotalEntries++
	if ls.EmotionDist == nil {
		ls.EmotionDist = make(map[string]int)
	}
	ls.EmotionDist[entry.Emotion]++

	if entry.CreatedAt.After(a.weekAgo) {
		ls.WeeklyEntries++
		ls.weeklyWords += words
	}
	if entry.CreatedAt.After(a.monthAgo) {
		ls.MonthlyEntries++
		ls.monthlyWords += words
	}
}

// finalize derives the averages and date fields from the accumulated sums
// and returns the snapshot. Growth and active-student resolution still run
// after this.
func (a *accumulator) finalize() *Snapshot {
	for _, student := range a.snap.StudentStats {
		if student.TotalEntries > 0 {
			student.AvgWordsPerEntry = roundDiv(student.TotalWords, student.TotalEntries)
		}
		if !student.lastEntry.IsZero() {
			student.LastEntryDate = student.lastEntry.UTC().Format(time.RFC3339)
		}
	}
	for _, m := range []map[string]*LevelStats{
		a.snap.StudentStats, a.snap.ClassStats, a.snap.SchoolStats, a.snap.DistrictStats,
	} {
		for _, ls := range m {
			if ls.WeeklyEntries > 0 {
				ls.WeeklyAvgWords = roundDiv(ls.weeklyWords, ls.WeeklyEntries)
			}
			if ls.MonthlyEntries > 0 {
				ls.MonthlyAvgWords = roundDiv(ls.monthlyWords, ls.MonthlyEntries)
			}
		}
	}
	return a.snap
}

func statsFor(m map[string]*LevelStats, key string, init func() *LevelStats) *LevelStats {
	ls, ok := m[key]
	if !ok {
		ls = init()
		m[key] = ls
	}
	return ls
}

func roundDiv(num, den int) int {
	return int(math.Round(float64(num) / float64(den)))
}
