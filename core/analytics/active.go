package analytics

import "strings"

// resolveActive derives activeStudents and avgWordsPerStudent for every
// class, school and district from the final per-student totals. It must run
// after the fold completes: activity is a property of a student's final
// total, not of any single entry.
func resolveActive(snap *Snapshot) {
	classKeys := make(map[string]struct{})
	schoolKeys := make(map[string]struct{})
	districtKeys := make(map[string]struct{})
	for studentID, ls := range snap.StudentStats {
		if ls.TotalEntries == 0 {
			continue
		}
		classKeys[compositeKey(ls.ClassID, studentID)] = struct{}{}
		schoolKeys[compositeKey(ls.SchoolID, studentID)] = struct{}{}
		districtKeys[compositeKey(ls.DistrictID, studentID)] = struct{}{}
	}

	resolveLevel(snap.ClassStats, classKeys)
	resolveLevel(snap.SchoolStats, schoolKeys)
	resolveLevel(snap.DistrictStats, districtKeys)
}

func resolveLevel(m map[string]*LevelStats, keys map[string]struct{}) {
	for id, ls := range m {
		prefix := compositeKey(id, "")
		active := 0
		for key := range keys {
			if strings.HasPrefix(key, prefix) {
				active++
			}
		}
		ls.ActiveStudents = active
		if active > 0 {
			ls.AvgWordsPerStudent = roundDiv(ls.TotalWords, active)
		}
	}
}

func compositeKey(levelID, studentID string) string {
	return levelID + "_" + studentID
}
