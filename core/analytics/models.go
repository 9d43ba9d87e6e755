package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/jarida/core/journal"
	"github.com/trezcool/jarida/core/user"
)

// ErrNoSnapshot is returned by SnapshotRepository when no snapshot exists yet.
var ErrNoSnapshot = errors.New("no analytics snapshot")

// Recency windows; fixed from the single "now" of an aggregation run.
const (
	weeklyWindow  = 7 * 24 * time.Hour
	monthlyWindow = 30 * 24 * time.Hour
)

// Identity is the denormalized hierarchy context of one student, used only
// for keying the four stats maps during a pass. It is sourced from the user
// directory, never stored by the aggregator.
type Identity struct {
	StudentID    string
	StudentName  string
	ClassID      string
	ClassName    string
	SchoolID     string
	SchoolName   string
	DistrictID   string
	DistrictName string
}

// IdentityOf derives an aggregation Identity from a directory user.
func IdentityOf(usr user.User) Identity {
	return Identity{
		StudentID:    usr.ID,
		StudentName:  usr.Name,
		ClassID:      usr.ClassID,
		ClassName:    usr.ClassName,
		SchoolID:     usr.SchoolID,
		SchoolName:   usr.SchoolName,
		DistrictID:   usr.DistrictID,
		DistrictName: usr.DistrictName,
	}
}

// LevelStats is the accumulator state for one entity at any of the four
// granularities (student, class, school, district). Growth fields are
// pointers: absent means "no trend yet", which is different from zero.
type LevelStats struct {
	// identity fields, copied from the first entry seen for the entity
	Name         string `json:"name,omitempty"`
	ClassID      string `json:"class_id,omitempty"`
	ClassName    string `json:"class_name,omitempty"`
	SchoolID     string `json:"school_id,omitempty"`
	SchoolName   string `json:"school_name,omitempty"`
	DistrictID   string `json:"district_id,omitempty"`
	DistrictName string `json:"district_name,omitempty"`

	TotalWords         int            `json:"total_words"`
	TotalEntries       int            `json:"total_entries"`
	AvgWordsPerEntry   int            `json:"avg_words_per_entry,omitempty"`   // student level only
	AvgWordsPerStudent int            `json:"avg_words_per_student,omitempty"` // class/school/district only
	WeeklyEntries      int            `json:"weekly_entries"`
	MonthlyEntries     int            `json:"monthly_entries"`
	WeeklyAvgWords     int            `json:"weekly_avg_words"`
	MonthlyAvgWords    int            `json:"monthly_avg_words"`
	EmotionDist        map[string]int `json:"emotion_distribution"`
	ActiveStudents     int            `json:"active_students,omitempty"` // class/school/district only
	LastEntryDate      string         `json:"last_entry_date,omitempty"` // student level only, RFC3339
	WeeklyGrowth       *int           `json:"weekly_growth,omitempty"`
	MonthlyGrowth      *int           `json:"monthly_growth,omitempty"`

	// running state, only meaningful during a fold
	weeklyWords  int
	monthlyWords int
	lastEntry    time.Time
}

// Snapshot is one immutable, fully-materialized aggregation result. The
// current analytics is the snapshot with the maximum Timestamp; snapshots
// are append-only and never mutated after being written.
type Snapshot struct {
	ID            string                 `json:"id"`
	Timestamp     time.Time              `json:"timestamp"`
	TotalWords    int                    `json:"total_words"`
	TotalEntries  int                    `json:"total_entries"`
	DistrictStats map[string]*LevelStats `json:"district_stats"`
	SchoolStats   map[string]*LevelStats `json:"school_stats"`
	ClassStats    map[string]*LevelStats `json:"class_stats"`
	StudentStats  map[string]*LevelStats `json:"student_stats"`
}

// SnapshotID derives the snapshot document id from the run instant.
func SnapshotID(ts time.Time) string {
	return fmt.Sprintf("analytics_%d", ts.UnixMilli())
}

type (
	// Directory is the user-directory boundary: one logical listing of all
	// accounts (implementations may paginate internally).
	Directory interface {
		QueryAllUsers(ctx context.Context) ([]user.User, error)
	}

	// EntryStore is the journal boundary; entries come back CreatedAt desc.
	EntryStore interface {
		QueryEntriesByOwner(ctx context.Context, ownerID string) ([]journal.Entry, error)
	}

	// SnapshotRepository persists finished snapshots. CreateSnapshot writes
	// the whole document atomically; existing snapshots are never updated.
	SnapshotRepository interface {
		CreateSnapshot(ctx context.Context, snap Snapshot) error
		LatestSnapshot(ctx context.Context) (Snapshot, error)
		QuerySnapshotsSince(ctx context.Context, since time.Time) ([]Snapshot, error)
	}
)
