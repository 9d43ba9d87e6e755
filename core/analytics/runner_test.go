package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/jarida/core/journal"
	"github.com/trezcool/jarida/core/user"
)

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

type fakeDirectory struct {
	users []user.User
	err   error
}

func (d *fakeDirectory) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	return d.users, d.err
}

type fakeEntryStore struct {
	entries map[string][]journal.Entry
	err     error
}

func (s *fakeEntryStore) QueryEntriesByOwner(ctx context.Context, ownerID string) ([]journal.Entry, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.entries[ownerID], nil
}

type fakeSnapshotRepo struct {
	snaps     []Snapshot
	createErr error
}

func (r *fakeSnapshotRepo) CreateSnapshot(ctx context.Context, snap Snapshot) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.snaps = append(r.snaps, snap)
	return nil
}

func (r *fakeSnapshotRepo) LatestSnapshot(ctx context.Context) (Snapshot, error) {
	if len(r.snaps) == 0 {
		return Snapshot{}, ErrNoSnapshot
	}
	latest := r.snaps[0]
	for _, snap := range r.snaps[1:] {
		if snap.Timestamp.After(latest.Timestamp) {
			latest = snap
		}
	}
	return latest, nil
}

func (r *fakeSnapshotRepo) QuerySnapshotsSince(ctx context.Context, since time.Time) ([]Snapshot, error) {
	var res []Snapshot
	for _, snap := range r.snaps {
		if snap.Timestamp.After(since) {
			res = append(res, snap)
		}
	}
	return res, nil
}

func activeStudent(id, name string) user.User {
	usr := user.User{
		ID:           id,
		Name:         name,
		Roles:        []string{user.RoleStudent},
		ClassID:      "c1",
		ClassName:    "6A",
		SchoolID:     "sc1",
		SchoolName:   "Lycee Uhuru",
		DistrictID:   "d1",
		DistrictName: "Gombe",
	}
	usr.SetActive(true)
	return usr
}

func TestRunnerEndToEnd(t *testing.T) {
	now := time.Date(2021, 3, 15, 12, 0, 0, 0, time.UTC)
	teacher := user.User{ID: "t1", Name: "Mr K", Roles: []string{user.RoleTeacher}}
	teacher.SetActive(true)

	directory := &fakeDirectory{users: []user.User{activeStudent("s1", "Aline M"), teacher}}
	store := &fakeEntryStore{entries: map[string][]journal.Entry{
		"s1": {
			{ID: "e1", OwnerID: "s1", Content: journal.PlainContent("hello world"), CreatedAt: now.Add(-2 * time.Hour)},
			{ID: "e2", OwnerID: "s1", Content: journal.PlainContent("foo"), CreatedAt: now.Add(-40 * 24 * time.Hour)},
		},
		// teacher entries must never be counted
		"t1": {{ID: "e3", OwnerID: "t1", Content: journal.PlainContent("staff note"), CreatedAt: now}},
	}}
	repo := &fakeSnapshotRepo{}

	runner := NewRunner(directory, store, repo, nopLogger{}, 4)
	runner.nowFunc = func() time.Time { return now }

	snap, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if snap.TotalWords != 3 || snap.TotalEntries != 2 {
		t.Errorf("global totals = (%d, %d), want (3, 2)", snap.TotalWords, snap.TotalEntries)
	}
	s1 := snap.StudentStats["s1"]
	if s1 == nil {
		t.Fatal("studentStats missing s1")
	}
	if s1.WeeklyEntries != 1 || s1.MonthlyEntries != 1 {
		t.Errorf("s1 window counts = (%d, %d), want (1, 1)", s1.WeeklyEntries, s1.MonthlyEntries)
	}
	if got := snap.ClassStats["c1"].ActiveStudents; got != 1 {
		t.Errorf("c1 ActiveStudents = %d, want 1", got)
	}
	if _, ok := snap.StudentStats["t1"]; ok {
		t.Error("teacher aggregated as a student")
	}
	for id, ls := range snap.StudentStats {
		if ls.WeeklyGrowth != nil || ls.MonthlyGrowth != nil {
			t.Errorf("student %s has growth without a prior snapshot", id)
		}
	}
	if len(repo.snaps) != 1 {
		t.Fatalf("persisted snapshots = %d, want 1", len(repo.snaps))
	}

	// a second run over identical data trends flat against the first snapshot
	runner.nowFunc = func() time.Time { return now.Add(time.Minute) }
	snap2, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	s1 = snap2.StudentStats["s1"]
	if s1.WeeklyGrowth == nil || *s1.WeeklyGrowth != 0 {
		t.Errorf("s1 WeeklyGrowth = %v, want 0", s1.WeeklyGrowth)
	}
	if s1.MonthlyGrowth == nil || *s1.MonthlyGrowth != 0 {
		t.Errorf("s1 MonthlyGrowth = %v, want 0", s1.MonthlyGrowth)
	}
	if snap2.ID == snap.ID {
		t.Error("snapshot ids must be unique per run")
	}
	if len(repo.snaps) != 2 {
		t.Errorf("persisted snapshots = %d, want 2", len(repo.snaps))
	}
}

func TestRunnerAbortsWithoutPartialWrite(t *testing.T) {
	directory := &fakeDirectory{users: []user.User{activeStudent("s1", "Aline M")}}
	store := &fakeEntryStore{err: errors.New("store down")}
	repo := &fakeSnapshotRepo{}

	runner := NewRunner(directory, store, repo, nopLogger{}, 4)
	if _, err := runner.Run(context.Background()); err == nil {
		t.Fatal("Run() error = nil, want collection failure")
	}
	if len(repo.snaps) != 0 {
		t.Errorf("persisted snapshots = %d, want 0", len(repo.snaps))
	}
}

func TestRunnerAbortsOnSnapshotFetchFailure(t *testing.T) {
	directory := &fakeDirectory{users: []user.User{activeStudent("s1", "Aline M")}}
	store := &fakeEntryStore{entries: map[string][]journal.Entry{}}
	repo := &fakeSnapshotRepo{}
	repo.snaps = append(repo.snaps, Snapshot{ID: "x", Timestamp: time.Now()})

	runner := NewRunner(directory, store, &failingLatestRepo{fakeSnapshotRepo: repo}, nopLogger{}, 4)
	if _, err := runner.Run(context.Background()); err == nil {
		t.Fatal("Run() error = nil, want previous-snapshot failure")
	}
	if len(repo.snaps) != 1 {
		t.Errorf("persisted snapshots = %d, want 1 (the pre-existing one)", len(repo.snaps))
	}
}

type failingLatestRepo struct {
	*fakeSnapshotRepo
}

func (r *failingLatestRepo) LatestSnapshot(ctx context.Context) (Snapshot, error) {
	return Snapshot{}, errors.New("db down")
}
