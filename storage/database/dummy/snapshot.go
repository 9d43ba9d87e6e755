package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/trezcool/jarida/core/analytics"
)

type snapshotRepository struct {
	db *snapshotTable
}

var _ analytics.SnapshotRepository = (*snapshotRepository)(nil) // interface compliance check

func NewSnapshotRepository(db *DB) analytics.SnapshotRepository {
	return &snapshotRepository{db: db.snapshot}
}

// CreateSnapshot appends; snapshots are never updated in place.
func (repo *snapshotRepository) CreateSnapshot(ctx context.Context, snap analytics.Snapshot) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[snap.ID] = &snap
	return nil
}

func (repo *snapshotRepository) LatestSnapshot(ctx context.Context) (analytics.Snapshot, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var latest *analytics.Snapshot
	for _, snap := range repo.db.table {
		if latest == nil || snap.Timestamp.After(latest.Timestamp) {
			latest = snap
		}
	}
	if latest == nil {
		return analytics.Snapshot{}, analytics.ErrNoSnapshot
	}
	return *latest, nil
}

// QuerySnapshotsSince returns matching snapshots ordered by timestamp asc.
func (repo *snapshotRepository) QuerySnapshotsSince(ctx context.Context, since time.Time) ([]analytics.Snapshot, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var snaps []analytics.Snapshot
	for _, snap := range repo.db.table {
		if snap.Timestamp.After(since) {
			snaps = append(snaps, *snap)
		}
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Timestamp.Before(snaps[j].Timestamp) })
	return snaps, nil
}
