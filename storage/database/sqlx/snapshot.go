package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/jarida/core/analytics"
)

type snapshotRepository struct {
	db *sqlx.DB
}

var _ analytics.SnapshotRepository = (*snapshotRepository)(nil) // interface compliance check

func NewSnapshotRepository(db *sqlx.DB) analytics.SnapshotRepository {
	return &snapshotRepository{db: db}
}

type snapshotRow struct {
	ID        string          `db:"id"`
	Timestamp time.Time       `db:"timestamp"`
	Document  json.RawMessage `db:"document"`
}

func (row snapshotRow) snapshot() (analytics.Snapshot, error) {
	var snap analytics.Snapshot
	if err := json.Unmarshal(row.Document, &snap); err != nil {
		return analytics.Snapshot{}, errors.Wrap(err, "decoding snapshot document")
	}
	return snap, nil
}

// CreateSnapshot writes the whole snapshot as one JSONB document row.
// Plain INSERT: snapshots are append-only, a conflicting id is a bug.
func (repo *snapshotRepository) CreateSnapshot(ctx context.Context, snap analytics.Snapshot) error {
	doc, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrap(err, "encoding snapshot document")
	}
	q := `INSERT INTO analytics_snapshot (id, timestamp, document) VALUES ($1, $2, $3)`
	if _, err = repo.db.ExecContext(ctx, q, snap.ID, snap.Timestamp, doc); err != nil {
		return errors.Wrap(err, "creating snapshot")
	}
	return nil
}

func (repo *snapshotRepository) LatestSnapshot(ctx context.Context) (analytics.Snapshot, error) {
	var row snapshotRow
	q := `SELECT * FROM analytics_snapshot ORDER BY timestamp DESC LIMIT 1`
	err := repo.db.GetContext(ctx, &row, q)
	switch {
	case err == sql.ErrNoRows:
		return analytics.Snapshot{}, analytics.ErrNoSnapshot
	case err != nil:
		return analytics.Snapshot{}, errors.Wrap(err, "getting latest snapshot")
	}
	return row.snapshot()
}

func (repo *snapshotRepository) QuerySnapshotsSince(ctx context.Context, since time.Time) ([]analytics.Snapshot, error) {
	var rows []snapshotRow
	q := `SELECT * FROM analytics_snapshot WHERE timestamp > $1 ORDER BY timestamp ASC`
	if err := repo.db.SelectContext(ctx, &rows, q, since); err != nil {
		return nil, errors.Wrap(err, "querying snapshots")
	}

	snaps := make([]analytics.Snapshot, 0, len(rows))
	for _, row := range rows {
		snap, err := row.snapshot()
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}
