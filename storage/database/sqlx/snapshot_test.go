package sqlxrepos

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/jarida/core/analytics"
)

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func testSnapshot(ts time.Time) analytics.Snapshot {
	return analytics.Snapshot{
		ID:            analytics.SnapshotID(ts),
		Timestamp:     ts,
		TotalWords:    12,
		TotalEntries:  3,
		DistrictStats: map[string]*analytics.LevelStats{"d1": {Name: "Gombe", TotalWords: 12, TotalEntries: 3}},
		SchoolStats:   map[string]*analytics.LevelStats{},
		ClassStats:    map[string]*analytics.LevelStats{},
		StudentStats:  map[string]*analytics.LevelStats{},
	}
}

func TestCreateSnapshot(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSnapshotRepository(db)

	ts := time.Date(2021, 3, 15, 12, 0, 0, 0, time.UTC)
	snap := testSnapshot(ts)
	doc, err := json.Marshal(snap)
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO analytics_snapshot`).
		WithArgs(snap.ID, snap.Timestamp, doc).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.CreateSnapshot(context.Background(), snap))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestSnapshot(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSnapshotRepository(db)

	ts := time.Date(2021, 3, 15, 12, 0, 0, 0, time.UTC)
	snap := testSnapshot(ts)
	doc, err := json.Marshal(snap)
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "timestamp", "document"}).AddRow(snap.ID, ts, doc)
	mock.ExpectQuery(`SELECT \* FROM analytics_snapshot ORDER BY timestamp DESC LIMIT 1`).
		WillReturnRows(rows)

	got, err := repo.LatestSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, snap.ID, got.ID)
	assert.Equal(t, 12, got.TotalWords)
	require.Contains(t, got.DistrictStats, "d1")
	assert.Equal(t, "Gombe", got.DistrictStats["d1"].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestSnapshotEmpty(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSnapshotRepository(db)

	mock.ExpectQuery(`SELECT \* FROM analytics_snapshot`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "timestamp", "document"}))

	_, err := repo.LatestSnapshot(context.Background())
	assert.Equal(t, analytics.ErrNoSnapshot, errors.Cause(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuerySnapshotsSince(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewSnapshotRepository(db)

	ts1 := time.Date(2021, 3, 10, 12, 0, 0, 0, time.UTC)
	ts2 := time.Date(2021, 3, 15, 12, 0, 0, 0, time.UTC)
	doc1, _ := json.Marshal(testSnapshot(ts1))
	doc2, _ := json.Marshal(testSnapshot(ts2))
	since := ts1.Add(-24 * time.Hour)

	rows := sqlmock.NewRows([]string{"id", "timestamp", "document"}).
		AddRow(analytics.SnapshotID(ts1), ts1, doc1).
		AddRow(analytics.SnapshotID(ts2), ts2, doc2)
	mock.ExpectQuery(`SELECT \* FROM analytics_snapshot WHERE timestamp > \$1 ORDER BY timestamp ASC`).
		WithArgs(since).
		WillReturnRows(rows)

	snaps, err := repo.QuerySnapshotsSince(context.Background(), since)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.True(t, snaps[0].Timestamp.Before(snaps[1].Timestamp))
	assert.NoError(t, mock.ExpectationsWereMet())
}
