package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/jarida/core/journal"
)

type entryRepository struct {
	db *sqlx.DB
}

var _ journal.Repository = (*entryRepository)(nil) // interface compliance check

func NewEntryRepository(db *sqlx.DB) journal.Repository {
	return &entryRepository{db: db}
}

// entryRow carries the content column as raw JSONB; the Content union
// resolves its own shape on decode.
type entryRow struct {
	ID        string          `db:"id"`
	OwnerID   string          `db:"owner_id"`
	Title     string          `db:"title"`
	Emotion   string          `db:"emotion"`
	Content   json.RawMessage `db:"content"`
	CreatedAt time.Time       `db:"created_at"`
}

func (row entryRow) entry() (journal.Entry, error) {
	e := journal.Entry{
		ID:        row.ID,
		OwnerID:   row.OwnerID,
		Title:     row.Title,
		Emotion:   row.Emotion,
		CreatedAt: row.CreatedAt,
	}
	if len(row.Content) > 0 {
		if err := json.Unmarshal(row.Content, &e.Content); err != nil {
			return journal.Entry{}, errors.Wrap(err, "decoding entry content")
		}
	}
	return e, nil
}

func (repo *entryRepository) CreateEntry(ctx context.Context, e journal.Entry) (journal.Entry, error) {
	e.ID = uuid.NewString()
	content, err := json.Marshal(e.Content)
	if err != nil {
		return journal.Entry{}, errors.Wrap(err, "encoding entry content")
	}
	q := `INSERT INTO journal_entry (id, owner_id, title, emotion, content, created_at) VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err = repo.db.ExecContext(ctx, q, e.ID, e.OwnerID, e.Title, e.Emotion, content, e.CreatedAt); err != nil {
		return journal.Entry{}, errors.Wrap(err, "creating entry")
	}
	return e, nil
}

func (repo *entryRepository) GetEntryByID(ctx context.Context, id string) (journal.Entry, error) {
	var row entryRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM journal_entry WHERE id = $1`, id)
	switch {
	case err == sql.ErrNoRows:
		return journal.Entry{}, journal.ErrNotFound
	case err != nil:
		return journal.Entry{}, errors.Wrap(err, "getting entry")
	}
	return row.entry()
}

func (repo *entryRepository) QueryEntriesByOwner(ctx context.Context, ownerID string) ([]journal.Entry, error) {
	var rows []entryRow
	q := `SELECT * FROM journal_entry WHERE owner_id = $1 ORDER BY created_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, q, ownerID); err != nil {
		return nil, errors.Wrap(err, "querying entries")
	}

	entries := make([]journal.Entry, 0, len(rows))
	for _, row := range rows {
		e, err := row.entry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (repo *entryRepository) DeleteEntriesByID(ctx context.Context, ids ...string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM journal_entry WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting entries")
	}
	return nil
}
