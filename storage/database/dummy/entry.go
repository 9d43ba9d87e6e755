package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/jarida/core/journal"
)

type entryRepository struct {
	db *entryTable
}

var _ journal.Repository = (*entryRepository)(nil) // interface compliance check

func NewEntryRepository(db *DB) journal.Repository {
	return &entryRepository{db: db.entry}
}

func (repo *entryRepository) CreateEntry(ctx context.Context, e journal.Entry) (journal.Entry, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	e.ID = uuid.NewString()
	repo.db.table[e.ID] = &e
	return e, nil
}

func (repo *entryRepository) GetEntryByID(ctx context.Context, id string) (journal.Entry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if e, ok := repo.db.table[id]; ok {
		return *e, nil
	}
	return journal.Entry{}, journal.ErrNotFound
}

func (repo *entryRepository) QueryEntriesByOwner(ctx context.Context, ownerID string) ([]journal.Entry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var entries []journal.Entry
	for _, e := range repo.db.table {
		if e.OwnerID == ownerID {
			entries = append(entries, *e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].CreatedAt.After(entries[j].CreatedAt) })
	return entries, nil
}

func (repo *entryRepository) DeleteEntriesByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
