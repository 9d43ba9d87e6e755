package journal

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("entry not found")

type (
	Repository interface {
		CreateEntry(ctx context.Context, e Entry) (Entry, error)
		GetEntryByID(ctx context.Context, id string) (Entry, error)
		// QueryEntriesByOwner returns the owner's entries ordered by CreatedAt desc.
		QueryEntriesByOwner(ctx context.Context, ownerID string) ([]Entry, error)
		DeleteEntriesByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, ownerID string, ne NewEntry) (Entry, error) {
	return svc.repo.CreateEntry(ctx, Entry{
		OwnerID:   ownerID,
		Title:     ne.Title,
		Emotion:   ne.Emotion,
		Content:   ne.Content,
		CreatedAt: time.Now().UTC(),
	})
}

func (svc *Service) GetByID(ctx context.Context, id string) (Entry, error) {
	return svc.repo.GetEntryByID(ctx, id)
}

func (svc *Service) QueryByOwner(ctx context.Context, ownerID string) ([]Entry, error) {
	return svc.repo.QueryEntriesByOwner(ctx, ownerID)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteEntriesByID(ctx, ids...)
}
