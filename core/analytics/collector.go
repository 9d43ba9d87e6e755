package analytics

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/trezcool/jarida/core/journal"
	"github.com/trezcool/jarida/core/user"
)

// studentEntries pairs one student's identity with all their journal entries.
type studentEntries struct {
	identity Identity
	entries  []journal.Entry
}

// collector fans out entry fetches across students with bounded concurrency.
type collector struct {
	directory   Directory
	store       EntryStore
	concurrency int
}

// collect lists the directory, keeps only active student accounts, and
// fetches every student's entries. Results come back in directory order
// regardless of fetch completion order, so downstream folds are stable.
// Any single failure aborts the whole pass.
func (c *collector) collect(ctx context.Context) ([]studentEntries, error) {
	users, err := c.directory.QueryAllUsers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing user directory")
	}

	students := make([]user.User, 0, len(users))
	for _, usr := range users {
		if usr.IsStudent() && usr.Active() {
			students = append(students, usr)
		}
	}

	results := make([]studentEntries, len(students))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, student := range students {
		i, student := i, student
		g.Go(func() error {
			entries, err := c.store.QueryEntriesByOwner(ctx, student.ID)
			if err != nil {
				return errors.Wrapf(err, "fetching entries for student %s", student.ID)
			}
			results[i] = studentEntries{identity: IdentityOf(student), entries: entries}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
