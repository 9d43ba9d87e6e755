package analytics

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/jarida/core"
)

// Runner drives one full aggregation pass: collect, fold, window, growth,
// active resolution, write. A run is all-or-nothing: any I/O failure aborts
// it without writing a snapshot, and the caller decides whether to re-run.
// Runs are not mutually exclusive; serializing them is the scheduler's job.
type Runner struct {
	directory Directory
	store     EntryStore
	snapshots SnapshotRepository
	logger    core.Logger

	concurrency int
	nowFunc     func() time.Time // mockable
}

func NewRunner(
	directory Directory,
	store EntryStore,
	snapshots SnapshotRepository,
	logger core.Logger,
	concurrency int,
) *Runner {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Runner{
		directory:   directory,
		store:       store,
		snapshots:   snapshots,
		logger:      logger,
		concurrency: concurrency,
		nowFunc:     time.Now,
	}
}

// Run executes one aggregation pass and returns the written snapshot.
// The run instant (and with it the snapshot id and recency windows) is
// fixed once, before any I/O starts.
func (r *Runner) Run(ctx context.Context) (Snapshot, error) {
	now := r.nowFunc().UTC()
	r.logger.Info("analytics: starting aggregation run", "snapshot", SnapshotID(now))

	coll := &collector{directory: r.directory, store: r.store, concurrency: r.concurrency}
	students, err := coll.collect(ctx)
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "collecting entries")
	}

	acc := newAccumulator(now)
	for _, se := range students {
		for _, entry := range se.entries {
			acc.add(se.identity, entry)
		}
	}
	snap := acc.finalize()

	prev, err := r.snapshots.LatestSnapshot(ctx)
	switch {
	case err == nil:
		applyGrowth(snap, prev)
	case errors.Cause(err) == ErrNoSnapshot:
		// first run ever; no trend to compute
	default:
		return Snapshot{}, errors.Wrap(err, "fetching previous snapshot")
	}

	resolveActive(snap)

	if err := r.snapshots.CreateSnapshot(ctx, *snap); err != nil {
		return Snapshot{}, errors.Wrap(err, "writing snapshot")
	}
	r.logger.Info("analytics: aggregation run done",
		"snapshot", snap.ID, "entries", snap.TotalEntries, "words", snap.TotalWords)
	return *snap, nil
}
