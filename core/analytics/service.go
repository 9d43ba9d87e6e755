package analytics

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// historyWindow is the trailing span covered by History.
const historyWindow = 30 * 24 * time.Hour

type (
	ServiceInterface interface {
		RunAggregation(ctx context.Context) (Snapshot, error)
		Latest(ctx context.Context) (Snapshot, error)
		History(ctx context.Context) ([]Snapshot, error)
		DistrictView(ctx context.Context, districtID string) (LevelStats, error)
		SchoolView(ctx context.Context, schoolID string) (LevelStats, error)
		ClassView(ctx context.Context, classID string) (LevelStats, error)
		StudentView(ctx context.Context, studentID string) (LevelStats, error)
	}

	// Service exposes the read side of analytics plus the aggregation
	// trigger. All reads are served from persisted snapshots, never from
	// live journal data.
	Service struct {
		runner *Runner
		repo   SnapshotRepository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(runner *Runner, repo SnapshotRepository) *Service {
	return &Service{runner: runner, repo: repo}
}

func (svc *Service) RunAggregation(ctx context.Context) (Snapshot, error) {
	return svc.runner.Run(ctx)
}

func (svc *Service) Latest(ctx context.Context) (Snapshot, error) {
	return svc.repo.LatestSnapshot(ctx)
}

// History returns the snapshots of the trailing 30 days, oldest first.
func (svc *Service) History(ctx context.Context) ([]Snapshot, error) {
	since := time.Now().UTC().Add(-historyWindow)
	return svc.repo.QuerySnapshotsSince(ctx, since)
}

func (svc *Service) DistrictView(ctx context.Context, districtID string) (LevelStats, error) {
	return svc.levelView(ctx, districtID, func(snap Snapshot) map[string]*LevelStats {
		return snap.DistrictStats
	})
}

func (svc *Service) SchoolView(ctx context.Context, schoolID string) (LevelStats, error) {
	return svc.levelView(ctx, schoolID, func(snap Snapshot) map[string]*LevelStats {
		return snap.SchoolStats
	})
}

func (svc *Service) ClassView(ctx context.Context, classID string) (LevelStats, error) {
	return svc.levelView(ctx, classID, func(snap Snapshot) map[string]*LevelStats {
		return snap.ClassStats
	})
}

func (svc *Service) StudentView(ctx context.Context, studentID string) (LevelStats, error) {
	return svc.levelView(ctx, studentID, func(snap Snapshot) map[string]*LevelStats {
		return snap.StudentStats
	})
}

// levelView reads one entity's stats out of the latest snapshot. An entity
// unknown to the latest snapshot reads as ErrNoSnapshot: from the caller's
// point of view there simply is no analytics for it yet.
func (svc *Service) levelView(
	ctx context.Context,
	id string,
	level func(Snapshot) map[string]*LevelStats,
) (LevelStats, error) {
	snap, err := svc.repo.LatestSnapshot(ctx)
	if err != nil {
		return LevelStats{}, err
	}
	ls, ok := level(snap)[id]
	if !ok {
		return LevelStats{}, errors.Wrapf(ErrNoSnapshot, "no stats for %q", id)
	}
	return *ls, nil
}
