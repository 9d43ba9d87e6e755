// Package rediscache decorates repositories with Redis-backed caching.
package rediscache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/trezcool/jarida/core"
	"github.com/trezcool/jarida/core/analytics"
)

const latestSnapshotKey = "analytics:snapshot:latest"

// snapshotRepository caches the latest snapshot document in Redis. Reads of
// the latest snapshot are the hot path (every dashboard hit); history and
// writes always go to the backing repository, with writes refreshing the
// cached value since a new snapshot is by construction the latest one.
type snapshotRepository struct {
	repo   analytics.SnapshotRepository
	client *redis.Client
	ttl    time.Duration
	logger core.Logger
}

var _ analytics.SnapshotRepository = (*snapshotRepository)(nil) // interface compliance check

func NewSnapshotRepository(
	repo analytics.SnapshotRepository,
	client *redis.Client,
	ttl time.Duration,
	logger core.Logger,
) analytics.SnapshotRepository {
	return &snapshotRepository{repo: repo, client: client, ttl: ttl, logger: logger}
}

func (c *snapshotRepository) CreateSnapshot(ctx context.Context, snap analytics.Snapshot) error {
	if err := c.repo.CreateSnapshot(ctx, snap); err != nil {
		return err
	}
	c.set(ctx, snap)
	return nil
}

func (c *snapshotRepository) LatestSnapshot(ctx context.Context) (analytics.Snapshot, error) {
	data, err := c.client.Get(ctx, latestSnapshotKey).Bytes()
	if err == nil {
		var snap analytics.Snapshot
		if err = json.Unmarshal(data, &snap); err == nil {
			return snap, nil
		}
		c.logger.Warn("rediscache: dropping corrupt cached snapshot", "error", err)
		c.client.Del(ctx, latestSnapshotKey)
	} else if err != redis.Nil {
		c.logger.Warn("rediscache: cache read failed", "error", err)
	}

	snap, err := c.repo.LatestSnapshot(ctx)
	if err != nil {
		return analytics.Snapshot{}, err
	}
	c.set(ctx, snap)
	return snap, nil
}

func (c *snapshotRepository) QuerySnapshotsSince(ctx context.Context, since time.Time) ([]analytics.Snapshot, error) {
	return c.repo.QuerySnapshotsSince(ctx, since)
}

// set caches best-effort: a cache failure never fails the caller.
func (c *snapshotRepository) set(ctx context.Context, snap analytics.Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		c.logger.Warn("rediscache: encoding snapshot", "error", errors.WithStack(err))
		return
	}
	if err = c.client.Set(ctx, latestSnapshotKey, data, c.ttl).Err(); err != nil {
		c.logger.Warn("rediscache: cache write failed", "error", err)
	}
}
