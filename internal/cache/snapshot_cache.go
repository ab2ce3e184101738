package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"assessflow/internal/model"
)

// SnapshotCache keeps the derived analysis snapshot per session so analytics
// consumers don't recompute it on every read. The entry is invalidated on
// each new answer; the short TTL only covers sessions that go quiet.
type SnapshotCache interface {
	Set(ctx context.Context, sessionID string, snap *model.AnalysisSnapshot) error
	Get(ctx context.Context, sessionID string) (*model.AnalysisSnapshot, error)
	Delete(ctx context.Context, sessionID string) error
}

type snapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSnapshotCache(client *redis.Client) SnapshotCache {
	return &snapshotCache{
		client: client,
		ttl:    5 * time.Minute,
	}
}

func (c *snapshotCache) key(sessionID string) string {
	return fmt.Sprintf("session:%s:snapshot", sessionID)
}

func (c *snapshotCache) Set(ctx context.Context, sessionID string, snap *model.AnalysisSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(sessionID), data, c.ttl).Err()
}

// Get returns (nil, nil) on a cache miss
func (c *snapshotCache) Get(ctx context.Context, sessionID string) (*model.AnalysisSnapshot, error) {
	data, err := c.client.Get(ctx, c.key(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap model.AnalysisSnapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *snapshotCache) Delete(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, c.key(sessionID)).Err()
}
