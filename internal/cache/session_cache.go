// Package cache keeps assessment session records in Redis so several API
// processes can share in-flight sessions.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abhisek/vitals/internal/store"
)

const (
	keyPrefix = "vitals:session:"
	activeKey = "vitals:sessions:active"

	// DefaultTTL bounds how long an untouched session survives.
	DefaultTTL = 30 * 24 * time.Hour
)

// SessionCache is a store.SessionRepo backed by Redis. Records live under
// one key per session; in-progress IDs are indexed in a sorted set scored
// by last update.
type SessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ store.SessionRepo = (*SessionCache)(nil)

// NewSessionCache wraps client. A non-positive ttl selects DefaultTTL.
func NewSessionCache(client *redis.Client, ttl time.Duration) *SessionCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SessionCache{client: client, ttl: ttl}
}

// Connect parses a redis:// URL, pings the server and returns a cache.
func Connect(ctx context.Context, url string) (*SessionCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewSessionCache(client, 0), nil
}

// Close closes the underlying client.
func (c *SessionCache) Close() error {
	return c.client.Close()
}

func (c *SessionCache) Save(ctx context.Context, rec store.SessionRecord) error {
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", rec.SessionID, err)
	}

	_, err = c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, keyPrefix+rec.SessionID, data, c.ttl)
		if rec.Complete {
			p.ZRem(ctx, activeKey, rec.SessionID)
		} else {
			p.ZAdd(ctx, activeKey, redis.Z{Score: float64(now.UnixNano()), Member: rec.SessionID})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session %s: %w", rec.SessionID, err)
	}
	return nil
}

func (c *SessionCache) Load(ctx context.Context, id string) (store.SessionRecord, error) {
	data, err := c.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return store.SessionRecord{}, store.ErrSessionNotFound
	}
	if err != nil {
		return store.SessionRecord{}, fmt.Errorf("load session %s: %w", id, err)
	}

	var rec store.SessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return store.SessionRecord{}, fmt.Errorf("decode session %s: %w", id, err)
	}
	return rec, nil
}

func (c *SessionCache) Delete(ctx context.Context, id string) error {
	_, err := c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, keyPrefix+id)
		p.ZRem(ctx, activeKey, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

func (c *SessionCache) LatestInProgress(ctx context.Context) (store.SessionRecord, error) {
	for {
		ids, err := c.client.ZRevRange(ctx, activeKey, 0, 0).Result()
		if err != nil {
			return store.SessionRecord{}, fmt.Errorf("latest session: %w", err)
		}
		if len(ids) == 0 {
			return store.SessionRecord{}, store.ErrSessionNotFound
		}

		rec, err := c.Load(ctx, ids[0])
		if errors.Is(err, store.ErrSessionNotFound) {
			// Record expired; drop the stale index entry and look again.
			if err := c.client.ZRem(ctx, activeKey, ids[0]).Err(); err != nil {
				return store.SessionRecord{}, fmt.Errorf("prune stale session: %w", err)
			}
			continue
		}
		return rec, err
	}
}

func (c *SessionCache) DeleteInProgress(ctx context.Context) (int, error) {
	ids, err := c.client.ZRange(ctx, activeKey, 0, -1).Result()
	if err != nil {
		return 0, fmt.Errorf("list active sessions: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = keyPrefix + id
	}

	var deleted *redis.IntCmd
	_, err = c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		deleted = p.Del(ctx, keys...)
		p.Del(ctx, activeKey)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete active sessions: %w", err)
	}
	return int(deleted.Val()), nil
}
