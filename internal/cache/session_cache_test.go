package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/vitals/internal/store"
)

// newTestCache connects to VITALS_TEST_REDIS_URL and flushes the selected
// database. Tests are skipped when the variable is unset.
func newTestCache(t *testing.T) *SessionCache {
	t.Helper()
	url := os.Getenv("VITALS_TEST_REDIS_URL")
	if url == "" {
		t.Skip("VITALS_TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	c, err := Connect(ctx, url)
	require.NoError(t, err)
	require.NoError(t, c.client.FlushDB(ctx).Err())
	t.Cleanup(func() { c.Close() })
	return c
}

func TestConnect_BadURL(t *testing.T) {
	_, err := Connect(context.Background(), "not a url")
	assert.Error(t, err)
}

func TestNewSessionCache_DefaultTTL(t *testing.T) {
	c := NewSessionCache(redis.NewClient(&redis.Options{Addr: "localhost:0"}), 0)
	defer c.Close()
	assert.Equal(t, DefaultTTL, c.ttl)
}

func TestSaveLoadDelete(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	_, err := c.Load(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)

	rec := store.SessionRecord{
		SessionID:      "s-1",
		CatalogVersion: "v1.0.0",
		Answers:        map[string]string{"tobacco": "never"},
		Cursor:         6,
		Reported:       true,
	}
	require.NoError(t, c.Save(ctx, rec))

	got, err := c.Load(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, 6, got.Cursor)
	assert.Equal(t, "never", got.Answers["tobacco"])
	assert.True(t, got.Reported)
	assert.False(t, got.CreatedAt.IsZero())

	ttl, err := c.client.TTL(ctx, keyPrefix+"s-1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, c.Delete(ctx, "s-1"))
	_, err = c.Load(ctx, "s-1")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestLatestInProgress(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	_, err := c.LatestInProgress(ctx)
	assert.ErrorIs(t, err, store.ErrSessionNotFound)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, c.Save(ctx, store.SessionRecord{
			SessionID: id,
			Cursor:    i,
			Complete:  id == "c",
		}))
		time.Sleep(time.Millisecond)
	}

	got, err := c.LatestInProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", got.SessionID, "completed sessions are not in progress")

	// A record that vanished from under the index is skipped.
	require.NoError(t, c.client.Del(ctx, keyPrefix+"b").Err())
	got, err = c.LatestInProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", got.SessionID)
}

func TestDeleteInProgress(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, c.Save(ctx, store.SessionRecord{SessionID: fmt.Sprintf("open-%d", i)}))
	}
	require.NoError(t, c.Save(ctx, store.SessionRecord{SessionID: "done", Cursor: 10, Complete: true}))

	n, err := c.DeleteInProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = c.Load(ctx, "done")
	assert.NoError(t, err)
	_, err = c.LatestInProgress(ctx)
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}
