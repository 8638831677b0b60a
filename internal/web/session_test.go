package web

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customer-insights/internal/common/config"
	"customer-insights/internal/common/database"
	"customer-insights/internal/view"
)

func sampleState() PageState {
	pv := NewPageView(PageState{CustomerInput: "42"})
	pv.ShowScalarResult(view.RegionSegment, "Loyal")
	pv.ShowListResult(view.RegionRecommend, []view.Entry{{Text: "B", Score: "0.90"}})
	pv.ShowError("Failed to fetch recommendations")
	return pv.State()
}

// ==========================
// Memory Store
// ==========================

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()
	want := sampleState()

	require.NoError(t, store.Save(ctx, "s1", want))

	got, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestMemoryStore_UnknownSessionIsEmpty(t *testing.T) {
	got, err := NewMemoryStore(time.Hour).Load(context.Background(), "missing")

	require.NoError(t, err)
	assert.Equal(t, PageState{}, got)
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", sampleState()))

	now = now.Add(2 * time.Minute)
	got, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, PageState{}, got)
}

func TestMemoryStore_SaveSweepsExpired(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "old", sampleState()))
	now = now.Add(2 * time.Minute)
	require.NoError(t, store.Save(ctx, "new", sampleState()))

	assert.Len(t, store.entries, 1)
	assert.Contains(t, store.entries, "new")
}

// ==========================
// Redis Store
// ==========================

func setupRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, ttl), mr
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store, mr := setupRedisStore(t, time.Hour)
	ctx := context.Background()
	want := sampleState()

	require.NoError(t, store.Save(ctx, "s1", want))

	got, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.True(t, mr.Exists("insights:session:s1"))
	assert.Equal(t, time.Hour, mr.TTL("insights:session:s1"))
}

func TestRedisStore_Expiry(t *testing.T) {
	store, mr := setupRedisStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", sampleState()))
	mr.FastForward(2 * time.Minute)

	got, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, PageState{}, got)
}

func TestRedisStore_CorruptState(t *testing.T) {
	store, mr := setupRedisStore(t, time.Minute)
	require.NoError(t, mr.Set("insights:session:bad", "{not json"))

	_, err := store.Load(context.Background(), "bad")

	assert.Error(t, err)
}

func TestRedisStore_Unavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client, err := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	store := NewRedisStore(client, time.Minute)
	mr.Close()

	_, err = store.Load(context.Background(), "s1")
	assert.Error(t, err)
	assert.Error(t, store.Save(context.Background(), "s1", PageState{}))
}
