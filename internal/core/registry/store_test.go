package registry

import (
	"context"
	"testing"
	"time"

	"github.com/agenthands/autoflow/internal/core/model"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStoreRoundTrip(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := NewRedisStore(client, "autoflow:test", 30*time.Minute)
	ctx := context.Background()

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap)

	fetched := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	want := &Snapshot{
		Entries:   []model.Capability{{Name: "n8n-nodes-base.slack", DisplayName: "Slack", Category: model.CategoryAction, IsBuiltIn: true}},
		FetchedAt: fetched,
	}
	require.NoError(t, store.Save(ctx, want))
	assert.Equal(t, 30*time.Minute, mr.TTL("autoflow:test"))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.Entries, got.Entries)
	assert.True(t, fetched.Equal(got.FetchedAt))
}

func TestRedisStoreCorruptValue(t *testing.T) {
	mr, client := setupTestRedis(t)
	require.NoError(t, mr.Set("autoflow:test", "not json"))

	_, err := NewRedisStore(client, "autoflow:test", time.Minute).Load(context.Background())
	assert.Error(t, err)
}

func TestRegistrySharesSnapshotThroughRedis(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()

	first := &MockFetcher{Types: instanceTypes}
	second := &MockFetcher{Types: instanceTypes}
	a := New(first, WithStore(NewRedisStore(client, "shared", time.Hour)))
	b := New(second, WithStore(NewRedisStore(client, "shared", time.Hour)))

	assert.Len(t, a.List(ctx), len(instanceTypes))
	assert.Len(t, b.List(ctx), len(instanceTypes))
	assert.Equal(t, 1, first.Calls())
	assert.Equal(t, 0, second.Calls())
}

func TestRedisUnavailableStillServes(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	f := &MockFetcher{Types: instanceTypes}
	r := New(f, WithStore(NewRedisStore(client, "k", time.Minute)))
	assert.Len(t, r.List(context.Background()), len(instanceTypes))
}
