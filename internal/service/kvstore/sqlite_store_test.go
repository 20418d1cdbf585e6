package kvstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestStore(t *testing.T) (*SQLiteStore, *time.Time) {
	t.Helper()

	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	return store, &now
}

func TestSQLiteStore_SetGet(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", payload{Name: "a", Count: 1}, 0))
	require.NoError(t, store.Set(ctx, "k", payload{Name: "b", Count: 2}, 0))

	var got payload
	require.NoError(t, store.Get(ctx, "k", &got))
	assert.Equal(t, payload{Name: "b", Count: 2}, got)

	exists, err := store.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSQLiteStore_Missing(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	var got payload
	err := store.Get(ctx, "nope", &got)
	assert.True(t, errors.Is(err, ErrNotFound))

	exists, err := store.Exists(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSQLiteStore_TTL(t *testing.T) {
	store, now := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "elapsed", 42, 10*time.Second))

	var got int
	require.NoError(t, store.Get(ctx, "elapsed", &got))
	assert.Equal(t, 42, got)

	*now = now.Add(11 * time.Second)
	assert.ErrorIs(t, store.Get(ctx, "elapsed", &got), ErrNotFound)
}

func TestSQLiteStore_Delete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v", 0))
	require.NoError(t, store.Delete(ctx, "k"))

	exists, err := store.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSQLiteStore_CheckRateLimit(t *testing.T) {
	store, now := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := store.CheckRateLimit(ctx, "ai_rate:u1", 3, time.Hour)
		require.NoError(t, err)
		assert.True(t, ok, "call %d", i+1)
	}

	ok, err := store.CheckRateLimit(ctx, "ai_rate:u1", 3, time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.CheckRateLimit(ctx, "ai_rate:u2", 3, time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	*now = now.Add(2 * time.Hour)
	ok, err = store.CheckRateLimit(ctx, "ai_rate:u1", 3, time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSQLiteStore_Health(t *testing.T) {
	store, _ := newTestStore(t)
	assert.NoError(t, store.Health(context.Background()))
}
