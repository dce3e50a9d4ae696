package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	a, err := NewID()
	require.NoError(t, err)
	b, _ := NewID()
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b, "ids should differ")
}

func TestSession_Expiry(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	s, err := New("tok", "jdoe", 1, now, time.Hour)
	require.NoError(t, err)

	assert.False(t, s.Expired(now), "fresh session reported expired")
	assert.Equal(t, 45*time.Minute, s.TTL(now.Add(15*time.Minute)))
	assert.True(t, s.Expired(now.Add(time.Hour)), "session should expire at ExpiresAt")
	assert.Zero(t, s.TTL(now.Add(2*time.Hour)))
}

// storeContract exercises the behaviour every Store must share.
func storeContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	s, err := New("tok", "jdoe", 42, time.Now(), time.Hour)
	require.NoError(t, err)

	_, err = store.Get(ctx, s.ID)
	require.ErrorIs(t, err, ErrNotFound, "Get before Put")
	require.NoError(t, store.Put(ctx, s))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "tok", got.Token)
	assert.Equal(t, "jdoe", got.Login)
	assert.Equal(t, int64(42), got.UserID)

	require.NoError(t, store.Delete(ctx, s.ID))
	_, err = store.Get(ctx, s.ID)
	require.ErrorIs(t, err, ErrNotFound, "Get after Delete")

	expired := s
	expired.ExpiresAt = time.Now().Add(-time.Second)
	require.NoError(t, store.Put(ctx, expired))
	_, err = store.Get(ctx, expired.ID)
	assert.ErrorIs(t, err, ErrNotFound, "expired session readable")
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore(10, time.Hour))
}

func TestMemoryStore_ExpiresByClock(t *testing.T) {
	store := NewMemoryStore(10, time.Hour)
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	s, _ := New("tok", "jdoe", 1, now, time.Minute)
	_ = store.Put(context.Background(), s)

	now = now.Add(2 * time.Minute)
	_, err := store.Get(context.Background(), s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	store, err := NewRedisStore(context.Background(), url)
	require.NoError(t, err)
	defer store.Close()

	storeContract(t, store)
}

func TestNewRedisStore_BadURL(t *testing.T) {
	_, err := NewRedisStore(context.Background(), "not a url")
	assert.Error(t, err)
}
