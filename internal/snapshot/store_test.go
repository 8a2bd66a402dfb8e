package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blmfeed/internal/property"
)

func newStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return &Store{Client: client, TTL: ttl}, mr
}

func TestChangedLifecycle(t *testing.T) {
	ctx := context.Background()
	s, mr := newStore(t, time.Hour)

	rec := property.New(map[string]string{"agentRef": "A1", "statusId": "0"})

	changed, err := s.Changed(ctx, rec)
	require.NoError(t, err)
	assert.True(t, changed, "first sighting counts as changed")

	require.NoError(t, s.Remember(ctx, rec))
	got, err := mr.Get("blm:hash:A1")
	require.NoError(t, err)
	assert.Equal(t, rec.Hash(), got)
	assert.Equal(t, time.Hour, mr.TTL("blm:hash:A1"))

	changed, err = s.Changed(ctx, property.New(map[string]string{"agentRef": "A1", "statusId": "0"}))
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = s.Changed(ctx, property.New(map[string]string{"agentRef": "A1", "statusId": "1"}))
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestRememberExpires(t *testing.T) {
	ctx := context.Background()
	s, mr := newStore(t, time.Minute)

	rec := property.New(map[string]string{"agentRef": "A1"})
	require.NoError(t, s.Remember(ctx, rec))

	mr.FastForward(time.Minute)
	assert.False(t, mr.Exists("blm:hash:A1"))

	changed, err := s.Changed(ctx, rec)
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestForget(t *testing.T) {
	ctx := context.Background()
	s, mr := newStore(t, time.Hour)

	rec := property.New(map[string]string{"agentRef": "A1"})
	require.NoError(t, s.Remember(ctx, rec))
	require.NoError(t, s.Forget(ctx, "A1"))
	assert.False(t, mr.Exists("blm:hash:A1"))

	changed, err := s.Changed(ctx, rec)
	require.NoError(t, err)
	assert.True(t, changed)

	assert.NoError(t, s.Forget(ctx, "NEVER_SEEN"))
}

func TestChangedWhenRedisUnavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	s := &Store{Client: client, TTL: time.Minute}
	changed, err := s.Changed(context.Background(), property.New(map[string]string{"agentRef": "A1"}))
	assert.Error(t, err)
	assert.True(t, changed)
}
