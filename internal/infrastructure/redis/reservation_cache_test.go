package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyFor(t *testing.T) {
	assert.Equal(t, "fabrica:reservations:snapshot", keyFor("fabrica"))
	assert.Equal(t, "reservations:snapshot", keyFor(""))
}

func TestConnect_InvalidURL(t *testing.T) {
	_, err := Connect(context.Background(), "not-a-url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse redis url")
}

func TestReservationCache_UnreachableServerIsAnError(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	cache := NewReservationCache(client, "test", time.Minute)

	ctx := context.Background()
	snap, ok, err := cache.Get(ctx)
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Nil(t, snap)
	assert.Error(t, cache.Invalidate(ctx))
}
