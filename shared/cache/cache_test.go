package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realty/infras/otel/mocks"
	"realty/shared/cache"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newCache(t *testing.T) (cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewRedisCache(client, mocks.NewOtel()), srv
}

func TestRedisCache_SaveAndGet(t *testing.T) {
	c, srv := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, "blog:get:1", payload{Name: "a", Count: 2}, 60))

	var got payload
	require.NoError(t, c.Get(ctx, "blog:get:1", &got))
	assert.Equal(t, payload{Name: "a", Count: 2}, got)

	srv.FastForward(61 * time.Second)

	err := c.Get(ctx, "blog:get:1", &got)
	assert.True(t, errors.Is(err, cache.Nil))
}

func TestRedisCache_StringValues(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, "state:abc", "xyz", 60))

	var got string
	require.NoError(t, c.Get(ctx, "state:abc", &got))
	assert.Equal(t, "xyz", got)
}

func TestRedisCache_Pop(t *testing.T) {
	c, srv := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, "state:once", "v", 60))

	var got string
	require.NoError(t, c.Pop(ctx, "state:once", &got))
	assert.Equal(t, "v", got)
	assert.False(t, srv.Exists("state:once"))

	err := c.Pop(ctx, "state:once", &got)
	assert.True(t, errors.Is(err, cache.Nil))
}

func TestRedisCache_ClearAndDelete(t *testing.T) {
	c, srv := newCache(t)
	ctx := context.Background()

	for _, key := range []string{"property:gets:1", "property:gets:2", "property:count:1"} {
		require.NoError(t, c.Save(ctx, key, 1, 60))
	}

	require.NoError(t, c.Clear(ctx, "property:gets*"))
	assert.False(t, srv.Exists("property:gets:1"))
	assert.False(t, srv.Exists("property:gets:2"))
	assert.True(t, srv.Exists("property:count:1"))

	require.NoError(t, c.Delete(ctx, "property:count:1"))
	assert.False(t, srv.Exists("property:count:1"))
}

func TestRedisCache_Increment(t *testing.T) {
	c, srv := newCache(t)
	ctx := context.Background()

	count, ttl, err := c.Increment(ctx, "limiter:1.2.3.4", 60)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, 60*time.Second, ttl)

	srv.FastForward(20 * time.Second)

	count, ttl, err = c.Increment(ctx, "limiter:1.2.3.4", 60)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, 40*time.Second, ttl)

	srv.FastForward(41 * time.Second)

	count, _, err = c.Increment(ctx, "limiter:1.2.3.4", 60)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "window restarts after expiry")
}
