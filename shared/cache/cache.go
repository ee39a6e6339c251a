package cache

//go:generate go run go.uber.org/mock/mockgen -source=./cache.go -destination=./mocks/cache_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"realty/infras/metrics"
	"realty/infras/otel"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	otelScopeName         = "cache"
	otelCacheKeyAttribute = "cache.key"
	scanPageSize          = 200
	Nil                   = redis.Nil
)

type RedisCache interface {
	Save(ctx context.Context, key string, value any, duration int) (err error)
	Get(ctx context.Context, key string, value any) (err error)
	Pop(ctx context.Context, key string, value any) (err error)
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context, pattern string) error
	Increment(ctx context.Context, key string, window int) (count int64, ttl time.Duration, err error)
}

type redisCache struct {
	client *redis.Client
	otel   otel.Otel
}

func NewRedisCache(client *redis.Client, ot otel.Otel) RedisCache {
	return &redisCache{
		client: client,
		otel:   ot,
	}
}

// Clear deletes every key matching pattern, one scan page at a time.
func (cache *redisCache) Clear(ctx context.Context, pattern string) (err error) {
	ctx, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".Clear")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(otelCacheKeyAttribute, pattern)

	var (
		cursor  uint64
		removed int64
	)

	for {
		var keys []string

		keys, cursor, err = cache.client.Scan(ctx, cursor, pattern, scanPageSize).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cache keys: %w", err)
		}

		if len(keys) > 0 {
			n, err := cache.client.Unlink(ctx, keys...).Result()
			if err != nil {
				log.Error().Err(err).Str("pattern", pattern).Msg("failed to unlink cache keys")

				return fmt.Errorf("failed to delete cache values: %w", err)
			}

			removed += n
		}

		if cursor == 0 {
			break
		}
	}

	metrics.CacheEvents.WithLabelValues(metrics.CacheDel).Add(float64(removed))

	scope.SetAttribute("cache.removed", removed)

	return nil
}

// Delete implements RedisCache.
func (cache *redisCache) Delete(ctx context.Context, key string) (err error) {
	ctx, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(otelCacheKeyAttribute, key)

	if err = cache.client.Del(ctx, key).Err(); err != nil {
		log.Error().Str("key", key).Err(err).Str("RedisCache", "Delete").Msg("failed to del cache")

		return fmt.Errorf("failed to delete cache value: %w", err)
	}

	metrics.ObserveCache(metrics.CacheDel)

	return nil
}

// Get implements RedisCache. A miss is reported as an error wrapping Nil.
func (cache *redisCache) Get(ctx context.Context, key string, value any) (err error) {
	ctx, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".Get")
	defer scope.End()

	scope.SetAttribute(otelCacheKeyAttribute, key)

	cacheValue, err := cache.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, Nil) {
			metrics.ObserveCache(metrics.CacheMiss)
		} else {
			scope.TraceError(err)
		}

		return fmt.Errorf("failed to get cache value: %w", err)
	}

	metrics.ObserveCache(metrics.CacheHit)

	return decode(cacheValue, value)
}

// Pop reads key and removes it atomically, used for one-shot values.
func (cache *redisCache) Pop(ctx context.Context, key string, value any) (err error) {
	ctx, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".Pop")
	defer scope.End()

	scope.SetAttribute(otelCacheKeyAttribute, key)

	cacheValue, err := cache.client.GetDel(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, Nil) {
			scope.TraceError(err)
		}

		return fmt.Errorf("failed to pop cache value: %w", err)
	}

	metrics.ObserveCache(metrics.CacheDel)

	return decode(cacheValue, value)
}

// Save implements RedisCache.
func (cache *redisCache) Save(ctx context.Context, key string, value any, duration int) (err error) {
	ctx, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".Save")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(otelCacheKeyAttribute, key)

	var strValue []byte
	switch v := value.(type) {
	case string:
		strValue = []byte(v)
	case []byte:
		strValue = v
	default:
		strValue, err = json.Marshal(v)

		if err != nil {
			log.Error().Err(err).Str("key", key).Str("RedisCache", "Save").Msg("failed to marshal cache")

			return fmt.Errorf("failed to marshal cache value: %w", err)
		}
	}

	err = cache.client.Set(ctx, key, strValue, time.Second*time.Duration(duration)).Err()
	if err != nil {
		log.Error().Err(err).Str("key", key).Str("RedisCache", "Save").Msg("failed to set cache")

		return fmt.Errorf("failed to set cache value: %w", err)
	}

	metrics.ObserveCache(metrics.CacheSet)
	log.Debug().Str("RedisCache", "Save").Str("key", key).Msg("success to set cache")

	return nil
}

// Increment bumps a fixed window counter. The window starts with the first
// hit and ttl reports what is left of it.
func (cache *redisCache) Increment(ctx context.Context, key string, window int) (count int64, ttl time.Duration, err error) {
	ctx, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".Increment")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(otelCacheKeyAttribute, key)

	count, err = cache.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to increment counter: %w", err)
	}

	if count == 1 {
		if err = cache.client.Expire(ctx, key, time.Second*time.Duration(window)).Err(); err != nil {
			return count, 0, fmt.Errorf("failed to set counter window: %w", err)
		}

		return count, time.Second * time.Duration(window), nil
	}

	ttl, err = cache.client.TTL(ctx, key).Result()
	if err != nil {
		return count, 0, fmt.Errorf("failed to read counter window: %w", err)
	}

	// a counter left without expiry would block the caller forever
	if ttl < 0 {
		ttl = time.Second * time.Duration(window)
		if err = cache.client.Expire(ctx, key, ttl).Err(); err != nil {
			return count, 0, fmt.Errorf("failed to set counter window: %w", err)
		}
	}

	return count, ttl, nil
}

func decode(raw string, value any) error {
	if v, ok := value.(*string); ok {
		*v = raw

		return nil
	}

	if err := json.Unmarshal([]byte(raw), value); err != nil {
		log.Error().Err(err).Str("RedisCache", "Get").Msg("failed to unmarshal cache")

		return fmt.Errorf("failed to unmarshal cache value: %w", err)
	}

	return nil
}
