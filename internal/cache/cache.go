package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when the key is not cached.
var ErrMiss = cache.ErrCacheMiss

// Cache memoizes reconciliation results.
type Cache interface {
	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Get decodes the value stored under key into data. Returns ErrMiss when absent.
	Get(ctx context.Context, key string, data interface{}) error

	Delete(ctx context.Context, key string) error
}

// localSize is the number of entries held by the in-process TinyLFU cache.
const localSize = 1024

type RedisCache struct {
	cache  *cache.Cache
	client *redis.Client
}

// NewCache returns a two-level cache: an in-process TinyLFU in front of Redis.
// With an empty address only the in-process level is used.
func NewCache(ctx context.Context, addr string, localTTL time.Duration) (*RedisCache, error) {
	if localTTL <= 0 {
		localTTL = time.Minute
	}
	opts := &cache.Options{
		LocalCache: cache.NewTinyLFU(localSize, localTTL),
	}

	var client *redis.Client
	if addr != "" {
		redisOpts, err := parseRedisAddr(addr)
		if err != nil {
			return nil, err
		}
		client = redis.NewClient(redisOpts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		opts.Redis = client
	}

	return &RedisCache{cache: cache.New(opts), client: client}, nil
}

// NewWithClient builds the cache over an existing Redis client.
func NewWithClient(client *redis.Client, localTTL time.Duration) *RedisCache {
	if localTTL <= 0 {
		localTTL = time.Minute
	}
	return &RedisCache{
		cache: cache.New(&cache.Options{
			Redis:      client,
			LocalCache: cache.NewTinyLFU(localSize, localTTL),
		}),
		client: client,
	}
}

// parseRedisAddr accepts either host:port or a redis:// URL.
func parseRedisAddr(addr string) (*redis.Options, error) {
	if !strings.Contains(addr, "://") {
		return &redis.Options{Addr: addr}, nil
	}
	opts, err := redis.ParseURL(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid redis address: %w", err)
	}
	return opts, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, data interface{}, ttl time.Duration) error {
	return r.cache.Set(&cache.Item{
		Ctx:   ctx,
		Key:   key,
		Value: data,
		TTL:   ttl,
	})
}

func (r *RedisCache) Get(ctx context.Context, key string, data interface{}) error {
	err := r.cache.Get(ctx, key, data)
	if errors.Is(err, cache.ErrCacheMiss) {
		return ErrMiss
	}
	return err
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	err := r.cache.Delete(ctx, key)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil
	}
	return err
}

// Close releases the Redis connection, if any.
func (r *RedisCache) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
