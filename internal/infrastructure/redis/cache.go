// Package redis provides the search result cache backed by Redis.  Cached
// values are JSON-serialized; concurrent loads of the same key are collapsed
// with singleflight so one expensive substructure search serves every waiter.
package redis

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/heliumchem/helium/internal/config"
	"github.com/heliumchem/helium/internal/observability/logging"
	"github.com/heliumchem/helium/pkg/errors"
)

// ErrCacheMiss marks a key that is not present.  Callers fall through to the
// underlying computation; a miss is never a failure.
var ErrCacheMiss = errors.New(errors.CodeNotFound, "cache miss")

// keyPrefix namespaces helium's keys on shared Redis deployments.
const keyPrefix = "helium:"

// Cache is a JSON document cache with single-flight loading.
type Cache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger logging.Logger
	group  singleflight.Group
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, cfg config.RedisConfig, logger logging.Logger) (*Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrap(err, errors.CodeCache, "redis connection failed")
	}

	logger.Info("connected to Redis", logging.String("addr", cfg.Addr))
	return &Cache{rdb: rdb, ttl: cfg.TTL, logger: logger}, nil
}

// NewWithClient wraps an existing client.  Tests use this with miniredis.
func NewWithClient(rdb *redis.Client, ttl time.Duration, logger logging.Logger) *Cache {
	return &Cache{rdb: rdb, ttl: ttl, logger: logger}
}

// Get unmarshals the cached document at key into dest.  Returns ErrCacheMiss
// when absent.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.rdb.Get(ctx, keyPrefix+key).Bytes()
	if goerrors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return errors.Wrap(err, errors.CodeCache, "cache get")
	}
	if err := json.Unmarshal(data, dest); err != nil {
		// A corrupt entry behaves like a miss so callers recompute it.
		c.logger.Warn("dropping corrupt cache entry", logging.String("key", key), logging.Err(err))
		_ = c.rdb.Del(ctx, keyPrefix+key).Err()
		return ErrCacheMiss
	}
	return nil
}

// Set stores value at key under the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, errors.CodeCache, "cache serialize")
	}
	if err := c.rdb.Set(ctx, keyPrefix+key, data, c.ttl).Err(); err != nil {
		return errors.Wrap(err, errors.CodeCache, "cache set")
	}
	return nil
}

// Delete removes keys.  Missing keys are not an error.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = keyPrefix + k
	}
	if err := c.rdb.Del(ctx, prefixed...).Err(); err != nil {
		return errors.Wrap(err, errors.CodeCache, "cache delete")
	}
	return nil
}

// GetOrLoad returns the cached document at key, or runs loader and caches
// its result.  Concurrent callers for the same key share one loader run.
// The loaded value is marshaled into dest via JSON round trip so dest sees
// the same shape a later Get would.
func (c *Cache) GetOrLoad(ctx context.Context, key string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	if err := c.Get(ctx, key, dest); err == nil {
		return nil
	} else if !goerrors.Is(err, ErrCacheMiss) {
		return err
	}

	data, err, _ := c.group.Do(key, func() (interface{}, error) {
		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeCache, "cache serialize")
		}
		if err := c.rdb.Set(ctx, keyPrefix+key, raw, c.ttl).Err(); err != nil {
			// Failing to store is not fatal; the value is still served.
			c.logger.Warn("cache store failed", logging.String("key", key), logging.Err(err))
		}
		return raw, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(data.([]byte), dest)
}

// Ping verifies the connection for health checks.
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, errors.CodeCache, "redis health check failed")
	}
	return nil
}

// Close releases the client.
func (c *Cache) Close() error {
	return c.rdb.Close()
}
