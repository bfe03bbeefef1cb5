// Package cache is a JSON read-through cache on Redis.
//
// It never fails a read: when Redis is disabled, unreachable or holds a
// value that no longer decodes, the loader runs and the error is logged.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/deppfellow/consultas-api/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// scanBatch is the COUNT hint used while flushing.
const scanBatch = 100

// errFlushed aborts a store whose load started before the last Flush.
var errFlushed = errors.New("cache flushed during load")

// Cache stores JSON values under "<prefix>:<key>" with a fixed TTL.
type Cache struct {
	client  redis.UniversalClient
	prefix  string
	ttl     time.Duration
	enabled bool
	logger  *zerolog.Logger
}

// New builds a Cache. A nil client disables caching.
func New(client redis.UniversalClient, cfg *config.CacheConfig, logger *zerolog.Logger) *Cache {
	return &Cache{
		client:  client,
		prefix:  cfg.Prefix,
		ttl:     cfg.TTL,
		enabled: cfg.Enabled && client != nil,
		logger:  logger,
	}
}

// Enabled reports whether reads go through Redis.
func (c *Cache) Enabled() bool {
	return c != nil && c.enabled
}

// Key joins parts under the cache prefix: Key("pedidos_por_usuario", "2")
// is "consultas:pedidos_por_usuario:2".
func (c *Cache) Key(parts ...string) string {
	if c == nil {
		return strings.Join(parts, ":")
	}
	return c.prefix + ":" + strings.Join(parts, ":")
}

// Remember returns the value cached under key, or calls load and caches its result.
// Errors from load are returned as is and never cached.
func Remember[T any](ctx context.Context, c *Cache, key string, load func(context.Context) (T, error)) (T, error) {
	if !c.Enabled() {
		return load(ctx)
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached T
		decodeErr := json.Unmarshal(raw, &cached)
		if decodeErr == nil {
			c.logger.Debug().Str("key", key).Msg("cache hit")
			return cached, nil
		}
		c.logger.Warn().Err(decodeErr).Str("key", key).Msg("discarding undecodable cache entry")
	case errors.Is(err, redis.Nil):
		c.logger.Debug().Str("key", key).Msg("cache miss")
	default:
		c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed, bypassing")
	}

	// The generation is read before load so a Flush that lands while load
	// runs keeps its possibly stale result out of the cache.
	gen, genErr := generation(ctx, c.client, c.genKey())

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if genErr != nil {
		c.logger.Warn().Err(genErr).Str("key", key).Msg("cache generation unreadable, not storing")
		return value, nil
	}

	c.store(ctx, key, value, gen)
	return value, nil
}

// genKey holds the flush generation. It lives outside "<prefix>:*" so
// Flush never deletes it.
func (c *Cache) genKey() string {
	return c.prefix + "@gen"
}

func generation(ctx context.Context, r interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}, key string) (int64, error) {
	gen, err := r.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// store writes value under key only while the generation still equals gen.
func (c *Cache) store(ctx context.Context, key string, value any, gen int64) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache value not serializable")
		return
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := generation(ctx, tx, c.genKey())
		if err != nil {
			return err
		}
		if current != gen {
			return errFlushed
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, c.ttl)
			return nil
		})
		return err
	}, c.genKey())

	switch {
	case err == nil:
	case errors.Is(err, errFlushed), errors.Is(err, redis.TxFailedErr):
		c.logger.Debug().Str("key", key).Msg("cache flushed during load, result not stored")
	default:
		c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// Flush deletes every key under the prefix and returns how many were removed.
// It first bumps the generation so loads already in flight do not store.
func (c *Cache) Flush(ctx context.Context) (int64, error) {
	if !c.Enabled() {
		return 0, nil
	}

	if err := c.client.Incr(ctx, c.genKey()).Err(); err != nil {
		return 0, err
	}

	var (
		cursor  uint64
		removed int64
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+":*", scanBatch).Result()
		if err != nil {
			return removed, err
		}

		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, err
			}
			removed += n
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	c.logger.Info().Int64("keys", removed).Str("prefix", c.prefix).Msg("cache flushed")
	return removed, nil
}
