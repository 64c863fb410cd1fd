package books

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	versionKey     = "books:ver" // bumped on every catalog write
	defaultTimeout = 150 * time.Millisecond
)

// Cache is a fail-open Redis cache for catalog listings. Keys are prefixed
// with the current version, so bumping the version invalidates everything at
// once without scanning. A nil client disables it.
type Cache struct {
	rdb     *redis.Client
	ttl     time.Duration
	timeout time.Duration
	log     *slog.Logger
	warned  atomic.Bool
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{
		rdb:     rdb,
		ttl:     ttl,
		timeout: defaultTimeout,
		log:     slog.Default().With("component", "books-cache"),
	}
}

func (c *Cache) enabled() bool { return c != nil && c.rdb != nil && c.ttl > 0 }

// prefix resolves "books:v{N}:" from the version key. Resolve it once per
// request, before the database read, and use it for both get and set: a list
// read before a concurrent write then lands under the superseded version. A
// missing key reads as v0, which the first INCR moves past. ok is false when
// the cache is disabled or the version is unreadable.
func (c *Cache) prefix(ctx context.Context) (string, bool) {
	if !c.enabled() {
		return "", false
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ver, err := c.rdb.Get(ctx, versionKey).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		ver = 0
	case err != nil:
		c.warnOnce("cache version read failed; bypassing", err)
		return "", false
	}
	return fmt.Sprintf("books:v%d:", ver), true
}

func (c *Cache) get(ctx context.Context, prefix, block string, dst any) bool {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.rdb.Get(ctx, prefix+block).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.warnOnce("cache get failed; bypassing", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false
	}
	c.warned.Store(false)
	return true
}

func (c *Cache) set(ctx context.Context, prefix, block string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.rdb.SetEx(ctx, prefix+block, b, c.ttl).Err(); err != nil {
		c.warnOnce("cache set failed", err)
	}
}

// BumpVersion increments the version key. Call it after a successful write
// that affects cached listings.
func (c *Cache) BumpVersion(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.rdb.Incr(ctx, versionKey).Err(); err != nil {
		return fmt.Errorf("bump version failed: %w", err)
	}
	return nil
}

// Invalidate bumps the version and only logs failures; stale entries then
// expire with their TTL.
func (c *Cache) Invalidate(ctx context.Context) {
	if err := c.BumpVersion(ctx); err != nil {
		c.log.Warn("cache invalidation failed", "err", err)
	}
}

// warnOnce logs the first failure of a streak; a successful read re-arms it.
func (c *Cache) warnOnce(msg string, err error) {
	if c.warned.Swap(true) {
		return
	}
	c.log.Warn(msg, "err", err)
}
