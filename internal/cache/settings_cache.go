// Package cache keeps a bounded-freshness copy of the availability
// settings.  Reservation data is never cached here.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/room-reservation/internal/config"
	"github.com/iliyamo/room-reservation/internal/model"
)

// Loader reads the authoritative settings rows.
type Loader interface {
	List(ctx context.Context) (model.Settings, error)
}

// SettingsCache serves settings snapshots from memory, then Redis, then the
// loader.  A nil Redis client or a disabled config leaves only the
// in-process layer, and a disabled config also makes every call hit the
// loader.
type SettingsCache struct {
	loader Loader
	rdb    *redis.Client
	cfg    config.SettingsCacheConfig
	now    func() time.Time

	mu       sync.RWMutex
	local    model.Settings
	loadedAt time.Time
}

// NewSettingsCache wires a cache in front of loader.  rdb may be nil.
func NewSettingsCache(loader Loader, rdb *redis.Client, cfg config.SettingsCacheConfig) *SettingsCache {
	return &SettingsCache{loader: loader, rdb: rdb, cfg: cfg, now: time.Now}
}

// Snapshot returns a copy of the current settings.  The copy is owned by
// the caller.
func (c *SettingsCache) Snapshot(ctx context.Context) (model.Settings, error) {
	if !c.cfg.Enabled {
		return c.loader.List(ctx)
	}

	c.mu.RLock()
	if c.local != nil && c.now().Sub(c.loadedAt) < c.cfg.TTL {
		s := maps.Clone(c.local)
		c.mu.RUnlock()
		return s, nil
	}
	c.mu.RUnlock()

	if s, ok := c.fromRedis(ctx); ok {
		c.store(s)
		return maps.Clone(s), nil
	}

	s, err := c.loader.List(ctx)
	if err != nil {
		return nil, err
	}
	c.toRedis(ctx, s)
	c.store(s)
	return maps.Clone(s), nil
}

// Invalidate drops both cached copies so the next Snapshot reloads.
func (c *SettingsCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	c.local = nil
	c.loadedAt = time.Time{}
	c.mu.Unlock()
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, c.cfg.Key).Err()
}

func (c *SettingsCache) store(s model.Settings) {
	c.mu.Lock()
	c.local = s
	c.loadedAt = c.now()
	c.mu.Unlock()
}

func (c *SettingsCache) fromRedis(ctx context.Context) (model.Settings, bool) {
	if c.rdb == nil {
		return nil, false
	}
	bs, err := c.rdb.Get(ctx, c.cfg.Key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("settings cache read failed", "err", err)
		}
		return nil, false
	}
	var s model.Settings
	if err := json.Unmarshal(bs, &s); err != nil || len(s) == 0 {
		return nil, false
	}
	return s, true
}

func (c *SettingsCache) toRedis(ctx context.Context, s model.Settings) {
	if c.rdb == nil {
		return
	}
	bs, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, c.cfg.Key, bs, c.cfg.TTL).Err(); err != nil {
		slog.Warn("settings cache write failed", "err", err)
	}
}
