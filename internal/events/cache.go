package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/eventdesk/backend/internal/models"
)

const (
	cacheListKey    = "events:list"
	cacheViewPrefix = "events:view:"
)

// Cache is a redis-backed cache of projected event views. A nil *Cache is a
// no-op, so the handler works unchanged when redis is not configured. Every
// event write invalidates; correctness never depends on a hit.
type Cache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCache creates a projection cache.
func NewCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Cache {
	return &Cache{rdb: rdb, ttl: ttl, logger: logger}
}

// GetView returns the cached projection for an event, if present.
func (c *Cache) GetView(ctx context.Context, id string) (*models.EventView, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, cacheViewPrefix+id).Bytes()
	if err != nil {
		return nil, false
	}
	var v models.EventView
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false
	}
	return &v, true
}

// SetView stores the projection for an event.
func (c *Cache) SetView(ctx context.Context, id string, v *models.EventView) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheViewPrefix+id, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("cache set", zap.Error(err))
	}
}

// GetList returns the cached event list, if present.
func (c *Cache) GetList(ctx context.Context) ([]models.EventView, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, cacheListKey).Bytes()
	if err != nil {
		return nil, false
	}
	var list []models.EventView
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, false
	}
	return list, true
}

// SetList stores the event list.
func (c *Cache) SetList(ctx context.Context, list []models.EventView) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheListKey, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("cache set", zap.Error(err))
	}
}

// Invalidate drops the cached list and the view for the given event.
func (c *Cache) Invalidate(ctx context.Context, id string) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, cacheListKey, cacheViewPrefix+id).Err(); err != nil {
		c.logger.Warn("cache invalidate", zap.Error(err))
	}
}
