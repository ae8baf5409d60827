// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"findmyplugin_backend/internal/feature/plugins/domain/entity"
	"findmyplugin_backend/internal/feature/plugins/usecase"
)

// CachingPluginRepository decorates a PluginRepository with Redis caching of
// listing pages. It implements the decorator pattern, transparently adding
// caching without modifying the underlying repository. Every write operation
// invalidates all cached pages, so a stale page never survives a mutation.
type CachingPluginRepository struct {
	inner     usecase.PluginRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.PluginRepository = (*CachingPluginRepository)(nil)

// NewCachingPluginRepository decorates a PluginRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "plugins".
func NewCachingPluginRepository(rdb *redis.Client, ttl time.Duration, inner usecase.PluginRepository, namespace string) *CachingPluginRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "plugins"
	}
	return &CachingPluginRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// cachedPage is the serialized form of one listing result.
type cachedPage struct {
	Items []entity.Plugin `json:"items"`
	Total int64           `json:"total"`
}

// List retrieves a listing page, checking cache first then falling back to
// the database.
func (c *CachingPluginRepository) List(ctx context.Context, q usecase.ListQuery) ([]entity.Plugin, int64, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.List(ctx, q)
	}

	key := c.listKey(q)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var page cachedPage
		if err := json.Unmarshal(b, &page); err == nil {
			return page.Items, page.Total, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	items, total, err := c.inner.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(cachedPage{Items: items, Total: total}); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return items, total, nil
}

// FindByID is a pass-through; single lookups are cheap enough uncached.
func (c *CachingPluginRepository) FindByID(ctx context.Context, id uint) (*entity.Plugin, error) {
	return c.inner.FindByID(ctx, id)
}

// Create persists a new plugin and invalidates cached listing pages.
func (c *CachingPluginRepository) Create(ctx context.Context, p *entity.Plugin) error {
	if err := c.inner.Create(ctx, p); err != nil {
		return err
	}
	c.invalidateLists(ctx)
	return nil
}

// Update mutates a plugin and invalidates cached listing pages.
func (c *CachingPluginRepository) Update(ctx context.Context, id uint, changes usecase.UpdateChanges) (*entity.Plugin, error) {
	p, err := c.inner.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	c.invalidateLists(ctx)
	return p, nil
}

// SoftDelete transitions a plugin to deleted and invalidates cached listing pages.
func (c *CachingPluginRepository) SoftDelete(ctx context.Context, id uint, at time.Time) error {
	if err := c.inner.SoftDelete(ctx, id, at); err != nil {
		return err
	}
	c.invalidateLists(ctx)
	return nil
}

// Restore transitions a plugin back to active and invalidates cached listing pages.
func (c *CachingPluginRepository) Restore(ctx context.Context, id uint) (*entity.Plugin, error) {
	p, err := c.inner.Restore(ctx, id)
	if err != nil {
		return nil, err
	}
	c.invalidateLists(ctx)
	return p, nil
}

// CountActive is a pass-through.
func (c *CachingPluginRepository) CountActive(ctx context.Context) (int64, error) {
	return c.inner.CountActive(ctx)
}

// listKey generates a cache key for a specific listing query.
func (c *CachingPluginRepository) listKey(q usecase.ListQuery) string {
	minRating := ""
	if q.MinRating != nil {
		minRating = fmt.Sprintf("%g", *q.MinRating)
	}
	dir := "desc"
	if !q.Descending {
		dir = "asc"
	}
	return fmt.Sprintf("%s:list:%s:%s:%s:%s:%s:%s:%s:%d:%d",
		c.namespace,
		safe(q.Text),
		safe(q.Category),
		safe(q.Subcategory),
		safe(strings.Join(q.Tags, ",")),
		minRating,
		q.SortBy,
		dir,
		q.Offset,
		q.Limit,
	)
}

// invalidateLists deletes all cached listing pages for this namespace.
func (c *CachingPluginRepository) invalidateLists(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	_ = c.deleteByPattern(ctx, c.namespace+":list:*") // Best effort: don't fail the write if cache deletion fails
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingPluginRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
