// catalog_cache.go — read-through LRU-кэш справочников с TTL.
// Обёртка над hashicorp/golang-lru/v2/expirable, параллельные промахи
// схлопываются через singleflight.
package service

import (
	"context"
	"slices"
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/bigkaa/filmorate/internal/storage"
)

const allKey = "all"

// CatalogCache — кэш перед справочником. Реализует storage.Catalog.
// Отсутствующие записи не кэшируются.
type CatalogCache[T any] struct {
	name  string
	inner storage.Catalog[T]
	items *expirable.LRU[int64, T]
	lists *expirable.LRU[string, []T]
	group singleflight.Group
}

// NewCatalogCache создаёт кэш перед справочником inner.
// name — метка catalog в метриках (genres, mpa).
func NewCatalogCache[T any](name string, inner storage.Catalog[T], maxSize int, ttl time.Duration) *CatalogCache[T] {
	return &CatalogCache[T]{
		name:  name,
		inner: inner,
		items: expirable.NewLRU[int64, T](maxSize, nil, ttl),
		lists: expirable.NewLRU[string, []T](1, nil, ttl),
	}
}

// GetAll возвращает все записи справочника, упорядоченные по ID.
func (c *CatalogCache[T]) GetAll(ctx context.Context) ([]T, error) {
	if list, ok := c.lists.Get(allKey); ok {
		catalogCacheHits.WithLabelValues(c.name).Inc()
		return slices.Clone(list), nil
	}
	catalogCacheMisses.WithLabelValues(c.name).Inc()

	v, err, _ := c.group.Do(allKey, func() (any, error) {
		list, err := c.inner.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		c.lists.Add(allKey, list)
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]T)), nil
}

// GetByID возвращает запись и признак её наличия.
func (c *CatalogCache[T]) GetByID(ctx context.Context, id int64) (T, bool, error) {
	if it, ok := c.items.Get(id); ok {
		catalogCacheHits.WithLabelValues(c.name).Inc()
		return it, true, nil
	}
	catalogCacheMisses.WithLabelValues(c.name).Inc()

	type result struct {
		item T
		ok   bool
	}
	v, err, _ := c.group.Do("id:"+strconv.FormatInt(id, 10), func() (any, error) {
		it, ok, err := c.inner.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			c.items.Add(id, it)
		}
		return result{item: it, ok: ok}, nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	r := v.(result)
	return r.item, r.ok, nil
}

// Purge очищает кэш.
func (c *CatalogCache[T]) Purge() {
	c.items.Purge()
	c.lists.Purge()
}
