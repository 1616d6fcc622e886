package services

import (
	"context"
	"time"

	"github.com/telascatalogo/telas/app/models"
	"github.com/telascatalogo/telas/pkg/cache"
	"github.com/telascatalogo/telas/pkg/event"
	"github.com/telascatalogo/telas/pkg/logger"
)

// FabricListCacheKey holds the cached full catalog listing.
const FabricListCacheKey = "telas:fabrics:all"

// FabricLister is the read side of the catalog store.
type FabricLister interface {
	List(ctx context.Context) ([]models.Fabric, error)
	Get(ctx context.Context, id uint) (models.Fabric, error)
}

// Catalog serves browse queries, caching the full listing in Redis when a
// client is connected. The cache is dropped on every catalog write event.
type Catalog struct {
	store FabricLister
	ttl   time.Duration
}

func NewCatalog(store FabricLister) *Catalog {
	return &Catalog{store: store, ttl: 5 * time.Minute}
}

// All returns every fabric in store order.
func (c *Catalog) All(ctx context.Context) ([]models.Fabric, error) {
	return cache.Remember(ctx, FabricListCacheKey, c.ttl, c.store.List)
}

// Search applies FilterFabrics to the full listing.
func (c *Catalog) Search(ctx context.Context, term, category string) ([]models.Fabric, error) {
	all, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	return FilterFabrics(all, term, category), nil
}

// Categories lists the distinct categories.
func (c *Catalog) Categories(ctx context.Context) ([]string, error) {
	all, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	return Categories(all), nil
}

// Get reads one fabric straight from the store.
func (c *Catalog) Get(ctx context.Context, id uint) (models.Fabric, error) {
	return c.store.Get(ctx, id)
}

// Invalidate drops the cached listing.
func (c *Catalog) Invalidate(ctx context.Context) {
	if err := cache.Del(ctx, FabricListCacheKey); err != nil {
		logger.WithCtx(ctx).Warn("catalog: cache invalidation failed", "error", err)
	}
}

// InvalidateOn subscribes the catalog to "fabric.*" events on bus.
func (c *Catalog) InvalidateOn(bus *event.Bus) {
	bus.Listen("fabric.*", func(event.Event) { c.Invalidate(context.Background()) })
}
