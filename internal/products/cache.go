package product

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/chylers/storefront-api/pkg/logger"
	pkgredis "github.com/chylers/storefront-api/pkg/redis"
	"github.com/chylers/storefront-api/pkg/shopify"
)

const (
	cacheScope     = "products"
	versionCounter = "products_version"
)

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
	CacheKey(scope string, parts ...string) string
	CounterKey(name string) string
}

// listingCache is a read-through cache for raw product listings. Entries are
// keyed under a version counter so one INCR retires every cached listing.
type listingCache struct {
	store cacheStore
	ttl   time.Duration
	logg  *logger.Logger
}

func newListingCache(store cacheStore, ttl time.Duration, logg *logger.Logger) *listingCache {
	if store == nil || ttl <= 0 {
		return nil
	}
	return &listingCache{store: store, ttl: ttl, logg: logg}
}

func (c *listingCache) key(ctx context.Context, limit int, collectionID int64) (string, bool) {
	version, err := c.store.Get(ctx, c.store.CounterKey(versionCounter))
	if err != nil {
		if !pkgredis.IsMiss(err) {
			c.logg.Error(ctx, "products.cache_version_failed", err)
			return "", false
		}
		version = "0"
	}
	return c.store.CacheKey(cacheScope,
		"v"+version,
		"limit", strconv.Itoa(limit),
		"collection", strconv.FormatInt(collectionID, 10),
	), true
}

func (c *listingCache) load(ctx context.Context, key string) ([]shopify.Product, bool) {
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsMiss(err) {
			c.logg.Error(ctx, "products.cache_read_failed", err)
		}
		return nil, false
	}
	var products []shopify.Product
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		c.logg.Error(ctx, "products.cache_decode_failed", err)
		return nil, false
	}
	return products, true
}

func (c *listingCache) save(ctx context.Context, key string, products []shopify.Product) {
	payload, err := json.Marshal(products)
	if err != nil {
		c.logg.Error(ctx, "products.cache_encode_failed", err)
		return
	}
	if err := c.store.Set(ctx, key, payload, c.ttl); err != nil {
		c.logg.Error(ctx, "products.cache_write_failed", err)
	}
}

func (c *listingCache) invalidate(ctx context.Context) error {
	_, err := c.store.Incr(ctx, c.store.CounterKey(versionCounter))
	return err
}
