// Package cache keeps the product catalog in Redis in front of Postgres.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/jokads/JokaTech/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	catalogKey     = "catalog:products"
	defaultBaseTTL = 5 * time.Minute
)

// ProductLoader reads the full catalog from the source of truth.
type ProductLoader func(ctx context.Context) ([]domain.Product, error)

// ProductCache serves the catalog list. Redis failures fall through to the
// loader; concurrent misses share one load.
type ProductCache struct {
	client  *redis.Client
	load    ProductLoader
	baseTTL time.Duration
	logger  *slog.Logger
	sfg     singleflight.Group

	// gen counts invalidations; a load that spans one is not cached.
	gen atomic.Uint64
}

// NewProductCache wraps load. A nil client disables Redis and every call
// goes to the loader, still deduplicated.
func NewProductCache(client *redis.Client, load ProductLoader, logger *slog.Logger) *ProductCache {
	return &ProductCache{
		client:  client,
		load:    load,
		baseTTL: defaultBaseTTL,
		logger:  logger,
	}
}

// All returns every product, from Redis when possible.
func (c *ProductCache) All(ctx context.Context) ([]domain.Product, error) {
	if products, ok := c.get(ctx); ok {
		return products, nil
	}

	v, err, _ := c.sfg.Do(catalogKey, func() (interface{}, error) {
		// Shared by every waiting caller, so one caller's cancellation
		// must not fail the rest.
		loadCtx := context.WithoutCancel(ctx)
		gen := c.gen.Load()
		products, err := c.load(loadCtx)
		if err != nil {
			return nil, err
		}
		if c.gen.Load() == gen {
			c.set(loadCtx, products)
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

// Invalidate drops the cached catalog after an admin write.
func (c *ProductCache) Invalidate(ctx context.Context) {
	c.gen.Add(1)
	c.sfg.Forget(catalogKey)
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, catalogKey).Err(); err != nil {
		c.logger.Warn("failed to invalidate catalog cache", "error", err)
	}
}

func (c *ProductCache) get(ctx context.Context) ([]domain.Product, bool) {
	if c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, catalogKey).Bytes()
	switch {
	case err == nil:
	case errors.Is(err, redis.Nil):
		return nil, false
	default:
		c.logger.Warn("redis error, reading catalog from database", "error", err)
		return nil, false
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		c.logger.Warn("failed to unmarshal cached catalog", "error", err)
		return nil, false
	}
	return products, true
}

func (c *ProductCache) set(ctx context.Context, products []domain.Product) {
	if c.client == nil {
		return
	}

	data, err := json.Marshal(products)
	if err != nil {
		c.logger.Warn("failed to marshal catalog", "error", err)
		return
	}

	jitter := time.Duration(rand.Intn(60)) * time.Second
	if err := c.client.Set(ctx, catalogKey, data, c.baseTTL+jitter).Err(); err != nil {
		c.logger.Warn("failed to cache catalog", "error", err)
	}
}
