package services

import (
	"context"
	"fmt"
	"time"

	"cart-shop/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ProductCache stores rendered product list pages.
type ProductCache interface {
	Get(ctx context.Context, filter models.ProductFilter) ([]byte, bool)
	Set(ctx context.Context, filter models.ProductFilter, payload []byte)
	Invalidate(ctx context.Context)
}

const productCachePrefix = "products_list_"

type RedisProductCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewProductCache returns a no-op cache when client is nil.
func NewProductCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) ProductCache {
	if client == nil {
		return noopCache{}
	}
	return &RedisProductCache{client: client, ttl: ttl, logger: logger}
}

func productCacheKey(f models.ProductFilter) string {
	return fmt.Sprintf("%sp%d_l%d_u%s_n%s", productCachePrefix, f.Page, f.Limit, f.UUID, f.Name)
}

func (c *RedisProductCache) Get(ctx context.Context, filter models.ProductFilter) ([]byte, bool) {
	data, err := c.client.Get(ctx, productCacheKey(filter)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("product cache read failed", zap.Error(err))
		}
		return nil, false
	}
	return data, true
}

func (c *RedisProductCache) Set(ctx context.Context, filter models.ProductFilter, payload []byte) {
	if err := c.client.Set(ctx, productCacheKey(filter), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("product cache write failed", zap.Error(err))
	}
}

func (c *RedisProductCache) Invalidate(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, productCachePrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		c.client.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("product cache invalidation failed", zap.Error(err))
	}
}

type noopCache struct{}

func (noopCache) Get(context.Context, models.ProductFilter) ([]byte, bool) { return nil, false }
func (noopCache) Set(context.Context, models.ProductFilter, []byte) {}
func (noopCache) Invalidate(context.Context) {}
