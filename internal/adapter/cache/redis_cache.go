package cache

import (
	"context"
	"time"

	"github.com/quangdm/freshcart-api/internal/usecase"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (r *RedisCache) SetOrderStatus(ctx context.Context, orderID string, status string) error {
	return r.rdb.Set(ctx, "order:status:"+orderID, status, r.ttl).Err()
}

func (r *RedisCache) InvalidateDetail(ctx context.Context, skuID string) error {
	return r.rdb.Del(ctx, "detail:"+skuID).Err()
}

var _ usecase.DetailCache = (*RedisCache)(nil)
