package cache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/quangdm/freshcart-api/internal/usecase"
	"github.com/redis/go-redis/v9"
)

// RedisCartStore keeps each user's cart as a hash: cart:<userID> maps
// sku id -> requested count.
type RedisCartStore struct {
	rdb *redis.Client
}

func NewRedisCartStore(rdb *redis.Client) *RedisCartStore {
	return &RedisCartStore{rdb: rdb}
}

func cartKey(userID string) string { return "cart:" + userID }

func (s *RedisCartStore) Quantities(ctx context.Context, userID string) (map[string]int, error) {
	raw, err := s.rdb.HGetAll(ctx, cartKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(raw))
	for skuID, v := range raw {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("cart entry %s: %w", skuID, err)
		}
		out[skuID] = n
	}
	return out, nil
}

func (s *RedisCartStore) Quantity(ctx context.Context, userID, skuID string) (int, bool, error) {
	v, err := s.rdb.HGet(ctx, cartKey(userID), skuID).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false, fmt.Errorf("cart entry %s: %w", skuID, err)
	}
	return n, true, nil
}

func (s *RedisCartStore) SetQuantity(ctx context.Context, userID, skuID string, count int) error {
	return s.rdb.HSet(ctx, cartKey(userID), skuID, count).Err()
}

func (s *RedisCartStore) Remove(ctx context.Context, userID, skuID string) error {
	return s.rdb.HDel(ctx, cartKey(userID), skuID).Err()
}

// RemoveCommitted drops the just-ordered SKUs from the live cart. Callers
// treat failures as warnings; the order is already durable by now.
func (s *RedisCartStore) RemoveCommitted(ctx context.Context, userID string, skuIDs []string) error {
	if len(skuIDs) == 0 {
		return nil
	}
	return s.rdb.HDel(ctx, cartKey(userID), skuIDs...).Err()
}

var _ usecase.CartSource = (*RedisCartStore)(nil)
