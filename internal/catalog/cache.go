package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lukecc25/Flowershop/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

type FlowerCache interface {
	Get(ctx context.Context, id int64) (*domain.Flower, error)
	Set(ctx context.Context, flower *domain.Flower) error
	Delete(ctx context.Context, id int64) error
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r RedisCache) Get(ctx context.Context, id int64) (*domain.Flower, error) {
	data, err := r.client.Get(ctx, cacheKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var flower domain.Flower
	if e2 := json.Unmarshal(data, &flower); e2 != nil {
		return nil, fmt.Errorf("unmarshal flower failed: %w", e2)
	}

	return &flower, nil
}

func (r RedisCache) Set(ctx context.Context, flower *domain.Flower) error {
	data, err := json.Marshal(flower)
	if err != nil {
		return fmt.Errorf("marshal flower failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(5)) * time.Minute
	ttl := r.baseTTL + jitter
	if e2 := r.client.Set(ctx, cacheKey(flower.ID), string(data), ttl).Err(); e2 != nil {
		return fmt.Errorf("redis set failed: %w", e2)
	}
	return nil
}

func (r RedisCache) Delete(ctx context.Context, id int64) error {
	if err := r.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}

	return nil
}

func cacheKey(id int64) string {
	return fmt.Sprintf("flower:%d", id)
}
