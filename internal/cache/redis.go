package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RedisClient struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewRedisClient(addr, password string, db, ttlSeconds int, log *zap.Logger) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("Redis connected successfully", zap.String("addr", addr))

	return &RedisClient{
		client: rdb,
		ttl:    time.Duration(ttlSeconds) * time.Second,
		log:    log,
	}, nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

func cartCountKey(userID uuid.UUID) string {
	return fmt.Sprintf("cart:count:%s", userID)
}

// Кэш количества товаров в корзине
func (r *RedisClient) GetCount(ctx context.Context, userID uuid.UUID) (int64, bool, error) {
	n, err := r.client.Get(ctx, cartCountKey(userID)).Int64()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

func (r *RedisClient) SetCount(ctx context.Context, userID uuid.UUID, count int64) error {
	return r.client.Set(ctx, cartCountKey(userID), count, r.ttl).Err()
}

func (r *RedisClient) Invalidate(ctx context.Context, userID uuid.UUID) error {
	return r.client.Del(ctx, cartCountKey(userID)).Err()
}
