package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/phishguard/backend/config"
	"github.com/phishguard/backend/pkg/cache"
	"github.com/phishguard/backend/pkg/logger"
)

// Client abstracts the cache backend so services do not depend on a
// concrete Redis connection. Get reports misses via found=false rather
// than an error; an error means the backend itself failed.
type Client interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	Close() error
	IsEnabled() bool
}

type redisClient struct {
	rdb *redis.Client
}

// NewClient connects to Redis using the application config. When Redis
// is disabled in config an in-process cache is returned so callers
// never have to branch on availability.
func NewClient(cfg *config.Config) (Client, error) {
	if !cfg.Redis.Enabled {
		logger.GetLogger().Warn("Redis disabled, falling back to in-process cache")
		return cache.NewCache(), nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddress(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.Database,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolTimeout:  cfg.Redis.PoolTimeout,
	})

	client := &redisClient{rdb: rdb}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		logger.GetLogger().Error("Failed to connect to Redis",
			zap.String("address", cfg.RedisAddress()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.GetLogger().Info("Successfully connected to Redis",
		zap.String("address", cfg.RedisAddress()),
		zap.Int("database", cfg.Redis.Database),
	)

	return client, nil
}

func (c *redisClient) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		logger.GetLogger().Error("Failed to get cache",
			zap.String("key", key),
			zap.Error(err),
		)
		return "", false, fmt.Errorf("failed to get cache: %w", err)
	}
	return value, true, nil
}

func (c *redisClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		logger.GetLogger().Error("Failed to set cache",
			zap.String("key", key),
			zap.Duration("ttl", ttl),
			zap.Error(err),
		)
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

func (c *redisClient) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		logger.GetLogger().Error("Failed to delete cache keys",
			zap.Strings("keys", keys),
			zap.Error(err),
		)
		return fmt.Errorf("failed to delete cache keys: %w", err)
	}
	return nil
}

func (c *redisClient) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *redisClient) Close() error {
	return c.rdb.Close()
}

func (c *redisClient) IsEnabled() bool {
	return true
}
