package cache

import (
	"context"
	"fmt"
	"time"

	"meetspot/core/config"
	"meetspot/core/constants"
	"meetspot/core/logger"

	"github.com/redis/go-redis/v9"
)

// Cache memoizes hot read paths. Every method degrades gracefully: a
// miss or a Redis outage means the caller falls back to the database.
type Cache interface {
	SetEventIDForCode(ctx context.Context, code string, eventID string) error
	GetEventIDForCode(ctx context.Context, code string) (string, error)
	SetTally(ctx context.Context, eventID string, payload []byte) error
	GetTally(ctx context.Context, eventID string) ([]byte, error)
	DelTally(ctx context.Context, eventID string) error
	Ping(ctx context.Context) error
	Close() error
}

type redisCache struct {
	client *redis.Client
}

func NewCache(cfg config.RedisConfig) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis cache initialized", "addr", cfg.Addr(), "db", cfg.DB)
	return &redisCache{client: client}, nil
}

func codeKey(code string) string {
	return "event:code:" + code
}

func tallyKey(eventID string) string {
	return "event:tally:" + eventID
}

func (c *redisCache) SetEventIDForCode(ctx context.Context, code string, eventID string) error {
	return c.client.Set(ctx, codeKey(code), eventID, constants.ShareCodeCacheTTL).Err()
}

func (c *redisCache) GetEventIDForCode(ctx context.Context, code string) (string, error) {
	val, err := c.client.Get(ctx, codeKey(code)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (c *redisCache) SetTally(ctx context.Context, eventID string, payload []byte) error {
	return c.client.Set(ctx, tallyKey(eventID), payload, constants.TallyCacheTTL).Err()
}

func (c *redisCache) GetTally(ctx context.Context, eventID string) ([]byte, error) {
	val, err := c.client.Get(ctx, tallyKey(eventID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (c *redisCache) DelTally(ctx context.Context, eventID string) error {
	return c.client.Del(ctx, tallyKey(eventID)).Err()
}

func (c *redisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *redisCache) Close() error {
	return c.client.Close()
}
