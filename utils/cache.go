package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"marche/config"

	"github.com/go-redis/redis/v8"
)

// CacheClient is the generic cache client.
var CacheClient *redis.Client

// InitCache initializes the generic Redis cache client.
func InitCache() error {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := CacheClient.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis (Cache): %w", err)
	}
	return nil
}

// JSONCache stores read-mostly listings. A miss is reported as (false, nil).
type JSONCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// RedisJSONCache implements JSONCache on top of go-redis.
type RedisJSONCache struct {
	Client *redis.Client
}

func NewRedisJSONCache(client *redis.Client) *RedisJSONCache {
	return &RedisJSONCache{Client: client}
}

func (r *RedisJSONCache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := r.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

func (r *RedisJSONCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	return r.Client.Set(ctx, key, b, ttl).Err()
}

func (r *RedisJSONCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.Client.Del(ctx, keys...).Err()
}

// NopCache never hits. Used when Redis is not configured.
type NopCache struct{}

func (NopCache) GetJSON(context.Context, string, interface{}) (bool, error) { return false, nil }
func (NopCache) SetJSON(context.Context, string, interface{}, time.Duration) error {
	return nil
}
func (NopCache) Invalidate(context.Context, ...string) error { return nil }
