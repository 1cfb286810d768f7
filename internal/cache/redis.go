package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const featuredKey = "featured_posts"

// RedisFeatured: отдельный ключ featured_posts:<limit> со своим TTL на каждый limit.
// Инвалидация удаляет все такие ключи.
type RedisFeatured struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func NewRedisFeatured(client *redis.Client, ttl time.Duration) *RedisFeatured {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisFeatured{client: client, ttl: ttl}
}

func limitKey(limit int) string {
	return featuredKey + ":" + strconv.Itoa(limit)
}

func (c *RedisFeatured) Get(ctx context.Context, limit int) ([]string, bool, error) {
	raw, err := c.client.Get(ctx, limitKey(limit)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, false, err
	}
	return ids, true, nil
}

func (c *RedisFeatured) Set(ctx context.Context, limit int, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, limitKey(limit), raw, c.ttl).Err()
}

func (c *RedisFeatured) Invalidate(ctx context.Context) error {
	var keys []string
	iter := c.client.Scan(ctx, 0, featuredKey+":*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
