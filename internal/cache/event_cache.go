package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-gin-rsvp/internal/model"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss 快取中沒有資料
var ErrCacheMiss = errors.New("cache miss")

type EventCache interface {
	// 取得：以 slug 取得快取的公開活動
	Get(ctx context.Context, slug string) (*model.Event, error)
	// 寫入：以 slug 寫入活動，ttl 到期後自動失效
	Set(ctx context.Context, event *model.Event) error
	// 失效：活動被更新或停用時刪除快取
	Invalidate(ctx context.Context, slug string) error
}

type RedisEventCacheImpl struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisEventCache(client *redis.Client, ttl time.Duration) EventCache {
	return &RedisEventCacheImpl{
		client: client,
		ttl:    ttl,
	}
}

// 活動 key
func (c *RedisEventCacheImpl) getEventKey(slug string) string {
	return fmt.Sprintf("event:slug:%s", slug)
}

func (c *RedisEventCacheImpl) Get(ctx context.Context, slug string) (*model.Event, error) {
	data, err := c.client.Get(ctx, c.getEventKey(slug)).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var event model.Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("invalid cached event: %v", err)
	}
	return &event, nil
}

func (c *RedisEventCacheImpl) Set(ctx context.Context, event *model.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.getEventKey(event.Slug), data, c.ttl).Err()
}

func (c *RedisEventCacheImpl) Invalidate(ctx context.Context, slug string) error {
	return c.client.Del(ctx, c.getEventKey(slug)).Err()
}
