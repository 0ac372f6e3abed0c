package counter

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisKey = "visitor-counter:text"

var _ Display = (*RedisDisplay)(nil)

// RedisDisplay stores the counter text under a key for a page served elsewhere.
type RedisDisplay struct {
	key    string
	client redis.UniversalClient
}

func NewRedisDisplay(client redis.UniversalClient, key string) *RedisDisplay {
	return &RedisDisplay{key: key, client: client}
}

func (d *RedisDisplay) SetText(ctx context.Context, text string) error {
	return d.client.Set(ctx, d.key, text, 0).Err()
}

func (d *RedisDisplay) Text(ctx context.Context) (string, error) {
	return d.client.Get(ctx, d.key).Result()
}
