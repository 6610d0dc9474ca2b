package watermark

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "report:last_sent:"

// RedisStore keeps watermarks in Redis, for deployments where multiple
// reporter instances share cadence state.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// LastSent implements Store. A missing key means "never sent".
func (s *RedisStore) LastSent(ctx context.Context, websiteID string) (time.Time, error) {
	val, err := s.client.Get(ctx, redisKeyPrefix+websiteID).Result()
	if err == redis.Nil {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("reading watermark: %w", err)
	}

	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing watermark timestamp: %w", err)
	}
	return t, nil
}

// SetLastSent implements Store.
func (s *RedisStore) SetLastSent(ctx context.Context, websiteID string, t time.Time) error {
	if err := s.client.Set(ctx, redisKeyPrefix+websiteID, t.Format(time.RFC3339), 0).Err(); err != nil {
		return fmt.Errorf("writing watermark: %w", err)
	}
	return nil
}
