package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyRepository remembers the response body of a request keyed by the
// client's Idempotency-Key header.
type IdempotencyRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewIdempotencyRepository(client *redis.Client, ttl time.Duration) *IdempotencyRepository {
	return &IdempotencyRepository{client: client, ttl: ttl}
}

func (r *IdempotencyRepository) getIdemKey(userID, key string) string {
	return "idem:checkout:" + userID + ":" + key
}

// Get returns the stored response, or "" when the key is unseen.
func (r *IdempotencyRepository) Get(ctx context.Context, userID, key string) (string, error) {
	val, err := r.client.Get(ctx, r.getIdemKey(userID, key)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *IdempotencyRepository) Set(ctx context.Context, userID, key, response string) error {
	return r.client.Set(ctx, r.getIdemKey(userID, key), response, r.ttl).Err()
}
