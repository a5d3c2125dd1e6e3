package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/models"
	"github.com/redis/go-redis/v9"
)

const maxCartUpdateAttempts = 5

// CartRepository persists cart snapshots in redis as JSON, one key per user.
type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartRepository(client *redis.Client, ttl time.Duration) *CartRepository {
	return &CartRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *CartRepository) getKey(userID string) string {
	return fmt.Sprintf("cart:user:%s", userID)
}

// GetCart returns the stored snapshot, or nil when the user has no cart yet.
func (r *CartRepository) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	return r.load(ctx, r.client, userID)
}

func (r *CartRepository) load(ctx context.Context, c redis.Cmdable, userID string) (*models.Cart, error) {
	data, err := c.Get(ctx, r.getKey(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cart %s: %w", userID, err)
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", userID, err)
	}
	return &cart, nil
}

// SaveCart writes the snapshot and refreshes its TTL.
func (r *CartRepository) SaveCart(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart %s: %w", cart.UserID, err)
	}
	return r.client.Set(ctx, r.getKey(cart.UserID), data, r.ttl).Err()
}

// UpdateCart applies fn to the stored snapshot (nil when absent) and writes
// the result back under WATCH. If another writer touches the key in between,
// fn is re-run against the fresh snapshot. An error from fn aborts without
// writing; a nil cart from fn leaves the key as it was.
func (r *CartRepository) UpdateCart(ctx context.Context, userID string, fn func(*models.Cart) (*models.Cart, error)) error {
	key := r.getKey(userID)
	txf := func(tx *redis.Tx) error {
		current, err := r.load(ctx, tx, userID)
		if err != nil {
			return err
		}
		next, err := fn(current)
		if err != nil || next == nil {
			return err
		}
		next.UserID = userID
		next.UpdatedAt = time.Now().UTC()
		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode cart %s: %w", userID, err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.ttl)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxCartUpdateAttempts; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("update cart %s: %w", userID, ErrConflict)
}

func (r *CartRepository) DeleteCart(ctx context.Context, userID string) error {
	return r.client.Del(ctx, r.getKey(userID)).Err()
}
