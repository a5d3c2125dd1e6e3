package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/models"
	"github.com/redis/go-redis/v9"
)

// PromoSessionRepository keeps the promo code a user has applied for the
// duration of a checkout session.
type PromoSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPromoSessionRepository(client *redis.Client, ttl time.Duration) *PromoSessionRepository {
	return &PromoSessionRepository{client: client, ttl: ttl}
}

func (r *PromoSessionRepository) key(userID string) string {
	return "promo:user:" + userID
}

// Get returns the active promo, or nil when none is applied.
func (r *PromoSessionRepository) Get(ctx context.Context, userID string) (*models.PromoCode, error) {
	data, err := r.client.Get(ctx, r.key(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get promo session %s: %w", userID, err)
	}

	var promo models.PromoCode
	if err := json.Unmarshal(data, &promo); err != nil {
		return nil, fmt.Errorf("decode promo session %s: %w", userID, err)
	}
	return &promo, nil
}

// Save stores promo as active; a nil promo deletes the session.
func (r *PromoSessionRepository) Save(ctx context.Context, userID string, promo *models.PromoCode) error {
	if promo == nil {
		return r.Delete(ctx, userID)
	}
	data, err := json.Marshal(promo)
	if err != nil {
		return fmt.Errorf("encode promo session %s: %w", userID, err)
	}
	return r.client.Set(ctx, r.key(userID), data, r.ttl).Err()
}

func (r *PromoSessionRepository) Delete(ctx context.Context, userID string) error {
	return r.client.Del(ctx, r.key(userID)).Err()
}
