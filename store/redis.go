package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"pricewatch/models"
)

const redisKeyPrefix = "pricewatch:observation:"

// Redis stores each observation as a JSON value under a per-retailer key.
type Redis struct {
	rdb *redis.Client
}

// NewRedis wraps a connected redis client.
func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb}
}

// Get returns the stored observation, or nil when none exists.
func (r *Redis) Get(ctx context.Context, name string) (*models.Observation, error) {
	raw, err := r.rdb.Get(ctx, redisKeyPrefix+name).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var obs models.Observation
	if err := json.Unmarshal([]byte(raw), &obs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &obs, nil
}

// Put stores the observation, replacing any previous one. Observations
// are kept without expiry; config removal is an external concern.
func (r *Redis) Put(ctx context.Context, name string, obs models.Observation) error {
	raw, err := json.Marshal(obs)
	if err != nil {
		return fmt.Errorf("marshal observation: %v", err)
	}
	if err := r.rdb.Set(ctx, redisKeyPrefix+name, raw, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
