// Package cache holds the redis-backed cache for derived title ratings.
// The rating itself is never stored on the title row; this cache only
// short-circuits the aggregate query on title detail reads and is
// invalidated by every review write.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type RatingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRatingCache(addr, password string, ttl time.Duration) *RatingCache {
	return &RatingCache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		ttl: ttl,
	}
}

// sentinel value for "title has no reviews", so a nil rating is also cached
const noRating = "none"

func ratingKey(titleID int64) string {
	return fmt.Sprintf("reviewhub:rating:%d", titleID)
}

// Get returns (rating, hit). rating stays nil on a hit for a title with no
// reviews. Redis errors degrade to a miss.
func (c *RatingCache) Get(ctx context.Context, titleID int64) (*float64, bool) {
	val, err := c.client.Get(ctx, ratingKey(titleID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		return nil, false
	}
	if val == noRating {
		return nil, true
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return nil, false
	}
	return &f, true
}

func (c *RatingCache) Set(ctx context.Context, titleID int64, rating *float64) error {
	val := noRating
	if rating != nil {
		val = strconv.FormatFloat(*rating, 'f', -1, 64)
	}
	return c.client.Set(ctx, ratingKey(titleID), val, c.ttl).Err()
}

// Invalidate drops the cached rating after a review write.
func (c *RatingCache) Invalidate(ctx context.Context, titleID int64) error {
	return c.client.Del(ctx, ratingKey(titleID)).Err()
}

func (c *RatingCache) Close() error {
	return c.client.Close()
}
