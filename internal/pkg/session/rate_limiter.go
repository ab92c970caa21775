// internal/pkg/session/rate_limiter.go
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	maxLoginAttempts = 10
	loginWindow      = 15 * time.Minute
)

// RateLimiter throttles login exchanges per client IP using a redis counter.
type RateLimiter struct {
	client *redis.Client
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// CheckLoginAttempt increments the attempt counter for the IP and reports
// whether the exchange may proceed plus the remaining attempts.
func (r *RateLimiter) CheckLoginAttempt(ctx context.Context, ip string) (bool, int64, error) {
	key := fmt.Sprintf("ratelimit:login:%s", ip)

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment login attempt: %w", err)
	}

	// Set expiration on first attempt
	if count == 1 {
		r.client.Expire(ctx, key, loginWindow)
	}

	remaining := int64(maxLoginAttempts) - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= maxLoginAttempts, remaining, nil
}

// ResetLoginAttempts clears the attempt counter after a successful exchange.
func (r *RateLimiter) ResetLoginAttempts(ctx context.Context, ip string) error {
	key := fmt.Sprintf("ratelimit:login:%s", ip)
	return r.client.Del(ctx, key).Err()
}
