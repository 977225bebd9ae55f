// Package ratelimit throttles checkout attempts per client.
package ratelimit

import "context"

type RateLimitConfig struct {
	RequestsPerMinute int
	RequestsPerHour   int
	RequestsPerDay    int
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, config RateLimitConfig) (bool, error)
	Reset(ctx context.Context, key string) error
}
