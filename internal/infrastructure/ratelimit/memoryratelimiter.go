package ratelimit

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MemoryRateLimiter is the single-instance limiter used without Redis. Each key
// gets one token bucket per configured window.
type MemoryRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
	now      func() time.Time
	idleTTL  time.Duration
}

func NewMemoryRateLimiter() *MemoryRateLimiter {
	return &MemoryRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
		now:      time.Now,
		idleTTL:  25 * time.Hour,
	}
}

func (l *MemoryRateLimiter) Allow(ctx context.Context, key string, config RateLimitConfig) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evictIdle(now)

	windows := config.windows()
	buckets := make([]*rate.Limiter, 0, len(windows))
	for _, w := range windows {
		buckets = append(buckets, l.bucket(key, w))
	}

	// All-or-nothing: a denied request must not consume from the other windows.
	reservations := make([]*rate.Reservation, 0, len(buckets))
	for _, b := range buckets {
		r := b.ReserveN(now, 1)
		if !r.OK() || r.DelayFrom(now) > 0 {
			r.CancelAt(now)
			for _, prev := range reservations {
				prev.CancelAt(now)
			}
			return false, nil
		}
		reservations = append(reservations, r)
	}
	return true, nil
}

func (l *MemoryRateLimiter) bucket(key string, w limitWindow) *rate.Limiter {
	k := key + "|" + w.duration.String()
	b, ok := l.limiters[k]
	if !ok {
		b = rate.NewLimiter(rate.Every(w.duration/time.Duration(w.limit)), w.limit)
		l.limiters[k] = b
	}
	l.lastSeen[k] = l.now()
	return b
}

func (l *MemoryRateLimiter) evictIdle(now time.Time) {
	for k, seen := range l.lastSeen {
		if now.Sub(seen) > l.idleTTL {
			delete(l.lastSeen, k)
			delete(l.limiters, k)
		}
	}
}

func (l *MemoryRateLimiter) Reset(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	prefix := key + "|"
	for k := range l.limiters {
		if strings.HasPrefix(k, prefix) {
			delete(l.limiters, k)
			delete(l.lastSeen, k)
		}
	}
	return nil
}
