package cache

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/samvyt/rifa/internal/application/raffle/dto"
	"github.com/samvyt/rifa/internal/shared/logger"
)

const (
	statsKeyPrefix  = "rifa:stats:"
	defaultStatsTTL = 30 * time.Second
)

func statsKey(raffleID uint) string {
	return fmt.Sprintf("%s%d", statsKeyPrefix, raffleID)
}

// RedisStatsCache stores raffle stats as JSON with a jittered TTL.
type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
	jitter func(ttl time.Duration) time.Duration
	logger logger.Interface
}

func NewRedisStatsCache(client *redis.Client, ttl time.Duration, logger logger.Interface) *RedisStatsCache {
	if ttl <= 0 {
		ttl = defaultStatsTTL
	}
	return &RedisStatsCache{
		client: client,
		ttl:    ttl,
		jitter: jitteredTTL,
		logger: logger,
	}
}

func (c *RedisStatsCache) Get(ctx context.Context, raffleID uint) (*dto.StatsDTO, bool, error) {
	data, err := c.client.Get(ctx, statsKey(raffleID)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get stats from cache: %w", err)
	}

	var stats dto.StatsDTO
	if err := json.Unmarshal(data, &stats); err != nil {
		// Drop the corrupt entry and recompute.
		c.logger.Warnw("discarding undecodable stats cache entry", "raffle_id", raffleID, "error", err)
		_ = c.client.Del(ctx, statsKey(raffleID)).Err()
		return nil, false, nil
	}
	return &stats, true, nil
}

func (c *RedisStatsCache) Set(ctx context.Context, raffleID uint, stats *dto.StatsDTO) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}
	if err := c.client.Set(ctx, statsKey(raffleID), data, c.jitter(c.ttl)).Err(); err != nil {
		return fmt.Errorf("failed to set stats cache: %w", err)
	}
	return nil
}

func (c *RedisStatsCache) Invalidate(ctx context.Context, raffleID uint) error {
	if err := c.client.Del(ctx, statsKey(raffleID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate stats cache: %w", err)
	}
	return nil
}

// jitteredTTL spreads expiry over ttl..1.25*ttl so instances do not recompute together.
func jitteredTTL(ttl time.Duration) time.Duration {
	return ttl + time.Duration(rand.Int64N(int64(ttl)/4+1))
}

type memoryStatsEntry struct {
	stats     dto.StatsDTO
	expiresAt time.Time
}

// MemoryStatsCache is the single-instance fallback when Redis is not configured.
type MemoryStatsCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[uint]memoryStatsEntry
}

func NewMemoryStatsCache(ttl time.Duration) *MemoryStatsCache {
	if ttl <= 0 {
		ttl = defaultStatsTTL
	}
	return &MemoryStatsCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[uint]memoryStatsEntry),
	}
}

func (c *MemoryStatsCache) Get(ctx context.Context, raffleID uint) (*dto.StatsDTO, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[raffleID]
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, raffleID)
		return nil, false, nil
	}
	stats := e.stats
	return &stats, true, nil
}

func (c *MemoryStatsCache) Set(ctx context.Context, raffleID uint, stats *dto.StatsDTO) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[raffleID] = memoryStatsEntry{stats: *stats, expiresAt: c.now().Add(c.ttl)}
	return nil
}

func (c *MemoryStatsCache) Invalidate(ctx context.Context, raffleID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, raffleID)
	return nil
}
