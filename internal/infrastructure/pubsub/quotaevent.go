// Package pubsub carries quota change notifications between instances and to live clients.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/samvyt/rifa/internal/domain/quota"
	"github.com/samvyt/rifa/internal/shared/logger"
)

const quotaChannelPrefix = "rifa:quota:changed:"

// QuotaChannel is the Redis channel carrying changes for one raffle.
func QuotaChannel(raffleID uint) string {
	return quotaChannelPrefix + strconv.FormatUint(uint64(raffleID), 10)
}

// RedisQuotaEventBus publishes quota changes on a per-raffle channel and relays
// every raffle's changes back to a local Broadcaster.
type RedisQuotaEventBus struct {
	client *redis.Client
	logger logger.Interface
}

func NewRedisQuotaEventBus(client *redis.Client, logger logger.Interface) *RedisQuotaEventBus {
	return &RedisQuotaEventBus{
		client: client,
		logger: logger,
	}
}

func (b *RedisQuotaEventBus) PublishQuotaChange(ctx context.Context, evt quota.ChangeEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal quota change event: %w", err)
	}

	channel := QuotaChannel(evt.RaffleID)
	if err := b.client.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish quota change",
			"channel", channel,
			"error", err,
		)
		return fmt.Errorf("failed to publish quota change: %w", err)
	}

	b.logger.Debugw("quota change published",
		"channel", channel,
		"status", evt.Status,
		"count", len(evt.Numbers),
	)
	return nil
}

// Relay forwards every raffle's changes to handler until ctx is done,
// reconnecting with exponential backoff.
func (b *RedisQuotaEventBus) Relay(ctx context.Context, handler func(evt quota.ChangeEvent)) error {
	backoff := time.Second
	maxBackoff := 30 * time.Second

	for {
		err := b.subscribe(ctx, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		b.logger.Warnw("quota change subscription disconnected, reconnecting",
			"error", err,
			"backoff", backoff,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, maxBackoff)
	}
}

func (b *RedisQuotaEventBus) subscribe(ctx context.Context, handler func(evt quota.ChangeEvent)) error {
	pattern := quotaChannelPrefix + "*"
	sub := b.client.PSubscribe(ctx, pattern)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", pattern, err)
	}

	b.logger.Infow("subscribed to quota changes", "pattern", pattern)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return fmt.Errorf("quota change channel closed")
			}
			evt, err := decodeQuotaChange(msg.Channel, msg.Payload)
			if err != nil {
				b.logger.Warnw("failed to decode quota change",
					"channel", msg.Channel,
					"error", err,
				)
				continue
			}
			handler(evt)
		}
	}
}

func decodeQuotaChange(channel, payload string) (quota.ChangeEvent, error) {
	var evt quota.ChangeEvent
	if err := json.Unmarshal([]byte(payload), &evt); err != nil {
		return evt, err
	}
	if evt.RaffleID == 0 {
		id, err := strconv.ParseUint(strings.TrimPrefix(channel, quotaChannelPrefix), 10, 64)
		if err != nil {
			return evt, fmt.Errorf("raffle id missing from event and channel %q", channel)
		}
		evt.RaffleID = uint(id)
	}
	return evt, nil
}
