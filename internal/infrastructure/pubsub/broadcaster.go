package pubsub

import (
	"context"
	"sync"

	"github.com/samvyt/rifa/internal/domain/quota"
	"github.com/samvyt/rifa/internal/shared/logger"
)

const defaultListenerBuffer = 64

// Broadcaster fans quota changes out to in-process listeners. A listener that
// falls behind loses events rather than blocking the publisher.
type Broadcaster struct {
	mu        sync.RWMutex
	listeners map[uint64]chan quota.ChangeEvent
	next      uint64
	logger    logger.Interface
}

func NewBroadcaster(log logger.Interface) *Broadcaster {
	return &Broadcaster{
		listeners: make(map[uint64]chan quota.ChangeEvent),
		logger:    log,
	}
}

// PublishQuotaChange delivers evt locally. Used when no Redis is configured.
func (b *Broadcaster) PublishQuotaChange(ctx context.Context, evt quota.ChangeEvent) error {
	b.Dispatch(evt)
	return nil
}

func (b *Broadcaster) Dispatch(evt quota.ChangeEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.listeners {
		select {
		case ch <- evt:
		default:
			b.logger.Debugw("quota change dropped for slow listener",
				"listener", id,
				"raffle_id", evt.RaffleID,
			)
		}
	}
}

// Listen registers a buffered listener. The returned func unregisters it and closes the channel.
func (b *Broadcaster) Listen(buffer int) (<-chan quota.ChangeEvent, func()) {
	if buffer <= 0 {
		buffer = defaultListenerBuffer
	}
	ch := make(chan quota.ChangeEvent, buffer)

	b.mu.Lock()
	id := b.next
	b.next++
	b.listeners[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.listeners, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Subscribe calls handler for every change until ctx is done.
func (b *Broadcaster) Subscribe(ctx context.Context, handler func(evt quota.ChangeEvent)) error {
	ch, cancel := b.Listen(defaultListenerBuffer)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt := <-ch:
			handler(evt)
		}
	}
}

func (b *Broadcaster) ListenerCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}
