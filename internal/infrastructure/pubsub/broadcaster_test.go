package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samvyt/rifa/internal/domain/quota"
	"github.com/samvyt/rifa/internal/shared/logger"
)

func TestBroadcaster_FansOut(t *testing.T) {
	b := NewBroadcaster(logger.NewNopLogger())
	first, stopFirst := b.Listen(4)
	second, stopSecond := b.Listen(4)
	defer stopFirst()
	defer stopSecond()

	evt := quota.ChangeEvent{RaffleID: 3, Numbers: []string{"00001"}, Status: quota.StatusPending}
	require.NoError(t, b.PublishQuotaChange(context.Background(), evt))

	assert.Equal(t, evt, <-first)
	assert.Equal(t, evt, <-second)
}

func TestBroadcaster_DropsForSlowListener(t *testing.T) {
	b := NewBroadcaster(logger.NewNopLogger())
	ch, stop := b.Listen(1)
	defer stop()

	b.Dispatch(quota.ChangeEvent{RaffleID: 1})
	b.Dispatch(quota.ChangeEvent{RaffleID: 2})

	assert.Equal(t, uint(1), (<-ch).RaffleID)
	select {
	case evt := <-ch:
		t.Fatalf("unexpected second event %v", evt)
	default:
	}
}

func TestBroadcaster_StopUnregisters(t *testing.T) {
	b := NewBroadcaster(logger.NewNopLogger())
	ch, stop := b.Listen(0)
	assert.Equal(t, 1, b.ListenerCount())

	stop()
	stop()
	assert.Equal(t, 0, b.ListenerCount())

	_, open := <-ch
	assert.False(t, open)
	assert.NotPanics(t, func() { b.Dispatch(quota.ChangeEvent{RaffleID: 1}) })
}

func TestBroadcaster_Subscribe(t *testing.T) {
	b := NewBroadcaster(logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())

	got := make(chan quota.ChangeEvent, 1)
	done := make(chan error, 1)
	go func() {
		done <- b.Subscribe(ctx, func(evt quota.ChangeEvent) { got <- evt })
	}()

	require.Eventually(t, func() bool { return b.ListenerCount() == 1 }, time.Second, 5*time.Millisecond)
	b.Dispatch(quota.ChangeEvent{RaffleID: 9, Status: quota.StatusSold})

	select {
	case evt := <-got:
		assert.Equal(t, uint(9), evt.RaffleID)
	case <-time.After(time.Second):
		t.Fatal("handler not called")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, 0, b.ListenerCount())
}
