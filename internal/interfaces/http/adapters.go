package http

import (
	"context"
	"errors"
	"sync"

	"github.com/samvyt/rifa/internal/infrastructure/scheduler"
)

// lateExpirer breaks the watchdog <-> use case cycle: the watchdog is the
// tracker handed to the checkout use cases, and the expire use case it calls
// is built from them.
type lateExpirer struct {
	mu     sync.RWMutex
	target scheduler.Expirer
}

func (e *lateExpirer) bind(target scheduler.Expirer) {
	e.mu.Lock()
	e.target = target
	e.mu.Unlock()
}

func (e *lateExpirer) ExpireOne(ctx context.Context, transactionSID string) (bool, error) {
	e.mu.RLock()
	target := e.target
	e.mu.RUnlock()
	if target == nil {
		return false, errors.New("expirer not wired yet")
	}
	return target.ExpireOne(ctx, transactionSID)
}
