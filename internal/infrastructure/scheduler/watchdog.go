package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/samvyt/rifa/internal/domain/transaction"
	"github.com/samvyt/rifa/internal/shared/biztime"
	"github.com/samvyt/rifa/internal/shared/goroutine"
	"github.com/samvyt/rifa/internal/shared/logger"
)

// Expirer expires one transaction if it is still pending and overdue.
type Expirer interface {
	ExpireOne(ctx context.Context, transactionSID string) (bool, error)
}

// PendingLister lists transactions still awaiting payment.
type PendingLister interface {
	ListPending(ctx context.Context) ([]*transaction.Transaction, error)
}

// WatchdogMetrics receives the number of armed timers after every change.
type WatchdogMetrics interface {
	ExpiryTimersArmed(n int)
}

const (
	defaultExpireTimeout = 30 * time.Second
	// Fire slightly after the deadline so the overdue check cannot see "not yet".
	fireSlack = 50 * time.Millisecond
)

// Watchdog arms one timer per pending transaction and expires it at its deadline.
// Timers are in-memory only; Arm rebuilds them from storage after a restart.
type Watchdog struct {
	expirer Expirer
	pending PendingLister
	metrics WatchdogMetrics
	logger  logger.Interface
	now     func() time.Time

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool

	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewWatchdog(expirer Expirer, pending PendingLister, metrics WatchdogMetrics, log logger.Interface) *Watchdog {
	return &Watchdog{
		expirer: expirer,
		pending: pending,
		metrics: metrics,
		logger:  log,
		now:     biztime.NowUTC,
		timers:  make(map[string]*time.Timer),
	}
}

// Track arms (or re-arms) the timer for a transaction.
func (w *Watchdog) Track(transactionSID string, expiresAt time.Time) {
	delay := expiresAt.Sub(w.now()) + fireSlack
	if delay < 0 {
		delay = 0
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	if t, ok := w.timers[transactionSID]; ok {
		t.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		w.fire(transactionSID, &timer)
	})
	w.timers[transactionSID] = timer
	w.reportLocked()

	w.logger.Debugw("expiry timer armed", "transaction_sid", transactionSID, "expires_at", expiresAt)
}

// Untrack disarms the timer once a transaction leaves pending.
func (w *Watchdog) Untrack(transactionSID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[transactionSID]; ok {
		t.Stop()
		delete(w.timers, transactionSID)
		w.reportLocked()
	}
}

// fire runs on the timer's goroutine. timer is dereferenced under mu, after Track stored it.
func (w *Watchdog) fire(transactionSID string, timer **time.Timer) {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	if w.timers[transactionSID] != *timer {
		// Re-armed after this timer had already fired.
		w.mu.Unlock()
		return
	}
	delete(w.timers, transactionSID)
	w.reportLocked()
	w.wg.Add(1)
	w.mu.Unlock()

	defer w.wg.Done()
	goroutine.Recover(w.logger, "expiry-timer", func() {
		ctx, cancel := context.WithTimeout(context.Background(), defaultExpireTimeout)
		defer cancel()

		expired, err := w.expirer.ExpireOne(ctx, transactionSID)
		if err != nil {
			// The periodic sweep retries anything left pending.
			w.logger.Errorw("expiry timer failed", "error", err, "transaction_sid", transactionSID)
			return
		}
		if expired {
			w.logger.Infow("transaction expired by timer", "transaction_sid", transactionSID)
		}
	})
}

// Arm tracks every pending transaction in storage. Overdue ones fire immediately.
func (w *Watchdog) Arm(ctx context.Context) (int, error) {
	pending, err := w.pending.ListPending(ctx)
	if err != nil {
		return 0, err
	}
	for _, txn := range pending {
		w.Track(txn.SID(), txn.ExpiresAt())
	}
	w.logger.Infow("expiry timers rebuilt", "count", len(pending))
	return len(pending), nil
}

// Armed returns the number of timers currently waiting.
func (w *Watchdog) Armed() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.timers)
}

// Stop disarms every timer and waits for in-flight expirations.
func (w *Watchdog) Stop() {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		w.stopped = true
		for sid, t := range w.timers {
			t.Stop()
			delete(w.timers, sid)
		}
		w.reportLocked()
		w.mu.Unlock()

		w.wg.Wait()
		w.logger.Infow("expiration watchdog stopped")
	})
}

func (w *Watchdog) reportLocked() {
	if w.metrics != nil {
		w.metrics.ExpiryTimersArmed(len(w.timers))
	}
}
