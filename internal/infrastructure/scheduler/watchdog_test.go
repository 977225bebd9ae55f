package scheduler

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/samvyt/rifa/internal/domain/shared/valueobjects"
	"github.com/samvyt/rifa/internal/domain/transaction"
	"github.com/samvyt/rifa/internal/shared/logger"
)

type recordingExpirer struct {
	mu      sync.Mutex
	calls   map[string]int
	failFor string
}

func newRecordingExpirer() *recordingExpirer {
	return &recordingExpirer{calls: make(map[string]int)}
}

func (e *recordingExpirer) ExpireOne(ctx context.Context, sid string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls[sid]++
	if sid == e.failFor {
		return false, stderrors.New("database is locked")
	}
	return e.calls[sid] == 1, nil
}

func (e *recordingExpirer) count(sid string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls[sid]
}

type staticPending struct {
	txns []*transaction.Transaction
	err  error
}

func (p staticPending) ListPending(ctx context.Context) ([]*transaction.Transaction, error) {
	return p.txns, p.err
}

type gaugeRecorder struct {
	mu   sync.Mutex
	last int
}

func (g *gaugeRecorder) ExpiryTimersArmed(n int) {
	g.mu.Lock()
	g.last = n
	g.mu.Unlock()
}

func (g *gaugeRecorder) value() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}

func pendingTxn(t *testing.T, sid string, expiresAt time.Time) *transaction.Transaction {
	t.Helper()
	txn, err := transaction.ReconstructTransaction(transaction.ReconstructParams{
		ID:           1,
		SID:          sid,
		RaffleID:     1,
		BuyerID:      1,
		QuotaNumbers: []string{"00001"},
		Amount:       vo.MoneyFromCents(100, "BRL"),
		Status:       transaction.StatusPending,
		CreatedAt:    expiresAt.Add(-15 * time.Minute),
		ExpiresAt:    expiresAt,
	})
	require.NoError(t, err)
	return txn
}

func TestWatchdog_FiresAtDeadline(t *testing.T) {
	expirer := newRecordingExpirer()
	gauge := &gaugeRecorder{}
	w := NewWatchdog(expirer, staticPending{}, gauge, logger.NewNopLogger())
	defer w.Stop()

	w.Track("txn_a", time.Now().Add(30*time.Millisecond))
	assert.Equal(t, 1, w.Armed())
	assert.Equal(t, 1, gauge.value())

	require.Eventually(t, func() bool { return expirer.count("txn_a") == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, w.Armed())
	assert.Equal(t, 0, gauge.value())
}

func TestWatchdog_UntrackDisarms(t *testing.T) {
	expirer := newRecordingExpirer()
	w := NewWatchdog(expirer, staticPending{}, nil, logger.NewNopLogger())
	defer w.Stop()

	w.Track("txn_b", time.Now().Add(50*time.Millisecond))
	w.Untrack("txn_b")
	w.Untrack("txn_unknown")

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 0, expirer.count("txn_b"))
	assert.Equal(t, 0, w.Armed())
}

func TestWatchdog_RetrackReplacesTimer(t *testing.T) {
	expirer := newRecordingExpirer()
	w := NewWatchdog(expirer, staticPending{}, nil, logger.NewNopLogger())
	defer w.Stop()

	w.Track("txn_c", time.Now().Add(20*time.Millisecond))
	w.Track("txn_c", time.Now().Add(time.Hour))

	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, 0, expirer.count("txn_c"))
	assert.Equal(t, 1, w.Armed())
}

func TestWatchdog_ArmExpiresOverdueImmediately(t *testing.T) {
	expirer := newRecordingExpirer()
	pending := staticPending{txns: []*transaction.Transaction{
		pendingTxn(t, "txn_overdue", time.Now().Add(-time.Minute)),
		pendingTxn(t, "txn_future", time.Now().Add(time.Hour)),
	}}
	w := NewWatchdog(expirer, pending, nil, logger.NewNopLogger())
	defer w.Stop()

	n, err := w.Arm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.Eventually(t, func() bool { return expirer.count("txn_overdue") == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, expirer.count("txn_future"))
	assert.Equal(t, 1, w.Armed())
}

func TestWatchdog_ArmPropagatesListError(t *testing.T) {
	w := NewWatchdog(newRecordingExpirer(), staticPending{err: stderrors.New("boom")}, nil, logger.NewNopLogger())
	defer w.Stop()

	_, err := w.Arm(context.Background())
	assert.Error(t, err)
}

func TestWatchdog_FailedExpiryIsLogged(t *testing.T) {
	expirer := newRecordingExpirer()
	expirer.failFor = "txn_fail"
	w := NewWatchdog(expirer, staticPending{}, nil, logger.NewNopLogger())
	defer w.Stop()

	w.Track("txn_fail", time.Now())
	require.Eventually(t, func() bool { return expirer.count("txn_fail") == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, w.Armed())
}

func TestWatchdog_StopDisarmsAndIgnoresNewTimers(t *testing.T) {
	expirer := newRecordingExpirer()
	w := NewWatchdog(expirer, staticPending{}, nil, logger.NewNopLogger())

	w.Track("txn_d", time.Now().Add(50*time.Millisecond))
	w.Stop()
	w.Stop()
	w.Track("txn_e", time.Now())

	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, 0, expirer.count("txn_d"))
	assert.Equal(t, 0, expirer.count("txn_e"))
	assert.Equal(t, 0, w.Armed())
}
