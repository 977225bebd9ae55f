package usecases

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/samvyt/rifa/internal/application/payment/pixgateway"
	"github.com/samvyt/rifa/internal/domain/buyer"
	"github.com/samvyt/rifa/internal/domain/quota"
	"github.com/samvyt/rifa/internal/domain/raffle"
	vo "github.com/samvyt/rifa/internal/domain/shared/valueobjects"
	"github.com/samvyt/rifa/internal/domain/transaction"
	"github.com/samvyt/rifa/internal/shared/errors"
	"github.com/samvyt/rifa/internal/shared/logger"
)

// --- logger ---

type logEntry struct {
	level string
	msg   string
}

type mockLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (m *mockLogger) record(level, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, logEntry{level: level, msg: msg})
}

func (m *mockLogger) has(level, msg string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.level == level && e.msg == msg {
			return true
		}
	}
	return false
}

func (m *mockLogger) Debug(msg string, args ...any)                   { m.record("debug", msg) }
func (m *mockLogger) Info(msg string, args ...any)                    { m.record("info", msg) }
func (m *mockLogger) Warn(msg string, args ...any)                    { m.record("warn", msg) }
func (m *mockLogger) Error(msg string, args ...any)                   { m.record("error", msg) }
func (m *mockLogger) With(args ...any) logger.Interface               { return m }
func (m *mockLogger) Named(name string) logger.Interface              { return m }
func (m *mockLogger) Debugw(msg string, keysAndValues ...interface{}) { m.record("debug", msg) }
func (m *mockLogger) Infow(msg string, keysAndValues ...interface{})  { m.record("info", msg) }
func (m *mockLogger) Warnw(msg string, keysAndValues ...interface{})  { m.record("warn", msg) }
func (m *mockLogger) Errorw(msg string, keysAndValues ...interface{}) { m.record("error", msg) }

// --- raffle repository ---

type mockRaffleRepository struct {
	raffle *raffle.Raffle
}

func (m *mockRaffleRepository) Create(ctx context.Context, r *raffle.Raffle) error {
	m.raffle = r
	return nil
}

func (m *mockRaffleRepository) Update(ctx context.Context, r *raffle.Raffle) error {
	m.raffle = r
	return nil
}

func (m *mockRaffleRepository) GetByID(ctx context.Context, id uint) (*raffle.Raffle, error) {
	if m.raffle == nil || m.raffle.ID() != id {
		return nil, errors.NewNotFoundError("raffle not found")
	}
	return m.raffle, nil
}

func (m *mockRaffleRepository) GetBySID(ctx context.Context, sid string) (*raffle.Raffle, error) {
	if m.raffle == nil || m.raffle.SID() != sid {
		return nil, errors.NewNotFoundError("raffle not found")
	}
	return m.raffle, nil
}

func (m *mockRaffleRepository) GetActive(ctx context.Context) (*raffle.Raffle, error) {
	if m.raffle == nil || !m.raffle.IsActive() {
		return nil, errors.NewNotFoundError("no active raffle")
	}
	return m.raffle, nil
}

// --- buyer repository ---

type mockBuyerRepository struct {
	mu      sync.Mutex
	byEmail map[string]*buyer.Buyer
	nextID  uint
}

func newMockBuyerRepository() *mockBuyerRepository {
	return &mockBuyerRepository{byEmail: map[string]*buyer.Buyer{}}
}

func (m *mockBuyerRepository) Upsert(ctx context.Context, b *buyer.Buyer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.byEmail[b.Email()]; ok {
		*b = *buyer.ReconstructBuyer(existing.ID(), existing.SID(), b.Name(), b.Email(), b.Phone(), b.Document(), existing.CreatedAt(), b.UpdatedAt())
	} else {
		m.nextID++
		b.SetID(m.nextID)
	}
	stored := *b
	m.byEmail[b.Email()] = &stored
	return nil
}

func (m *mockBuyerRepository) GetByID(ctx context.Context, id uint) (*buyer.Buyer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.byEmail {
		if b.ID() == id {
			return b, nil
		}
	}
	return nil, errors.NewNotFoundError("buyer not found")
}

func (m *mockBuyerRepository) GetByEmail(ctx context.Context, email string) (*buyer.Buyer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.byEmail[email]; ok {
		return b, nil
	}
	return nil, errors.NewNotFoundError("buyer not found")
}

// --- transaction repository ---

type mockTransactionRepository struct {
	mu    sync.Mutex
	rows  map[string]*transaction.Transaction
	order []string

	CreateFunc                func(ctx context.Context, t *transaction.Transaction) error
	TransitionFromPendingFunc func(ctx context.Context, t *transaction.Transaction) (bool, error)
}

func newMockTransactionRepository() *mockTransactionRepository {
	return &mockTransactionRepository{rows: map[string]*transaction.Transaction{}}
}

// snapshot copies the aggregate so later in-memory mutations don't leak into "storage".
func snapshot(t *transaction.Transaction) *transaction.Transaction {
	c, err := transaction.ReconstructTransaction(transaction.ReconstructParams{
		ID: t.ID(), SID: t.SID(), RaffleID: t.RaffleID(), BuyerID: t.BuyerID(),
		QuotaNumbers: t.QuotaNumbers(), Amount: t.Amount(), Status: t.Status(),
		PaymentMethod: t.PaymentMethod(), Provider: t.Provider(),
		ExternalPaymentID: t.ExternalPaymentID(), PixPayload: t.PixPayload(), QRImage: t.QRImage(),
		CancelReason: t.CancelReason(), CreatedAt: t.CreatedAt(), ExpiresAt: t.ExpiresAt(),
		PaidAt: t.PaidAt(), ClosedAt: t.ClosedAt(), Version: t.Version(), UpdatedAt: t.UpdatedAt(),
	})
	if err != nil {
		panic(err)
	}
	return c
}

func (m *mockTransactionRepository) put(t *transaction.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[t.SID()]; !ok {
		m.order = append(m.order, t.SID())
	}
	m.rows[t.SID()] = snapshot(t)
}

func (m *mockTransactionRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *mockTransactionRepository) Create(ctx context.Context, t *transaction.Transaction) error {
	if m.CreateFunc != nil {
		if err := m.CreateFunc(ctx, t); err != nil {
			return err
		}
	}
	t.SetID(uint(m.count() + 1))
	m.put(t)
	return nil
}

func (m *mockTransactionRepository) Update(ctx context.Context, t *transaction.Transaction) error {
	m.put(t)
	return nil
}

func (m *mockTransactionRepository) Delete(ctx context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, sid)
	return nil
}

func (m *mockTransactionRepository) GetBySID(ctx context.Context, sid string) (*transaction.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[sid]
	if !ok {
		return nil, errors.NewNotFoundError("transaction not found", sid)
	}
	return snapshot(t), nil
}

func (m *mockTransactionRepository) TransitionFromPending(ctx context.Context, t *transaction.Transaction) (bool, error) {
	if m.TransitionFromPendingFunc != nil {
		return m.TransitionFromPendingFunc(ctx, t)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.rows[t.SID()]
	if !ok || !stored.Status().IsPending() {
		return false, nil
	}
	m.rows[t.SID()] = snapshot(t)
	return true, nil
}

func (m *mockTransactionRepository) list(keep func(t *transaction.Transaction) bool) []*transaction.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*transaction.Transaction
	for _, sid := range m.order {
		if t, ok := m.rows[sid]; ok && keep(t) {
			out = append(out, snapshot(t))
		}
	}
	return out
}

func (m *mockTransactionRepository) ListPending(ctx context.Context) ([]*transaction.Transaction, error) {
	return m.list(func(t *transaction.Transaction) bool { return t.Status().IsPending() }), nil
}

func (m *mockTransactionRepository) ListOverdue(ctx context.Context, now time.Time) ([]*transaction.Transaction, error) {
	return m.list(func(t *transaction.Transaction) bool { return t.IsOverdue(now) }), nil
}

func (m *mockTransactionRepository) ListByBuyer(ctx context.Context, buyerID uint) ([]*transaction.Transaction, error) {
	out := m.list(func(t *transaction.Transaction) bool { return t.BuyerID() == buyerID })
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// --- ledger ---

type ledgerRow struct {
	status quota.Status
	hold   *quota.Hold
	soldAt *time.Time
}

// fakeLedger keeps the all-or-nothing reserve contract under a mutex.
type fakeLedger struct {
	mu   sync.Mutex
	rows map[string]*ledgerRow

	ReserveErr error
	ReleaseErr error
}

func newFakeLedger(numbers []string) *fakeLedger {
	l := &fakeLedger{rows: map[string]*ledgerRow{}}
	for _, n := range numbers {
		l.rows[n] = &ledgerRow{status: quota.StatusAvailable}
	}
	return l
}

func (l *fakeLedger) status(number string) quota.Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rows[number].status
}

func (l *fakeLedger) holder(number string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if h := l.rows[number].hold; h != nil {
		return h.TransactionSID
	}
	return ""
}

func (l *fakeLedger) CreateBatch(ctx context.Context, raffleID uint, numbers []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, n := range numbers {
		l.rows[n] = &ledgerRow{status: quota.StatusAvailable}
	}
	return nil
}

func (l *fakeLedger) QueryByStatus(ctx context.Context, raffleID uint, status *quota.Status, page quota.Page) ([]*quota.Quota, int64, error) {
	return nil, 0, fmt.Errorf("not implemented")
}

func (l *fakeLedger) QueryByNumbers(ctx context.Context, raffleID uint, numbers []string) ([]*quota.Quota, error) {
	return nil, fmt.Errorf("not implemented")
}

func (l *fakeLedger) Reserve(ctx context.Context, raffleID uint, numbers []string, hold quota.Hold) error {
	if l.ReserveErr != nil {
		return l.ReserveErr
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	var unavailable []string
	for _, n := range numbers {
		if row, ok := l.rows[n]; !ok || row.status != quota.StatusAvailable {
			unavailable = append(unavailable, n)
		}
	}
	if len(unavailable) > 0 {
		return &quota.UnavailableError{Numbers: unavailable}
	}
	for _, n := range numbers {
		h := hold
		l.rows[n] = &ledgerRow{status: quota.StatusPending, hold: &h}
	}
	return nil
}

func (l *fakeLedger) Settle(ctx context.Context, sid string, at time.Time) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var n int64
	for _, row := range l.rows {
		if row.status == quota.StatusPending && row.hold != nil && row.hold.TransactionSID == sid {
			row.status = quota.StatusSold
			row.soldAt = &at
			n++
		}
	}
	return n, nil
}

func (l *fakeLedger) Release(ctx context.Context, sid string) (int64, error) {
	if l.ReleaseErr != nil {
		return 0, l.ReleaseErr
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	var n int64
	for _, row := range l.rows {
		if row.status == quota.StatusPending && row.hold != nil && row.hold.TransactionSID == sid {
			row.status = quota.StatusAvailable
			row.hold = nil
			n++
		}
	}
	return n, nil
}

func (l *fakeLedger) PickRandom(ctx context.Context, raffleID uint, quantity int) ([]string, error) {
	return nil, fmt.Errorf("not implemented")
}

func (l *fakeLedger) CountByStatus(ctx context.Context, raffleID uint) (quota.Counts, error) {
	return quota.Counts{}, fmt.Errorf("not implemented")
}

func (l *fakeLedger) CountCommitted(ctx context.Context, raffleID uint) (int64, error) {
	return 0, fmt.Errorf("not implemented")
}

func (l *fakeLedger) ListSoldByBuyer(ctx context.Context, raffleID, buyerID uint) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := []string{}
	for n, row := range l.rows {
		if row.status == quota.StatusSold && row.hold.BuyerID == buyerID {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out, nil
}

// --- gateway ---

type mockGateway struct {
	CreateChargeFunc func(ctx context.Context, req pixgateway.ChargeRequest) (*pixgateway.Charge, error)
	CheckStatusFunc  func(ctx context.Context, paymentID string) (pixgateway.Status, error)
	CancelChargeFunc func(ctx context.Context, paymentID string) error

	mu        sync.Mutex
	requests  []pixgateway.ChargeRequest
	cancelled []string
}

func (m *mockGateway) Name() string { return "mock" }

func (m *mockGateway) CreateCharge(ctx context.Context, req pixgateway.ChargeRequest) (*pixgateway.Charge, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.CreateChargeFunc != nil {
		return m.CreateChargeFunc(ctx, req)
	}
	return &pixgateway.Charge{
		PaymentID: "pay_" + req.Reference,
		Payload:   "00020126pix",
		QRImage:   "data:image/png;base64,AA==",
		ExpiresAt: req.ExpiresAt,
		Status:    pixgateway.StatusPending,
	}, nil
}

func (m *mockGateway) CheckStatus(ctx context.Context, paymentID string) (pixgateway.Status, error) {
	if m.CheckStatusFunc != nil {
		return m.CheckStatusFunc(ctx, paymentID)
	}
	return pixgateway.StatusPending, nil
}

func (m *mockGateway) CancelCharge(ctx context.Context, paymentID string) error {
	m.mu.Lock()
	m.cancelled = append(m.cancelled, paymentID)
	m.mu.Unlock()
	if m.CancelChargeFunc != nil {
		return m.CancelChargeFunc(ctx, paymentID)
	}
	return nil
}

// --- runner, tracker, publisher, metrics ---

type directRunner struct{}

func (directRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockTracker struct {
	mu      sync.Mutex
	tracked map[string]time.Time
}

func newMockTracker() *mockTracker {
	return &mockTracker{tracked: map[string]time.Time{}}
}

func (m *mockTracker) Track(sid string, expiresAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tracked[sid] = expiresAt
}

func (m *mockTracker) Untrack(sid string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tracked, sid)
}

func (m *mockTracker) isTracked(sid string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.tracked[sid]
	return ok
}

type mockPublisher struct {
	mu     sync.Mutex
	events []quota.ChangeEvent
}

func (m *mockPublisher) PublishQuotaChange(ctx context.Context, evt quota.ChangeEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, evt)
	return nil
}

func (m *mockPublisher) last() quota.ChangeEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events[len(m.events)-1]
}

type mockMetrics struct {
	mu       sync.Mutex
	outcomes []string
	closed   []transaction.Status
}

func (m *mockMetrics) CheckoutStarted(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
}

func (m *mockMetrics) QuotasReserved(int) {}

func (m *mockMetrics) TransactionClosed(status transaction.Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = append(m.closed, status)
}

type mockNotifier struct {
	sent chan string
}

func (m *mockNotifier) NotifyPurchaseApproved(ctx context.Context, b *buyer.Buyer, r *raffle.Raffle, t *transaction.Transaction) error {
	m.sent <- t.SID()
	return nil
}

// --- fixture ---

type fixture struct {
	raffle    *raffle.Raffle
	raffles   *mockRaffleRepository
	buyers    *mockBuyerRepository
	txns      *mockTransactionRepository
	ledger    *fakeLedger
	gateway   *mockGateway
	tracker   *mockTracker
	publisher *mockPublisher
	metrics   *mockMetrics
	notifier  *mockNotifier
	log       *mockLogger
	config    Config

	start   *StartCheckoutUseCase
	confirm *ConfirmPaymentUseCase
	cancel  *CancelTransactionUseCase
	expire  *ExpireTransactionsUseCase
	sync    *SyncPaymentStatusUseCase
}

// newFixture builds a raffle of 10 quotas at 1.00 each.
func newFixture() *fixture {
	r, err := raffle.NewRaffle(raffle.NewParams{
		Name:        "Moto 0km",
		TotalQuotas: 10,
		Price:       vo.MoneyFromCents(100, "BRL"),
	})
	if err != nil {
		panic(err)
	}
	r.SetID(1)

	f := &fixture{
		raffle:    r,
		raffles:   &mockRaffleRepository{raffle: r},
		buyers:    newMockBuyerRepository(),
		txns:      newMockTransactionRepository(),
		ledger:    newFakeLedger(r.QuotaNumbers()),
		gateway:   &mockGateway{},
		tracker:   newMockTracker(),
		publisher: &mockPublisher{},
		metrics:   &mockMetrics{},
		notifier:  &mockNotifier{sent: make(chan string, 4)},
		log:       &mockLogger{},
		config: Config{
			ReservationWindow: 15 * time.Minute,
			MaxQuotasPerOrder: 5,
			GatewayTimeout:    time.Second,
		},
	}

	f.start = NewStartCheckoutUseCase(f.raffles, f.buyers, f.txns, f.ledger, f.gateway, directRunner{},
		f.tracker, f.publisher, f.metrics, f.config, f.log)
	f.confirm = NewConfirmPaymentUseCase(f.txns, f.buyers, f.raffles, f.ledger, directRunner{},
		f.tracker, f.publisher, f.notifier, f.metrics, f.log)
	f.cancel = NewCancelTransactionUseCase(f.txns, f.ledger, f.gateway, directRunner{},
		f.tracker, f.publisher, f.metrics, f.config, f.log)
	f.expire = NewExpireTransactionsUseCase(f.txns, f.cancel, f.log)
	f.sync = NewSyncPaymentStatusUseCase(f.txns, f.gateway, f.confirm, f.cancel, f.expire, f.config, f.log)
	return f
}

func (f *fixture) checkoutCommand(numbers ...string) StartCheckoutCommand {
	sel, err := quota.SelectionOf(0, numbers...)
	if err != nil {
		panic(err)
	}
	return StartCheckoutCommand{
		Buyer: BuyerInput{
			Name:  "Ana Souza",
			Email: "ana@example.com",
			Phone: "11988887777",
		},
		Selection: sel,
	}
}

// backdate rewrites a stored pending transaction so its window has already passed.
func (f *fixture) backdate(sid string) {
	t, err := f.txns.GetBySID(context.Background(), sid)
	if err != nil {
		panic(err)
	}
	past, err := transaction.ReconstructTransaction(transaction.ReconstructParams{
		ID: t.ID(), SID: t.SID(), RaffleID: t.RaffleID(), BuyerID: t.BuyerID(),
		QuotaNumbers: t.QuotaNumbers(), Amount: t.Amount(), Status: t.Status(),
		PaymentMethod: t.PaymentMethod(), Provider: t.Provider(),
		ExternalPaymentID: t.ExternalPaymentID(), PixPayload: t.PixPayload(), QRImage: t.QRImage(),
		CreatedAt: t.CreatedAt().Add(-time.Hour), ExpiresAt: time.Now().Add(-time.Minute),
		Version: t.Version(), UpdatedAt: t.UpdatedAt(),
	})
	if err != nil {
		panic(err)
	}
	f.txns.put(past)
}
