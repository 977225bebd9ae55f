package pix

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/samvyt/rifa/internal/application/payment/pixgateway"
	"github.com/samvyt/rifa/internal/shared/biztime"
	"github.com/samvyt/rifa/internal/shared/logger"
)

const (
	MockProviderName = "mock"
	// 1x1 transparent PNG; the mock has no real QR to render.
	mockQRImage         = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNk+M9QDwADhgGAWjR9awAAAABJRU5ErkJggg=="
	defaultApprovalWait = 30 * time.Second
	// Settled charges stay answerable this long so a retried poll still sees the outcome.
	mockChargeRetention = time.Hour
)

type mockCharge struct {
	createdAt   time.Time
	expiresAt   time.Time
	cancelledAt time.Time
}

// settledAt is when the charge reached a final status, by cancellation, approval or expiry.
func (c *mockCharge) settledAt(approvalDelay time.Duration) time.Time {
	if !c.cancelledAt.IsZero() {
		return c.cancelledAt
	}
	approvedAt := c.createdAt.Add(approvalDelay)
	if c.expiresAt.Before(approvedAt) {
		return c.expiresAt
	}
	return approvedAt
}

// MockGateway issues fake charges that approve themselves after a delay. For demos and local runs.
type MockGateway struct {
	approvalDelay time.Duration
	merchantName  string
	merchantCity  string
	now           func() time.Time
	logger        logger.Interface

	mu      sync.Mutex
	charges map[string]*mockCharge
}

type MockOption func(*MockGateway)

// WithClock replaces the time source.
func WithClock(now func() time.Time) MockOption {
	return func(g *MockGateway) { g.now = now }
}

func NewMockGateway(approvalDelay time.Duration, merchantName, merchantCity string, log logger.Interface, opts ...MockOption) *MockGateway {
	if approvalDelay <= 0 {
		approvalDelay = defaultApprovalWait
	}
	if merchantName == "" {
		merchantName = "RIFA"
	}
	if merchantCity == "" {
		merchantCity = "SAO PAULO"
	}
	g := &MockGateway{
		approvalDelay: approvalDelay,
		merchantName:  merchantName,
		merchantCity:  merchantCity,
		now:           biztime.NowUTC,
		logger:        log,
		charges:       make(map[string]*mockCharge),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var _ pixgateway.Gateway = (*MockGateway)(nil)

func (g *MockGateway) Name() string { return MockProviderName }

func (g *MockGateway) CreateCharge(ctx context.Context, req pixgateway.ChargeRequest) (*pixgateway.Charge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	paymentID := "mock_" + uuid.NewString()
	now := g.now()
	expiresAt := req.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = now.Add(15 * time.Minute)
	}

	payload := EMVPayload{
		Key:          uuid.NewString(),
		MerchantName: g.merchantName,
		MerchantCity: g.merchantCity,
		Amount:       req.Amount.Amount().StringFixed(2),
		TxID:         req.Reference,
	}.String()

	g.mu.Lock()
	g.evictSettledLocked(now)
	g.charges[paymentID] = &mockCharge{createdAt: now, expiresAt: expiresAt}
	g.mu.Unlock()

	g.logger.Debugw("mock pix charge created", "payment_id", paymentID, "reference", req.Reference)

	return &pixgateway.Charge{
		PaymentID: paymentID,
		Payload:   payload,
		QRImage:   mockQRImage,
		ExpiresAt: expiresAt,
		Status:    pixgateway.StatusPending,
	}, nil
}

// CheckStatus approves a charge once the approval delay has elapsed.
func (g *MockGateway) CheckStatus(ctx context.Context, paymentID string) (pixgateway.Status, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	c, ok := g.charges[paymentID]
	if !ok {
		return "", &ProviderError{Provider: MockProviderName, StatusCode: 404, Message: fmt.Sprintf("charge %s not found", paymentID)}
	}

	now := g.now()
	switch {
	case !c.cancelledAt.IsZero():
		return pixgateway.StatusCancelled, nil
	case now.Sub(c.createdAt) >= g.approvalDelay:
		return pixgateway.StatusApproved, nil
	case !now.Before(c.expiresAt):
		return pixgateway.StatusExpired, nil
	default:
		return pixgateway.StatusPending, nil
	}
}

func (g *MockGateway) CancelCharge(ctx context.Context, paymentID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.charges[paymentID]; ok && c.cancelledAt.IsZero() {
		c.cancelledAt = g.now()
	}
	return nil
}

// evictSettledLocked drops charges settled longer than the retention ago.
// Every charge settles by itself at approval or expiry, so the map stays bounded.
func (g *MockGateway) evictSettledLocked(now time.Time) {
	for id, c := range g.charges {
		if now.Sub(c.settledAt(g.approvalDelay)) >= mockChargeRetention {
			delete(g.charges, id)
		}
	}
}
