package usecases

import (
	"context"
	"time"

	"github.com/samvyt/rifa/internal/domain/buyer"
	"github.com/samvyt/rifa/internal/domain/quota"
	"github.com/samvyt/rifa/internal/domain/raffle"
	"github.com/samvyt/rifa/internal/domain/transaction"
)

// TransactionRunner runs fn in a single database transaction carried by ctx.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ExpirationTracker arms and disarms the per-transaction expiry timer.
type ExpirationTracker interface {
	Track(transactionSID string, expiresAt time.Time)
	Untrack(transactionSID string)
}

// QuotaChangePublisher fans quota moves out to stats caches and live clients.
type QuotaChangePublisher interface {
	PublishQuotaChange(ctx context.Context, event quota.ChangeEvent) error
}

// PurchaseNotifier tells the buyer their numbers are confirmed.
type PurchaseNotifier interface {
	NotifyPurchaseApproved(ctx context.Context, b *buyer.Buyer, r *raffle.Raffle, t *transaction.Transaction) error
}

// Metrics records checkout outcomes.
type Metrics interface {
	CheckoutStarted(outcome string)
	QuotasReserved(count int)
	TransactionClosed(status transaction.Status)
}

// Checkout outcomes reported to Metrics.
const (
	OutcomeCreated     = "created"
	OutcomeInvalid     = "invalid"
	OutcomeUnavailable = "unavailable"
	OutcomeGateway     = "gateway_error"
	OutcomeError       = "error"
)

type nopMetrics struct{}

func (nopMetrics) CheckoutStarted(string)               {}
func (nopMetrics) QuotasReserved(int)                   {}
func (nopMetrics) TransactionClosed(transaction.Status) {}

func metricsOrNop(m Metrics) Metrics {
	if m == nil {
		return nopMetrics{}
	}
	return m
}

type Config struct {
	ReservationWindow time.Duration
	MaxQuotasPerOrder int
	// GatewayTimeout bounds every provider call made from a use case.
	GatewayTimeout time.Duration
}

func (c Config) gatewayTimeout() time.Duration {
	if c.GatewayTimeout <= 0 {
		return 15 * time.Second
	}
	return c.GatewayTimeout
}
