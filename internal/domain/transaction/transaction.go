package transaction

import (
	"errors"
	"fmt"
	"time"

	vo "github.com/samvyt/rifa/internal/domain/shared/valueobjects"
	"github.com/samvyt/rifa/internal/shared/biztime"
	"github.com/samvyt/rifa/internal/shared/id"
)

// ErrInvalidTransition is returned when a terminal transaction is asked to move again.
var ErrInvalidTransition = errors.New("invalid transaction status transition")

// Transaction ties a buyer, a set of quota numbers and a PIX charge together.
type Transaction struct {
	id            uint
	sid           string
	raffleID      uint
	buyerID       uint
	quotaNumbers  []string
	amount        vo.Money
	status        Status
	paymentMethod string

	provider          string
	externalPaymentID *string
	pixPayload        *string
	qrImage           *string
	cancelReason      *Reason

	createdAt time.Time
	expiresAt time.Time
	paidAt    *time.Time
	closedAt  *time.Time

	version   int
	updatedAt time.Time
}

type NewParams struct {
	RaffleID     uint
	BuyerID      uint
	QuotaNumbers []string
	Amount       vo.Money
	Window       time.Duration
}

// NewTransaction creates a pending transaction. The SID is assigned here so quotas
// can reference it before the row exists.
func NewTransaction(p NewParams) (*Transaction, error) {
	if p.RaffleID == 0 {
		return nil, fmt.Errorf("raffle ID is required")
	}
	if p.BuyerID == 0 {
		return nil, fmt.Errorf("buyer ID is required")
	}
	if len(p.QuotaNumbers) == 0 {
		return nil, fmt.Errorf("at least one quota number is required")
	}
	if !p.Amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive")
	}
	if p.Window <= 0 {
		return nil, fmt.Errorf("reservation window must be positive")
	}

	sid, err := id.NewTransactionSID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate transaction sid: %w", err)
	}

	numbers := make([]string, len(p.QuotaNumbers))
	copy(numbers, p.QuotaNumbers)

	now := biztime.NowUTC()
	return &Transaction{
		sid:           sid,
		raffleID:      p.RaffleID,
		buyerID:       p.BuyerID,
		quotaNumbers:  numbers,
		amount:        p.Amount,
		status:        StatusPending,
		paymentMethod: PaymentMethodPIX,
		createdAt:     now,
		expiresAt:     now.Add(p.Window),
		updatedAt:     now,
	}, nil
}

// AttachCharge copies the provider's charge onto the transaction.
func (t *Transaction) AttachCharge(provider, paymentID, payload, qrImage string) {
	t.provider = provider
	t.externalPaymentID = &paymentID
	t.pixPayload = &payload
	t.qrImage = &qrImage
	t.updatedAt = biztime.NowUTC()
}

// Approve marks the transaction paid. Approving twice is a no-op.
func (t *Transaction) Approve(at time.Time) error {
	if t.status == StatusApproved {
		return nil
	}
	if t.status != StatusPending {
		return fmt.Errorf("%w: cannot approve %s transaction %s", ErrInvalidTransition, t.status, t.sid)
	}

	at = at.UTC()
	t.status = StatusApproved
	t.paidAt = &at
	t.updatedAt = biztime.NowUTC()
	t.version++
	return nil
}

// Close moves a pending transaction to cancelled, or expired for ReasonExpired.
// Closing an already closed transaction is a no-op; closing an approved one fails.
func (t *Transaction) Close(reason Reason) error {
	if t.status.IsClosed() {
		return nil
	}
	if t.status != StatusPending {
		return fmt.Errorf("%w: cannot close %s transaction %s", ErrInvalidTransition, t.status, t.sid)
	}
	if !reason.IsValid() {
		return fmt.Errorf("invalid cancel reason: %s", reason)
	}

	now := biztime.NowUTC()
	t.status = reason.ClosingStatus()
	t.cancelReason = &reason
	t.closedAt = &now
	t.updatedAt = now
	t.version++
	return nil
}

// IsOverdue reports a pending transaction whose reservation window has passed.
func (t *Transaction) IsOverdue(now time.Time) bool {
	return t.status == StatusPending && !now.Before(t.expiresAt)
}

// HasCharge reports whether a provider charge was attached.
func (t *Transaction) HasCharge() bool {
	return t.externalPaymentID != nil && *t.externalPaymentID != ""
}

func (t *Transaction) SetID(id uint) {
	t.id = id
}

func (t *Transaction) ID() uint                   { return t.id }
func (t *Transaction) SID() string                { return t.sid }
func (t *Transaction) RaffleID() uint             { return t.raffleID }
func (t *Transaction) BuyerID() uint              { return t.buyerID }
func (t *Transaction) Amount() vo.Money           { return t.amount }
func (t *Transaction) Status() Status             { return t.status }
func (t *Transaction) PaymentMethod() string      { return t.paymentMethod }
func (t *Transaction) Provider() string           { return t.provider }
func (t *Transaction) ExternalPaymentID() *string { return t.externalPaymentID }
func (t *Transaction) PixPayload() *string        { return t.pixPayload }
func (t *Transaction) QRImage() *string           { return t.qrImage }
func (t *Transaction) CancelReason() *Reason      { return t.cancelReason }
func (t *Transaction) CreatedAt() time.Time       { return t.createdAt }
func (t *Transaction) ExpiresAt() time.Time       { return t.expiresAt }
func (t *Transaction) PaidAt() *time.Time         { return t.paidAt }
func (t *Transaction) ClosedAt() *time.Time       { return t.closedAt }
func (t *Transaction) Version() int               { return t.version }
func (t *Transaction) UpdatedAt() time.Time       { return t.updatedAt }

// QuotaNumbers returns a copy of the reserved numbers.
func (t *Transaction) QuotaNumbers() []string {
	out := make([]string, len(t.quotaNumbers))
	copy(out, t.quotaNumbers)
	return out
}

func (t *Transaction) QuotaCount() int {
	return len(t.quotaNumbers)
}

type ReconstructParams struct {
	ID                uint
	SID               string
	RaffleID          uint
	BuyerID           uint
	QuotaNumbers      []string
	Amount            vo.Money
	Status            Status
	PaymentMethod     string
	Provider          string
	ExternalPaymentID *string
	PixPayload        *string
	QRImage           *string
	CancelReason      *Reason
	CreatedAt         time.Time
	ExpiresAt         time.Time
	PaidAt            *time.Time
	ClosedAt          *time.Time
	Version           int
	UpdatedAt         time.Time
}

func ReconstructTransaction(p ReconstructParams) (*Transaction, error) {
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid transaction status: %s", p.Status)
	}
	if len(p.QuotaNumbers) == 0 {
		return nil, fmt.Errorf("transaction %s has no quota numbers", p.SID)
	}
	return &Transaction{
		id:                p.ID,
		sid:               p.SID,
		raffleID:          p.RaffleID,
		buyerID:           p.BuyerID,
		quotaNumbers:      p.QuotaNumbers,
		amount:            p.Amount,
		status:            p.Status,
		paymentMethod:     p.PaymentMethod,
		provider:          p.Provider,
		externalPaymentID: p.ExternalPaymentID,
		pixPayload:        p.PixPayload,
		qrImage:           p.QRImage,
		cancelReason:      p.CancelReason,
		createdAt:         p.CreatedAt,
		expiresAt:         p.ExpiresAt,
		paidAt:            p.PaidAt,
		closedAt:          p.ClosedAt,
		version:           p.Version,
		updatedAt:         p.UpdatedAt,
	}, nil
}
