// Package pixgateway is the provider-neutral port for PIX charges.
package pixgateway

import (
	"context"
	"strings"
	"time"

	vo "github.com/samvyt/rifa/internal/domain/shared/valueobjects"
)

// Status is the normalized charge status every provider maps onto.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

func (s Status) String() string {
	return string(s)
}

// StatusMap translates one provider's native vocabulary. Keys are lower case.
type StatusMap map[string]Status

// Resolve maps a native status; anything unknown is pending, never approved.
func (m StatusMap) Resolve(native string) Status {
	if s, ok := m[strings.ToLower(strings.TrimSpace(native))]; ok {
		return s
	}
	return StatusPending
}

type Buyer struct {
	Name     string
	Email    string
	Phone    string
	Document string
}

// ChargeRequest asks a provider for a PIX charge. Amount is in major units;
// adapters convert to whatever unit their API expects.
type ChargeRequest struct {
	Reference   string
	Amount      vo.Money
	Description string
	Buyer       Buyer
	ExpiresAt   time.Time
}

// Charge is the uniform shape of a provider charge.
type Charge struct {
	PaymentID string
	Payload   string // copy-and-paste code
	QRImage   string // data URI or URL
	ExpiresAt time.Time
	Status    Status
}

// Gateway creates, polls and cancels PIX charges for one provider.
type Gateway interface {
	Name() string
	CreateCharge(ctx context.Context, req ChargeRequest) (*Charge, error)
	CheckStatus(ctx context.Context, paymentID string) (Status, error)
	// CancelCharge is best effort; callers must not depend on it succeeding.
	CancelCharge(ctx context.Context, paymentID string) error
}
