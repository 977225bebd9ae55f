package dto

import (
	"time"

	"github.com/samvyt/rifa/internal/domain/buyer"
	"github.com/samvyt/rifa/internal/domain/transaction"
	"github.com/samvyt/rifa/internal/shared/utils"
)

// TransactionDTO is what the buyer sees while paying and afterwards.
type TransactionDTO struct {
	SID           string     `json:"id"`
	Status        string     `json:"status"`
	QuotaNumbers  []string   `json:"quota_numbers"`
	Amount        string     `json:"amount"`
	AmountDisplay string     `json:"amount_display"`
	Currency      string     `json:"currency"`
	PaymentMethod string     `json:"payment_method"`
	Provider      string     `json:"provider,omitempty"`
	PixPayload    string     `json:"pix_payload,omitempty"`
	QRImage       string     `json:"qr_image,omitempty"`
	CancelReason  string     `json:"cancel_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	ExpiresAt     time.Time  `json:"expires_at"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	ClosedAt      *time.Time `json:"closed_at,omitempty"`
	Buyer         *BuyerDTO  `json:"buyer,omitempty"`
}

// BuyerDTO masks contact details; it is returned on public endpoints.
type BuyerDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Document string `json:"document,omitempty"`
}

func ToTransactionDTO(t *transaction.Transaction, b *buyer.Buyer) *TransactionDTO {
	if t == nil {
		return nil
	}
	out := &TransactionDTO{
		SID:           t.SID(),
		Status:        t.Status().String(),
		QuotaNumbers:  t.QuotaNumbers(),
		Amount:        t.Amount().Amount().StringFixed(2),
		AmountDisplay: t.Amount().Display(),
		Currency:      t.Amount().Currency(),
		PaymentMethod: t.PaymentMethod(),
		Provider:      t.Provider(),
		CreatedAt:     t.CreatedAt(),
		ExpiresAt:     t.ExpiresAt(),
		PaidAt:        t.PaidAt(),
		ClosedAt:      t.ClosedAt(),
	}
	// The payment code is only useful while the charge can still be paid.
	if t.Status().IsPending() {
		if p := t.PixPayload(); p != nil {
			out.PixPayload = *p
		}
		if q := t.QRImage(); q != nil {
			out.QRImage = *q
		}
	}
	if r := t.CancelReason(); r != nil {
		out.CancelReason = string(*r)
	}
	if b != nil {
		out.Buyer = &BuyerDTO{
			Name:  b.Name(),
			Email: utils.MaskEmail(b.Email()),
		}
		if b.Document() != "" {
			out.Buyer.Document = utils.MaskDocument(b.Document())
		}
	}
	return out
}

// BuyerHistoryDTO lists a buyer's purchases, newest first.
type BuyerHistoryDTO struct {
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Transactions []*TransactionDTO `json:"transactions"`
	SoldNumbers  []string          `json:"sold_numbers"`
}
