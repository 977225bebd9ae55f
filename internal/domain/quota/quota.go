package quota

import (
	"fmt"
	"time"
)

// Quota is a single numbered raffle entry. Its status only changes through the Ledger.
type Quota struct {
	raffleID       uint
	number         string
	status         Status
	buyerID        *uint
	transactionSID *string
	purchasedAt    *time.Time
}

type ReconstructParams struct {
	RaffleID       uint
	Number         string
	Status         Status
	BuyerID        *uint
	TransactionSID *string
	PurchasedAt    *time.Time
}

// Reconstruct rebuilds a quota from storage, enforcing the ownership invariant.
func Reconstruct(p ReconstructParams) (*Quota, error) {
	q := &Quota{
		raffleID:       p.RaffleID,
		number:         p.Number,
		status:         p.Status,
		buyerID:        p.BuyerID,
		transactionSID: p.TransactionSID,
		purchasedAt:    p.PurchasedAt,
	}
	if err := q.validate(); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *Quota) validate() error {
	if !q.status.IsValid() {
		return fmt.Errorf("quota %s: invalid status %q", q.number, q.status)
	}
	held := q.buyerID != nil || q.transactionSID != nil
	switch q.status {
	case StatusAvailable:
		if held || q.purchasedAt != nil {
			return fmt.Errorf("quota %s: available quota must not reference a buyer, transaction or purchase time", q.number)
		}
	case StatusPending:
		if q.transactionSID == nil || q.buyerID == nil || q.purchasedAt != nil {
			return fmt.Errorf("quota %s: pending quota must reference a buyer and transaction only", q.number)
		}
	case StatusSold:
		if q.transactionSID == nil || q.buyerID == nil || q.purchasedAt == nil {
			return fmt.Errorf("quota %s: sold quota must reference a buyer, transaction and purchase time", q.number)
		}
	}
	return nil
}

func (q *Quota) RaffleID() uint          { return q.raffleID }
func (q *Quota) Number() string          { return q.number }
func (q *Quota) Status() Status          { return q.status }
func (q *Quota) BuyerID() *uint          { return q.buyerID }
func (q *Quota) TransactionSID() *string { return q.transactionSID }
func (q *Quota) PurchasedAt() *time.Time { return q.purchasedAt }
func (q *Quota) IsAvailable() bool       { return q.status == StatusAvailable }
