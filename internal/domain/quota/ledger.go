package quota

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnavailable is matched by UnavailableError via errors.Is.
var ErrUnavailable = errors.New("quotas unavailable")

// UnavailableError is returned by Reserve when at least one requested quota is not available.
// Numbers is the offending subset when the ledger could determine it.
type UnavailableError struct {
	Numbers []string
}

func (e *UnavailableError) Error() string {
	if len(e.Numbers) == 0 {
		return ErrUnavailable.Error()
	}
	return fmt.Sprintf("%s: %s", ErrUnavailable, strings.Join(e.Numbers, ","))
}

func (e *UnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}

// MissingError is returned by QueryByNumbers when a number does not exist in the raffle.
type MissingError struct {
	Numbers []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("quotas not found: %s", strings.Join(e.Numbers, ","))
}

// Hold identifies who a reservation is for.
type Hold struct {
	TransactionSID string
	BuyerID        uint
}

// Page bounds a listing; Limit 0 returns everything.
type Page struct {
	Offset int
	Limit  int
}

// Counts is a per-status tally of one raffle's quotas.
type Counts struct {
	Total     int64
	Available int64
	Pending   int64
	Sold      int64
}

// Ledger is the authoritative store of quota status. Reserve is all-or-nothing
// and must be a conditional write evaluated by the storage engine.
type Ledger interface {
	// CreateBatch inserts available quotas at raffle setup.
	CreateBatch(ctx context.Context, raffleID uint, numbers []string) error
	// QueryByStatus lists quotas ascending by number; nil status means all.
	QueryByStatus(ctx context.Context, raffleID uint, status *Status, page Page) ([]*Quota, int64, error)
	// QueryByNumbers fails with *MissingError if any number is unknown.
	QueryByNumbers(ctx context.Context, raffleID uint, numbers []string) ([]*Quota, error)
	// Reserve moves every number from available to pending for hold, or none of them.
	Reserve(ctx context.Context, raffleID uint, numbers []string, hold Hold) error
	// Settle moves the transaction's pending quotas to sold. Returns how many moved.
	Settle(ctx context.Context, transactionSID string, purchasedAt time.Time) (int64, error)
	// Release moves the transaction's pending quotas back to available. Returns how many moved.
	Release(ctx context.Context, transactionSID string) (int64, error)
	// PickRandom draws up to quantity available numbers uniformly without replacement.
	PickRandom(ctx context.Context, raffleID uint, quantity int) ([]string, error)
	CountByStatus(ctx context.Context, raffleID uint) (Counts, error)
	// CountCommitted counts pending and sold quotas with a locking read over every quota
	// of the raffle, so no Reserve can commit until the caller's transaction ends.
	// Call it inside a transaction.
	CountCommitted(ctx context.Context, raffleID uint) (int64, error)
	ListSoldByBuyer(ctx context.Context, raffleID, buyerID uint) ([]string, error)
}
