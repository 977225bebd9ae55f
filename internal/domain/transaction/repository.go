package transaction

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, t *Transaction) error
	// Update persists charge details of a pending transaction.
	Update(ctx context.Context, t *Transaction) error
	// Delete voids a transaction whose charge could not be created.
	Delete(ctx context.Context, sid string) error
	GetBySID(ctx context.Context, sid string) (*Transaction, error)
	// TransitionFromPending writes t's terminal status only if the stored row is still pending.
	// It returns false when another writer got there first.
	TransitionFromPending(ctx context.Context, t *Transaction) (bool, error)
	ListPending(ctx context.Context) ([]*Transaction, error)
	ListOverdue(ctx context.Context, now time.Time) ([]*Transaction, error)
	// ListByBuyer returns the buyer's transactions, newest first.
	ListByBuyer(ctx context.Context, buyerID uint) ([]*Transaction, error)
}
