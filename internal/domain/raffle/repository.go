package raffle

import "context"

type Repository interface {
	Create(ctx context.Context, r *Raffle) error
	Update(ctx context.Context, r *Raffle) error
	GetByID(ctx context.Context, id uint) (*Raffle, error)
	GetBySID(ctx context.Context, sid string) (*Raffle, error)
	// GetActive returns the single active raffle, or a not_found AppError.
	GetActive(ctx context.Context) (*Raffle, error)
}
