package buyer

import "context"

type Repository interface {
	// Upsert inserts b, or updates name/phone/document of the existing row with the same email.
	// b receives the persisted id and sid.
	Upsert(ctx context.Context, b *Buyer) error
	GetByID(ctx context.Context, id uint) (*Buyer, error)
	GetByEmail(ctx context.Context, email string) (*Buyer, error)
}
