package usecases

import (
	"context"

	"github.com/samvyt/rifa/internal/domain/raffle"
)

// loadRaffle resolves a raffle by SID, falling back to the active one.
func loadRaffle(ctx context.Context, repo raffle.Repository, sid string) (*raffle.Raffle, error) {
	if sid == "" {
		return repo.GetActive(ctx)
	}
	return repo.GetBySID(ctx, sid)
}
