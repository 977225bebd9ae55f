package usecases

import (
	"context"
	"fmt"

	"github.com/samvyt/rifa/internal/application/raffle/dto"
	"github.com/samvyt/rifa/internal/domain/quota"
	"github.com/samvyt/rifa/internal/domain/raffle"
	"github.com/samvyt/rifa/internal/shared/errors"
	"github.com/samvyt/rifa/internal/shared/logger"
)

type PickRandomQuery struct {
	RaffleSID string
	Quantity  int
}

// PickRandomUseCase proposes available numbers. Nothing is reserved; the
// checkout still has to win the reservation.
type PickRandomUseCase struct {
	raffleRepo  raffle.Repository
	ledger      quota.Ledger
	maxQuantity int
	logger      logger.Interface
}

func NewPickRandomUseCase(raffleRepo raffle.Repository, ledger quota.Ledger, maxQuantity int, logger logger.Interface) *PickRandomUseCase {
	return &PickRandomUseCase{
		raffleRepo:  raffleRepo,
		ledger:      ledger,
		maxQuantity: maxQuantity,
		logger:      logger,
	}
}

func (uc *PickRandomUseCase) Execute(ctx context.Context, query PickRandomQuery) (*dto.RandomPickDTO, error) {
	if query.Quantity < 1 {
		return nil, errors.NewValidationError("quantity must be at least 1")
	}
	if uc.maxQuantity > 0 && query.Quantity > uc.maxQuantity {
		return nil, errors.NewValidationError(fmt.Sprintf("quantity cannot exceed %d", uc.maxQuantity))
	}

	r, err := loadRaffle(ctx, uc.raffleRepo, query.RaffleSID)
	if err != nil {
		return nil, err
	}

	numbers, err := uc.ledger.PickRandom(ctx, r.ID(), query.Quantity)
	if err != nil {
		uc.logger.Errorw("failed to pick random quotas", "error", err, "raffle_id", r.ID())
		return nil, errors.NewPersistenceError("failed to pick random quotas", err)
	}

	return &dto.RandomPickDTO{
		Requested: query.Quantity,
		Numbers:   numbers,
		Short:     len(numbers) < query.Quantity,
	}, nil
}
