package usecases

import (
	"context"
	"time"

	"github.com/samvyt/rifa/internal/application/raffle/dto"
	"github.com/samvyt/rifa/internal/domain/quota"
	"github.com/samvyt/rifa/internal/domain/raffle"
	vo "github.com/samvyt/rifa/internal/domain/shared/valueobjects"
	"github.com/samvyt/rifa/internal/shared/errors"
	"github.com/samvyt/rifa/internal/shared/logger"
)

type UpdateRaffleCommand struct {
	RaffleSID   string
	Name        *string
	Prize       *string
	Description *string
	ImageURL    *string
	Price       *string
	DrawDate    *time.Time
	DrawMethod  *string
	// Status may be "completed" or "cancelled".
	Status *string
}

type UpdateRaffleUseCase struct {
	raffleRepo raffle.Repository
	ledger     quota.Ledger
	runner     TransactionRunner
	cache      StatsCache
	logger     logger.Interface
}

func NewUpdateRaffleUseCase(
	raffleRepo raffle.Repository,
	ledger quota.Ledger,
	runner TransactionRunner,
	cache StatsCache,
	logger logger.Interface,
) *UpdateRaffleUseCase {
	return &UpdateRaffleUseCase{
		raffleRepo: raffleRepo,
		ledger:     ledger,
		runner:     runner,
		cache:      cache,
		logger:     logger,
	}
}

// Execute reconfigures a raffle. Configuration is frozen once any quota is
// pending or sold; only completing the raffle remains possible then.
func (uc *UpdateRaffleUseCase) Execute(ctx context.Context, cmd UpdateRaffleCommand) (*dto.RaffleDTO, error) {
	r, err := loadRaffle(ctx, uc.raffleRepo, cmd.RaffleSID)
	if err != nil {
		return nil, err
	}

	params := raffle.UpdateParams{
		Name:        cmd.Name,
		Prize:       cmd.Prize,
		Description: cmd.Description,
		ImageURL:    cmd.ImageURL,
		DrawDate:    cmd.DrawDate,
		DrawMethod:  cmd.DrawMethod,
	}
	if cmd.Price != nil {
		price, err := vo.ParseMoney(*cmd.Price, r.Price().Currency())
		if err != nil {
			return nil, errors.NewValidationError("invalid price", err.Error())
		}
		params.Price = &price
	}

	// The committed count holds row locks until the update commits, so no checkout
	// can reserve at the old configuration in between.
	err = uc.runner.RunInTransaction(ctx, func(ctx context.Context) error {
		committed, err := uc.ledger.CountCommitted(ctx, r.ID())
		if err != nil {
			return errors.NewPersistenceError("failed to count quotas", err)
		}

		if err := r.Reconfigure(params, committed); err != nil {
			return err
		}
		if cmd.Status != nil {
			if err := uc.applyStatus(r, raffle.Status(*cmd.Status), committed); err != nil {
				return err
			}
		}

		if err := uc.raffleRepo.Update(ctx, r); err != nil {
			uc.logger.Errorw("failed to update raffle", "error", err, "raffle_sid", r.SID())
			return errors.NewPersistenceError("failed to update raffle", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx, r.ID()); err != nil {
			uc.logger.Warnw("failed to invalidate stats cache", "error", err, "raffle_id", r.ID())
		}
	}

	uc.logger.Infow("raffle updated", "raffle_sid", r.SID(), "status", r.Status(), "version", r.Version())
	return dto.ToRaffleDTO(r, ""), nil
}

func (uc *UpdateRaffleUseCase) applyStatus(r *raffle.Raffle, status raffle.Status, committed int64) error {
	switch status {
	case r.Status():
		return nil
	case raffle.StatusCompleted:
		return r.Complete()
	case raffle.StatusCancelled:
		if committed > 0 {
			return errors.NewValidationError("a raffle with reserved or sold quotas cannot be cancelled")
		}
		return r.Cancel()
	default:
		return errors.NewValidationError("invalid raffle status", string(status))
	}
}
