package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/samvyt/rifa/internal/application/raffle/dto"
	"github.com/samvyt/rifa/internal/domain/quota"
	"github.com/samvyt/rifa/internal/domain/raffle"
	vo "github.com/samvyt/rifa/internal/domain/shared/valueobjects"
	"github.com/samvyt/rifa/internal/shared/errors"
	"github.com/samvyt/rifa/internal/shared/logger"
	"github.com/samvyt/rifa/internal/shared/utils"
)

// MaxTotalQuotas bounds a single raffle's numbering.
const MaxTotalQuotas = 1_000_000

type SetupRaffleCommand struct {
	Name        string     `json:"name" yaml:"name" validate:"required,max=200"`
	Prize       string     `json:"prize" yaml:"prize" validate:"max=500"`
	Description string     `json:"description" yaml:"description"`
	ImageURL    string     `json:"image_url" yaml:"image_url" validate:"omitempty,url"`
	TotalQuotas int        `json:"total_quotas" yaml:"total_quotas" validate:"required,min=1"`
	Price       string     `json:"price" yaml:"price" validate:"required"`
	DrawDate    *time.Time `json:"draw_date" yaml:"draw_date"`
	DrawMethod  string     `json:"draw_method" yaml:"draw_method" validate:"max=200"`
}

type SetupRaffleUseCase struct {
	raffleRepo raffle.Repository
	ledger     quota.Ledger
	runner     TransactionRunner
	currency   string
	minWidth   int
	logger     logger.Interface
}

func NewSetupRaffleUseCase(
	raffleRepo raffle.Repository,
	ledger quota.Ledger,
	runner TransactionRunner,
	currency string,
	minWidth int,
	logger logger.Interface,
) *SetupRaffleUseCase {
	return &SetupRaffleUseCase{
		raffleRepo: raffleRepo,
		ledger:     ledger,
		runner:     runner,
		currency:   currency,
		minWidth:   minWidth,
		logger:     logger,
	}
}

// Execute creates the raffle and all of its quotas, 1..N, in one transaction.
// Only one raffle may be active at a time.
func (uc *SetupRaffleUseCase) Execute(ctx context.Context, cmd SetupRaffleCommand) (*dto.RaffleDTO, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}
	if cmd.TotalQuotas > MaxTotalQuotas {
		return nil, errors.NewValidationError(fmt.Sprintf("total quotas cannot exceed %d", MaxTotalQuotas))
	}

	price, err := vo.ParseMoney(cmd.Price, uc.currency)
	if err != nil {
		return nil, errors.NewValidationError("invalid price", err.Error())
	}

	if active, err := uc.raffleRepo.GetActive(ctx); err == nil {
		return nil, errors.NewConflictError("another raffle is already active", active.SID())
	} else if !errors.IsNotFoundError(err) {
		return nil, err
	}

	r, err := raffle.NewRaffle(raffle.NewParams{
		Name:           cmd.Name,
		Prize:          cmd.Prize,
		Description:    cmd.Description,
		ImageURL:       cmd.ImageURL,
		TotalQuotas:    cmd.TotalQuotas,
		MinNumberWidth: uc.minWidth,
		Price:          price,
		DrawDate:       cmd.DrawDate,
		DrawMethod:     cmd.DrawMethod,
	})
	if err != nil {
		return nil, err
	}

	err = uc.runner.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := uc.raffleRepo.Create(ctx, r); err != nil {
			return err
		}
		return uc.ledger.CreateBatch(ctx, r.ID(), r.QuotaNumbers())
	})
	if err != nil {
		uc.logger.Errorw("failed to set up raffle", "error", err, "name", r.Name())
		return nil, errors.NewPersistenceError("failed to set up raffle", err)
	}

	uc.logger.Infow("raffle set up",
		"raffle_sid", r.SID(),
		"total_quotas", r.TotalQuotas(),
		"number_width", r.NumberWidth(),
		"price", r.Price().String(),
	)
	return dto.ToRaffleDTO(r, ""), nil
}
