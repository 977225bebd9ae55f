package usecases

import (
	"context"
	"fmt"

	"github.com/samvyt/rifa/internal/application/checkout/dto"
	"github.com/samvyt/rifa/internal/domain/buyer"
	"github.com/samvyt/rifa/internal/domain/quota"
	"github.com/samvyt/rifa/internal/domain/raffle"
	"github.com/samvyt/rifa/internal/domain/transaction"
	"github.com/samvyt/rifa/internal/shared/errors"
	"github.com/samvyt/rifa/internal/shared/logger"
)

type BuyerHistoryUseCase struct {
	buyerRepo  buyer.Repository
	txnRepo    transaction.Repository
	raffleRepo raffle.Repository
	ledger     quota.Ledger
	logger     logger.Interface
}

func NewBuyerHistoryUseCase(
	buyerRepo buyer.Repository,
	txnRepo transaction.Repository,
	raffleRepo raffle.Repository,
	ledger quota.Ledger,
	logger logger.Interface,
) *BuyerHistoryUseCase {
	return &BuyerHistoryUseCase{
		buyerRepo:  buyerRepo,
		txnRepo:    txnRepo,
		raffleRepo: raffleRepo,
		ledger:     ledger,
		logger:     logger,
	}
}

// Execute returns the buyer's transactions newest first and the numbers they own
// in the active raffle.
func (uc *BuyerHistoryUseCase) Execute(ctx context.Context, email string) (*dto.BuyerHistoryDTO, error) {
	email = buyer.NormalizeEmail(email)
	if email == "" {
		return nil, errors.NewValidationError("email is required")
	}

	b, err := uc.buyerRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	txns, err := uc.txnRepo.ListByBuyer(ctx, b.ID())
	if err != nil {
		uc.logger.Errorw("failed to list buyer transactions", "error", err, "buyer_id", b.ID())
		return nil, fmt.Errorf("failed to list buyer transactions: %w", err)
	}

	out := &dto.BuyerHistoryDTO{
		Name:         b.Name(),
		Email:        b.Email(),
		Transactions: make([]*dto.TransactionDTO, 0, len(txns)),
		SoldNumbers:  []string{},
	}
	for _, t := range txns {
		out.Transactions = append(out.Transactions, dto.ToTransactionDTO(t, nil))
	}

	r, err := uc.raffleRepo.GetActive(ctx)
	switch {
	case errors.IsNotFoundError(err):
		return out, nil
	case err != nil:
		return nil, err
	}

	sold, err := uc.ledger.ListSoldByBuyer(ctx, r.ID(), b.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to list sold quotas: %w", err)
	}
	out.SoldNumbers = sold
	return out, nil
}
