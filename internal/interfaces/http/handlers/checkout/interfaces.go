package checkout

import (
	"context"

	"github.com/samvyt/rifa/internal/application/checkout/dto"
	"github.com/samvyt/rifa/internal/application/checkout/usecases"
	"github.com/samvyt/rifa/internal/domain/transaction"
)

type startCheckoutUseCase interface {
	Execute(ctx context.Context, cmd usecases.StartCheckoutCommand) (*usecases.StartCheckoutResult, error)
}

type getTransactionUseCase interface {
	Execute(ctx context.Context, query usecases.GetTransactionQuery) (*dto.TransactionDTO, error)
}

type cancelTransactionUseCase interface {
	Execute(ctx context.Context, cmd usecases.CancelTransactionCommand) (*transaction.Transaction, error)
}

type buyerHistoryUseCase interface {
	Execute(ctx context.Context, email string) (*dto.BuyerHistoryDTO, error)
}
