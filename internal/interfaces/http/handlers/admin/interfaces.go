package admin

import (
	"context"

	checkoutusecases "github.com/samvyt/rifa/internal/application/checkout/usecases"
	raffledto "github.com/samvyt/rifa/internal/application/raffle/dto"
	raffleusecases "github.com/samvyt/rifa/internal/application/raffle/usecases"
	"github.com/samvyt/rifa/internal/domain/transaction"
)

type setupRaffleUseCase interface {
	Execute(ctx context.Context, cmd raffleusecases.SetupRaffleCommand) (*raffledto.RaffleDTO, error)
}

type updateRaffleUseCase interface {
	Execute(ctx context.Context, cmd raffleusecases.UpdateRaffleCommand) (*raffledto.RaffleDTO, error)
}

type confirmPaymentUseCase interface {
	Execute(ctx context.Context, cmd checkoutusecases.ConfirmPaymentCommand) (*transaction.Transaction, error)
}

type cancelTransactionUseCase interface {
	Execute(ctx context.Context, cmd checkoutusecases.CancelTransactionCommand) (*transaction.Transaction, error)
}

// batchJob is satisfied by the expiry sweep and the pending payment sync.
type batchJob interface {
	Execute(ctx context.Context) (int, error)
}
