package usecases

import (
	"context"

	"github.com/samvyt/rifa/internal/application/checkout/dto"
	"github.com/samvyt/rifa/internal/domain/buyer"
	"github.com/samvyt/rifa/internal/domain/transaction"
	"github.com/samvyt/rifa/internal/shared/logger"
)

type GetTransactionQuery struct {
	TransactionSID string
	// Refresh polls the provider first while the transaction is pending.
	Refresh bool
}

type GetTransactionUseCase struct {
	txnRepo   transaction.Repository
	buyerRepo buyer.Repository
	syncer    *SyncPaymentStatusUseCase
	logger    logger.Interface
}

func NewGetTransactionUseCase(
	txnRepo transaction.Repository,
	buyerRepo buyer.Repository,
	syncer *SyncPaymentStatusUseCase,
	logger logger.Interface,
) *GetTransactionUseCase {
	return &GetTransactionUseCase{
		txnRepo:   txnRepo,
		buyerRepo: buyerRepo,
		syncer:    syncer,
		logger:    logger,
	}
}

func (uc *GetTransactionUseCase) Execute(ctx context.Context, query GetTransactionQuery) (*dto.TransactionDTO, error) {
	var (
		txn *transaction.Transaction
		err error
	)
	if query.Refresh && uc.syncer != nil {
		txn, err = uc.syncer.Execute(ctx, query.TransactionSID)
	} else {
		txn, err = uc.txnRepo.GetBySID(ctx, query.TransactionSID)
	}
	if err != nil {
		return nil, err
	}

	b, err := uc.buyerRepo.GetByID(ctx, txn.BuyerID())
	if err != nil {
		uc.logger.Warnw("failed to load transaction buyer", "error", err, "transaction_sid", txn.SID())
		b = nil
	}

	return dto.ToTransactionDTO(txn, b), nil
}
