package http

import (
	"gorm.io/gorm"

	"github.com/samvyt/rifa/internal/domain/buyer"
	"github.com/samvyt/rifa/internal/domain/quota"
	"github.com/samvyt/rifa/internal/domain/raffle"
	"github.com/samvyt/rifa/internal/domain/transaction"
	"github.com/samvyt/rifa/internal/infrastructure/repository"
	shareddb "github.com/samvyt/rifa/internal/shared/db"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	raffleRepo raffle.Repository
	buyerRepo  buyer.Repository
	txnRepo    transaction.Repository
	ledger     quota.Ledger
	txManager  *shareddb.TransactionManager
}

func newRepositories(db *gorm.DB) *repositories {
	return &repositories{
		raffleRepo: repository.NewRaffleRepository(db),
		buyerRepo:  repository.NewBuyerRepository(db),
		txnRepo:    repository.NewTransactionRepository(db),
		ledger:     repository.NewQuotaLedger(db),
		txManager:  shareddb.NewTransactionManager(db),
	}
}
