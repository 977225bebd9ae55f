package migration

import (
	"github.com/samvyt/rifa/internal/infrastructure/persistence/models"
)

// AutoMigrateModels lists the tables owned by the service, in dependency order.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.RaffleModel{},
		&models.BuyerModel{},
		&models.QuotaModel{},
		&models.TransactionModel{},
	}
}
