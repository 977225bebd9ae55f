package http

import (
	"context"

	"github.com/samvyt/rifa/internal/infrastructure/scheduler"
	"github.com/samvyt/rifa/internal/interfaces/http/handlers"
	adminhandlers "github.com/samvyt/rifa/internal/interfaces/http/handlers/admin"
	checkouthandlers "github.com/samvyt/rifa/internal/interfaces/http/handlers/checkout"
	rafflehandlers "github.com/samvyt/rifa/internal/interfaces/http/handlers/raffle"
)

type allHandlers struct {
	raffle   *rafflehandlers.Handler
	checkout *checkouthandlers.Handler
	admin    *adminhandlers.Handler
	health   *handlers.HealthHandler
}

// ============================================================
// Section 3: Handlers
// ============================================================

func (c *Container) initHandlers() {
	ucs := c.ucs
	log := c.log

	c.hdlrs = &allHandlers{
		raffle: rafflehandlers.NewHandler(
			ucs.getRaffle, ucs.getStats, ucs.listQuotas, ucs.pickRandom, ucs.watchQuotas, log),
		checkout: checkouthandlers.NewHandler(
			ucs.startCheckout, ucs.getTransaction, ucs.cancelTransaction, ucs.buyerHistory,
			c.cfg.Raffle.MaxQuotasPerOrder, log),
		admin: adminhandlers.NewHandler(
			ucs.setupRaffle, ucs.updateRaffle, ucs.confirmPayment, ucs.cancelTransaction,
			ucs.expireTransactions, scheduler.BatchJobFunc(ucs.syncPaymentStatus.SyncPending), log),
		health: handlers.NewHealthHandler(c.healthChecks(), log),
	}
}

func (c *Container) healthChecks() map[string]handlers.Pinger {
	checks := map[string]handlers.Pinger{
		"database": handlers.PingerFunc(func(ctx context.Context) error {
			sqlDB, err := c.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}),
	}
	if c.redis != nil {
		checks["redis"] = handlers.PingerFunc(func(ctx context.Context) error {
			return c.redis.Ping(ctx).Err()
		})
	}
	return checks
}
