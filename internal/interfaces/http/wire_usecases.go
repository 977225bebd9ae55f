package http

import (
	checkoutusecases "github.com/samvyt/rifa/internal/application/checkout/usecases"
	raffleusecases "github.com/samvyt/rifa/internal/application/raffle/usecases"
	"github.com/samvyt/rifa/internal/infrastructure/scheduler"
	"github.com/samvyt/rifa/internal/shared/services/markdown"
)

type allUseCases struct {
	// Raffle
	setupRaffle     *raffleusecases.SetupRaffleUseCase
	updateRaffle    *raffleusecases.UpdateRaffleUseCase
	getRaffle       *raffleusecases.GetRaffleUseCase
	getStats        *raffleusecases.GetStatsUseCase
	listQuotas      *raffleusecases.ListQuotasUseCase
	pickRandom      *raffleusecases.PickRandomUseCase
	watchQuotas     *raffleusecases.WatchQuotasUseCase
	invalidateStats *raffleusecases.InvalidateStatsUseCase

	// Checkout
	startCheckout      *checkoutusecases.StartCheckoutUseCase
	getTransaction     *checkoutusecases.GetTransactionUseCase
	cancelTransaction  *checkoutusecases.CancelTransactionUseCase
	confirmPayment     *checkoutusecases.ConfirmPaymentUseCase
	expireTransactions *checkoutusecases.ExpireTransactionsUseCase
	syncPaymentStatus  *checkoutusecases.SyncPaymentStatusUseCase
	buyerHistory       *checkoutusecases.BuyerHistoryUseCase
}

// ============================================================
// Section 2: Use cases and the expiration watchdog
// ============================================================

// initUseCases builds the use cases. The watchdog is the checkout use cases'
// expiration tracker and calls back into ExpireTransactions, so it is created
// first against lateExpirer and bound once the use case exists.
func (c *Container) initUseCases() {
	cfg := c.cfg
	log := c.log
	repos := c.repos

	c.expirer = &lateExpirer{}
	c.watchdog = scheduler.NewWatchdog(c.expirer, repos.txnRepo, c.metrics, log)

	checkoutCfg := checkoutusecases.Config{
		ReservationWindow: cfg.Raffle.ReservationWindow,
		MaxQuotasPerOrder: cfg.Raffle.MaxQuotasPerOrder,
		GatewayTimeout:    cfg.Payment.Timeout,
	}

	ucs := &allUseCases{}

	ucs.setupRaffle = raffleusecases.NewSetupRaffleUseCase(
		repos.raffleRepo, repos.ledger, repos.txManager, cfg.Raffle.Currency, cfg.Raffle.NumberWidth, log)
	ucs.updateRaffle = raffleusecases.NewUpdateRaffleUseCase(repos.raffleRepo, repos.ledger, repos.txManager, c.statsCache, log)
	ucs.getRaffle = raffleusecases.NewGetRaffleUseCase(repos.raffleRepo, markdown.NewRenderer(), log)
	ucs.getStats = raffleusecases.NewGetStatsUseCase(repos.raffleRepo, repos.ledger, c.statsCache, log)
	ucs.listQuotas = raffleusecases.NewListQuotasUseCase(repos.raffleRepo, repos.ledger, log)
	ucs.pickRandom = raffleusecases.NewPickRandomUseCase(repos.raffleRepo, repos.ledger, cfg.Raffle.MaxQuotasPerOrder, log)
	ucs.watchQuotas = raffleusecases.NewWatchQuotasUseCase(repos.raffleRepo, c.broadcaster, log)
	ucs.invalidateStats = raffleusecases.NewInvalidateStatsUseCase(c.statsCache, log)

	ucs.startCheckout = checkoutusecases.NewStartCheckoutUseCase(
		repos.raffleRepo, repos.buyerRepo, repos.txnRepo, repos.ledger,
		c.gateway, repos.txManager, c.watchdog, c.publisher, c.metrics, checkoutCfg, log)
	ucs.cancelTransaction = checkoutusecases.NewCancelTransactionUseCase(
		repos.txnRepo, repos.ledger, c.gateway, repos.txManager, c.watchdog, c.publisher, c.metrics, checkoutCfg, log)
	ucs.confirmPayment = checkoutusecases.NewConfirmPaymentUseCase(
		repos.txnRepo, repos.buyerRepo, repos.raffleRepo, repos.ledger,
		repos.txManager, c.watchdog, c.publisher, c.notifier, c.metrics, log)
	ucs.expireTransactions = checkoutusecases.NewExpireTransactionsUseCase(repos.txnRepo, ucs.cancelTransaction, log)
	ucs.syncPaymentStatus = checkoutusecases.NewSyncPaymentStatusUseCase(
		repos.txnRepo, c.gateway, ucs.confirmPayment, ucs.cancelTransaction, ucs.expireTransactions, checkoutCfg, log)
	ucs.getTransaction = checkoutusecases.NewGetTransactionUseCase(repos.txnRepo, repos.buyerRepo, ucs.syncPaymentStatus, log)
	ucs.buyerHistory = checkoutusecases.NewBuyerHistoryUseCase(
		repos.buyerRepo, repos.txnRepo, repos.raffleRepo, repos.ledger, log)

	c.expirer.bind(ucs.expireTransactions)
	c.ucs = ucs
}
