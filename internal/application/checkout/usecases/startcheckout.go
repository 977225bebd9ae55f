package usecases

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/samvyt/rifa/internal/application/payment/pixgateway"
	"github.com/samvyt/rifa/internal/domain/buyer"
	"github.com/samvyt/rifa/internal/domain/quota"
	"github.com/samvyt/rifa/internal/domain/raffle"
	"github.com/samvyt/rifa/internal/domain/transaction"
	"github.com/samvyt/rifa/internal/shared/errors"
	"github.com/samvyt/rifa/internal/shared/logger"
	"github.com/samvyt/rifa/internal/shared/utils"
)

type BuyerInput struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email,max=191"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
	Document string `json:"document" validate:"omitempty,document"`
}

type StartCheckoutCommand struct {
	// RaffleSID selects the raffle; empty means the active one.
	RaffleSID string
	Buyer     BuyerInput
	Selection *quota.Selection
}

type StartCheckoutResult struct {
	Transaction *transaction.Transaction
	Buyer       *buyer.Buyer
	Raffle      *raffle.Raffle
	Charge      *pixgateway.Charge
}

type StartCheckoutUseCase struct {
	raffleRepo raffle.Repository
	buyerRepo  buyer.Repository
	txnRepo    transaction.Repository
	ledger     quota.Ledger
	gateway    pixgateway.Gateway
	runner     TransactionRunner
	tracker    ExpirationTracker
	publisher  QuotaChangePublisher
	metrics    Metrics
	config     Config
	logger     logger.Interface
}

func NewStartCheckoutUseCase(
	raffleRepo raffle.Repository,
	buyerRepo buyer.Repository,
	txnRepo transaction.Repository,
	ledger quota.Ledger,
	gateway pixgateway.Gateway,
	runner TransactionRunner,
	tracker ExpirationTracker,
	publisher QuotaChangePublisher,
	metrics Metrics,
	config Config,
	logger logger.Interface,
) *StartCheckoutUseCase {
	return &StartCheckoutUseCase{
		raffleRepo: raffleRepo,
		buyerRepo:  buyerRepo,
		txnRepo:    txnRepo,
		ledger:     ledger,
		gateway:    gateway,
		runner:     runner,
		tracker:    tracker,
		publisher:  publisher,
		metrics:    metricsOrNop(metrics),
		config:     config,
		logger:     logger,
	}
}

func (uc *StartCheckoutUseCase) Execute(ctx context.Context, cmd StartCheckoutCommand) (*StartCheckoutResult, error) {
	result, outcome, err := uc.execute(ctx, cmd)
	uc.metrics.CheckoutStarted(outcome)
	return result, err
}

func (uc *StartCheckoutUseCase) execute(ctx context.Context, cmd StartCheckoutCommand) (*StartCheckoutResult, string, error) {
	if err := utils.ValidateStruct(cmd.Buyer); err != nil {
		return nil, OutcomeInvalid, err
	}
	if cmd.Selection == nil || cmd.Selection.Len() == 0 {
		return nil, OutcomeInvalid, errors.NewValidationError("select at least one quota")
	}

	r, err := uc.loadRaffle(ctx, cmd.RaffleSID)
	if err != nil {
		return nil, OutcomeInvalid, err
	}

	numbers, err := r.NormalizeNumbers(cmd.Selection.Numbers())
	if err != nil {
		return nil, OutcomeInvalid, err
	}
	if uc.config.MaxQuotasPerOrder > 0 && len(numbers) > uc.config.MaxQuotasPerOrder {
		return nil, OutcomeInvalid, errors.NewValidationError(
			fmt.Sprintf("at most %d quotas per order", uc.config.MaxQuotasPerOrder))
	}

	b, err := uc.upsertBuyer(ctx, cmd.Buyer)
	if err != nil {
		return nil, outcomeFor(err), err
	}

	txn, err := transaction.NewTransaction(transaction.NewParams{
		RaffleID:     r.ID(),
		BuyerID:      b.ID(),
		QuotaNumbers: numbers,
		Amount:       r.PriceFor(len(numbers)),
		Window:       uc.config.ReservationWindow,
	})
	if err != nil {
		return nil, OutcomeError, errors.NewInternalError("failed to create transaction", err.Error())
	}

	// Reserve and record the transaction atomically: no pending quota without a transaction row.
	err = uc.runner.RunInTransaction(ctx, func(ctx context.Context) error {
		hold := quota.Hold{TransactionSID: txn.SID(), BuyerID: b.ID()}
		if err := uc.ledger.Reserve(ctx, r.ID(), numbers, hold); err != nil {
			return err
		}
		return uc.txnRepo.Create(ctx, txn)
	})
	if err != nil {
		var unavailable *quota.UnavailableError
		if stderrors.As(err, &unavailable) {
			uc.logger.Infow("quota reservation lost",
				"raffle_id", r.ID(),
				"requested", numbers,
				"unavailable", unavailable.Numbers,
			)
			return nil, OutcomeUnavailable, errors.NewQuotasUnavailableError(unavailable.Numbers)
		}
		uc.logger.Errorw("failed to reserve quotas", "error", err, "raffle_id", r.ID(), "numbers", numbers)
		return nil, OutcomeError, errors.NewPersistenceError("failed to reserve quotas", err)
	}
	uc.metrics.QuotasReserved(len(numbers))

	charge, err := uc.createCharge(ctx, r, b, txn)
	if err != nil {
		uc.rollback(ctx, txn, "")
		return nil, OutcomeGateway, err
	}

	txn.AttachCharge(uc.gateway.Name(), charge.PaymentID, charge.Payload, charge.QRImage)
	if err := uc.txnRepo.Update(ctx, txn); err != nil {
		uc.logger.Errorw("failed to store charge on transaction", "error", err, "transaction_sid", txn.SID())
		uc.rollback(ctx, txn, charge.PaymentID)
		return nil, OutcomeError, errors.NewPersistenceError("failed to save transaction", err)
	}

	if uc.tracker != nil {
		uc.tracker.Track(txn.SID(), txn.ExpiresAt())
	}
	publishQuotaChange(ctx, uc.publisher, uc.logger, txn, quota.StatusPending)

	uc.logger.Infow("checkout started",
		"transaction_sid", txn.SID(),
		"raffle_id", r.ID(),
		"buyer_id", b.ID(),
		"quotas", len(numbers),
		"amount", txn.Amount().String(),
		"expires_at", txn.ExpiresAt(),
	)

	return &StartCheckoutResult{
		Transaction: txn,
		Buyer:       b,
		Raffle:      r,
		Charge:      charge,
	}, OutcomeCreated, nil
}

func (uc *StartCheckoutUseCase) loadRaffle(ctx context.Context, sid string) (*raffle.Raffle, error) {
	var (
		r   *raffle.Raffle
		err error
	)
	if sid == "" {
		r, err = uc.raffleRepo.GetActive(ctx)
	} else {
		r, err = uc.raffleRepo.GetBySID(ctx, sid)
	}
	if err != nil {
		return nil, err
	}
	if !r.IsActive() {
		return nil, errors.NewValidationError("raffle is not open for sales", r.SID())
	}
	return r, nil
}

func (uc *StartCheckoutUseCase) upsertBuyer(ctx context.Context, in BuyerInput) (*buyer.Buyer, error) {
	b, err := buyer.NewBuyer(in.Name, in.Email, in.Phone, in.Document)
	if err != nil {
		return nil, err
	}
	if err := uc.buyerRepo.Upsert(ctx, b); err != nil {
		uc.logger.Errorw("failed to upsert buyer", "error", err, "email", utils.MaskEmail(b.Email()))
		return nil, errors.NewPersistenceError("failed to save buyer", err)
	}
	return b, nil
}

func (uc *StartCheckoutUseCase) createCharge(ctx context.Context, r *raffle.Raffle, b *buyer.Buyer, txn *transaction.Transaction) (*pixgateway.Charge, error) {
	callCtx, cancel := context.WithTimeout(ctx, uc.config.gatewayTimeout())
	defer cancel()

	charge, err := uc.gateway.CreateCharge(callCtx, pixgateway.ChargeRequest{
		Reference:   txn.SID(),
		Amount:      txn.Amount(),
		Description: fmt.Sprintf("%s - %d cota(s)", r.Name(), txn.QuotaCount()),
		Buyer: pixgateway.Buyer{
			Name:     b.Name(),
			Email:    b.Email(),
			Phone:    b.Phone(),
			Document: b.Document(),
		},
		ExpiresAt: txn.ExpiresAt(),
	})
	if err != nil {
		uc.logger.Errorw("failed to create pix charge",
			"error", err,
			"transaction_sid", txn.SID(),
			"provider", uc.gateway.Name(),
		)
		if errors.IsGatewayError(err) {
			return nil, err
		}
		return nil, errors.NewGatewayError("payment provider failed to create the charge", err)
	}
	return charge, nil
}

// rollback releases the reservation and voids the transaction after a failed charge.
// If this also fails the row stays pending and the expiry sweep reclaims it.
func (uc *StartCheckoutUseCase) rollback(ctx context.Context, txn *transaction.Transaction, paymentID string) {
	ctx = context.WithoutCancel(ctx)

	if paymentID != "" {
		cancelCtx, cancel := context.WithTimeout(ctx, uc.config.gatewayTimeout())
		if err := uc.gateway.CancelCharge(cancelCtx, paymentID); err != nil {
			uc.logger.Warnw("failed to cancel orphaned charge", "error", err, "payment_id", paymentID)
		}
		cancel()
	}

	err := uc.runner.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := uc.ledger.Release(ctx, txn.SID()); err != nil {
			return err
		}
		return uc.txnRepo.Delete(ctx, txn.SID())
	})
	if err != nil {
		uc.logger.Errorw("checkout rollback failed, leaving transaction to expire",
			"error", err,
			"transaction_sid", txn.SID(),
		)
		if uc.tracker != nil {
			uc.tracker.Track(txn.SID(), txn.ExpiresAt())
		}
		return
	}
	uc.logger.Infow("checkout rolled back", "transaction_sid", txn.SID(), "quotas", txn.QuotaCount())
}

func outcomeFor(err error) string {
	switch {
	case errors.IsValidationError(err):
		return OutcomeInvalid
	case errors.IsQuotasUnavailableError(err):
		return OutcomeUnavailable
	case errors.IsGatewayError(err):
		return OutcomeGateway
	default:
		return OutcomeError
	}
}
