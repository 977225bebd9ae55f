// Package admin exposes operator endpoints: raffle setup and edits, manual
// payment confirmation and cancellation, and on-demand maintenance sweeps.
package admin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	checkoutdto "github.com/samvyt/rifa/internal/application/checkout/dto"
	checkoutusecases "github.com/samvyt/rifa/internal/application/checkout/usecases"
	raffleusecases "github.com/samvyt/rifa/internal/application/raffle/usecases"
	"github.com/samvyt/rifa/internal/domain/transaction"
	"github.com/samvyt/rifa/internal/shared/constants"
	"github.com/samvyt/rifa/internal/shared/errors"
	"github.com/samvyt/rifa/internal/shared/logger"
	"github.com/samvyt/rifa/internal/shared/utils"
)

type Handler struct {
	setupRaffleUC       setupRaffleUseCase
	updateRaffleUC      updateRaffleUseCase
	confirmPaymentUC    confirmPaymentUseCase
	cancelTransactionUC cancelTransactionUseCase
	expirySweep         batchJob
	paymentSync         batchJob
	logger              logger.Interface
}

func NewHandler(
	setupRaffleUC setupRaffleUseCase,
	updateRaffleUC updateRaffleUseCase,
	confirmPaymentUC confirmPaymentUseCase,
	cancelTransactionUC cancelTransactionUseCase,
	expirySweep batchJob,
	paymentSync batchJob,
	logger logger.Interface,
) *Handler {
	return &Handler{
		setupRaffleUC:       setupRaffleUC,
		updateRaffleUC:      updateRaffleUC,
		confirmPaymentUC:    confirmPaymentUC,
		cancelTransactionUC: cancelTransactionUC,
		expirySweep:         expirySweep,
		paymentSync:         paymentSync,
		logger:              logger,
	}
}

func (h *Handler) SetupRaffle(c *gin.Context) {
	var cmd raffleusecases.SetupRaffleCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.logger.Warnw("invalid request body for setup raffle", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.setupRaffleUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("raffle created by admin", "raffle_sid", result.SID, "admin", c.GetString(constants.ContextKeyAdmin))
	utils.CreatedResponse(c, result, "raffle created")
}

// UpdateRaffleRequest only carries the fields being changed.
type UpdateRaffleRequest struct {
	Name        *string    `json:"name"`
	Prize       *string    `json:"prize"`
	Description *string    `json:"description"`
	ImageURL    *string    `json:"image_url"`
	Price       *string    `json:"price"`
	DrawDate    *time.Time `json:"draw_date"`
	DrawMethod  *string    `json:"draw_method"`
	Status      *string    `json:"status" binding:"omitempty,oneof=completed cancelled"`
}

func (h *Handler) UpdateRaffle(c *gin.Context) {
	var req UpdateRaffleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update raffle", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.updateRaffleUC.Execute(c.Request.Context(), raffleusecases.UpdateRaffleCommand{
		RaffleSID:   c.Param("id"),
		Name:        req.Name,
		Prize:       req.Prize,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Price:       req.Price,
		DrawDate:    req.DrawDate,
		DrawMethod:  req.DrawMethod,
		Status:      req.Status,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "raffle updated", result)
}

// ConfirmTransactionRequest lets an operator record a payment seen outside the provider API.
type ConfirmTransactionRequest struct {
	PaidAt *time.Time `json:"paid_at"`
}

func (h *Handler) ConfirmTransaction(c *gin.Context) {
	var req ConfirmTransactionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
			return
		}
	}

	txn, err := h.confirmPaymentUC.Execute(c.Request.Context(), checkoutusecases.ConfirmPaymentCommand{
		TransactionSID: c.Param("id"),
		PaidAt:         req.PaidAt,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("transaction confirmed by admin",
		"transaction_sid", txn.SID(),
		"admin", c.GetString(constants.ContextKeyAdmin),
	)
	utils.SuccessResponse(c, http.StatusOK, "payment confirmed", checkoutdto.ToTransactionDTO(txn, nil))
}

func (h *Handler) CancelTransaction(c *gin.Context) {
	txn, err := h.cancelTransactionUC.Execute(c.Request.Context(), checkoutusecases.CancelTransactionCommand{
		TransactionSID: c.Param("id"),
		Reason:         transaction.ReasonAdmin,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("transaction cancelled by admin",
		"transaction_sid", txn.SID(),
		"admin", c.GetString(constants.ContextKeyAdmin),
	)
	utils.SuccessResponse(c, http.StatusOK, "transaction cancelled", checkoutdto.ToTransactionDTO(txn, nil))
}

type sweepResponse struct {
	Processed int `json:"processed"`
}

func (h *Handler) RunExpirySweep(c *gin.Context) {
	h.runBatch(c, "expiry sweep", h.expirySweep)
}

func (h *Handler) RunPaymentSync(c *gin.Context) {
	h.runBatch(c, "payment sync", h.paymentSync)
}

func (h *Handler) runBatch(c *gin.Context, name string, job batchJob) {
	n, err := job.Execute(c.Request.Context())
	if err != nil {
		h.logger.Errorw("admin triggered batch failed", "job", name, "error", err)
		utils.ErrorResponseWithError(c, errors.NewInternalError(name+" failed"))
		return
	}
	utils.SuccessResponse(c, http.StatusOK, name+" finished", sweepResponse{Processed: n})
}
