package checkout

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/samvyt/rifa/internal/application/checkout/dto"
	"github.com/samvyt/rifa/internal/application/checkout/usecases"
	"github.com/samvyt/rifa/internal/domain/quota"
	"github.com/samvyt/rifa/internal/domain/transaction"
	"github.com/samvyt/rifa/internal/shared/errors"
	"github.com/samvyt/rifa/internal/shared/logger"
	"github.com/samvyt/rifa/internal/shared/utils"
)

type Handler struct {
	startCheckoutUC     startCheckoutUseCase
	getTransactionUC    getTransactionUseCase
	cancelTransactionUC cancelTransactionUseCase
	buyerHistoryUC      buyerHistoryUseCase
	maxQuotasPerOrder   int
	logger              logger.Interface
}

func NewHandler(
	startCheckoutUC startCheckoutUseCase,
	getTransactionUC getTransactionUseCase,
	cancelTransactionUC cancelTransactionUseCase,
	buyerHistoryUC buyerHistoryUseCase,
	maxQuotasPerOrder int,
	logger logger.Interface,
) *Handler {
	return &Handler{
		startCheckoutUC:     startCheckoutUC,
		getTransactionUC:    getTransactionUC,
		cancelTransactionUC: cancelTransactionUC,
		buyerHistoryUC:      buyerHistoryUC,
		maxQuotasPerOrder:   maxQuotasPerOrder,
		logger:              logger,
	}
}

// StartCheckoutRequest carries the buyer's final selection.
type StartCheckoutRequest struct {
	RaffleID string              `json:"raffle_id"`
	Buyer    usecases.BuyerInput `json:"buyer" binding:"required"`
	Numbers  []string            `json:"numbers" binding:"required,min=1"`
}

func (h *Handler) StartCheckout(c *gin.Context) {
	var req StartCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for start checkout", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	selection, err := quota.SelectionOf(h.maxQuotasPerOrder, req.Numbers...)
	if err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError(
			fmt.Sprintf("at most %d quotas per order", h.maxQuotasPerOrder)))
		return
	}

	result, err := h.startCheckoutUC.Execute(c.Request.Context(), usecases.StartCheckoutCommand{
		RaffleSID: req.RaffleID,
		Buyer:     req.Buyer,
		Selection: selection,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, dto.ToTransactionDTO(result.Transaction, result.Buyer), "pay the PIX charge before it expires")
}

// GetTransaction returns the transaction, polling the provider first while it
// is pending unless ?refresh=false.
func (h *Handler) GetTransaction(c *gin.Context) {
	refresh := true
	if raw := c.Query("refresh"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			utils.ErrorResponseWithError(c, errors.NewValidationError("refresh must be a boolean", raw))
			return
		}
		refresh = v
	}
	h.respondTransaction(c, refresh)
}

// CheckPayment is the "I already paid" action; it always asks the provider.
func (h *Handler) CheckPayment(c *gin.Context) {
	h.respondTransaction(c, true)
}

func (h *Handler) respondTransaction(c *gin.Context, refresh bool) {
	result, err := h.getTransactionUC.Execute(c.Request.Context(), usecases.GetTransactionQuery{
		TransactionSID: c.Param("id"),
		Refresh:        refresh,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *Handler) CancelTransaction(c *gin.Context) {
	txn, err := h.cancelTransactionUC.Execute(c.Request.Context(), usecases.CancelTransactionCommand{
		TransactionSID: c.Param("id"),
		Reason:         transaction.ReasonUserRequested,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "transaction cancelled", dto.ToTransactionDTO(txn, nil))
}

func (h *Handler) BuyerHistory(c *gin.Context) {
	result, err := h.buyerHistoryUC.Execute(c.Request.Context(), c.Query("email"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}
