// Package raffle serves the public raffle page data: details, stats, the quota
// grid, random picks and the live quota change stream.
package raffle

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/samvyt/rifa/internal/application/raffle/usecases"
	"github.com/samvyt/rifa/internal/interfaces/http/handlers/common"
	"github.com/samvyt/rifa/internal/shared/errors"
	"github.com/samvyt/rifa/internal/shared/logger"
	"github.com/samvyt/rifa/internal/shared/utils"
)

const (
	maxNumbersPerLookup = 1000
	quotaChangeEvent    = "quota"
)

type Handler struct {
	getRaffleUC   getRaffleUseCase
	getStatsUC    getStatsUseCase
	listQuotasUC  listQuotasUseCase
	pickRandomUC  pickRandomUseCase
	watchQuotasUC watchQuotasUseCase
	keepalive     time.Duration
	logger        logger.Interface
}

func NewHandler(
	getRaffleUC getRaffleUseCase,
	getStatsUC getStatsUseCase,
	listQuotasUC listQuotasUseCase,
	pickRandomUC pickRandomUseCase,
	watchQuotasUC watchQuotasUseCase,
	logger logger.Interface,
) *Handler {
	return &Handler{
		getRaffleUC:   getRaffleUC,
		getStatsUC:    getStatsUC,
		listQuotasUC:  listQuotasUC,
		pickRandomUC:  pickRandomUC,
		watchQuotasUC: watchQuotasUC,
		keepalive:     common.SSEKeepaliveInterval,
		logger:        logger,
	}
}

// raffleSID is empty on the /raffle routes, which address the active raffle.
func raffleSID(c *gin.Context) string {
	return c.Param("id")
}

func (h *Handler) GetRaffle(c *gin.Context) {
	result, err := h.getRaffleUC.Execute(c.Request.Context(), raffleSID(c))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *Handler) GetStats(c *gin.Context) {
	result, err := h.getStatsUC.Execute(c.Request.Context(), raffleSID(c))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListQuotas serves the quota grid. ?numbers=1,2,3 looks up specific quotas
// and ignores paging; otherwise ?status filters and page/page_size apply.
func (h *Handler) ListQuotas(c *gin.Context) {
	query := usecases.ListQuotasQuery{
		RaffleSID: raffleSID(c),
		Status:    c.Query("status"),
	}

	numbers, err := parseNumbers(c.Query("numbers"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	pagination := utils.ParsePagination(c)
	if len(numbers) > 0 {
		query.Numbers = numbers
		pagination = utils.Pagination{Page: 1, PageSize: len(numbers)}
	} else {
		query.Offset = pagination.Offset()
		query.Limit = pagination.PageSize
	}

	result, err := h.listQuotasUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.ListSuccessResponse(c, result.Quotas, result.Total, pagination)
}

func (h *Handler) PickRandom(c *gin.Context) {
	quantity := 1
	if raw := c.Query("quantity"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.ErrorResponseWithError(c, errors.NewValidationError("quantity must be a number", raw))
			return
		}
		quantity = n
	}

	result, err := h.pickRandomUC.Execute(c.Request.Context(), usecases.PickRandomQuery{
		RaffleSID: raffleSID(c),
		Quantity:  quantity,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// StreamQuotaChanges pushes quota status changes as server-sent events so an
// open grid can grey out numbers taken by other buyers.
func (h *Handler) StreamQuotaChanges(c *gin.Context) {
	changes, err := h.watchQuotasUC.Execute(c.Request.Context(), raffleSID(c))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	common.Stream(c, h.logger, quotaChangeEvent, changes, h.keepalive)
}

func parseNumbers(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var numbers []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			numbers = append(numbers, part)
		}
	}
	if len(numbers) > maxNumbersPerLookup {
		return nil, errors.NewValidationError("too many numbers in one lookup",
			strconv.Itoa(maxNumbersPerLookup)+" max")
	}
	return numbers, nil
}
