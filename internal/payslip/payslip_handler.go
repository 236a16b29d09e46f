package payslip

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/wcewong/paygen/internal/bootstrap"
	paysliperrors "github.com/wcewong/paygen/internal/payslip/errors"
	"github.com/wcewong/paygen/internal/shared/apperror"
	"github.com/wcewong/paygen/internal/shared/metrics"
	"github.com/wcewong/paygen/internal/shared/money"
	"github.com/wcewong/paygen/internal/shared/response"
	"github.com/wcewong/paygen/internal/taxstrategy"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

type Handler struct {
	service Service
	rdb     *redis.Client
	audit   bootstrap.AuditLogger
	metrics *metrics.PayslipMetrics
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func NewHandlerWithRedis(service Service, rdb *redis.Client, audit bootstrap.AuditLogger) *Handler {
	return &Handler{service: service, rdb: rdb, audit: audit}
}

// WithMetrics enables domain counters; a nil m is allowed.
func (h *Handler) WithMetrics(m *metrics.PayslipMetrics) *Handler {
	h.metrics = m
	return h
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) writeBindError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
	response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", httpErr.Message, err.Error())
}

func (h *Handler) Generate(c *gin.Context) {
	ctx := c.Request.Context()
	lockKey := c.GetString("idempotency_lock_key")
	cacheKey := c.GetString("idempotency_cache_key")

	if h.rdb != nil && lockKey != "" {
		defer h.rdb.Del(ctx, lockKey)
	}

	var req GeneratePayslipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	// A failed call reports no kind, so fall back to the strategy active
	// before it.
	kind := h.service.CurrentTaxStrategy().Kind()
	result, err := h.service.GenerateMonthlyPayslip(ctx, req.EmployeeName, money.DollarsToCents(req.AnnualSalary), req.CurrencyCode)
	if err == nil && result.TaxStrategyKind != "" {
		kind = result.TaxStrategyKind
	}
	h.metrics.ObserveGenerated(string(kind), err)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp := mapToPayslipResponse(result)
	if h.rdb != nil && cacheKey != "" {
		if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
			_ = h.rdb.Set(ctx, cacheKey, payload, idempotencyTTL).Err()
		}
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	ctx := c.Request.Context()

	var filter GetSalaryComputationsFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.writeBindError(c, err)
		return
	}

	var (
		records []Record
		err     error
	)
	if filter.From != "" || filter.To != "" {
		from, to, parseErr := parseRange(filter.From, filter.To)
		if parseErr != nil {
			h.writeServiceError(c, parseErr)
			return
		}
		records, err = h.service.GetSalaryComputationsByDateRange(ctx, from, to)
	} else {
		records, err = h.service.GetAllSalaryComputations(ctx)
	}
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if filter.Page == 0 && filter.PageSize == 0 {
		response.Success(c, http.StatusOK, mapToSalaryComputations(records), nil)
		return
	}

	page, pageSize := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	start, end := response.Paginate(len(records), page, pageSize)
	meta := response.NewPaginationMeta(int64(len(records)), page, pageSize)
	response.Success(c, http.StatusOK, mapToSalaryComputations(records[start:end]), &meta)
}

func (h *Handler) GetByEmployee(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		h.writeServiceError(c, paysliperrors.ErrEmptyEmployeeName)
		return
	}

	records, err := h.service.GetSalaryComputationsByEmployee(c.Request.Context(), name)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, mapToSalaryComputations(records), nil)
}

func (h *Handler) GetStatistics(c *gin.Context) {
	stats, err := h.service.GetServiceStatistics(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats, nil)
}

func (h *Handler) GetTaxStrategy(c *gin.Context) {
	response.Success(c, http.StatusOK, mapToTaxStrategyResponse(h.service.CurrentTaxStrategy()), nil)
}

func (h *Handler) SwitchTaxStrategy(c *gin.Context) {
	var req SwitchTaxStrategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	var err error
	switch taxstrategy.Kind(req.Kind) {
	case taxstrategy.KindDefault:
		h.service.SwitchToDefaultStrategy()
	case taxstrategy.KindAlternative:
		h.service.SwitchToAlternativeStrategy()
	case taxstrategy.KindCustom:
		err = h.service.SwitchToCustomStrategy(mapToTaxBrackets(req.Brackets))
	case taxstrategy.KindFlat:
		if req.Rate == nil {
			err = paysliperrors.ErrFlatRateRequired
			break
		}
		err = h.service.SwitchToFlatTaxStrategy(*req.Rate)
	default:
		err = paysliperrors.ErrInvalidStrategyKind
	}
	h.metrics.ObserveStrategySwitch(switchKindLabel(req.Kind), err)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	current := h.service.CurrentTaxStrategy()
	if h.audit != nil {
		h.audit.Log(c.Request.Context(), bootstrap.AuditLog{
			Action:  bootstrap.AuditActionTaxStrategySwitched,
			Message: "tax strategy switched",
			Meta: map[string]any{
				"kind":      string(current.Kind()),
				"client_ip": c.ClientIP(),
			},
		})
	}

	response.Success(c, http.StatusOK, mapToTaxStrategyResponse(current), nil)
}

func switchKindLabel(kind string) string {
	if !taxstrategy.Kind(kind).Valid() {
		return "unknown"
	}
	return kind
}

// parseRange accepts RFC3339 bounds; a missing bound is open-ended.
func parseRange(fromStr, toStr string) (time.Time, time.Time, error) {
	from := time.Unix(0, 0).UTC()
	to := time.Now().UTC()

	if fromStr != "" {
		t, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, paysliperrors.ErrInvalidDateFormat
		}
		from = t
	}
	if toStr != "" {
		t, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			return time.Time{}, time.Time{}, paysliperrors.ErrInvalidDateFormat
		}
		to = t
	}

	return from, to, nil
}
