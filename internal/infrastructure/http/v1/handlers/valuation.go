package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"petrolog/internal/core/apperror"
	"petrolog/internal/domain/valuation"
	"petrolog/internal/infrastructure/http/v1/dto"
)

// ValuationHandler handles the capital valuation report.
type ValuationHandler struct {
	*BaseHandler
	service *valuation.Service
}

// NewValuationHandler creates a new valuation handler.
func NewValuationHandler(base *BaseHandler, service *valuation.Service) *ValuationHandler {
	return &ValuationHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Capital handles GET /reports/capital.
//
// Period selection, in order of precedence:
//   - year + month query params: that calendar month
//   - startDate / endDate (RFC3339): explicit range, either side open
//   - nothing: all-time snapshot as of now
func (h *ValuationHandler) Capital(c *gin.Context) {
	ctx := c.Request.Context()

	yearStr := c.Query("year")
	monthStr := c.Query("month")

	if yearStr != "" || monthStr != "" {
		if yearStr == "" || monthStr == "" {
			h.Error(c, apperror.NewValidation("year and month must be provided together"))
			return
		}
		year := h.ParseIntQuery(c, "year", 0)
		month := h.ParseIntQuery(c, "month", 0)
		if year <= 0 || month < 1 || month > 12 {
			h.Error(c, apperror.NewValidation("invalid year or month").
				WithDetail("year", yearStr).
				WithDetail("month", monthStr))
			return
		}

		snapshot, err := h.service.ValuateMonth(ctx, year, time.Month(month))
		if err != nil {
			h.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.FromCapitalSnapshot(snapshot))
		return
	}

	var start, end *time.Time
	if s := c.Query("startDate"); s != "" {
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid startDate, expected RFC3339"))
			return
		}
		start = &parsed
	}
	if s := c.Query("endDate"); s != "" {
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid endDate, expected RFC3339"))
			return
		}
		end = &parsed
	}

	var (
		snapshot *valuation.CapitalSnapshot
		err      error
	)
	if start == nil && end == nil {
		snapshot, err = h.service.Valuate(ctx)
	} else {
		snapshot, err = h.service.ValuateRange(ctx, start, end)
	}
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromCapitalSnapshot(snapshot))
}

// RegisterRoutes registers report routes.
func (h *ValuationHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/capital", h.Capital)
}
