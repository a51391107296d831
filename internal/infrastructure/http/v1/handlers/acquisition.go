package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"petrolog/internal/core/apperror"
	"petrolog/internal/core/id"
	"petrolog/internal/domain/acquisition"
	"petrolog/internal/infrastructure/http/v1/dto"
)

// AcquisitionHandler handles purchase history endpoints. Acquisitions are
// written only as a side effect of stock additions, so there is no POST
// route here.
type AcquisitionHandler struct {
	*BaseHandler
	service   *acquisition.Service
	estimator acquisition.CostEstimator
}

// NewAcquisitionHandler creates a new acquisition handler.
func NewAcquisitionHandler(base *BaseHandler, service *acquisition.Service, estimator acquisition.CostEstimator) *AcquisitionHandler {
	return &AcquisitionHandler{
		BaseHandler: base,
		service:     service,
		estimator:   estimator,
	}
}

// Get handles GET /acquisitions/:id
func (h *AcquisitionHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	acqID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	a, err := h.service.GetByID(ctx, acqID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromAcquisition(a))
}

// List handles GET /acquisitions - purchase history, newest first.
func (h *AcquisitionHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := acquisition.ListFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if pStr := c.Query("productId"); pStr != "" {
		parsed, err := id.Parse(pStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid productId format"))
			return
		}
		filter.ProductID = &parsed
	}

	if dStr := c.Query("depotId"); dStr != "" {
		parsed, err := id.Parse(dStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid depotId format"))
			return
		}
		filter.DepotID = &parsed
	}

	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid from date, expected RFC3339"))
			return
		}
		filter.From = &parsed
	}

	if toStr := c.Query("to"); toStr != "" {
		parsed, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid to date, expected RFC3339"))
			return
		}
		filter.To = &parsed
	}

	records, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.AcquisitionResponse, len(records))
	for i, a := range records {
		items[i] = dto.FromAcquisition(a)
	}

	c.JSON(http.StatusOK, dto.AcquisitionListResponse{
		Items:  items,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// AverageCost handles GET /acquisitions/average-cost - the estimated unit
// cost for a product, optionally as of a cutoff date.
func (h *AcquisitionHandler) AverageCost(c *gin.Context) {
	ctx := c.Request.Context()

	productID, err := id.Parse(c.Query("productId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("productId is required"))
		return
	}

	var cutoff *time.Time
	if atStr := c.Query("at"); atStr != "" {
		parsed, err := time.Parse(time.RFC3339, atStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid at date, expected RFC3339"))
			return
		}
		cutoff = &parsed
	}

	cost, err := h.estimator.AverageUnitCost(ctx, productID, cutoff)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AverageCostResponse{
		ProductID:       productID.String(),
		AverageUnitCost: cost,
		At:              cutoff,
	})
}

// RegisterRoutes registers acquisition routes.
func (h *AcquisitionHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.GET("/average-cost", h.AverageCost)
	group.GET("/:id", h.Get)
}
