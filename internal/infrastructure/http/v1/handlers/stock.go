package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"petrolog/internal/core/apperror"
	"petrolog/internal/core/id"
	"petrolog/internal/core/types"
	"petrolog/internal/domain/movement"
	"petrolog/internal/domain/stock"
	"petrolog/internal/infrastructure/http/v1/dto"
)

// StockHandler handles stock ledger endpoints.
type StockHandler struct {
	*BaseHandler
	ledger    *stock.Service
	movements *movement.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, ledger *stock.Service, movements *movement.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		ledger:      ledger,
		movements:   movements,
	}
}

// Add handles POST /stock - add stock to a depot (create or increment).
func (h *StockHandler) Add(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.AddStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	rec, err := h.ledger.AddOrIncrement(ctx, in)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromStockRecord(rec))
}

// Get handles GET /stock/:id - fetch one stock record.
func (h *StockHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	stockID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	rec, err := h.ledger.Get(ctx, stockID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStockRecord(rec))
}

// Update handles PUT /stock/:id - adjust quantity, metadata or depot.
func (h *StockHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	stockID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput(stockID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid depot id format"))
		return
	}

	rec, err := h.ledger.Update(ctx, in)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStockRecord(rec))
}

// Remove handles DELETE /stock/:id - remove the record and release its
// capacity.
func (h *StockHandler) Remove(c *gin.Context) {
	ctx := c.Request.Context()

	stockID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.ledger.Remove(ctx, stockID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListActive handles GET /stock - grouped stock across active depots.
func (h *StockHandler) ListActive(c *gin.Context) {
	ctx := c.Request.Context()

	grouped, err := h.ledger.ListActive(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.DepotStockResponse, len(grouped))
	for i, ds := range grouped {
		items[i] = dto.FromDepotStock(ds)
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ListByProduct handles GET /stock/by-product/:productId.
func (h *StockHandler) ListByProduct(c *gin.Context) {
	ctx := c.Request.Context()

	productID, err := id.Parse(c.Param("productId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid productId format"))
		return
	}

	records, err := h.ledger.ListByProduct(ctx, productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.StockRecordResponse, len(records))
	for i, r := range records {
		items[i] = dto.FromStockRecord(r)
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Movements handles GET /stock/:id/movements - movement history, newest
// first.
func (h *StockHandler) Movements(c *gin.Context) {
	ctx := c.Request.Context()

	stockID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	limit := h.ParseIntQuery(c, "limit", 100)
	offset := h.ParseIntQuery(c, "offset", 0)

	movements, err := h.movements.ListByStock(ctx, stockID, limit, offset)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.MovementResponse, len(movements))
	for i, m := range movements {
		items[i] = dto.FromMovement(m)
	}

	c.JSON(http.StatusOK, dto.MovementListResponse{
		Items:  items,
		Limit:  limit,
		Offset: offset,
	})
}

// ReserveTransfer handles POST /stock/:id/transfer/reserve.
func (h *StockHandler) ReserveTransfer(c *gin.Context) {
	h.transferOp(c, h.ledger.ReserveTransfer)
}

// ReleaseTransfer handles POST /stock/:id/transfer/release.
func (h *StockHandler) ReleaseTransfer(c *gin.Context) {
	h.transferOp(c, h.ledger.ReleaseTransfer)
}

// SettleTransfer handles POST /stock/:id/transfer/settle.
func (h *StockHandler) SettleTransfer(c *gin.Context) {
	h.transferOp(c, h.ledger.SettleTransfer)
}

func (h *StockHandler) transferOp(
	c *gin.Context,
	op func(ctx context.Context, stockID id.ID, quantity types.Quantity) (*stock.StockRecord, error),
) {
	ctx := c.Request.Context()

	stockID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.TransferQuantityRequest
	if !h.BindJSON(c, &req) {
		return
	}

	rec, err := op(ctx, stockID, req.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStockRecord(rec))
}

// RegisterRoutes registers stock ledger routes.
func (h *StockHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("", h.ListActive)
	group.POST("", h.Add)
	group.GET("/by-product/:productId", h.ListByProduct)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Remove)
	group.GET("/:id/movements", h.Movements)
	group.POST("/:id/transfer/reserve", h.ReserveTransfer)
	group.POST("/:id/transfer/release", h.ReleaseTransfer)
	group.POST("/:id/transfer/settle", h.SettleTransfer)
}
