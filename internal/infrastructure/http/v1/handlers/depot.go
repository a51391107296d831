package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"petrolog/internal/core/apperror"
	"petrolog/internal/core/id"
	"petrolog/internal/domain/catalogs/depot"
	"petrolog/internal/infrastructure/http/v1/dto"
)

// DepotHandler handles depot catalog endpoints. Delete and maintenance
// toggling go through the depot service rather than the generic CRUD
// path: a depot that still owns stock is deactivated, not removed.
type DepotHandler struct {
	*CatalogHandler[*depot.Depot, dto.CreateDepotRequest, dto.UpdateDepotRequest]
	service *depot.Service
}

// NewDepotHandler creates a new depot handler.
func NewDepotHandler(base *BaseHandler, service *depot.Service) *DepotHandler {
	config := CatalogHandlerConfig[*depot.Depot, dto.CreateDepotRequest, dto.UpdateDepotRequest]{
		Service:    service.CatalogService,
		EntityName: "depot",

		MapCreateDTO: func(req dto.CreateDepotRequest) *depot.Depot {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateDepotRequest, existing *depot.Depot) *depot.Depot {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *depot.Depot) any {
			return dto.FromDepot(entity)
		},
	}

	return &DepotHandler{
		CatalogHandler: NewCatalogHandler(base, config),
		service:        service,
	}
}

// Delete handles DELETE /catalog/depots/:id - retire a depot.
func (h *DepotHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	depotID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Delete(ctx, depotID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SetMaintenance handles POST /catalog/depots/:id/maintenance.
func (h *DepotHandler) SetMaintenance(c *gin.Context) {
	ctx := c.Request.Context()

	depotID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.SetMaintenanceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.SetMaintenance(ctx, depotID, req.UnderMaintenance); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "maintenance state updated")
}
