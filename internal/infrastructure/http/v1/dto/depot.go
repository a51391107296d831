package dto

import (
	"petrolog/internal/core/types"
	"petrolog/internal/domain/catalogs/depot"
)

// --- Request DTOs ---

// CreateDepotRequest is the request body for creating a depot.
type CreateDepotRequest struct {
	Code        string         `json:"code"`
	Name        string         `json:"name" binding:"required"`
	Capacity    types.Quantity `json:"capacity" binding:"required"`
	Address     *string        `json:"address"`
	Description *string        `json:"description"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateDepotRequest) ToEntity() *depot.Depot {
	d := depot.NewDepot(r.Code, r.Name, r.Capacity)
	d.Address = r.Address
	d.Description = r.Description
	return d
}

// UpdateDepotRequest is the request body for updating a depot.
// Capacity can shrink below current usage; the depot then reports full
// until stock drains. UsedCapacity and status are ledger-owned and not
// settable here.
type UpdateDepotRequest struct {
	Code        string         `json:"code"`
	Name        string         `json:"name" binding:"required"`
	Capacity    types.Quantity `json:"capacity" binding:"required"`
	Address     *string        `json:"address,omitempty"`
	Description *string        `json:"description,omitempty"`
	Version     int            `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateDepotRequest) ApplyTo(d *depot.Depot) {
	d.Code = r.Code
	d.Name = r.Name
	d.Capacity = r.Capacity
	d.Address = r.Address
	d.Description = r.Description
	d.Version = r.Version
	d.Status = depot.DeriveStatus(d.Status, d.Capacity, d.UsedCapacity)
}

// SetMaintenanceRequest toggles the under-maintenance state.
type SetMaintenanceRequest struct {
	UnderMaintenance bool `json:"underMaintenance"`
}

// --- Response DTOs ---

// DepotResponse is the response body for a depot.
type DepotResponse struct {
	ID                string         `json:"id"`
	Code              string         `json:"code"`
	Name              string         `json:"name"`
	Capacity          types.Quantity `json:"capacity"`
	UsedCapacity      types.Quantity `json:"usedCapacity"`
	AvailableCapacity types.Quantity `json:"availableCapacity"`
	Status            depot.Status   `json:"status"`
	Address           *string        `json:"address,omitempty"`
	Description       *string        `json:"description,omitempty"`
	DeletionMark      bool           `json:"deletionMark"`
	Version           int            `json:"version"`
}

// FromDepot creates response DTO from domain entity.
func FromDepot(d *depot.Depot) *DepotResponse {
	return &DepotResponse{
		ID:                d.ID.String(),
		Code:              d.Code,
		Name:              d.Name,
		Capacity:          d.Capacity,
		UsedCapacity:      d.UsedCapacity,
		AvailableCapacity: d.AvailableCapacity(),
		Status:            d.Status,
		Address:           d.Address,
		Description:       d.Description,
		DeletionMark:      d.DeletionMark,
		Version:           d.Version,
	}
}
