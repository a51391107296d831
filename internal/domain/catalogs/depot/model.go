// Package depot provides the Depot catalog: physical fuel storage sites
// with a finite volumetric capacity.
package depot

import (
	"context"

	"petrolog/internal/core/apperror"
	"petrolog/internal/core/entity"
	"petrolog/internal/core/types"
)

// Status defines the operational state of a depot.
type Status string

const (
	StatusActive           Status = "active"
	StatusInactive         Status = "inactive"
	StatusUnderMaintenance Status = "under_maintenance"
	StatusFull             Status = "full"
)

// Depot represents a storage site for fuel products.
//
// UsedCapacity is a cached derived value: it must always equal the sum of
// quantity + quantity_in_transfer over the depot's stock records. The stock
// ledger is the only writer of UsedCapacity and Status transitions between
// active and full.
type Depot struct {
	entity.Catalog

	// Address is the physical address
	Address *string `db:"address" json:"address,omitempty"`

	// Capacity is the total volumetric capacity in litres
	Capacity types.Quantity `db:"capacity" json:"capacity"`

	// UsedCapacity is the cached occupied volume (derived)
	UsedCapacity types.Quantity `db:"used_capacity" json:"usedCapacity"`

	// Status is the operational state
	Status Status `db:"status" json:"status"`

	// Description
	Description *string `db:"description" json:"description,omitempty"`
}

// NewDepot creates a new Depot with required fields.
func NewDepot(code, name string, capacity types.Quantity) *Depot {
	return &Depot{
		Catalog:  entity.NewCatalog(code, name),
		Capacity: capacity,
		Status:   StatusActive,
	}
}

// Validate implements entity.Validatable interface.
func (d *Depot) Validate(ctx context.Context) error {
	if err := d.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !d.Capacity.IsPositive() {
		return apperror.NewValidation("capacity must be positive").
			WithDetail("field", "capacity").
			WithDetail("value", d.Capacity.String())
	}

	if !isValidStatus(d.Status) {
		return apperror.NewValidation("invalid depot status").
			WithDetail("field", "status").
			WithDetail("value", string(d.Status))
	}

	if d.UsedCapacity.IsNegative() {
		return apperror.NewValidation("used capacity cannot be negative").
			WithDetail("field", "usedCapacity")
	}

	return nil
}

// AvailableCapacity returns the free volume left in the depot.
func (d *Depot) AvailableCapacity() types.Quantity {
	free := d.Capacity - d.UsedCapacity
	if free.IsNegative() {
		return 0
	}
	return free
}

// CanAcceptStock reports whether the depot is in a state that accepts
// incoming stock. Capacity headroom is validated separately.
func (d *Depot) CanAcceptStock() bool {
	return d.Status == StatusActive || d.Status == StatusFull
}

// ApplyUsage adjusts the cached used-capacity counter by delta and
// re-derives the active/full status.
func (d *Depot) ApplyUsage(delta types.Quantity) {
	d.UsedCapacity += delta
	if d.UsedCapacity.IsNegative() {
		d.UsedCapacity = 0
	}
	d.Status = DeriveStatus(d.Status, d.Capacity, d.UsedCapacity)
}

// DeriveStatus computes the depot status from its capacity usage.
//
// Hysteresis rule: usage at or above capacity forces full; a previously
// full depot reverts to active once usage drops back below capacity.
// Inactive and under-maintenance states are administrative and are never
// overwritten by capacity changes.
func DeriveStatus(current Status, capacity, used types.Quantity) Status {
	switch current {
	case StatusInactive, StatusUnderMaintenance:
		return current
	}

	if used >= capacity {
		return StatusFull
	}
	if current == StatusFull {
		return StatusActive
	}
	return current
}

func isValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusInactive, StatusUnderMaintenance, StatusFull:
		return true
	}
	return false
}
