package stock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"petrolog/internal/core/apperror"
	"petrolog/internal/core/id"
	"petrolog/internal/core/tx"
	"petrolog/internal/core/types"
	"petrolog/internal/domain/acquisition"
	"petrolog/internal/domain/alerting"
	"petrolog/internal/domain/catalogs/depot"
	"petrolog/internal/domain/catalogs/product"
	"petrolog/internal/domain/movement"
	"petrolog/pkg/logger"
)

// AuditRecorder stores before/after snapshots of mutated stock records.
// Best effort: a recorder failure never rolls back the mutation.
type AuditRecorder interface {
	RecordStockChange(ctx context.Context, action string, before, after *StockRecord) error
}

// Service is the stock ledger. Every mutation runs in one transaction,
// holds a row lock on the owning depot for the whole check-validate-write
// sequence, appends exactly one movement, and keeps the depot's cached
// used-capacity counter consistent.
type Service struct {
	repo         Repository
	depots       depot.Repository
	products     product.Repository
	movements    *movement.Service
	acquisitions *acquisition.Service
	alerts       alerting.Sink
	txManager    tx.Manager
	audit        AuditRecorder // optional
}

// NewService creates the stock ledger service.
func NewService(
	repo Repository,
	depots depot.Repository,
	products product.Repository,
	movements *movement.Service,
	acquisitions *acquisition.Service,
	alerts alerting.Sink,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:         repo,
		depots:       depots,
		products:     products,
		movements:    movements,
		acquisitions: acquisitions,
		alerts:       alerts,
		txManager:    txManager,
	}
}

// SetAuditRecorder wires the optional audit trail.
func (s *Service) SetAuditRecorder(a AuditRecorder) {
	s.audit = a
}

// AddStockInput is the request for AddOrIncrement.
type AddStockInput struct {
	DepotID   id.ID
	ProductID id.ID
	Quantity  types.Quantity
	UnitCost  *types.Money
	Threshold *types.Quantity
	Unit      string
}

// AddOrIncrement adds stock to a (depot, product) pair, creating the
// record on first addition and incrementing it afterwards. The whole
// operation is rejected when the depot lacks capacity; nothing is
// partially applied.
func (s *Service) AddOrIncrement(ctx context.Context, in AddStockInput) (*StockRecord, error) {
	if !in.Quantity.IsPositive() {
		return nil, apperror.NewInvalidQuantity("quantity to add must be positive").
			WithDetail("value", in.Quantity.String())
	}

	var (
		result *StockRecord
		before *StockRecord
		alert  *alerting.LowStockAlert
	)

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		d, err := s.depots.GetForUpdate(ctx, in.DepotID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("depot", in.DepotID.String())
			}
			return err
		}

		if !d.CanAcceptStock() {
			return apperror.NewDepotInactive(d.ID.String(), string(d.Status))
		}

		exists, err := s.products.Exists(ctx, in.ProductID)
		if err != nil {
			return fmt.Errorf("check product: %w", err)
		}
		if !exists {
			return apperror.NewNotFound("product", in.ProductID.String())
		}

		available := d.AvailableCapacity()
		if in.Quantity > available {
			return apperror.NewCapacityExceeded(d.ID.String(), in.Quantity.Float64(), available.Float64())
		}

		rec, err := s.repo.GetByPair(ctx, in.DepotID, in.ProductID)
		switch {
		case err == nil:
			before = snapshot(rec)
			rec.Quantity += in.Quantity
			applyOverrides(rec, in)
			rec.Touch()
			if err := s.repo.Update(ctx, rec); err != nil {
				return fmt.Errorf("update stock record: %w", err)
			}
		case apperror.IsNotFound(err):
			depotID := in.DepotID
			rec = NewRecord(&depotID, in.ProductID, in.Quantity, in.Unit)
			applyOverrides(rec, in)
			if err := s.repo.Create(ctx, rec); err != nil {
				return fmt.Errorf("create stock record: %w", err)
			}
		default:
			return err
		}

		d.ApplyUsage(in.Quantity)
		if err := s.depots.SaveCapacity(ctx, d); err != nil {
			return fmt.Errorf("save depot capacity: %w", err)
		}

		entry := movement.New(rec.ID, movement.DirectionEntry, in.Quantity, rec.Unit,
			fmt.Sprintf("stock addition at depot %s", d.Code))
		if err := s.movements.Append(ctx, entry); err != nil {
			return err
		}

		unitPrice := types.Zero()
		if in.UnitCost != nil {
			unitPrice = *in.UnitCost
		}
		acq := acquisition.New(in.DepotID, in.ProductID, in.Quantity, unitPrice)
		if err := s.acquisitions.Record(ctx, acq); err != nil {
			return err
		}

		alert = s.lowStockAlert(rec, d)
		result = rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, "add", before, result, alert)
	return result, nil
}

// UpdateStockInput is the request for Update.
type UpdateStockInput struct {
	StockID     id.ID
	NewDepotID  *id.ID // nil = depot unchanged
	NewQuantity types.Quantity
	UnitCost    *types.Money
	Threshold   *types.Quantity
	Unit        string
	Reason      string
}

// Update sets a stock record to a new quantity, optionally relocating it
// to another depot. Capacity is re-validated before any counter changes;
// on failure nothing is mutated.
func (s *Service) Update(ctx context.Context, in UpdateStockInput) (*StockRecord, error) {
	if in.NewQuantity.IsNegative() {
		return nil, apperror.NewInvalidQuantity("resulting quantity cannot be negative").
			WithDetail("value", in.NewQuantity.String())
	}

	var (
		result *StockRecord
		before *StockRecord
		alert  *alerting.LowStockAlert
	)

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		rec, err := s.repo.GetByID(ctx, in.StockID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("stock record", in.StockID.String())
			}
			return err
		}
		before = snapshot(rec)

		delta := in.NewQuantity - rec.Quantity

		movingDepot := in.NewDepotID != nil && (rec.DepotID == nil || *in.NewDepotID != *rec.DepotID)

		switch {
		case rec.IsReservoir() && !movingDepot:
			// Reservoir records occupy no depot capacity.

		case movingDepot:
			if err := s.relocate(ctx, rec, *in.NewDepotID, in.NewQuantity); err != nil {
				return err
			}

		default:
			d, err := s.depots.GetForUpdate(ctx, *rec.DepotID)
			if err != nil {
				return err
			}
			if delta.IsPositive() {
				available := d.AvailableCapacity()
				if delta > available {
					return apperror.NewCapacityExceeded(d.ID.String(), delta.Float64(), available.Float64())
				}
			}
			d.ApplyUsage(delta)
			if err := s.depots.SaveCapacity(ctx, d); err != nil {
				return fmt.Errorf("save depot capacity: %w", err)
			}
		}

		rec.Quantity = in.NewQuantity
		if in.UnitCost != nil {
			rec.UnitCost = in.UnitCost
		}
		if in.Threshold != nil {
			rec.Threshold = in.Threshold
		}
		if in.Unit != "" {
			rec.Unit = in.Unit
		}
		rec.Touch()
		if err := s.repo.Update(ctx, rec); err != nil {
			return fmt.Errorf("update stock record: %w", err)
		}

		if !delta.IsZero() {
			direction := movement.DirectionEntry
			if delta.IsNegative() {
				direction = movement.DirectionExit
			}
			description := in.Reason
			if description == "" {
				description = "stock adjustment"
			}
			m := movement.New(rec.ID, direction, delta.Abs(), rec.Unit, description)
			if err := s.movements.Append(ctx, m); err != nil {
				return err
			}
		}

		if rec.DepotID != nil {
			d, err := s.depots.GetByID(ctx, *rec.DepotID)
			if err == nil {
				alert = s.lowStockAlert(rec, d)
			}
		} else {
			alert = s.lowStockAlert(rec, nil)
		}
		result = rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, "update", before, result, alert)
	return result, nil
}

// relocate moves a record to another depot. The old depot's counter is
// released and the target depot's capacity is validated against the full
// occupied volume, all inside the caller's transaction so a rejection
// rolls both counters back.
func (s *Service) relocate(ctx context.Context, rec *StockRecord, newDepotID id.ID, newQuantity types.Quantity) error {
	newOccupied := newQuantity + rec.QuantityInTransfer

	// Lock depots in a stable order to avoid deadlocks between
	// concurrent relocations.
	lockFirst, lockSecond := newDepotID, newDepotID
	var oldDepot, newDepot *depot.Depot

	if rec.DepotID != nil {
		if strings.Compare(rec.DepotID.String(), newDepotID.String()) < 0 {
			lockFirst, lockSecond = *rec.DepotID, newDepotID
		} else {
			lockFirst, lockSecond = newDepotID, *rec.DepotID
		}
	}

	first, err := s.depots.GetForUpdate(ctx, lockFirst)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewNotFound("depot", lockFirst.String())
		}
		return err
	}
	second := first
	if lockSecond != lockFirst {
		second, err = s.depots.GetForUpdate(ctx, lockSecond)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("depot", lockSecond.String())
			}
			return err
		}
	}

	if first.ID == newDepotID {
		newDepot = first
		oldDepot = second
	} else {
		newDepot = second
		oldDepot = first
	}

	if !newDepot.CanAcceptStock() {
		return apperror.NewDepotInactive(newDepot.ID.String(), string(newDepot.Status))
	}

	if rec.DepotID != nil && oldDepot.ID != newDepot.ID {
		oldDepot.ApplyUsage(rec.Occupied().Neg())
	}

	// The full occupied volume must fit the target, not just the delta.
	available := newDepot.AvailableCapacity()
	if newOccupied > available {
		return apperror.NewCapacityExceeded(newDepot.ID.String(), newOccupied.Float64(), available.Float64())
	}
	newDepot.ApplyUsage(newOccupied)

	if rec.DepotID != nil && oldDepot.ID != newDepot.ID {
		if err := s.depots.SaveCapacity(ctx, oldDepot); err != nil {
			return fmt.Errorf("save old depot capacity: %w", err)
		}
	}
	if err := s.depots.SaveCapacity(ctx, newDepot); err != nil {
		return fmt.Errorf("save new depot capacity: %w", err)
	}

	rec.DepotID = &newDepot.ID
	return nil
}

// Remove deletes a stock record. The depot counter is released and a
// terminal exit movement for the full remaining quantity is logged first,
// so the movement log keeps explaining the record's whole history.
func (s *Service) Remove(ctx context.Context, stockID id.ID) error {
	var before *StockRecord

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		rec, err := s.repo.GetByID(ctx, stockID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("stock record", stockID.String())
			}
			return err
		}
		before = snapshot(rec)

		if rec.DepotID != nil {
			d, err := s.depots.GetForUpdate(ctx, *rec.DepotID)
			if err != nil {
				return err
			}
			d.ApplyUsage(rec.Occupied().Neg())
			if err := s.depots.SaveCapacity(ctx, d); err != nil {
				return fmt.Errorf("save depot capacity: %w", err)
			}
		}

		if rec.Quantity.IsPositive() {
			m := movement.New(rec.ID, movement.DirectionExit, rec.Quantity, rec.Unit, "stock record removal")
			if err := s.movements.Append(ctx, m); err != nil {
				return err
			}
		}

		if err := s.repo.Delete(ctx, rec.ID); err != nil {
			return fmt.Errorf("delete stock record: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.afterMutation(ctx, "remove", before, nil, nil)
	return nil
}

// ReserveTransfer commits on-hand stock to a no-payment transfer
// (cession). The volume keeps occupying depot capacity but leaves
// sellable inventory, so an exit movement is logged.
func (s *Service) ReserveTransfer(ctx context.Context, stockID id.ID, quantity types.Quantity) (*StockRecord, error) {
	return s.shiftTransfer(ctx, stockID, quantity, true)
}

// ReleaseTransfer returns cession-committed stock to on-hand inventory.
func (s *Service) ReleaseTransfer(ctx context.Context, stockID id.ID, quantity types.Quantity) (*StockRecord, error) {
	return s.shiftTransfer(ctx, stockID, quantity, false)
}

func (s *Service) shiftTransfer(ctx context.Context, stockID id.ID, quantity types.Quantity, reserve bool) (*StockRecord, error) {
	if !quantity.IsPositive() {
		return nil, apperror.NewInvalidQuantity("transfer quantity must be positive")
	}

	var result *StockRecord
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		rec, err := s.repo.GetByID(ctx, stockID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("stock record", stockID.String())
			}
			return err
		}

		direction := movement.DirectionExit
		description := "transfer cession reserve"
		if reserve {
			if rec.Quantity < quantity {
				return apperror.NewInsufficientStock(rec.ProductID.String(), quantity.Float64(), rec.Quantity.Float64())
			}
			rec.Quantity -= quantity
			rec.QuantityInTransfer += quantity
		} else {
			if rec.QuantityInTransfer < quantity {
				return apperror.NewInvalidQuantity("release exceeds transfer quantity").
					WithDetail("in_transfer", rec.QuantityInTransfer.String())
			}
			rec.QuantityInTransfer -= quantity
			rec.Quantity += quantity
			direction = movement.DirectionEntry
			description = "transfer cession release"
		}

		rec.Touch()
		if err := s.repo.Update(ctx, rec); err != nil {
			return fmt.Errorf("update stock record: %w", err)
		}

		// Occupied volume is unchanged; depot counters stay put.
		m := movement.New(rec.ID, direction, quantity, rec.Unit, description)
		if err := s.movements.Append(ctx, m); err != nil {
			return err
		}

		result = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SettleTransfer finalizes a delivered cession: the committed volume
// leaves the depot entirely.
func (s *Service) SettleTransfer(ctx context.Context, stockID id.ID, quantity types.Quantity) (*StockRecord, error) {
	if !quantity.IsPositive() {
		return nil, apperror.NewInvalidQuantity("transfer quantity must be positive")
	}

	var result *StockRecord
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		rec, err := s.repo.GetByID(ctx, stockID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("stock record", stockID.String())
			}
			return err
		}

		if rec.QuantityInTransfer < quantity {
			return apperror.NewInvalidQuantity("settlement exceeds transfer quantity").
				WithDetail("in_transfer", rec.QuantityInTransfer.String())
		}
		rec.QuantityInTransfer -= quantity
		rec.Touch()
		if err := s.repo.Update(ctx, rec); err != nil {
			return fmt.Errorf("update stock record: %w", err)
		}

		if rec.DepotID != nil {
			d, err := s.depots.GetForUpdate(ctx, *rec.DepotID)
			if err != nil {
				return err
			}
			d.ApplyUsage(quantity.Neg())
			if err := s.depots.SaveCapacity(ctx, d); err != nil {
				return fmt.Errorf("save depot capacity: %w", err)
			}
		}

		result = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ProvisionReservoir creates the product-wide citerne record with zero
// quantity. Implements product.ReservoirProvisioner.
func (s *Service) ProvisionReservoir(ctx context.Context, productID id.ID, unit string) error {
	_, err := s.repo.GetReservoir(ctx, productID)
	if err == nil {
		// Singleton: one reservoir per product.
		return nil
	}
	if !apperror.IsNotFound(err) {
		return err
	}

	rec := NewRecord(nil, productID, 0, unit)
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, rec)
	})
}

// Get retrieves one stock record.
func (s *Service) Get(ctx context.Context, stockID id.ID) (*StockRecord, error) {
	rec, err := s.repo.GetByID(ctx, stockID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("stock record", stockID.String())
		}
		return nil, err
	}
	return rec, nil
}

// DepotStock is one active depot with its stock records and the
// used-capacity figure recomputed from those records.
type DepotStock struct {
	Depot   *depot.Depot   `json:"depot"`
	Records []*StockRecord `json:"records"`
}

// ListActive returns stock grouped by active depot. Used capacity is
// recomputed on read from the records themselves rather than trusted from
// the cached counter, masking any drift.
func (s *Service) ListActive(ctx context.Context) ([]DepotStock, error) {
	depots, err := s.depots.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("find active depots: %w", err)
	}

	out := make([]DepotStock, 0, len(depots))
	for _, d := range depots {
		records, err := s.repo.ListByDepot(ctx, d.ID)
		if err != nil {
			return nil, fmt.Errorf("list depot stock: %w", err)
		}

		var occupied types.Quantity
		for _, r := range records {
			occupied += r.Occupied()
		}
		d.UsedCapacity = occupied

		out = append(out, DepotStock{Depot: d, Records: records})
	}
	return out, nil
}

// ListByProduct returns all records for a product, reservoir included.
func (s *Service) ListByProduct(ctx context.Context, productID id.ID) ([]*StockRecord, error) {
	return s.repo.ListByProduct(ctx, productID)
}

// --- helpers ---

func applyOverrides(rec *StockRecord, in AddStockInput) {
	if in.UnitCost != nil {
		rec.UnitCost = in.UnitCost
	}
	if in.Threshold != nil {
		rec.Threshold = in.Threshold
	}
	if in.Unit != "" {
		rec.Unit = in.Unit
	}
}

func (s *Service) lowStockAlert(rec *StockRecord, d *depot.Depot) *alerting.LowStockAlert {
	if !rec.BelowThreshold() {
		return nil
	}
	a := &alerting.LowStockAlert{
		ProductID: rec.ProductID,
		Quantity:  rec.Quantity,
		Threshold: *rec.Threshold,
		At:        time.Now().UTC(),
	}
	if d != nil {
		depotID := d.ID
		a.DepotID = &depotID
	}
	return a
}

// afterMutation runs the fire-and-forget side effects once the
// transaction has committed. Neither alerting nor audit failures reach
// the caller.
func (s *Service) afterMutation(ctx context.Context, action string, before, after *StockRecord, alert *alerting.LowStockAlert) {
	if alert != nil {
		if err := s.alerts.RaiseLowStock(ctx, *alert); err != nil {
			logger.Warn(ctx, "low stock alert delivery failed",
				"product_id", alert.ProductID,
				"error", err,
			)
		}
	}

	if s.audit != nil {
		if err := s.audit.RecordStockChange(ctx, action, before, after); err != nil {
			logger.Warn(ctx, "stock audit write failed", "action", action, "error", err)
		}
	}
}

func snapshot(r *StockRecord) *StockRecord {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}
