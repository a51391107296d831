package depot

import (
	"context"
	"fmt"
	"time"

	"petrolog/internal/core/apperror"
	"petrolog/internal/core/id"
	"petrolog/internal/core/numerator"
	"petrolog/internal/core/tx"
	"petrolog/internal/domain"
	"petrolog/pkg/logger"
)

// Service provides business logic for the Depot catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Depot] // Embedded for delegation
	repo                           Repository
	stocks                         StockCounter
	numerator                      numerator.Generator
	txManager                      tx.Manager
}

// NewService creates a new Depot service.
func NewService(
	repo Repository,
	stocks StockCounter,
	numerator numerator.Generator,
	txManager tx.Manager,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Depot]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "depot",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		stocks:         stocks,
		numerator:      numerator,
		txManager:      txManager,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

// prepareForCreate handles code generation.
func (s *Service) prepareForCreate(ctx context.Context, d *Depot) error {
	if d.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("DEP"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		d.Code = code
	}
	return nil
}

// --- Entity-specific methods ---

// FindActive returns operational depots.
func (s *Service) FindActive(ctx context.Context) ([]*Depot, error) {
	return s.repo.FindActive(ctx)
}

// Delete retires a depot. A depot that still owns stock records is never
// removed: it is moved to inactive instead, so its history stays reachable.
func (s *Service) Delete(ctx context.Context, depotID id.ID) error {
	d, err := s.repo.GetByID(ctx, depotID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewNotFound("depot", depotID.String())
		}
		return err
	}

	owned, err := s.stocks.CountByDepot(ctx, depotID)
	if err != nil {
		return fmt.Errorf("count depot stock: %w", err)
	}

	if owned > 0 {
		d.Status = StatusInactive
		d.Touch()
		if err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			return s.repo.Update(ctx, d)
		}); err != nil {
			return err
		}
		logger.Info(ctx, "depot deactivated instead of deleted",
			"depot_id", depotID,
			"stock_records", owned,
		)
		return nil
	}

	return s.CatalogService.Delete(ctx, depotID)
}

// SetMaintenance toggles the under-maintenance state. Coming out of
// maintenance re-derives active/full from current usage.
func (s *Service) SetMaintenance(ctx context.Context, depotID id.ID, underMaintenance bool) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		d, err := s.repo.GetForUpdate(ctx, depotID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("depot", depotID.String())
			}
			return err
		}

		if underMaintenance {
			d.Status = StatusUnderMaintenance
		} else {
			d.Status = StatusActive
			d.Status = DeriveStatus(d.Status, d.Capacity, d.UsedCapacity)
		}
		d.Touch()

		return s.repo.Update(ctx, d)
	})
}
