package product

import (
	"context"
	"fmt"
	"time"

	"petrolog/internal/core/apperror"
	"petrolog/internal/core/numerator"
	"petrolog/internal/core/tx"
	"petrolog/internal/domain"
)

// Service provides business logic for the Product catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Product]
	repo      Repository
	reservoir ReservoirProvisioner
	numerator numerator.Generator
}

// NewService creates a new Product service.
func NewService(
	repo Repository,
	reservoir ReservoirProvisioner,
	numerator numerator.Generator,
	txManager tx.Manager,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "product",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		reservoir:      reservoir,
		numerator:      numerator,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.checkNameUnique)
	base.Hooks().OnAfterCreate(svc.provisionReservoir)

	return svc
}

// prepareForCreate handles code generation and name uniqueness.
func (s *Service) prepareForCreate(ctx context.Context, p *Product) error {
	if p.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("PRD"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		p.Code = code
	}

	if p.Unit == "" {
		p.Unit = "L"
	}

	return s.checkNameUnique(ctx, p)
}

func (s *Service) checkNameUnique(ctx context.Context, p *Product) error {
	exists, err := s.repo.ExistsByName(ctx, p.Name, p.ID)
	if err != nil {
		return fmt.Errorf("check product name: %w", err)
	}
	if exists {
		return apperror.NewDuplicate("product", "name", p.Name)
	}
	return nil
}

// provisionReservoir creates the product-wide citerne stock record after
// the product row exists.
func (s *Service) provisionReservoir(ctx context.Context, p *Product) error {
	return s.reservoir.ProvisionReservoir(ctx, p.ID, p.Unit)
}
