package acquisition

import (
	"context"
	"fmt"
	"time"

	"petrolog/internal/core/apperror"
	"petrolog/internal/core/id"
	"petrolog/internal/core/numerator"
)

// Service provides operations over acquisition records.
type Service struct {
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new acquisition service.
func NewService(repo Repository, numerator numerator.Generator) *Service {
	return &Service{
		repo:      repo,
		numerator: numerator,
	}
}

// Record writes an acquisition. Called by the stock ledger inside its
// mutation transaction, mirroring each stock addition.
func (s *Service) Record(ctx context.Context, a *Acquisition) error {
	if err := a.Validate(ctx); err != nil {
		return err
	}

	if a.Number == "" {
		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("ACH"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		a.Number = number
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return fmt.Errorf("create acquisition: %w", err)
	}

	return nil
}

// GetByID retrieves one acquisition record.
func (s *Service) GetByID(ctx context.Context, acqID id.ID) (*Acquisition, error) {
	a, err := s.repo.GetByID(ctx, acqID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("acquisition", acqID.String())
		}
		return nil, err
	}
	return a, nil
}

// List returns purchase history matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Acquisition, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}
	return s.repo.List(ctx, filter)
}
