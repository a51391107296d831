package movement

import (
	"context"
	"fmt"

	"petrolog/internal/core/apperror"
	"petrolog/internal/core/id"
	"petrolog/pkg/logger"
)

// Service provides operations over the movement log.
// This is a dumb, durable, ordered log: validation stops at quantity > 0.
type Service struct {
	repo Repository
}

// NewService creates a new movement log service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Append records movements. Called by the stock ledger inside its
// mutation transaction.
func (s *Service) Append(ctx context.Context, movements ...Movement) error {
	if len(movements) == 0 {
		return nil
	}

	for i, m := range movements {
		if !m.Quantity.IsPositive() {
			return apperror.NewValidation(fmt.Sprintf("movement %d: quantity must be positive", i))
		}
		if id.IsNil(m.StockID) {
			return apperror.NewValidation(fmt.Sprintf("movement %d: stock_id is required", i))
		}
	}

	if err := s.repo.Append(ctx, movements...); err != nil {
		return fmt.Errorf("append movements: %w", err)
	}

	logger.Info(ctx, "recorded stock movements",
		"count", len(movements),
		"stock_id", movements[0].StockID,
	)

	return nil
}

// ListByStock returns movement history for a stock record, newest first.
func (s *Service) ListByStock(ctx context.Context, stockID id.ID, limit, offset int) ([]Movement, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}
	return s.repo.ListByStock(ctx, stockID, limit, offset)
}
