package stock_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"petrolog/internal/core/apperror"
	"petrolog/internal/core/id"
	"petrolog/internal/core/types"
	"petrolog/internal/domain/acquisition"
	"petrolog/internal/infrastructure/storage/postgres"
)

const acquisitionTable = "doc_acquisitions"

var acquisitionCols = postgres.ExtractDBColumns[acquisition.Acquisition]()

// AcquisitionRepo implements acquisition.Repository.
type AcquisitionRepo struct {
	txManager *postgres.TxManager
}

// NewAcquisitionRepo creates a new acquisition repository.
func NewAcquisitionRepo(txManager *postgres.TxManager) *AcquisitionRepo {
	return &AcquisitionRepo{txManager: txManager}
}

func (r *AcquisitionRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts an acquisition record.
func (r *AcquisitionRepo) Create(ctx context.Context, a *acquisition.Acquisition) error {
	data := postgres.StructToMap(a)

	filtered := make(map[string]any, len(acquisitionCols))
	for _, col := range acquisitionCols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	q := r.builder().
		Insert(acquisitionTable).
		SetMap(filtered)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert acquisition: %w", err)
	}

	return nil
}

// GetByID retrieves one record.
func (r *AcquisitionRepo) GetByID(ctx context.Context, docID id.ID) (*acquisition.Acquisition, error) {
	q := r.builder().
		Select(acquisitionCols...).
		From(acquisitionTable).
		Where(squirrel.Eq{"id": docID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var a acquisition.Acquisition
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &a, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(acquisitionTable, docID.String())
		}
		return nil, fmt.Errorf("get acquisition: %w", err)
	}

	return &a, nil
}

// List retrieves records matching the filter, newest first.
func (r *AcquisitionRepo) List(ctx context.Context, f acquisition.ListFilter) ([]*acquisition.Acquisition, error) {
	q := r.builder().
		Select(acquisitionCols...).
		From(acquisitionTable).
		OrderBy("created_at DESC, id DESC")

	if f.ProductID != nil {
		q = q.Where(squirrel.Eq{"product_id": *f.ProductID})
	}
	if f.DepotID != nil {
		q = q.Where(squirrel.Eq{"depot_id": *f.DepotID})
	}
	if f.From != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *f.From})
	}
	if f.To != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *f.To})
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*acquisition.Acquisition
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list acquisitions: %w", err)
	}

	return items, nil
}

// UnitPricesByProduct returns unit prices for the estimator, oldest first.
func (r *AcquisitionRepo) UnitPricesByProduct(ctx context.Context, productID id.ID, cutoff *time.Time) ([]types.Money, error) {
	q := r.builder().
		Select("unit_price").
		From(acquisitionTable).
		Where(squirrel.Eq{"product_id": productID}).
		OrderBy("created_at ASC")

	if cutoff != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *cutoff})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var prices []types.Money
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &prices, sql, args...); err != nil {
		return nil, fmt.Errorf("unit prices: %w", err)
	}

	return prices, nil
}

// PurchaseTotalsByProduct returns Σ total and Σ quantity for the same
// record set.
func (r *AcquisitionRepo) PurchaseTotalsByProduct(ctx context.Context, productID id.ID, cutoff *time.Time) (types.Money, types.Quantity, error) {
	q := r.builder().
		Select("COALESCE(SUM(total), 0)", "COALESCE(SUM(quantity), 0)").
		From(acquisitionTable).
		Where(squirrel.Eq{"product_id": productID})

	if cutoff != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *cutoff})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return types.Zero(), 0, fmt.Errorf("build query: %w", err)
	}

	var (
		total    types.Money
		quantity types.Quantity
	)
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&total, &quantity); err != nil {
		return types.Zero(), 0, fmt.Errorf("purchase totals: %w", err)
	}

	return total, quantity, nil
}

var _ acquisition.Repository = (*AcquisitionRepo)(nil)
