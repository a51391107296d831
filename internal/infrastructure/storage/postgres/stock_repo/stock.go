// Package stock_repo provides PostgreSQL persistence for the stock
// ledger: stock records, the movement log, and acquisition documents.
package stock_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"petrolog/internal/core/apperror"
	"petrolog/internal/core/id"
	"petrolog/internal/core/types"
	"petrolog/internal/domain/stock"
	"petrolog/internal/infrastructure/storage/postgres"
)

const stockTable = "reg_stock"

var stockCols = postgres.ExtractDBColumns[stock.StockRecord]()

// StockRepo implements stock.Repository.
type StockRepo struct {
	txManager *postgres.TxManager
}

// NewStockRepo creates a new stock repository.
func NewStockRepo(txManager *postgres.TxManager) *StockRepo {
	return &StockRepo{txManager: txManager}
}

func (r *StockRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *StockRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().Select(stockCols...).From(stockTable)
}

// Create inserts a new stock record.
func (r *StockRepo) Create(ctx context.Context, rec *stock.StockRecord) error {
	data := postgres.StructToMap(rec)

	q := r.builder().
		Insert(stockTable).
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert stock record: %w", err)
	}

	return nil
}

// GetByID retrieves a record by primary key.
func (r *StockRepo) GetByID(ctx context.Context, recordID id.ID) (*stock.StockRecord, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": recordID}).
		Limit(1)

	return r.getOne(ctx, q, recordID.String())
}

// GetByPair retrieves the record for a (depot, product) pair.
func (r *StockRepo) GetByPair(ctx context.Context, depotID, productID id.ID) (*stock.StockRecord, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"depot_id": depotID}).
		Where(squirrel.Eq{"product_id": productID}).
		Limit(1)

	return r.getOne(ctx, q, fmt.Sprintf("depot=%s product=%s", depotID, productID))
}

// GetReservoir retrieves the product-wide citerne record.
func (r *StockRepo) GetReservoir(ctx context.Context, productID id.ID) (*stock.StockRecord, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"product_id": productID}).
		Where("depot_id IS NULL").
		Limit(1)

	return r.getOne(ctx, q, fmt.Sprintf("reservoir product=%s", productID))
}

func (r *StockRepo) getOne(ctx context.Context, q squirrel.SelectBuilder, key string) (*stock.StockRecord, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rec stock.StockRecord
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &rec, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(stockTable, key)
		}
		return nil, fmt.Errorf("get stock record: %w", err)
	}

	return &rec, nil
}

// Update persists a mutated record with optimistic locking. The caller
// has already bumped Version via Touch; the previous version is expected
// in the row.
func (r *StockRepo) Update(ctx context.Context, rec *stock.StockRecord) error {
	q := r.builder().
		Update(stockTable).
		Set("depot_id", rec.DepotID).
		Set("quantity", rec.Quantity).
		Set("quantity_in_transfer", rec.QuantityInTransfer).
		Set("threshold", rec.Threshold).
		Set("unit_cost", rec.UnitCost).
		Set("unit", rec.Unit).
		Set("version", rec.Version).
		Set("updated_at", rec.UpdatedAt).
		Where(squirrel.Eq{"id": rec.ID}).
		Where(squirrel.Eq{"version": rec.Version - 1})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update stock record: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(stockTable, rec.ID)
	}

	return nil
}

// Delete removes a record.
func (r *StockRepo) Delete(ctx context.Context, recordID id.ID) error {
	q := r.builder().
		Delete(stockTable).
		Where(squirrel.Eq{"id": recordID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete stock record: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(stockTable, recordID.String())
	}

	return nil
}

// ListByDepot returns all records owned by a depot.
func (r *StockRepo) ListByDepot(ctx context.Context, depotID id.ID) ([]*stock.StockRecord, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"depot_id": depotID}).
		OrderBy("updated_at DESC")

	return r.selectMany(ctx, q)
}

// ListByProduct returns records for a product across depots, reservoir
// included.
func (r *StockRepo) ListByProduct(ctx context.Context, productID id.ID) ([]*stock.StockRecord, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"product_id": productID}).
		OrderBy("depot_id NULLS FIRST, updated_at DESC")

	return r.selectMany(ctx, q)
}

func (r *StockRepo) selectMany(ctx context.Context, q squirrel.SelectBuilder) ([]*stock.StockRecord, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var records []*stock.StockRecord
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &records, sql, args...); err != nil {
		return nil, fmt.Errorf("list stock records: %w", err)
	}

	return records, nil
}

// CountByDepot reports how many records a depot owns.
func (r *StockRepo) CountByDepot(ctx context.Context, depotID id.ID) (int64, error) {
	q := r.builder().
		Select("COUNT(*)").
		From(stockTable).
		Where(squirrel.Eq{"depot_id": depotID})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var count int64
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count by depot: %w", err)
	}

	return count, nil
}

// SumOccupiedByDepot recomputes occupied volume from the records.
func (r *StockRepo) SumOccupiedByDepot(ctx context.Context, depotID id.ID) (types.Quantity, error) {
	q := r.builder().
		Select("COALESCE(SUM(quantity + quantity_in_transfer), 0)").
		From(stockTable).
		Where(squirrel.Eq{"depot_id": depotID})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var occupied types.Quantity
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&occupied); err != nil {
		return 0, fmt.Errorf("sum occupied by depot: %w", err)
	}

	return occupied, nil
}

var _ stock.Repository = (*StockRepo)(nil)
