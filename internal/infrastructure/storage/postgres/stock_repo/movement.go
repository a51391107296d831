package stock_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"petrolog/internal/core/id"
	"petrolog/internal/domain/movement"
	"petrolog/internal/infrastructure/storage/postgres"
)

const movementTable = "doc_movements"

var movementCols = postgres.ExtractDBColumns[movement.Movement]()

// MovementRepo implements movement.Repository. The table is append-only;
// no update or delete statements exist here.
type MovementRepo struct {
	txManager *postgres.TxManager
	batch     *postgres.BatchInserter
}

// NewMovementRepo creates a new movement repository.
func NewMovementRepo(txManager *postgres.TxManager) *MovementRepo {
	return &MovementRepo{
		txManager: txManager,
		batch:     postgres.NewBatchInserter(txManager),
	}
}

func (r *MovementRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Append inserts movements. Large batches go through the COPY protocol;
// the common single-movement case uses a plain insert.
func (r *MovementRepo) Append(ctx context.Context, movements ...movement.Movement) error {
	if len(movements) == 0 {
		return nil
	}

	if len(movements) >= 10 && r.txManager.GetTx(ctx) != nil {
		return r.appendCopy(ctx, movements)
	}

	q := r.builder().
		Insert(movementTable).
		Columns(movementCols...)

	for _, m := range movements {
		q = q.Values(m.ID, m.StockID, m.Direction, m.Quantity, m.Unit, m.Description, m.CreatedAt)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movements: %w", err)
	}

	return nil
}

func (r *MovementRepo) appendCopy(ctx context.Context, movements []movement.Movement) error {
	rows := make([][]any, 0, len(movements))
	for _, m := range movements {
		rows = append(rows, []any{m.ID, m.StockID, m.Direction, m.Quantity, m.Unit, m.Description, m.CreatedAt})
	}

	if _, err := r.batch.CopyFromSlice(ctx, movementTable, movementCols, rows); err != nil {
		return fmt.Errorf("copy movements: %w", err)
	}

	return nil
}

// ListByStock returns movements for one stock record, newest first.
func (r *MovementRepo) ListByStock(ctx context.Context, stockID id.ID, limit, offset int) ([]movement.Movement, error) {
	q := r.builder().
		Select(movementCols...).
		From(movementTable).
		Where(squirrel.Eq{"stock_id": stockID}).
		OrderBy("created_at DESC, id DESC")

	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	if offset > 0 {
		q = q.Offset(uint64(offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []movement.Movement
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}

	return movements, nil
}

// NetQuantityByStock returns Σ entries − Σ exits in raw quantity units.
func (r *MovementRepo) NetQuantityByStock(ctx context.Context, stockID id.ID) (int64, error) {
	q := r.builder().
		Select("COALESCE(SUM(CASE WHEN direction = 'entry' THEN quantity ELSE -quantity END), 0)").
		From(movementTable).
		Where(squirrel.Eq{"stock_id": stockID})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var net int64
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&net); err != nil {
		return 0, fmt.Errorf("net quantity: %w", err)
	}

	return net, nil
}

var _ movement.Repository = (*MovementRepo)(nil)
