package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"petrolog/internal/domain/catalogs/depot"
	"petrolog/internal/infrastructure/storage/postgres"
)

const depotTable = "cat_depots"

// DepotRepo implements depot.Repository.
type DepotRepo struct {
	*BaseCatalogRepo[*depot.Depot]
}

// NewDepotRepo creates a new depot repository.
func NewDepotRepo(txManager *postgres.TxManager) *DepotRepo {
	return &DepotRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*depot.Depot](
			txManager,
			depotTable,
			postgres.ExtractDBColumns[depot.Depot](),
			func() *depot.Depot { return &depot.Depot{} },
		),
	}
}

// FindActive returns all depots with status=active, ordered by name.
func (r *DepotRepo) FindActive(ctx context.Context) ([]*depot.Depot, error) {
	q := r.Builder().
		Select(r.SelectCols()...).
		From(depotTable).
		Where(squirrel.Eq{"status": depot.StatusActive}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("name ASC")

	return r.FindMany(ctx, q)
}

// SaveCapacity persists the cached used-capacity counter and derived
// status without touching the catalog attributes or the version.
func (r *DepotRepo) SaveCapacity(ctx context.Context, d *depot.Depot) error {
	q := r.Builder().
		Update(depotTable).
		Set("used_capacity", d.UsedCapacity).
		Set("status", d.Status).
		Where(squirrel.Eq{"id": d.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("save capacity: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("save capacity: depot %s not found", d.ID)
	}

	return nil
}

var _ depot.Repository = (*DepotRepo)(nil)
