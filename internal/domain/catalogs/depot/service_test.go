package depot

import (
	"context"
	"strings"
	"testing"

	"petrolog/internal/core/apperror"
	"petrolog/internal/core/id"
	"petrolog/internal/core/numerator"
	"petrolog/internal/domain"
)

type stubTxManager struct{}

func (m *stubTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubRepo struct {
	depots  map[id.ID]*Depot
	deleted []id.ID
}

func newStubRepo(depots ...*Depot) *stubRepo {
	r := &stubRepo{depots: make(map[id.ID]*Depot)}
	for _, d := range depots {
		r.depots[d.ID] = d
	}
	return r
}

func (r *stubRepo) Create(ctx context.Context, d *Depot) error {
	r.depots[d.ID] = d
	return nil
}

func (r *stubRepo) GetByID(ctx context.Context, depotID id.ID) (*Depot, error) {
	d, ok := r.depots[depotID]
	if !ok {
		return nil, apperror.NewNotFound("depot", depotID.String())
	}
	return d, nil
}

func (r *stubRepo) GetByCode(ctx context.Context, code string) (*Depot, error) {
	for _, d := range r.depots {
		if d.Code == code {
			return d, nil
		}
	}
	return nil, apperror.NewNotFound("depot", code)
}

func (r *stubRepo) Update(ctx context.Context, d *Depot) error {
	if _, ok := r.depots[d.ID]; !ok {
		return apperror.NewNotFound("depot", d.ID.String())
	}
	r.depots[d.ID] = d
	return nil
}

func (r *stubRepo) Delete(ctx context.Context, depotID id.ID) error {
	delete(r.depots, depotID)
	r.deleted = append(r.deleted, depotID)
	return nil
}

func (r *stubRepo) SetDeletionMark(ctx context.Context, depotID id.ID, marked bool) error {
	d, err := r.GetByID(ctx, depotID)
	if err != nil {
		return err
	}
	d.DeletionMark = marked
	return nil
}

func (r *stubRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Depot], error) {
	return domain.ListResult[*Depot]{}, nil
}

func (r *stubRepo) Exists(ctx context.Context, depotID id.ID) (bool, error) {
	_, ok := r.depots[depotID]
	return ok, nil
}

func (r *stubRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	for _, d := range r.depots {
		if d.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubRepo) GetForUpdate(ctx context.Context, depotID id.ID) (*Depot, error) {
	return r.GetByID(ctx, depotID)
}

func (r *stubRepo) FindActive(ctx context.Context) ([]*Depot, error) {
	var out []*Depot
	for _, d := range r.depots {
		if d.Status == StatusActive {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *stubRepo) SaveCapacity(ctx context.Context, d *Depot) error {
	return r.Update(ctx, d)
}

type stubStockCounter struct {
	counts map[id.ID]int64
}

func (c *stubStockCounter) CountByDepot(ctx context.Context, depotID id.ID) (int64, error) {
	return c.counts[depotID], nil
}

func newTestService(repo *stubRepo, counts map[id.ID]int64) *Service {
	return NewService(repo, &stubStockCounter{counts: counts}, &numerator.MockGenerator{}, &stubTxManager{})
}

func TestCreate_GeneratesCode(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, nil)

	d := NewDepot("", "North terminal", litres(50000))
	if err := svc.Create(context.Background(), d); err != nil {
		t.Fatalf("create: %v", err)
	}

	if !strings.HasPrefix(d.Code, "MOCK") {
		t.Errorf("code = %q, want numerator-generated", d.Code)
	}
	if _, ok := repo.depots[d.ID]; !ok {
		t.Error("depot not persisted")
	}
}

func TestCreate_KeepsExplicitCode(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, nil)

	d := NewDepot("DEP-NORTH", "North terminal", litres(50000))
	if err := svc.Create(context.Background(), d); err != nil {
		t.Fatalf("create: %v", err)
	}
	if d.Code != "DEP-NORTH" {
		t.Errorf("code = %q, explicit code overwritten", d.Code)
	}
}

func TestDelete_DeactivatesWhenStockExists(t *testing.T) {
	d := NewDepot("DEP-001", "Main depot", litres(50000))
	repo := newStubRepo(d)
	svc := newTestService(repo, map[id.ID]int64{d.ID: 3})

	if err := svc.Delete(context.Background(), d.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	stored, ok := repo.depots[d.ID]
	if !ok {
		t.Fatal("depot with stock was removed")
	}
	if stored.Status != StatusInactive {
		t.Errorf("status = %s, want inactive", stored.Status)
	}
	if len(repo.deleted) != 0 {
		t.Error("hard delete issued for a depot that owns stock")
	}
}

func TestDelete_RemovesWhenEmpty(t *testing.T) {
	d := NewDepot("DEP-001", "Main depot", litres(50000))
	repo := newStubRepo(d)
	svc := newTestService(repo, nil)

	if err := svc.Delete(context.Background(), d.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != d.ID {
		t.Error("empty depot not hard-deleted")
	}
}

func TestDelete_NotFound(t *testing.T) {
	svc := newTestService(newStubRepo(), nil)

	err := svc.Delete(context.Background(), id.New())
	if !apperror.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestSetMaintenance(t *testing.T) {
	d := NewDepot("DEP-001", "Main depot", litres(1000))
	d.UsedCapacity = litres(1000) // brim full
	repo := newStubRepo(d)
	svc := newTestService(repo, nil)
	ctx := context.Background()

	if err := svc.SetMaintenance(ctx, d.ID, true); err != nil {
		t.Fatalf("enter maintenance: %v", err)
	}
	if repo.depots[d.ID].Status != StatusUnderMaintenance {
		t.Fatalf("status = %s, want under_maintenance", repo.depots[d.ID].Status)
	}

	// Leaving maintenance re-derives from usage: still brim full.
	if err := svc.SetMaintenance(ctx, d.ID, false); err != nil {
		t.Fatalf("leave maintenance: %v", err)
	}
	if repo.depots[d.ID].Status != StatusFull {
		t.Errorf("status = %s, want full re-derived from usage", repo.depots[d.ID].Status)
	}
}
