package product

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
	products map[id.ID]*Product
}

func newStubRepo() *stubRepo {
	return &stubRepo{products: make(map[id.ID]*Product)}
}

func (r *stubRepo) Create(ctx context.Context, p *Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubRepo) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	p, ok := r.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	return p, nil
}

func (r *stubRepo) GetByCode(ctx context.Context, code string) (*Product, error) {
	for _, p := range r.products {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, apperror.NewNotFound("product", code)
}

func (r *stubRepo) Update(ctx context.Context, p *Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubRepo) Delete(ctx context.Context, productID id.ID) error {
	delete(r.products, productID)
	return nil
}

func (r *stubRepo) SetDeletionMark(ctx context.Context, productID id.ID, marked bool) error {
	p, err := r.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	p.DeletionMark = marked
	return nil
}

func (r *stubRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Product], error) {
	return domain.ListResult[*Product]{}, nil
}

func (r *stubRepo) Exists(ctx context.Context, productID id.ID) (bool, error) {
	_, ok := r.products[productID]
	return ok, nil
}

func (r *stubRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	for _, p := range r.products {
		if p.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubRepo) ExistsByName(ctx context.Context, name string, excludeID id.ID) (bool, error) {
	for _, p := range r.products {
		if p.Name == name && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type stubProvisioner struct {
	provisioned []struct {
		productID id.ID
		unit      string
	}
}

func (s *stubProvisioner) ProvisionReservoir(ctx context.Context, productID id.ID, unit string) error {
	s.provisioned = append(s.provisioned, struct {
		productID id.ID
		unit      string
	}{productID, unit})
	return nil
}

func newTestService() (*Service, *stubRepo, *stubProvisioner) {
	repo := newStubRepo()
	prov := &stubProvisioner{}
	svc := NewService(repo, prov, &numerator.MockGenerator{}, &stubTxManager{})
	return svc, repo, prov
}

func TestCreate_ProvisionsReservoir(t *testing.T) {
	svc, repo, prov := newTestService()

	p := NewProduct("", "Gasoil 50ppm", CategoryDiesel)
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("create: %v", err)
	}

	if !strings.HasPrefix(p.Code, "MOCK") {
		t.Errorf("code = %q, want numerator-generated", p.Code)
	}
	if _, ok := repo.products[p.ID]; !ok {
		t.Fatal("product not persisted")
	}

	if len(prov.provisioned) != 1 {
		t.Fatalf("reservoirs provisioned = %d, want 1", len(prov.provisioned))
	}
	if prov.provisioned[0].productID != p.ID || prov.provisioned[0].unit != "L" {
		t.Errorf("provisioned %+v, want product %s unit L", prov.provisioned[0], p.ID)
	}
}

func TestCreate_DuplicateName(t *testing.T) {
	svc, _, prov := newTestService()
	ctx := context.Background()

	first := NewProduct("PRD-001", "Gasoil 50ppm", CategoryDiesel)
	if err := svc.Create(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}

	dup := NewProduct("PRD-002", "Gasoil 50ppm", CategoryDiesel)
	err := svc.Create(ctx, dup)
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeDuplicate {
		t.Fatalf("expected DUPLICATE_ENTRY, got %v", err)
	}
	if len(prov.provisioned) != 1 {
		t.Error("reservoir provisioned for rejected duplicate")
	}
}

func TestCreate_InvalidCategory(t *testing.T) {
	svc, _, _ := newTestService()

	p := NewProduct("PRD-001", "Mystery fluid", Category("antimatter"))
	err := svc.Create(context.Background(), p)
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdate_RenameToTakenName(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	a := NewProduct("PRD-001", "Gasoil 50ppm", CategoryDiesel)
	b := NewProduct("PRD-002", "Super 95", CategoryGasoline)
	for _, p := range []*Product{a, b} {
		if err := svc.Create(ctx, p); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	b.Name = "Gasoil 50ppm"
	err := svc.Update(ctx, b)
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeDuplicate {
		t.Fatalf("expected DUPLICATE_ENTRY, got %v", err)
	}

	// Keeping its own name is not a collision
	a.Description = strPtr("low sulphur diesel")
	if err := svc.Update(ctx, a); err != nil {
		t.Errorf("self-rename rejected: %v", err)
	}
}

func strPtr(s string) *string {
	return &s
}
