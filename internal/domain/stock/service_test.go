package stock

import (
	"context"
	"testing"
	"time"

	"petrolog/internal/core/apperror"
	"petrolog/internal/core/id"
	"petrolog/internal/core/numerator"
	"petrolog/internal/core/types"
	"petrolog/internal/domain"
	"petrolog/internal/domain/acquisition"
	"petrolog/internal/domain/alerting"
	"petrolog/internal/domain/catalogs/depot"
	"petrolog/internal/domain/catalogs/product"
	"petrolog/internal/domain/movement"
)

// --- Fakes ---

type fakeTxManager struct{}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeStockRepo struct {
	records map[id.ID]*StockRecord
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{records: make(map[id.ID]*StockRecord)}
}

func (r *fakeStockRepo) Create(ctx context.Context, rec *StockRecord) error {
	c := *rec
	r.records[rec.ID] = &c
	return nil
}

func (r *fakeStockRepo) GetByID(ctx context.Context, recID id.ID) (*StockRecord, error) {
	rec, ok := r.records[recID]
	if !ok {
		return nil, apperror.NewNotFound("stock record", recID.String())
	}
	c := *rec
	return &c, nil
}

func (r *fakeStockRepo) GetByPair(ctx context.Context, depotID, productID id.ID) (*StockRecord, error) {
	for _, rec := range r.records {
		if rec.DepotID != nil && *rec.DepotID == depotID && rec.ProductID == productID {
			c := *rec
			return &c, nil
		}
	}
	return nil, apperror.NewNotFound("stock record", productID.String())
}

func (r *fakeStockRepo) GetReservoir(ctx context.Context, productID id.ID) (*StockRecord, error) {
	for _, rec := range r.records {
		if rec.DepotID == nil && rec.ProductID == productID {
			c := *rec
			return &c, nil
		}
	}
	return nil, apperror.NewNotFound("stock record", productID.String())
}

func (r *fakeStockRepo) Update(ctx context.Context, rec *StockRecord) error {
	if _, ok := r.records[rec.ID]; !ok {
		return apperror.NewNotFound("stock record", rec.ID.String())
	}
	c := *rec
	r.records[rec.ID] = &c
	return nil
}

func (r *fakeStockRepo) Delete(ctx context.Context, recID id.ID) error {
	delete(r.records, recID)
	return nil
}

func (r *fakeStockRepo) ListByDepot(ctx context.Context, depotID id.ID) ([]*StockRecord, error) {
	var out []*StockRecord
	for _, rec := range r.records {
		if rec.DepotID != nil && *rec.DepotID == depotID {
			c := *rec
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeStockRepo) ListByProduct(ctx context.Context, productID id.ID) ([]*StockRecord, error) {
	var out []*StockRecord
	for _, rec := range r.records {
		if rec.ProductID == productID {
			c := *rec
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeStockRepo) CountByDepot(ctx context.Context, depotID id.ID) (int64, error) {
	var n int64
	for _, rec := range r.records {
		if rec.DepotID != nil && *rec.DepotID == depotID {
			n++
		}
	}
	return n, nil
}

func (r *fakeStockRepo) SumOccupiedByDepot(ctx context.Context, depotID id.ID) (types.Quantity, error) {
	var sum types.Quantity
	for _, rec := range r.records {
		if rec.DepotID != nil && *rec.DepotID == depotID {
			sum += rec.Occupied()
		}
	}
	return sum, nil
}

type fakeDepotRepo struct {
	depots map[id.ID]*depot.Depot
}

func newFakeDepotRepo(depots ...*depot.Depot) *fakeDepotRepo {
	r := &fakeDepotRepo{depots: make(map[id.ID]*depot.Depot)}
	for _, d := range depots {
		r.depots[d.ID] = d
	}
	return r
}

func (r *fakeDepotRepo) get(depotID id.ID) (*depot.Depot, error) {
	d, ok := r.depots[depotID]
	if !ok {
		return nil, apperror.NewNotFound("depot", depotID.String())
	}
	c := *d
	return &c, nil
}

func (r *fakeDepotRepo) Create(ctx context.Context, d *depot.Depot) error {
	c := *d
	r.depots[d.ID] = &c
	return nil
}

func (r *fakeDepotRepo) GetByID(ctx context.Context, depotID id.ID) (*depot.Depot, error) {
	return r.get(depotID)
}

func (r *fakeDepotRepo) GetByCode(ctx context.Context, code string) (*depot.Depot, error) {
	for _, d := range r.depots {
		if d.Code == code {
			c := *d
			return &c, nil
		}
	}
	return nil, apperror.NewNotFound("depot", code)
}

func (r *fakeDepotRepo) Update(ctx context.Context, d *depot.Depot) error {
	c := *d
	r.depots[d.ID] = &c
	return nil
}

func (r *fakeDepotRepo) Delete(ctx context.Context, depotID id.ID) error {
	delete(r.depots, depotID)
	return nil
}

func (r *fakeDepotRepo) SetDeletionMark(ctx context.Context, depotID id.ID, marked bool) error {
	d, ok := r.depots[depotID]
	if !ok {
		return apperror.NewNotFound("depot", depotID.String())
	}
	d.DeletionMark = marked
	return nil
}

func (r *fakeDepotRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*depot.Depot], error) {
	return domain.ListResult[*depot.Depot]{}, nil
}

func (r *fakeDepotRepo) Exists(ctx context.Context, depotID id.ID) (bool, error) {
	_, ok := r.depots[depotID]
	return ok, nil
}

func (r *fakeDepotRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	for _, d := range r.depots {
		if d.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeDepotRepo) GetForUpdate(ctx context.Context, depotID id.ID) (*depot.Depot, error) {
	return r.get(depotID)
}

func (r *fakeDepotRepo) FindActive(ctx context.Context) ([]*depot.Depot, error) {
	var out []*depot.Depot
	for _, d := range r.depots {
		if d.Status == depot.StatusActive {
			c := *d
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeDepotRepo) SaveCapacity(ctx context.Context, d *depot.Depot) error {
	stored, ok := r.depots[d.ID]
	if !ok {
		return apperror.NewNotFound("depot", d.ID.String())
	}
	stored.UsedCapacity = d.UsedCapacity
	stored.Status = d.Status
	return nil
}

type fakeProductRepo struct {
	ids map[id.ID]bool
}

func newFakeProductRepo(ids ...id.ID) *fakeProductRepo {
	r := &fakeProductRepo{ids: make(map[id.ID]bool)}
	for _, pid := range ids {
		r.ids[pid] = true
	}
	return r
}

func (r *fakeProductRepo) Create(ctx context.Context, p *product.Product) error { return nil }
func (r *fakeProductRepo) GetByID(ctx context.Context, pid id.ID) (*product.Product, error) {
	return nil, apperror.NewNotFound("product", pid.String())
}
func (r *fakeProductRepo) GetByCode(ctx context.Context, code string) (*product.Product, error) {
	return nil, apperror.NewNotFound("product", code)
}
func (r *fakeProductRepo) Update(ctx context.Context, p *product.Product) error { return nil }
func (r *fakeProductRepo) Delete(ctx context.Context, pid id.ID) error          { return nil }
func (r *fakeProductRepo) SetDeletionMark(ctx context.Context, pid id.ID, marked bool) error {
	return nil
}
func (r *fakeProductRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*product.Product], error) {
	return domain.ListResult[*product.Product]{}, nil
}
func (r *fakeProductRepo) Exists(ctx context.Context, pid id.ID) (bool, error) {
	return r.ids[pid], nil
}
func (r *fakeProductRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return false, nil
}
func (r *fakeProductRepo) ExistsByName(ctx context.Context, name string, excludeID id.ID) (bool, error) {
	return false, nil
}

type fakeMovementRepo struct {
	movements []movement.Movement
}

func (r *fakeMovementRepo) Append(ctx context.Context, movements ...movement.Movement) error {
	r.movements = append(r.movements, movements...)
	return nil
}

func (r *fakeMovementRepo) ListByStock(ctx context.Context, stockID id.ID, limit, offset int) ([]movement.Movement, error) {
	var out []movement.Movement
	for _, m := range r.movements {
		if m.StockID == stockID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) NetQuantityByStock(ctx context.Context, stockID id.ID) (int64, error) {
	var net int64
	for _, m := range r.movements {
		if m.StockID == stockID {
			net += int64(m.SignedQuantity())
		}
	}
	return net, nil
}

func (r *fakeMovementRepo) byStock(stockID id.ID) []movement.Movement {
	var out []movement.Movement
	for _, m := range r.movements {
		if m.StockID == stockID {
			out = append(out, m)
		}
	}
	return out
}

type fakeAcquisitionRepo struct {
	records []*acquisition.Acquisition
}

func (r *fakeAcquisitionRepo) Create(ctx context.Context, a *acquisition.Acquisition) error {
	r.records = append(r.records, a)
	return nil
}

func (r *fakeAcquisitionRepo) GetByID(ctx context.Context, acqID id.ID) (*acquisition.Acquisition, error) {
	for _, a := range r.records {
		if a.ID == acqID {
			return a, nil
		}
	}
	return nil, apperror.NewNotFound("acquisition", acqID.String())
}

func (r *fakeAcquisitionRepo) List(ctx context.Context, filter acquisition.ListFilter) ([]*acquisition.Acquisition, error) {
	return r.records, nil
}

func (r *fakeAcquisitionRepo) UnitPricesByProduct(ctx context.Context, productID id.ID, cutoff *time.Time) ([]types.Money, error) {
	return nil, nil
}

func (r *fakeAcquisitionRepo) PurchaseTotalsByProduct(ctx context.Context, productID id.ID, cutoff *time.Time) (types.Money, types.Quantity, error) {
	return types.Zero(), 0, nil
}

type fakeSink struct {
	alerts []alerting.LowStockAlert
}

func (s *fakeSink) RaiseLowStock(ctx context.Context, alert alerting.LowStockAlert) error {
	s.alerts = append(s.alerts, alert)
	return nil
}

// --- Test harness ---

type ledgerFixture struct {
	service   *Service
	stocks    *fakeStockRepo
	depots    *fakeDepotRepo
	movements *fakeMovementRepo
	acqs      *fakeAcquisitionRepo
	sink      *fakeSink

	depot   *depot.Depot
	product id.ID
}

func litres(v int64) types.Quantity {
	return types.NewQuantityFromInt(v)
}

func newLedgerFixture(t *testing.T, capacity, used int64) *ledgerFixture {
	t.Helper()

	d := depot.NewDepot("DEP-001", "Main depot", litres(capacity))
	d.UsedCapacity = litres(used)
	d.Status = depot.DeriveStatus(d.Status, d.Capacity, d.UsedCapacity)

	productID := id.New()

	stocks := newFakeStockRepo()
	depots := newFakeDepotRepo(d)
	movements := &fakeMovementRepo{}
	acqs := &fakeAcquisitionRepo{}
	sink := &fakeSink{}

	svc := NewService(
		stocks,
		depots,
		newFakeProductRepo(productID),
		movement.NewService(movements),
		acquisition.NewService(acqs, &numerator.MockGenerator{}),
		sink,
		&fakeTxManager{},
	)

	return &ledgerFixture{
		service:   svc,
		stocks:    stocks,
		depots:    depots,
		movements: movements,
		acqs:      acqs,
		sink:      sink,
		depot:     d,
		product:   productID,
	}
}

func (f *ledgerFixture) mustAdd(t *testing.T, quantity types.Quantity) *StockRecord {
	t.Helper()
	rec, err := f.service.AddOrIncrement(context.Background(), AddStockInput{
		DepotID:   f.depot.ID,
		ProductID: f.product,
		Quantity:  quantity,
		Unit:      "L",
	})
	if err != nil {
		t.Fatalf("add stock: %v", err)
	}
	return rec
}

func (f *ledgerFixture) storedDepot(t *testing.T) *depot.Depot {
	t.Helper()
	d, err := f.depots.GetByID(context.Background(), f.depot.ID)
	if err != nil {
		t.Fatalf("get depot: %v", err)
	}
	return d
}

// --- Tests ---

func TestAddOrIncrement_CapacityRejected(t *testing.T) {
	f := newLedgerFixture(t, 1000, 600)
	ctx := context.Background()

	_, err := f.service.AddOrIncrement(ctx, AddStockInput{
		DepotID:   f.depot.ID,
		ProductID: f.product,
		Quantity:  litres(500),
		Unit:      "L",
	})

	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeCapacityExceeded {
		t.Fatalf("expected CAPACITY_EXCEEDED, got %v", err)
	}
	if got := appErr.Details["available"]; got != 400.0 {
		t.Errorf("available detail = %v, want 400", got)
	}

	// Nothing partially applied
	if d := f.storedDepot(t); d.UsedCapacity != litres(600) {
		t.Errorf("used capacity changed to %s on rejected add", d.UsedCapacity)
	}
	if len(f.stocks.records) != 0 {
		t.Error("stock record created on rejected add")
	}
	if len(f.movements.movements) != 0 {
		t.Error("movement logged on rejected add")
	}
	if len(f.acqs.records) != 0 {
		t.Error("acquisition recorded on rejected add")
	}
}

func TestAddOrIncrement_CreatesRecordWithSideEffects(t *testing.T) {
	f := newLedgerFixture(t, 1000, 0)
	ctx := context.Background()

	cost := types.MustMoney("650.50")
	rec, err := f.service.AddOrIncrement(ctx, AddStockInput{
		DepotID:   f.depot.ID,
		ProductID: f.product,
		Quantity:  litres(300),
		UnitCost:  &cost,
		Unit:      "L",
	})
	if err != nil {
		t.Fatalf("add stock: %v", err)
	}

	if rec.Quantity != litres(300) {
		t.Errorf("quantity = %s, want 300", rec.Quantity)
	}
	if rec.UnitCost == nil || !rec.UnitCost.Equal(cost) {
		t.Errorf("unit cost not applied: %v", rec.UnitCost)
	}
	if d := f.storedDepot(t); d.UsedCapacity != litres(300) {
		t.Errorf("depot used = %s, want 300", d.UsedCapacity)
	}

	// Exactly one entry movement
	moves := f.movements.byStock(rec.ID)
	if len(moves) != 1 {
		t.Fatalf("movements = %d, want 1", len(moves))
	}
	if moves[0].Direction != movement.DirectionEntry || moves[0].Quantity != litres(300) {
		t.Errorf("movement = %s %s, want entry 300", moves[0].Direction, moves[0].Quantity)
	}

	// Mirrored acquisition
	if len(f.acqs.records) != 1 {
		t.Fatalf("acquisitions = %d, want 1", len(f.acqs.records))
	}
	acq := f.acqs.records[0]
	if acq.Quantity != litres(300) || !acq.UnitPrice.Equal(cost) {
		t.Errorf("acquisition = %s @ %s, want 300 @ %s", acq.Quantity, acq.UnitPrice, cost)
	}
	if !acq.Total.Equal(cost.Mul(litres(300).Decimal())) {
		t.Errorf("acquisition total = %s", acq.Total)
	}
}

func TestAddOrIncrement_IncrementExisting(t *testing.T) {
	f := newLedgerFixture(t, 1000, 0)

	first := f.mustAdd(t, litres(200))
	second := f.mustAdd(t, litres(100))

	if first.ID != second.ID {
		t.Fatal("increment created a second record for the same pair")
	}
	if second.Quantity != litres(300) {
		t.Errorf("quantity = %s, want 300", second.Quantity)
	}
	if d := f.storedDepot(t); d.UsedCapacity != litres(300) {
		t.Errorf("depot used = %s, want 300", d.UsedCapacity)
	}
	if got := len(f.movements.byStock(first.ID)); got != 2 {
		t.Errorf("movements = %d, want 2", got)
	}
	if got := len(f.acqs.records); got != 2 {
		t.Errorf("acquisitions = %d, want 2", got)
	}
}

func TestAddOrIncrement_ExactFillFlipsFull(t *testing.T) {
	f := newLedgerFixture(t, 1000, 0)

	rec := f.mustAdd(t, litres(1000))

	if d := f.storedDepot(t); d.Status != depot.StatusFull {
		t.Fatalf("status = %s, want full after exact fill", d.Status)
	}

	// Draining reverts to active
	if _, err := f.service.Update(context.Background(), UpdateStockInput{
		StockID:     rec.ID,
		NewQuantity: litres(900),
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if d := f.storedDepot(t); d.Status != depot.StatusActive {
		t.Errorf("status = %s, want active after drain", d.Status)
	}
}

func TestAddOrIncrement_DepotCannotAccept(t *testing.T) {
	f := newLedgerFixture(t, 1000, 0)
	f.depot.Status = depot.StatusUnderMaintenance
	f.depots.depots[f.depot.ID] = f.depot

	_, err := f.service.AddOrIncrement(context.Background(), AddStockInput{
		DepotID:   f.depot.ID,
		ProductID: f.product,
		Quantity:  litres(10),
		Unit:      "L",
	})

	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeDepotInactive {
		t.Fatalf("expected DEPOT_INACTIVE, got %v", err)
	}
}

func TestAddOrIncrement_RejectsNonPositive(t *testing.T) {
	f := newLedgerFixture(t, 1000, 0)

	for _, q := range []types.Quantity{0, litres(-5)} {
		_, err := f.service.AddOrIncrement(context.Background(), AddStockInput{
			DepotID:   f.depot.ID,
			ProductID: f.product,
			Quantity:  q,
			Unit:      "L",
		})
		appErr, ok := apperror.AsAppError(err)
		if !ok || appErr.Code != apperror.CodeInvalidQuantity {
			t.Errorf("quantity %s: expected INVALID_QUANTITY, got %v", q, err)
		}
	}
}

func TestLowStockAlert_FiredOnceAtThreshold(t *testing.T) {
	f := newLedgerFixture(t, 1000, 0)
	threshold := litres(50)

	rec, err := f.service.AddOrIncrement(context.Background(), AddStockInput{
		DepotID:   f.depot.ID,
		ProductID: f.product,
		Quantity:  litres(100),
		Threshold: &threshold,
		Unit:      "L",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(f.sink.alerts) != 0 {
		t.Fatalf("alert fired above threshold")
	}

	// Drop exactly to threshold: alert fires
	if _, err := f.service.Update(context.Background(), UpdateStockInput{
		StockID:     rec.ID,
		NewQuantity: litres(50),
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(f.sink.alerts) != 1 {
		t.Fatalf("alerts = %d, want 1 at threshold", len(f.sink.alerts))
	}

	alert := f.sink.alerts[0]
	if alert.ProductID != f.product || alert.Quantity != litres(50) || alert.Threshold != threshold {
		t.Errorf("alert = %+v", alert)
	}
	if alert.DepotID == nil || *alert.DepotID != f.depot.ID {
		t.Error("alert missing depot id")
	}
}

func TestUpdate_MovementPerDelta(t *testing.T) {
	f := newLedgerFixture(t, 1000, 0)
	ctx := context.Background()

	rec := f.mustAdd(t, litres(200))

	// Increase: entry movement
	if _, err := f.service.Update(ctx, UpdateStockInput{StockID: rec.ID, NewQuantity: litres(250), Reason: "delivery top-up"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	// Decrease: exit movement
	if _, err := f.service.Update(ctx, UpdateStockInput{StockID: rec.ID, NewQuantity: litres(100)}); err != nil {
		t.Fatalf("update: %v", err)
	}
	// No delta: no movement
	if _, err := f.service.Update(ctx, UpdateStockInput{StockID: rec.ID, NewQuantity: litres(100)}); err != nil {
		t.Fatalf("update: %v", err)
	}

	moves := f.movements.byStock(rec.ID)
	if len(moves) != 3 {
		t.Fatalf("movements = %d, want 3 (add, increase, decrease)", len(moves))
	}
	if moves[1].Direction != movement.DirectionEntry || moves[1].Quantity != litres(50) {
		t.Errorf("increase movement = %s %s", moves[1].Direction, moves[1].Quantity)
	}
	if moves[1].Description != "delivery top-up" {
		t.Errorf("description = %q", moves[1].Description)
	}
	if moves[2].Direction != movement.DirectionExit || moves[2].Quantity != litres(150) {
		t.Errorf("decrease movement = %s %s", moves[2].Direction, moves[2].Quantity)
	}

	// Net of all movements explains the final quantity
	var net types.Quantity
	for _, m := range moves {
		net += m.SignedQuantity()
	}
	if net != litres(100) {
		t.Errorf("movement net = %s, want 100", net)
	}

	if d := f.storedDepot(t); d.UsedCapacity != litres(100) {
		t.Errorf("depot used = %s, want 100", d.UsedCapacity)
	}
}

func TestUpdate_RelocationValidatesFullVolume(t *testing.T) {
	f := newLedgerFixture(t, 1000, 0)
	ctx := context.Background()

	rec := f.mustAdd(t, litres(300))

	small := depot.NewDepot("DEP-002", "Small depot", litres(200))
	f.depots.depots[small.ID] = small

	// 300 L does not fit a 200 L depot even though the delta is zero
	_, err := f.service.Update(ctx, UpdateStockInput{
		StockID:     rec.ID,
		NewDepotID:  &small.ID,
		NewQuantity: litres(300),
	})
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeCapacityExceeded {
		t.Fatalf("expected CAPACITY_EXCEEDED, got %v", err)
	}

	// Old depot keeps its counter after the rejected relocation
	if d := f.storedDepot(t); d.UsedCapacity != litres(300) {
		t.Errorf("old depot used = %s after rejected move", d.UsedCapacity)
	}

	// A big enough target accepts and both counters move
	big := depot.NewDepot("DEP-003", "Big depot", litres(5000))
	f.depots.depots[big.ID] = big

	moved, err := f.service.Update(ctx, UpdateStockInput{
		StockID:     rec.ID,
		NewDepotID:  &big.ID,
		NewQuantity: litres(300),
	})
	if err != nil {
		t.Fatalf("relocate: %v", err)
	}
	if moved.DepotID == nil || *moved.DepotID != big.ID {
		t.Fatal("record not reassigned to target depot")
	}
	if d := f.storedDepot(t); d.UsedCapacity != 0 {
		t.Errorf("old depot used = %s, want 0", d.UsedCapacity)
	}
	if f.depots.depots[big.ID].UsedCapacity != litres(300) {
		t.Errorf("new depot used = %s, want 300", f.depots.depots[big.ID].UsedCapacity)
	}
}

func TestRemove_TerminalExitAndCapacityRelease(t *testing.T) {
	f := newLedgerFixture(t, 1000, 0)
	ctx := context.Background()

	rec := f.mustAdd(t, litres(400))

	if err := f.service.Remove(ctx, rec.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if _, err := f.service.Get(ctx, rec.ID); !apperror.IsNotFound(err) {
		t.Error("record still readable after removal")
	}
	if d := f.storedDepot(t); d.UsedCapacity != 0 {
		t.Errorf("depot used = %s, want 0 after removal", d.UsedCapacity)
	}

	moves := f.movements.byStock(rec.ID)
	if len(moves) != 2 {
		t.Fatalf("movements = %d, want add + terminal exit", len(moves))
	}
	last := moves[len(moves)-1]
	if last.Direction != movement.DirectionExit || last.Quantity != litres(400) {
		t.Errorf("terminal movement = %s %s, want exit 400", last.Direction, last.Quantity)
	}

	// The log nets to zero: the full history is explained
	var net types.Quantity
	for _, m := range moves {
		net += m.SignedQuantity()
	}
	if net != 0 {
		t.Errorf("movement net = %s, want 0 after removal", net)
	}
}

func TestTransferCessionLifecycle(t *testing.T) {
	f := newLedgerFixture(t, 1000, 0)
	ctx := context.Background()

	rec := f.mustAdd(t, litres(500))

	// Reserve: on-hand drops, occupied constant
	reserved, err := f.service.ReserveTransfer(ctx, rec.ID, litres(200))
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if reserved.Quantity != litres(300) || reserved.QuantityInTransfer != litres(200) {
		t.Fatalf("after reserve: %s on hand, %s in transfer", reserved.Quantity, reserved.QuantityInTransfer)
	}
	if d := f.storedDepot(t); d.UsedCapacity != litres(500) {
		t.Errorf("depot used = %s, want 500 (occupied unchanged)", d.UsedCapacity)
	}

	// Over-reserve fails
	if _, err := f.service.ReserveTransfer(ctx, rec.ID, litres(400)); err == nil {
		t.Error("over-reserve accepted")
	} else if appErr, ok := apperror.AsAppError(err); !ok || appErr.Code != apperror.CodeInsufficientStock {
		t.Errorf("expected INSUFFICIENT_STOCK, got %v", err)
	}

	// Release half back
	released, err := f.service.ReleaseTransfer(ctx, rec.ID, litres(100))
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if released.Quantity != litres(400) || released.QuantityInTransfer != litres(100) {
		t.Fatalf("after release: %s on hand, %s in transfer", released.Quantity, released.QuantityInTransfer)
	}

	// Settle the remainder: volume leaves the depot
	settled, err := f.service.SettleTransfer(ctx, rec.ID, litres(100))
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if settled.QuantityInTransfer != 0 {
		t.Errorf("in transfer = %s, want 0 after settle", settled.QuantityInTransfer)
	}
	if d := f.storedDepot(t); d.UsedCapacity != litres(400) {
		t.Errorf("depot used = %s, want 400 after settle", d.UsedCapacity)
	}

	// Over-settle fails
	if _, err := f.service.SettleTransfer(ctx, rec.ID, litres(1)); err == nil {
		t.Error("settle beyond transfer quantity accepted")
	}
}

func TestProvisionReservoir_Idempotent(t *testing.T) {
	f := newLedgerFixture(t, 1000, 0)
	ctx := context.Background()

	if err := f.service.ProvisionReservoir(ctx, f.product, "L"); err != nil {
		t.Fatalf("provision: %v", err)
	}
	if err := f.service.ProvisionReservoir(ctx, f.product, "L"); err != nil {
		t.Fatalf("second provision: %v", err)
	}

	count := 0
	for _, rec := range f.stocks.records {
		if rec.DepotID == nil && rec.ProductID == f.product {
			count++
			if rec.Quantity != 0 {
				t.Errorf("reservoir quantity = %s, want 0", rec.Quantity)
			}
		}
	}
	if count != 1 {
		t.Errorf("reservoir records = %d, want exactly 1", count)
	}
}

func TestListActive_RecomputesUsage(t *testing.T) {
	f := newLedgerFixture(t, 1000, 0)
	ctx := context.Background()

	rec := f.mustAdd(t, litres(250))
	if _, err := f.service.ReserveTransfer(ctx, rec.ID, litres(50)); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	// Poison the cached counter to prove the listing recomputes
	f.depots.depots[f.depot.ID].UsedCapacity = litres(999)

	grouped, err := f.service.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(grouped) != 1 {
		t.Fatalf("groups = %d, want 1", len(grouped))
	}
	if grouped[0].Depot.UsedCapacity != litres(250) {
		t.Errorf("recomputed used = %s, want 250 (200 on hand + 50 in transfer)", grouped[0].Depot.UsedCapacity)
	}
	if len(grouped[0].Records) != 1 {
		t.Errorf("records = %d, want 1", len(grouped[0].Records))
	}
}
