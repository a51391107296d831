package acquisition

import (
	"context"
	"testing"
	"time"

	"petrolog/internal/core/id"
	"petrolog/internal/core/types"
)

type fakeCostRepo struct {
	prices []pricedAcquisition

	lastCutoff *time.Time
}

type pricedAcquisition struct {
	price    types.Money
	quantity types.Quantity
	at       time.Time
}

func (r *fakeCostRepo) matching(cutoff *time.Time) []pricedAcquisition {
	var out []pricedAcquisition
	for _, p := range r.prices {
		if cutoff != nil && p.at.After(*cutoff) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (r *fakeCostRepo) Create(ctx context.Context, a *Acquisition) error { return nil }
func (r *fakeCostRepo) GetByID(ctx context.Context, acqID id.ID) (*Acquisition, error) {
	return nil, nil
}
func (r *fakeCostRepo) List(ctx context.Context, filter ListFilter) ([]*Acquisition, error) {
	return nil, nil
}

func (r *fakeCostRepo) UnitPricesByProduct(ctx context.Context, productID id.ID, cutoff *time.Time) ([]types.Money, error) {
	r.lastCutoff = cutoff
	var out []types.Money
	for _, p := range r.matching(cutoff) {
		out = append(out, p.price)
	}
	return out, nil
}

func (r *fakeCostRepo) PurchaseTotalsByProduct(ctx context.Context, productID id.ID, cutoff *time.Time) (types.Money, types.Quantity, error) {
	r.lastCutoff = cutoff
	total := types.Zero()
	var quantity types.Quantity
	for _, p := range r.matching(cutoff) {
		total = total.Add(p.price.Mul(p.quantity.Decimal()))
		quantity += p.quantity
	}
	return total, quantity, nil
}

func priced(price string, quantity int64, at time.Time) pricedAcquisition {
	return pricedAcquisition{
		price:    types.MustMoney(price),
		quantity: types.NewQuantityFromInt(quantity),
		at:       at,
	}
}

func TestUnweightedAverage(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, time.March, d, 12, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name   string
		prices []pricedAcquisition
		cutoff *time.Time
		want   string
	}{
		{
			name: "mean of unit prices ignores quantity",
			prices: []pricedAcquisition{
				priced("10.00", 1000, day(1)),
				priced("20.00", 1, day(2)),
			},
			want: "15",
		},
		{
			name: "rounds half up to two decimals",
			prices: []pricedAcquisition{
				priced("10.00", 10, day(1)),
				priced("10.01", 10, day(2)),
			},
			want: "10.01", // 20.01 / 2 = 10.005
		},
		{
			name:   "no history values at zero",
			prices: nil,
			want:   "0",
		},
		{
			name: "cutoff excludes later purchases",
			prices: []pricedAcquisition{
				priced("10.00", 10, day(1)),
				priced("99.00", 10, day(20)),
			},
			cutoff: timePtr(day(5)),
			want:   "10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeCostRepo{prices: tt.prices}
			est := NewUnweightedAverage(repo)

			got, err := est.AverageUnitCost(context.Background(), id.New(), tt.cutoff)
			if err != nil {
				t.Fatalf("AverageUnitCost: %v", err)
			}
			if !got.Equal(types.MustMoney(tt.want)) {
				t.Errorf("cost = %s, want %s", got, tt.want)
			}
			if (repo.lastCutoff == nil) != (tt.cutoff == nil) {
				t.Error("cutoff not forwarded to repository")
			}
		})
	}
}

func TestQuantityWeighted(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, time.March, d, 12, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name   string
		prices []pricedAcquisition
		cutoff *time.Time
		want   string
	}{
		{
			name: "total spend over total quantity",
			prices: []pricedAcquisition{
				priced("10.00", 1000, day(1)),
				priced("20.00", 1, day(2)),
			},
			// (10000 + 20) / 1001 ≈ 10.01, nowhere near the unweighted 15
			want: "10.01",
		},
		{
			name:   "no history values at zero",
			prices: nil,
			want:   "0",
		},
		{
			name: "cutoff excludes later purchases",
			prices: []pricedAcquisition{
				priced("10.00", 10, day(1)),
				priced("99.00", 10, day(20)),
			},
			cutoff: timePtr(day(5)),
			want:   "10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeCostRepo{prices: tt.prices}
			est := NewQuantityWeighted(repo)

			got, err := est.AverageUnitCost(context.Background(), id.New(), tt.cutoff)
			if err != nil {
				t.Fatalf("AverageUnitCost: %v", err)
			}
			if !got.Equal(types.MustMoney(tt.want)) {
				t.Errorf("cost = %s, want %s", got, tt.want)
			}
		})
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
