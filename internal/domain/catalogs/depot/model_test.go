package depot

import (
	"context"
	"testing"

	"petrolog/internal/core/types"
)

func litres(v int64) types.Quantity {
	return types.NewQuantityFromInt(v)
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name     string
		current  Status
		capacity int64
		used     int64
		want     Status
	}{
		{"active below capacity stays active", StatusActive, 1000, 400, StatusActive},
		{"active at capacity becomes full", StatusActive, 1000, 1000, StatusFull},
		{"active above capacity becomes full", StatusActive, 1000, 1200, StatusFull},
		{"full reverts to active below capacity", StatusFull, 1000, 999, StatusActive},
		{"full stays full at capacity", StatusFull, 1000, 1000, StatusFull},
		{"inactive never derived", StatusInactive, 1000, 1000, StatusInactive},
		{"maintenance never derived", StatusUnderMaintenance, 1000, 1000, StatusUnderMaintenance},
		{"maintenance stays even when empty", StatusUnderMaintenance, 1000, 0, StatusUnderMaintenance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveStatus(tt.current, litres(tt.capacity), litres(tt.used))
			if got != tt.want {
				t.Errorf("DeriveStatus(%s, %d, %d) = %s, want %s",
					tt.current, tt.capacity, tt.used, got, tt.want)
			}
		})
	}
}

func TestApplyUsage(t *testing.T) {
	d := NewDepot("DEP-001", "Main depot", litres(1000))

	d.ApplyUsage(litres(600))
	if d.UsedCapacity != litres(600) {
		t.Fatalf("used = %s, want 600", d.UsedCapacity)
	}
	if d.Status != StatusActive {
		t.Fatalf("status = %s, want active", d.Status)
	}

	// Exact fill flips to full
	d.ApplyUsage(litres(400))
	if d.Status != StatusFull {
		t.Fatalf("status = %s, want full", d.Status)
	}

	// Draining reverts to active
	d.ApplyUsage(litres(-1))
	if d.Status != StatusActive {
		t.Fatalf("status = %s, want active after drain", d.Status)
	}

	// Counter is clamped at zero
	d.ApplyUsage(litres(-5000))
	if d.UsedCapacity != 0 {
		t.Fatalf("used = %s, want 0 after over-drain", d.UsedCapacity)
	}
}

func TestAvailableCapacity(t *testing.T) {
	d := NewDepot("DEP-002", "Coastal depot", litres(1000))
	d.UsedCapacity = litres(600)

	if got := d.AvailableCapacity(); got != litres(400) {
		t.Errorf("available = %s, want 400", got)
	}

	// Over-capacity (after a capacity shrink) reports zero, not negative
	d.UsedCapacity = litres(1500)
	if got := d.AvailableCapacity(); got != 0 {
		t.Errorf("available = %s, want 0 when over capacity", got)
	}
}

func TestCanAcceptStock(t *testing.T) {
	d := NewDepot("DEP-003", "Transit depot", litres(100))

	for status, want := range map[Status]bool{
		StatusActive:           true,
		StatusFull:             true,
		StatusInactive:         false,
		StatusUnderMaintenance: false,
	} {
		d.Status = status
		if got := d.CanAcceptStock(); got != want {
			t.Errorf("CanAcceptStock() with status %s = %v, want %v", status, got, want)
		}
	}
}

func TestDepotValidate(t *testing.T) {
	ctx := context.Background()

	d := NewDepot("DEP-004", "Valid depot", litres(500))
	if err := d.Validate(ctx); err != nil {
		t.Fatalf("valid depot rejected: %v", err)
	}

	d.Capacity = 0
	if err := d.Validate(ctx); err == nil {
		t.Error("zero capacity accepted")
	}

	d.Capacity = litres(500)
	d.Status = Status("melted")
	if err := d.Validate(ctx); err == nil {
		t.Error("unknown status accepted")
	}
}
