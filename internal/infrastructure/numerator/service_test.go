package numerator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	corenumerator "petrolog/internal/core/numerator"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

type mockQuerier struct {
	mu           sync.Mutex
	currentValue int64 // simulates the sequence row
	calls        int
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	// Strict passes (prefix, year): increment 1.
	// Cached passes (key, increment int64).
	var increment int64 = 1
	if len(args) == 2 {
		if val, ok := args[1].(int64); ok {
			increment = val
		}
	}

	m.currentValue += increment
	return &mockRow{val: m.currentValue}
}

var testPeriod = time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

func TestGetNextNumber_Strict(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := corenumerator.DefaultConfig("ACH")

	num, err := svc.GetNextNumber(ctx, cfg, nil, testPeriod)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "ACH-2026-00001" {
		t.Errorf("expected ACH-2026-00001, got %s", num)
	}

	num, err = svc.GetNextNumber(ctx, cfg, nil, testPeriod)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "ACH-2026-00002" {
		t.Errorf("expected ACH-2026-00002, got %s", num)
	}
}

func TestGetNextNumber_Cached(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := corenumerator.DefaultConfig("DEP")

	opts := &corenumerator.Options{
		Strategy:  corenumerator.StrategyCached,
		RangeSize: 10,
	}

	// First call allocates the range 1..10 with a single DB round trip.
	num, err := svc.GetNextNumber(ctx, cfg, opts, testPeriod)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "DEP-2026-00001" {
		t.Errorf("expected DEP-2026-00001, got %s", num)
	}
	if q.currentValue != 10 {
		t.Errorf("expected reserved range end 10, got %d", q.currentValue)
	}

	// The next nine numbers come from memory.
	for i := 2; i <= 10; i++ {
		num, err = svc.GetNextNumber(ctx, cfg, opts, testPeriod)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if num != "DEP-2026-00010" {
		t.Errorf("expected DEP-2026-00010, got %s", num)
	}
	if q.calls != 1 {
		t.Errorf("expected 1 DB call for the whole range, got %d", q.calls)
	}

	// Eleventh number exhausts the range and reserves a new one.
	num, err = svc.GetNextNumber(ctx, cfg, opts, testPeriod)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "DEP-2026-00011" {
		t.Errorf("expected DEP-2026-00011, got %s", num)
	}
	if q.calls != 2 {
		t.Errorf("expected 2 DB calls after range refill, got %d", q.calls)
	}
}

func TestFormatNumber_NoYear(t *testing.T) {
	svc := New(&mockQuerier{})
	cfg := corenumerator.Config{Prefix: "MOV", IncludeYear: false, PadWidth: 3}

	got := svc.formatNumber(cfg, testPeriod, 7)
	if got != "MOV-007" {
		t.Errorf("expected MOV-007, got %s", got)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"ACH-2026-00042", 42},
		{"MOV-007", 7},
		{"garbage", -1},
		{"ACH-", -1},
		{"ACH-2026-00x42", -1},
	}
	for _, tt := range tests {
		if got := ParseNumber(tt.in); got != tt.want {
			t.Errorf("ParseNumber(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
