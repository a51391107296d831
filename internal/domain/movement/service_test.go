package movement

import (
	"context"
	"testing"

	"petrolog/internal/core/apperror"
	"petrolog/internal/core/id"
	"petrolog/internal/core/types"
)

type fakeLog struct {
	appended []Movement

	lastLimit  int
	lastOffset int
}

func (f *fakeLog) Append(ctx context.Context, movements ...Movement) error {
	f.appended = append(f.appended, movements...)
	return nil
}

func (f *fakeLog) ListByStock(ctx context.Context, stockID id.ID, limit, offset int) ([]Movement, error) {
	f.lastLimit = limit
	f.lastOffset = offset
	return nil, nil
}

func (f *fakeLog) NetQuantityByStock(ctx context.Context, stockID id.ID) (int64, error) {
	var net int64
	for _, m := range f.appended {
		if m.StockID == stockID {
			net += int64(m.SignedQuantity())
		}
	}
	return net, nil
}

func TestAppend(t *testing.T) {
	stockID := id.New()
	qty := types.NewQuantityFromInt(100)

	tests := []struct {
		name      string
		movements []Movement
		wantErr   bool
	}{
		{
			name:      "valid entry",
			movements: []Movement{New(stockID, DirectionEntry, qty, "L", "delivery")},
		},
		{
			name:      "empty batch is a no-op",
			movements: nil,
		},
		{
			name:      "zero quantity rejected",
			movements: []Movement{New(stockID, DirectionExit, 0, "L", "")},
			wantErr:   true,
		},
		{
			name:      "negative quantity rejected",
			movements: []Movement{New(stockID, DirectionEntry, types.NewQuantityFromInt(-5), "L", "")},
			wantErr:   true,
		},
		{
			name:      "missing stock id rejected",
			movements: []Movement{New(id.Nil(), DirectionEntry, qty, "L", "")},
			wantErr:   true,
		},
		{
			name: "one bad movement fails the whole batch",
			movements: []Movement{
				New(stockID, DirectionEntry, qty, "L", ""),
				New(stockID, DirectionExit, 0, "L", ""),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &fakeLog{}
			svc := NewService(log)

			err := svc.Append(context.Background(), tt.movements...)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected validation error")
				}
				if _, ok := apperror.AsAppError(err); !ok {
					t.Errorf("error is not an app error: %v", err)
				}
				if len(log.appended) != 0 {
					t.Error("repository written despite validation failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("append: %v", err)
			}
			if len(log.appended) != len(tt.movements) {
				t.Errorf("appended = %d, want %d", len(log.appended), len(tt.movements))
			}
		})
	}
}

func TestListByStock_LimitClamping(t *testing.T) {
	tests := []struct {
		limit int
		want  int
	}{
		{limit: 0, want: 100},
		{limit: -10, want: 100},
		{limit: 50, want: 50},
		{limit: 5000, want: 1000},
	}

	for _, tt := range tests {
		log := &fakeLog{}
		svc := NewService(log)

		if _, err := svc.ListByStock(context.Background(), id.New(), tt.limit, 20); err != nil {
			t.Fatalf("list: %v", err)
		}
		if log.lastLimit != tt.want {
			t.Errorf("limit %d clamped to %d, want %d", tt.limit, log.lastLimit, tt.want)
		}
		if log.lastOffset != 20 {
			t.Errorf("offset = %d, want 20", log.lastOffset)
		}
	}
}

func TestSignedQuantity(t *testing.T) {
	qty := types.NewQuantityFromInt(75)

	entry := New(id.New(), DirectionEntry, qty, "L", "")
	if entry.SignedQuantity() != qty {
		t.Errorf("entry signed = %s, want %s", entry.SignedQuantity(), qty)
	}

	exit := New(id.New(), DirectionExit, qty, "L", "")
	if exit.SignedQuantity() != qty.Neg() {
		t.Errorf("exit signed = %s, want %s", exit.SignedQuantity(), qty.Neg())
	}
}
