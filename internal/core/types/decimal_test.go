package types

import (
	"encoding/json"
	"testing"
)

func TestQuantityString(t *testing.T) {
	tests := []struct {
		q    Quantity
		want string
	}{
		{NewQuantityFromInt(0), "0.0000"},
		{NewQuantityFromInt(150), "150.0000"},
		{NewQuantityFromInt64Scaled(1234567), "123.4567"},
		{NewQuantityFromInt64Scaled(-5), "-0.0005"},
		{NewQuantityFromFloat64(2.5), "2.5000"},
	}
	for _, tt := range tests {
		if got := tt.q.String(); got != tt.want {
			t.Errorf("String(%d) = %q, want %q", int64(tt.q), got, tt.want)
		}
	}
}

func TestQuantityJSONRoundTrip(t *testing.T) {
	tests := []struct {
		in   string
		want Quantity
	}{
		{`120.5`, NewQuantityFromInt64Scaled(1205000)},
		{`"120.5"`, NewQuantityFromInt64Scaled(1205000)},
		{`-3.0001`, NewQuantityFromInt64Scaled(-30001)},
		{`0`, 0},
		{`null`, 0},
		{`7.123456`, NewQuantityFromInt64Scaled(71234)}, // extra digits truncated
	}
	for _, tt := range tests {
		var q Quantity
		if err := json.Unmarshal([]byte(tt.in), &q); err != nil {
			t.Errorf("unmarshal %s: %v", tt.in, err)
			continue
		}
		if q != tt.want {
			t.Errorf("unmarshal %s = %d, want %d", tt.in, int64(q), int64(tt.want))
		}
	}

	// Encodes as a JSON number, not a string
	out, err := json.Marshal(NewQuantityFromInt64Scaled(1205000))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "120.5000" {
		t.Errorf("marshal = %s, want 120.5000", out)
	}
}

func TestQuantityDecimal(t *testing.T) {
	q := NewQuantityFromInt64Scaled(1205000) // 120.5
	price := MustMoney("2.00")

	total := price.Mul(q.Decimal())
	if !total.Equal(MustMoney("241.00")) {
		t.Errorf("total = %s, want 241.00", total)
	}
}

func TestQuantityParseRejectsGarbage(t *testing.T) {
	for _, in := range []string{`"12x.5"`, `""`, `"1.2.3"`} {
		var q Quantity
		if err := json.Unmarshal([]byte(in), &q); err == nil {
			t.Errorf("unmarshal %s accepted, got %d", in, int64(q))
		}
	}
}
