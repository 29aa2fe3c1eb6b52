package options

import (
	"math"
	"testing"
)

func f(v float64) *float64 { return &v }

func TestNormalizePremiumMidpoint(t *testing.T) {
	got := Normalize(RawRow{Symbol: "AAPL", BidPrice: f(2.00), AskPrice: f(2.50)})
	if got.Premium != 225.00 {
		t.Fatalf("premium = %v, want 225.00", got.Premium)
	}
}

func TestNormalizePremiumRounding(t *testing.T) {
	// (0.01 + 0.02) / 2 * 100 = 1.5 exactly; float drift must not leak through.
	got := Normalize(RawRow{BidPrice: f(0.01), AskPrice: f(0.02)})
	if got.Premium != 1.5 {
		t.Fatalf("premium = %v, want 1.5", got.Premium)
	}
}

func TestNormalizeNaNAndNil(t *testing.T) {
	nan := math.NaN()
	got := Normalize(RawRow{
		Delta:        &nan,
		Volume:       nil,
		YieldPercent: &nan,
	})
	if got.Delta != nil {
		t.Fatalf("NaN delta must normalize to nil, got %v", *got.Delta)
	}
	if got.Volume != 0 || got.YieldPercent != 0 {
		t.Fatalf("missing numerics must normalize to zero: %v %v", got.Volume, got.YieldPercent)
	}
}

func TestNormalizeExpirationShift(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-01-10", "2025-01-11"},
		{"2025-12-31", "2026-01-01"},
		{"2025-01-10T00:00:00Z", "2025-01-11"},
		{"not-a-date", "not-a-date"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(RawRow{Expiration: tt.in}).Expiration; got != tt.want {
			t.Fatalf("expiration %q = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeAllAppliesOncePerRow(t *testing.T) {
	rows := []RawRow{
		{Symbol: "A", Expiration: "2025-06-01"},
		{Symbol: "B", Expiration: "2025-06-01"},
	}
	out := NormalizeAll(rows)
	if len(out) != 2 {
		t.Fatalf("len = %d", len(out))
	}
	for _, o := range out {
		if o.Expiration != "2025-06-02" {
			t.Fatalf("expiration = %q, want single one-day shift", o.Expiration)
		}
	}
}
