package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

var testRules = Rules{FreeShippingThreshold: 50000, StandardShippingFee: 3000}

func TestShippingFeeThreshold(t *testing.T) {
	cases := []struct {
		subtotal int64
		want     int64
	}{
		{subtotal: 49999, want: 3000},
		{subtotal: 50000, want: 0},
		{subtotal: 120000, want: 0},
		{subtotal: 0, want: 3000},
	}
	for _, tc := range cases {
		if got := testRules.ShippingFor(tc.subtotal); got != tc.want {
			t.Fatalf("subtotal %d: expected fee %d, got %d", tc.subtotal, tc.want, got)
		}
	}
}

func TestNewSummaryTotal(t *testing.T) {
	s := testRules.NewSummary(40000, 0)
	if s.ShippingFee != 3000 {
		t.Fatalf("expected shipping 3000, got %d", s.ShippingFee)
	}
	if s.Total != 43000 {
		t.Fatalf("expected total 43000, got %d", s.Total)
	}

	s = testRules.NewSummary(60000, 5000)
	if s.ShippingFee != 0 {
		t.Fatalf("expected free shipping, got %d", s.ShippingFee)
	}
	if s.Total != 55000 {
		t.Fatalf("expected total 55000, got %d", s.Total)
	}
}

func TestWithPointsClampsToAvailable(t *testing.T) {
	// total before points 12000, member holds 10000 points
	s := testRules.NewSummary(9000, 0)
	if s.Total != 12000 {
		t.Fatalf("fixture broken: total %d", s.Total)
	}

	s = s.WithPoints(10000, 999999)
	if s.PointsUsed != 10000 {
		t.Fatalf("expected clamp to available points 10000, got %d", s.PointsUsed)
	}
	if s.Total != 2000 {
		t.Fatalf("expected total 2000, got %d", s.Total)
	}
}

func TestWithPointsClampsToPayable(t *testing.T) {
	// total before points 5000, member holds plenty of points
	s := testRules.NewSummary(2000, 0)
	if s.Total != 5000 {
		t.Fatalf("fixture broken: total %d", s.Total)
	}

	s = s.WithPoints(999999, 999999)
	if s.PointsUsed != 5000 {
		t.Fatalf("expected clamp to payable 5000, got %d", s.PointsUsed)
	}
	if s.Total != 0 {
		t.Fatalf("total must not go negative, got %d", s.Total)
	}
}

func TestWithPointsNegativeRequestTreatedAsZero(t *testing.T) {
	s := testRules.NewSummary(40000, 0).WithPoints(10000, -500)
	if s.PointsUsed != 0 {
		t.Fatalf("expected zero points, got %d", s.PointsUsed)
	}
	if s.Total != 43000 {
		t.Fatalf("expected total unchanged, got %d", s.Total)
	}
}

func TestWithPointsRecomputesAfterReduction(t *testing.T) {
	s := testRules.NewSummary(40000, 0).WithPoints(10000, 8000)
	if s.Total != 35000 {
		t.Fatalf("expected 35000, got %d", s.Total)
	}
	s = s.WithPoints(10000, 1000)
	if s.PointsUsed != 1000 || s.Total != 42000 {
		t.Fatalf("expected points 1000 / total 42000, got %d / %d", s.PointsUsed, s.Total)
	}
}

func TestDiscountFromRate(t *testing.T) {
	rate := decimal.NewFromFloat(0.05)
	if got := DiscountFromRate(40000, rate); got != 2000 {
		t.Fatalf("expected 2000, got %d", got)
	}
	// rounds down to whole won
	if got := DiscountFromRate(9999, decimal.NewFromFloat(0.1)); got != 999 {
		t.Fatalf("expected 999, got %d", got)
	}
	if got := DiscountFromRate(40000, decimal.Zero); got != 0 {
		t.Fatalf("expected 0 for zero rate, got %d", got)
	}
	// rates above 100% cap at the subtotal
	if got := DiscountFromRate(40000, decimal.NewFromInt(2)); got != 40000 {
		t.Fatalf("expected cap at subtotal, got %d", got)
	}
}
