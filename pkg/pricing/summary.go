package pricing

import (
	"github.com/shopspring/decimal"
)

// Rules carries the shipping thresholds applied to every quote. Amounts are
// whole KRW; the currency has no minor unit.
type Rules struct {
	FreeShippingThreshold int64
	StandardShippingFee   int64
}

// Summary is the price breakdown shown to the customer during checkout.
// Invariant: Total == Subtotal + ShippingFee - Discount - PointsUsed, never
// negative.
type Summary struct {
	Subtotal    int64 `json:"subtotal"`
	ShippingFee int64 `json:"shipping_fee"`
	Discount    int64 `json:"discount"`
	PointsUsed  int64 `json:"points_used"`
	Total       int64 `json:"total"`
}

// ShippingFor returns the shipping fee owed for the given subtotal.
func (r Rules) ShippingFor(subtotal int64) int64 {
	if subtotal >= r.FreeShippingThreshold {
		return 0
	}
	return r.StandardShippingFee
}

// NewSummary builds a summary with no points applied yet.
func (r Rules) NewSummary(subtotal, discount int64) Summary {
	if subtotal < 0 {
		subtotal = 0
	}
	if discount < 0 {
		discount = 0
	}
	shipping := r.ShippingFor(subtotal)
	s := Summary{
		Subtotal:    subtotal,
		ShippingFee: shipping,
		Discount:    discount,
	}
	s.Total = s.payableBeforePoints()
	return s
}

// WithPoints returns a copy of the summary with the requested point
// redemption clamped to [0, min(availablePoints, payable-before-points)] and
// the total recomputed.
func (s Summary) WithPoints(availablePoints, requested int64) Summary {
	maxRedeemable := s.payableBeforePoints()
	if availablePoints < maxRedeemable {
		maxRedeemable = availablePoints
	}
	if maxRedeemable < 0 {
		maxRedeemable = 0
	}

	points := requested
	if points < 0 {
		points = 0
	}
	if points > maxRedeemable {
		points = maxRedeemable
	}

	s.PointsUsed = points
	s.Total = s.payableBeforePoints() - points
	return s
}

func (s Summary) payableBeforePoints() int64 {
	payable := s.Subtotal + s.ShippingFee - s.Discount
	if payable < 0 {
		return 0
	}
	return payable
}

// DiscountFromRate converts a fractional discount rate (e.g. 0.05) into a
// whole-won discount amount, rounded down. Rates above 1 are capped at the
// full subtotal.
func DiscountFromRate(subtotal int64, rate decimal.Decimal) int64 {
	if rate.Sign() <= 0 || subtotal <= 0 {
		return 0
	}
	if rate.GreaterThan(decimal.NewFromInt(1)) {
		rate = decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(subtotal).Mul(rate).Floor().IntPart()
}
