package cart

import (
	"context"
	"testing"

	"github.com/modumall/storefront-gateway/pkg/backend"
	pkgerrors "github.com/modumall/storefront-gateway/pkg/errors"
	"github.com/modumall/storefront-gateway/pkg/pricing"
)

var testRules = pricing.Rules{FreeShippingThreshold: 50000, StandardShippingFee: 3000}

type stubReader struct {
	cart       *backend.CartView
	cartErr    error
	points     *backend.PointsBalance
	pointsErr  error
	pointCalls int
	addresses  []backend.Address
}

func (s *stubReader) FetchCart(ctx context.Context, memberToken string) (*backend.CartView, error) {
	return s.cart, s.cartErr
}

func (s *stubReader) FetchPointsBalance(ctx context.Context, memberToken string) (*backend.PointsBalance, error) {
	s.pointCalls++
	return s.points, s.pointsErr
}

func (s *stubReader) ListAddresses(ctx context.Context, memberToken string) ([]backend.Address, error) {
	return s.addresses, nil
}

func TestSnapshotComputesSummary(t *testing.T) {
	reader := &stubReader{
		cart: &backend.CartView{Items: []backend.CartEntry{
			{CartEntryID: 1, ProductID: 10, ProductName: "머그컵", UnitPrice: 15000, Quantity: 2, LineTotal: 30000},
			{CartEntryID: 2, ProductID: 11, ProductName: "텀블러", UnitPrice: 9000, Quantity: 1, LineTotal: 9000},
		}},
		points: &backend.PointsBalance{AvailablePoints: 5000},
	}

	svc, err := NewService(reader, testRules)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	snap, err := svc.Snapshot(context.Background(), "member-token")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Summary.Subtotal != 39000 {
		t.Fatalf("unexpected subtotal %d", snap.Summary.Subtotal)
	}
	if snap.Summary.ShippingFee != 3000 {
		t.Fatalf("unexpected shipping fee %d", snap.Summary.ShippingFee)
	}
	if snap.Summary.Total != 42000 {
		t.Fatalf("unexpected total %d", snap.Summary.Total)
	}
	if snap.AvailablePoints != 5000 {
		t.Fatalf("unexpected points %d", snap.AvailablePoints)
	}
	if got := snap.OrderName(); got != "머그컵 외 1건" {
		t.Fatalf("unexpected order name %q", got)
	}
}

func TestSnapshotRecomputesLineTotals(t *testing.T) {
	reader := &stubReader{
		cart: &backend.CartView{Items: []backend.CartEntry{
			{CartEntryID: 1, UnitPrice: 10000, Quantity: 3, LineTotal: 999},
		}},
		points: &backend.PointsBalance{},
	}

	svc, _ := NewService(reader, testRules)
	snap, err := svc.Snapshot(context.Background(), "member-token")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Items[0].LineTotal != 30000 {
		t.Fatalf("line total not recomputed, got %d", snap.Items[0].LineTotal)
	}
	if snap.Summary.Subtotal != 30000 {
		t.Fatalf("unexpected subtotal %d", snap.Summary.Subtotal)
	}
}

func TestSnapshotEmptyCartFailsFast(t *testing.T) {
	reader := &stubReader{cart: &backend.CartView{}}

	svc, _ := NewService(reader, testRules)
	_, err := svc.Snapshot(context.Background(), "member-token")
	if !pkgerrors.HasCode(err, pkgerrors.CodeEmptyCart) {
		t.Fatalf("expected empty cart error, got %v", err)
	}
	if reader.pointCalls != 0 {
		t.Fatalf("points fetched despite empty cart")
	}
}

func TestSnapshotAppliesPromotionalRates(t *testing.T) {
	reader := &stubReader{
		cart: &backend.CartView{Items: []backend.CartEntry{
			{CartEntryID: 1, ProductID: 10, ProductName: "머그컵", UnitPrice: 10000, Quantity: 2, DiscountRate: "0.1"},
			{CartEntryID: 2, ProductID: 11, ProductName: "텀블러", UnitPrice: 5000, Quantity: 1},
		}},
		points: &backend.PointsBalance{},
	}

	svc, _ := NewService(reader, testRules)
	snap, err := svc.Snapshot(context.Background(), "member-token")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Summary.Subtotal != 25000 {
		t.Fatalf("unexpected subtotal %d", snap.Summary.Subtotal)
	}
	if snap.Summary.Discount != 2000 {
		t.Fatalf("unexpected discount %d", snap.Summary.Discount)
	}
	// 25000 + 3000 shipping - 2000 discount
	if snap.Summary.Total != 26000 {
		t.Fatalf("unexpected total %d", snap.Summary.Total)
	}
}

func TestSnapshotRejectsMalformedDiscountRate(t *testing.T) {
	reader := &stubReader{
		cart: &backend.CartView{Items: []backend.CartEntry{
			{CartEntryID: 1, UnitPrice: 10000, Quantity: 1, DiscountRate: "ten percent"},
		}},
	}

	svc, _ := NewService(reader, testRules)
	_, err := svc.Snapshot(context.Background(), "member-token")
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSnapshotRejectsBadQuantity(t *testing.T) {
	reader := &stubReader{
		cart: &backend.CartView{Items: []backend.CartEntry{
			{CartEntryID: 1, UnitPrice: 10000, Quantity: 0},
		}},
	}

	svc, _ := NewService(reader, testRules)
	_, err := svc.Snapshot(context.Background(), "member-token")
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestViewAllowsEmptyCart(t *testing.T) {
	reader := &stubReader{cart: &backend.CartView{}}

	svc, _ := NewService(reader, testRules)
	snap, err := svc.View(context.Background(), "member-token")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if len(snap.Items) != 0 || snap.Summary.Total != 0 {
		t.Fatalf("unexpected view %+v", snap)
	}
}

func TestAddressesNeverReturnsNil(t *testing.T) {
	reader := &stubReader{cart: &backend.CartView{}}

	svc, _ := NewService(reader, testRules)
	addresses, err := svc.Addresses(context.Background(), "member-token")
	if err != nil {
		t.Fatalf("addresses: %v", err)
	}
	if addresses == nil || len(addresses) != 0 {
		t.Fatalf("expected empty slice, got %#v", addresses)
	}
}
