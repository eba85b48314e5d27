package cart

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/modumall/storefront-gateway/pkg/backend"
	pkgerrors "github.com/modumall/storefront-gateway/pkg/errors"
	"github.com/modumall/storefront-gateway/pkg/pricing"
)

type backendReader interface {
	FetchCart(ctx context.Context, memberToken string) (*backend.CartView, error)
	FetchPointsBalance(ctx context.Context, memberToken string) (*backend.PointsBalance, error)
	ListAddresses(ctx context.Context, memberToken string) ([]backend.Address, error)
}

// Snapshot is a point-in-time copy of the member's cart taken on checkout
// entry. The backend cart stays authoritative; later cart edits do not leak
// into a snapshot already being checked out.
type Snapshot struct {
	Items           []backend.CartEntry `json:"items"`
	Summary         pricing.Summary     `json:"summary"`
	AvailablePoints int64               `json:"available_points"`
}

// OrderName returns the display label the payment gateway shows for the
// snapshot, following the storefront's "<first product> 외 N건" convention.
func (s Snapshot) OrderName() string {
	if len(s.Items) == 0 {
		return ""
	}
	if len(s.Items) == 1 {
		return s.Items[0].ProductName
	}
	return fmt.Sprintf("%s 외 %d건", s.Items[0].ProductName, len(s.Items)-1)
}

// Service reads cart snapshots for checkout.
type Service interface {
	Snapshot(ctx context.Context, memberToken string) (*Snapshot, error)
	View(ctx context.Context, memberToken string) (*Snapshot, error)
	Addresses(ctx context.Context, memberToken string) ([]backend.Address, error)
}

type service struct {
	reader backendReader
	rules  pricing.Rules
}

// NewService builds the snapshot service backed by the commerce backend.
func NewService(reader backendReader, rules pricing.Rules) (Service, error) {
	if reader == nil {
		return nil, fmt.Errorf("backend reader required")
	}
	return &service{reader: reader, rules: rules}, nil
}

// Snapshot reads the member's cart and point balance and freezes them for a
// checkout session. An empty cart fails fast before any further backend call.
func (s *service) Snapshot(ctx context.Context, memberToken string) (*Snapshot, error) {
	view, err := s.reader.FetchCart(ctx, memberToken)
	if err != nil {
		return nil, err
	}
	if view == nil || len(view.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart has no items to check out")
	}

	items, subtotal, discount, err := normalizeItems(view.Items)
	if err != nil {
		return nil, err
	}

	balance, err := s.reader.FetchPointsBalance(ctx, memberToken)
	if err != nil {
		return nil, err
	}
	available := int64(0)
	if balance != nil && balance.AvailablePoints > 0 {
		available = balance.AvailablePoints
	}

	return &Snapshot{
		Items:           items,
		Summary:         s.rules.NewSummary(subtotal, discount),
		AvailablePoints: available,
	}, nil
}

// View returns the current cart with a computed summary without requiring a
// non-empty cart. Used by the cart passthrough route.
func (s *service) View(ctx context.Context, memberToken string) (*Snapshot, error) {
	view, err := s.reader.FetchCart(ctx, memberToken)
	if err != nil {
		return nil, err
	}
	if view == nil || len(view.Items) == 0 {
		// Nothing to ship, so no shipping fee either.
		return &Snapshot{Items: []backend.CartEntry{}}, nil
	}

	items, subtotal, discount, err := normalizeItems(view.Items)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Items: items, Summary: s.rules.NewSummary(subtotal, discount)}, nil
}

// Addresses returns the member's saved delivery addresses for the checkout
// address picker.
func (s *service) Addresses(ctx context.Context, memberToken string) ([]backend.Address, error) {
	addresses, err := s.reader.ListAddresses(ctx, memberToken)
	if err != nil {
		return nil, err
	}
	if addresses == nil {
		addresses = []backend.Address{}
	}
	return addresses, nil
}

// normalizeItems validates each line and recomputes its total from unit price
// and quantity. The recomputed value wins over whatever the backend sent.
// Promotional rates accumulate into a cart-level discount amount.
func normalizeItems(entries []backend.CartEntry) ([]backend.CartEntry, int64, int64, error) {
	items := make([]backend.CartEntry, 0, len(entries))
	var subtotal, discount int64
	for _, entry := range entries {
		if entry.Quantity <= 0 {
			return nil, 0, 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("cart entry %d has non-positive quantity", entry.CartEntryID))
		}
		if entry.UnitPrice < 0 {
			return nil, 0, 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("cart entry %d has negative unit price", entry.CartEntryID))
		}
		entry.LineTotal = entry.UnitPrice * entry.Quantity
		subtotal += entry.LineTotal
		if entry.DiscountRate != "" {
			rate, err := decimal.NewFromString(entry.DiscountRate)
			if err != nil {
				return nil, 0, 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("cart entry %d has malformed discount rate %q", entry.CartEntryID, entry.DiscountRate))
			}
			discount += pricing.DiscountFromRate(entry.LineTotal, rate)
		}
		items = append(items, entry)
	}
	return items, subtotal, discount, nil
}
