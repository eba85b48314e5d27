package orders

import (
	"context"
	"fmt"

	"github.com/modumall/storefront-gateway/pkg/backend"
	"github.com/modumall/storefront-gateway/pkg/enums"
	pkgerrors "github.com/modumall/storefront-gateway/pkg/errors"
)

type orderBackend interface {
	CreateOrder(ctx context.Context, memberToken string, req backend.CreateOrderRequest) (*backend.Order, error)
	ListOrders(ctx context.Context, memberToken string) ([]backend.Order, error)
	GetOrder(ctx context.Context, memberToken string, orderID int64) (*backend.Order, error)
	CancelOrder(ctx context.Context, memberToken string, orderID int64) (*backend.Order, error)
	ConfirmOrder(ctx context.Context, memberToken string, orderID int64) (*backend.Order, error)
}

// Draft is everything needed to create an order from a checkout session.
type Draft struct {
	AddressID       int64
	PaymentMethodID *int64
	PointsUsed      int64
	Items           []backend.CreateOrderItem
}

// Service drafts orders and proxies lifecycle transitions, validating each
// transition locally before going to the backend.
type Service interface {
	Submit(ctx context.Context, memberToken string, draft Draft) (*backend.Order, error)
	List(ctx context.Context, memberToken string) ([]backend.Order, error)
	Get(ctx context.Context, memberToken string, orderID int64) (*backend.Order, error)
	Cancel(ctx context.Context, memberToken string, orderID int64) (*backend.Order, error)
	ConfirmPurchase(ctx context.Context, memberToken string, orderID int64) (*backend.Order, error)
}

type service struct {
	backend orderBackend
}

// NewService builds the order service.
func NewService(backendClient orderBackend) (Service, error) {
	if backendClient == nil {
		return nil, fmt.Errorf("order backend required")
	}
	return &service{backend: backendClient}, nil
}

// Submit creates a PENDING order draft. Order creation is not idempotent
// server-side, so every precondition is checked before the network call.
func (s *service) Submit(ctx context.Context, memberToken string, draft Draft) (*backend.Order, error) {
	if len(draft.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "order draft has no items")
	}
	if draft.AddressID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required")
	}
	if draft.PointsUsed < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "points used must be non-negative")
	}
	for _, item := range draft.Items {
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product %d has non-positive quantity", item.ProductID))
		}
	}

	order, err := s.backend.CreateOrder(ctx, memberToken, backend.CreateOrderRequest{
		DeliveryAddressID: draft.AddressID,
		PaymentMethodID:   draft.PaymentMethodID,
		UsePoints:         draft.PointsUsed,
		Items:             draft.Items,
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) List(ctx context.Context, memberToken string) ([]backend.Order, error) {
	return s.backend.ListOrders(ctx, memberToken)
}

func (s *service) Get(ctx context.Context, memberToken string, orderID int64) (*backend.Order, error) {
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id must be positive")
	}
	return s.backend.GetOrder(ctx, memberToken, orderID)
}

// Cancel cancels an order after checking the current status allows it.
func (s *service) Cancel(ctx context.Context, memberToken string, orderID int64) (*backend.Order, error) {
	order, err := s.Get(ctx, memberToken, orderID)
	if err != nil {
		return nil, err
	}

	status, err := enums.ParseOrderStatus(order.Status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "backend reported unknown order status")
	}
	if !status.IsCancelable() {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidState, fmt.Sprintf("order in status %s cannot be cancelled", status)).
			WithDetails(map[string]any{"order_id": orderID, "status": status.String()})
	}

	return s.backend.CancelOrder(ctx, memberToken, orderID)
}

// ConfirmPurchase marks a delivered order as completed.
func (s *service) ConfirmPurchase(ctx context.Context, memberToken string, orderID int64) (*backend.Order, error) {
	order, err := s.Get(ctx, memberToken, orderID)
	if err != nil {
		return nil, err
	}

	status, err := enums.ParseOrderStatus(order.Status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "backend reported unknown order status")
	}
	if !status.IsConfirmable() {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidState, fmt.Sprintf("order in status %s cannot be confirmed", status)).
			WithDetails(map[string]any{"order_id": orderID, "status": status.String()})
	}

	return s.backend.ConfirmOrder(ctx, memberToken, orderID)
}
