package backend

import (
	"context"
	"fmt"
	"time"
)

// OrderItem is a line on an order as the backend records it.
type OrderItem struct {
	OrderItemID int64  `json:"orderItemId,omitempty"`
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   int64  `json:"price"`
	LineTotal   int64  `json:"subtotal"`
}

// Order is the backend's order record. Status values follow
// enums.OrderStatus.
type Order struct {
	OrderID         int64       `json:"orderId"`
	OrderNumber     string      `json:"orderNumber"`
	Status          string      `json:"status"`
	TotalAmount     int64       `json:"totalAmount"`
	Items           []OrderItem `json:"items"`
	DeliveryAddress string      `json:"deliveryAddress"`
	PaymentMethod   string      `json:"paymentMethod"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// CreateOrderItem is the per-line payload for order creation.
type CreateOrderItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int64 `json:"quantity"`
}

// CreateOrderRequest is the body for POST /api/orders.
type CreateOrderRequest struct {
	DeliveryAddressID int64             `json:"deliveryAddressId"`
	PaymentMethodID   *int64            `json:"paymentMethodId"`
	UsePoints         int64             `json:"usePoints"`
	Items             []CreateOrderItem `json:"items"`
}

// CreateOrder creates a new order in PENDING state. Each call creates a new
// order; the caller owns double-submit protection.
func (c *Client) CreateOrder(ctx context.Context, memberToken string, req CreateOrderRequest) (*Order, error) {
	var order Order
	if err := c.post(ctx, memberToken, "/api/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns the member's orders, newest first.
func (c *Client) ListOrders(ctx context.Context, memberToken string) ([]Order, error) {
	var orders []Order
	if err := c.get(ctx, memberToken, "/api/orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder returns a single order by id.
func (c *Client) GetOrder(ctx context.Context, memberToken string, orderID int64) (*Order, error) {
	var order Order
	if err := c.get(ctx, memberToken, fmt.Sprintf("/api/orders/%d", orderID), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelOrder asks the backend to cancel the order.
func (c *Client) CancelOrder(ctx context.Context, memberToken string, orderID int64) (*Order, error) {
	var order Order
	if err := c.post(ctx, memberToken, fmt.Sprintf("/api/orders/%d/cancel", orderID), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ConfirmOrder records the customer's purchase confirmation.
func (c *Client) ConfirmOrder(ctx context.Context, memberToken string, orderID int64) (*Order, error) {
	var order Order
	if err := c.post(ctx, memberToken, fmt.Sprintf("/api/orders/%d/confirm", orderID), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
