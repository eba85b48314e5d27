package backend

import "context"

// PreparePaymentRequest is the body for POST /api/payments/prepare.
type PreparePaymentRequest struct {
	OrderID         int64  `json:"orderId"`
	Amount          int64  `json:"amount"`
	PaymentMethodID *int64 `json:"paymentMethodId"`
}

// PreparePaymentResponse carries the gateway client credential for the
// hosted payment page.
type PreparePaymentResponse struct {
	ClientKey string `json:"clientKey"`
}

// PaymentRequest is the body for the synchronous payment endpoints.
type PaymentRequest struct {
	OrderID int64 `json:"orderId"`
	Amount  int64 `json:"amount"`
}

// PaymentResponse carries the payment key issued for a settled or pending
// payment.
type PaymentResponse struct {
	PaymentKey string `json:"paymentKey"`
}

// ConfirmPaymentRequest is the body for POST /api/payments/confirm.
type ConfirmPaymentRequest struct {
	PaymentKey string `json:"paymentKey"`
	OrderID    int64  `json:"orderId"`
	Amount     int64  `json:"amount"`
}

// ConfirmPaymentResponse reports the server-side settlement result.
type ConfirmPaymentResponse struct {
	OrderID int64  `json:"orderId"`
	Status  string `json:"status"`
}

// PreparePayment obtains a gateway client key for a card payment.
func (c *Client) PreparePayment(ctx context.Context, memberToken string, req PreparePaymentRequest) (*PreparePaymentResponse, error) {
	var resp PreparePaymentResponse
	if err := c.post(ctx, memberToken, "/api/payments/prepare", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// IssueVirtualAccount requests a virtual account for bank-transfer payment.
// The backend responds synchronously with the payment key for the issued
// account; settlement happens later when the transfer arrives.
func (c *Client) IssueVirtualAccount(ctx context.Context, memberToken string, req PaymentRequest) (*PaymentResponse, error) {
	var resp PaymentResponse
	if err := c.post(ctx, memberToken, "/api/payments/virtual-account", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ProcessNormalPayment executes a normal (non-gateway) payment synchronously.
func (c *Client) ProcessNormalPayment(ctx context.Context, memberToken string, req PaymentRequest) (*PaymentResponse, error) {
	var resp PaymentResponse
	if err := c.post(ctx, memberToken, "/api/payments/normal", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ConfirmPayment settles the payment server-side, transitioning the order
// from PENDING to PAID.
func (c *Client) ConfirmPayment(ctx context.Context, memberToken string, req ConfirmPaymentRequest) (*ConfirmPaymentResponse, error) {
	var resp ConfirmPaymentResponse
	if err := c.post(ctx, memberToken, "/api/payments/confirm", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
