package payments

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/modumall/storefront-gateway/pkg/backend"
	"github.com/modumall/storefront-gateway/pkg/enums"
	pkgerrors "github.com/modumall/storefront-gateway/pkg/errors"
	"github.com/modumall/storefront-gateway/pkg/gateway"
	"github.com/modumall/storefront-gateway/pkg/logger"
	"github.com/modumall/storefront-gateway/pkg/metrics"
)

type paymentBackend interface {
	PreparePayment(ctx context.Context, memberToken string, req backend.PreparePaymentRequest) (*backend.PreparePaymentResponse, error)
	IssueVirtualAccount(ctx context.Context, memberToken string, req backend.PaymentRequest) (*backend.PaymentResponse, error)
	ProcessNormalPayment(ctx context.Context, memberToken string, req backend.PaymentRequest) (*backend.PaymentResponse, error)
	ConfirmPayment(ctx context.Context, memberToken string, req backend.ConfirmPaymentRequest) (*backend.ConfirmPaymentResponse, error)
}

type checkoutCreator interface {
	CreateCheckout(ctx context.Context, req gateway.CheckoutRequest) (*gateway.Checkout, error)
}

// DispatchInput carries everything a dispatch branch needs. The order draft
// already exists; amounts come from the session summary, not the request.
type DispatchInput struct {
	MemberToken     string
	OrderID         int64
	OrderNumber     string
	OrderName       string
	Amount          int64
	PaymentType     enums.PaymentType
	PaymentMethodID *int64
	SuccessURL      string
	FailURL         string
}

// DispatchResult reports where the dispatch landed. AWAITING_GATEWAY carries
// the redirect URL; IMMEDIATE_RESULT carries the payment key.
type DispatchResult struct {
	NextState   enums.DispatchState
	RedirectURL string
	PaymentKey  string
}

// Dispatcher routes a submitted order to its payment rail.
type Dispatcher interface {
	Dispatch(ctx context.Context, input DispatchInput) (*DispatchResult, error)
}

type dispatcher struct {
	backend paymentBackend
	gateway checkoutCreator
	logg    *logger.Logger
	metrics *metrics.PaymentMetrics
}

// NewDispatcher builds the payment dispatcher. Metrics may be nil in tests.
func NewDispatcher(backendClient paymentBackend, gatewayClient checkoutCreator, logg *logger.Logger, m *metrics.PaymentMetrics) (Dispatcher, error) {
	if backendClient == nil {
		return nil, fmt.Errorf("payment backend required")
	}
	if gatewayClient == nil {
		return nil, fmt.Errorf("gateway client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &dispatcher{backend: backendClient, gateway: gatewayClient, logg: logg, metrics: m}, nil
}

// Dispatch branches on the payment type. Any branch failure normalizes to a
// payment error; retry is an explicit user action, never automatic.
func (d *dispatcher) Dispatch(ctx context.Context, input DispatchInput) (*DispatchResult, error) {
	if input.Amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment amount must be positive")
	}
	if input.OrderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id must be positive")
	}

	started := time.Now()
	result, err := d.dispatch(ctx, input)
	d.metrics.ObserveDispatch(input.PaymentType.String(), time.Since(started))
	if err != nil {
		d.metrics.IncDispatch(input.PaymentType.String(), "failure")
		logCtx := d.logg.WithFields(ctx, map[string]any{
			"order_id":     input.OrderID,
			"payment_type": input.PaymentType.String(),
		})
		d.logg.Error(logCtx, "payment dispatch failed", err)
		return nil, normalizePaymentError(err)
	}

	d.metrics.IncDispatch(input.PaymentType.String(), "success")
	return result, nil
}

func (d *dispatcher) dispatch(ctx context.Context, input DispatchInput) (*DispatchResult, error) {
	switch input.PaymentType {
	case enums.PaymentTypeCard:
		return d.dispatchCard(ctx, input)
	case enums.PaymentTypeVirtualAccount:
		resp, err := d.backend.IssueVirtualAccount(ctx, input.MemberToken, backend.PaymentRequest{
			OrderID: input.OrderID,
			Amount:  input.Amount,
		})
		if err != nil {
			return nil, err
		}
		return &DispatchResult{NextState: enums.DispatchStateImmediateResult, PaymentKey: resp.PaymentKey}, nil
	case enums.PaymentTypeNormal:
		resp, err := d.backend.ProcessNormalPayment(ctx, input.MemberToken, backend.PaymentRequest{
			OrderID: input.OrderID,
			Amount:  input.Amount,
		})
		if err != nil {
			return nil, err
		}
		return &DispatchResult{NextState: enums.DispatchStateImmediateResult, PaymentKey: resp.PaymentKey}, nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported payment type %q", input.PaymentType))
	}
}

// dispatchCard prepares the payment with the backend, then registers a
// hosted checkout with the gateway. The shopper finishes on the gateway's
// page and returns through the success/fail routes.
func (d *dispatcher) dispatchCard(ctx context.Context, input DispatchInput) (*DispatchResult, error) {
	if _, err := d.backend.PreparePayment(ctx, input.MemberToken, backend.PreparePaymentRequest{
		OrderID:         input.OrderID,
		Amount:          input.Amount,
		PaymentMethodID: input.PaymentMethodID,
	}); err != nil {
		return nil, err
	}

	orderRef := input.OrderNumber
	if orderRef == "" {
		orderRef = strconv.FormatInt(input.OrderID, 10)
	}
	checkout, err := d.gateway.CreateCheckout(ctx, gateway.CheckoutRequest{
		Amount:     input.Amount,
		OrderID:    orderRef,
		OrderName:  input.OrderName,
		SuccessURL: input.SuccessURL,
		FailURL:    input.FailURL,
	})
	if err != nil {
		return nil, err
	}

	return &DispatchResult{
		NextState:   enums.DispatchStateAwaitingGateway,
		RedirectURL: checkout.RedirectURL,
		PaymentKey:  checkout.PaymentKey,
	}, nil
}

// normalizePaymentError folds every branch failure into the payment error
// code while keeping the cause chain intact.
func normalizePaymentError(err error) error {
	if pkgerrors.HasCode(err, pkgerrors.CodePayment) {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodePayment, err, "payment dispatch failed")
}
