package payments

import (
	"context"
	"io"
	"testing"

	"github.com/modumall/storefront-gateway/pkg/backend"
	"github.com/modumall/storefront-gateway/pkg/enums"
	pkgerrors "github.com/modumall/storefront-gateway/pkg/errors"
	"github.com/modumall/storefront-gateway/pkg/gateway"
	"github.com/modumall/storefront-gateway/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

type stubPaymentBackend struct {
	prepareCalls []backend.PreparePaymentRequest
	prepareErr   error
	vaCalls      []backend.PaymentRequest
	vaErr        error
	normalCalls  []backend.PaymentRequest
	normalErr    error
	confirmCalls []backend.ConfirmPaymentRequest
	confirmErr   error
	confirmResp  *backend.ConfirmPaymentResponse
}

func (s *stubPaymentBackend) PreparePayment(ctx context.Context, memberToken string, req backend.PreparePaymentRequest) (*backend.PreparePaymentResponse, error) {
	s.prepareCalls = append(s.prepareCalls, req)
	if s.prepareErr != nil {
		return nil, s.prepareErr
	}
	return &backend.PreparePaymentResponse{ClientKey: "ck_test"}, nil
}

func (s *stubPaymentBackend) IssueVirtualAccount(ctx context.Context, memberToken string, req backend.PaymentRequest) (*backend.PaymentResponse, error) {
	s.vaCalls = append(s.vaCalls, req)
	if s.vaErr != nil {
		return nil, s.vaErr
	}
	return &backend.PaymentResponse{PaymentKey: "pay_va"}, nil
}

func (s *stubPaymentBackend) ProcessNormalPayment(ctx context.Context, memberToken string, req backend.PaymentRequest) (*backend.PaymentResponse, error) {
	s.normalCalls = append(s.normalCalls, req)
	if s.normalErr != nil {
		return nil, s.normalErr
	}
	return &backend.PaymentResponse{PaymentKey: "pay_normal"}, nil
}

func (s *stubPaymentBackend) ConfirmPayment(ctx context.Context, memberToken string, req backend.ConfirmPaymentRequest) (*backend.ConfirmPaymentResponse, error) {
	s.confirmCalls = append(s.confirmCalls, req)
	if s.confirmErr != nil {
		return nil, s.confirmErr
	}
	if s.confirmResp != nil {
		return s.confirmResp, nil
	}
	return &backend.ConfirmPaymentResponse{OrderID: req.OrderID, Status: "PAID"}, nil
}

type stubCheckoutCreator struct {
	calls []gateway.CheckoutRequest
	err   error
}

func (s *stubCheckoutCreator) CreateCheckout(ctx context.Context, req gateway.CheckoutRequest) (*gateway.Checkout, error) {
	s.calls = append(s.calls, req)
	if s.err != nil {
		return nil, s.err
	}
	return &gateway.Checkout{PaymentKey: "pay_card", RedirectURL: "http://pg.test/checkout/pay_card"}, nil
}

func cardInput() DispatchInput {
	return DispatchInput{
		MemberToken: "member-token",
		OrderID:     42,
		OrderNumber: "ORD-20260901-0001",
		OrderName:   "머그컵 외 1건",
		Amount:      42000,
		PaymentType: enums.PaymentTypeCard,
		SuccessURL:  "http://mall.test/api/v1/payments/success?token=tok",
		FailURL:     "http://mall.test/api/v1/payments/fail?token=tok",
	}
}

func TestDispatchCardRoutesToGateway(t *testing.T) {
	be := &stubPaymentBackend{}
	gw := &stubCheckoutCreator{}
	d, err := NewDispatcher(be, gw, testLogger(), nil)
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}

	result, err := d.Dispatch(context.Background(), cardInput())
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if result.NextState != enums.DispatchStateAwaitingGateway {
		t.Fatalf("unexpected next state %s", result.NextState)
	}
	if result.RedirectURL != "http://pg.test/checkout/pay_card" {
		t.Fatalf("unexpected redirect url %q", result.RedirectURL)
	}
	if len(be.prepareCalls) != 1 || be.prepareCalls[0].OrderID != 42 {
		t.Fatalf("unexpected prepare calls %+v", be.prepareCalls)
	}
	if len(gw.calls) != 1 || gw.calls[0].OrderID != "ORD-20260901-0001" {
		t.Fatalf("unexpected checkout calls %+v", gw.calls)
	}
}

func TestDispatchCardPrepareFailureIsPaymentError(t *testing.T) {
	be := &stubPaymentBackend{prepareErr: pkgerrors.New(pkgerrors.CodeDependency, "backend down")}
	gw := &stubCheckoutCreator{}
	d, _ := NewDispatcher(be, gw, testLogger(), nil)

	_, err := d.Dispatch(context.Background(), cardInput())
	if !pkgerrors.HasCode(err, pkgerrors.CodePayment) {
		t.Fatalf("expected payment error, got %v", err)
	}
	if len(gw.calls) != 0 {
		t.Fatalf("gateway called despite prepare failure")
	}
}

func TestDispatchVirtualAccountIsImmediate(t *testing.T) {
	be := &stubPaymentBackend{}
	d, _ := NewDispatcher(be, &stubCheckoutCreator{}, testLogger(), nil)

	input := cardInput()
	input.PaymentType = enums.PaymentTypeVirtualAccount

	result, err := d.Dispatch(context.Background(), input)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if result.NextState != enums.DispatchStateImmediateResult {
		t.Fatalf("unexpected next state %s", result.NextState)
	}
	if result.PaymentKey != "pay_va" {
		t.Fatalf("unexpected payment key %q", result.PaymentKey)
	}
	if len(be.vaCalls) != 1 || be.vaCalls[0].Amount != 42000 {
		t.Fatalf("unexpected virtual account calls %+v", be.vaCalls)
	}
}

func TestDispatchNormalIsImmediate(t *testing.T) {
	be := &stubPaymentBackend{}
	d, _ := NewDispatcher(be, &stubCheckoutCreator{}, testLogger(), nil)

	input := cardInput()
	input.PaymentType = enums.PaymentTypeNormal

	result, err := d.Dispatch(context.Background(), input)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if result.NextState != enums.DispatchStateImmediateResult || result.PaymentKey != "pay_normal" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestDispatchRejectsUnknownType(t *testing.T) {
	d, _ := NewDispatcher(&stubPaymentBackend{}, &stubCheckoutCreator{}, testLogger(), nil)

	input := cardInput()
	input.PaymentType = enums.PaymentType("POINTS")

	_, err := d.Dispatch(context.Background(), input)
	if !pkgerrors.HasCode(err, pkgerrors.CodePayment) {
		t.Fatalf("expected payment error, got %v", err)
	}
}

func TestDispatchValidatesAmount(t *testing.T) {
	be := &stubPaymentBackend{}
	d, _ := NewDispatcher(be, &stubCheckoutCreator{}, testLogger(), nil)

	input := cardInput()
	input.Amount = 0

	_, err := d.Dispatch(context.Background(), input)
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(be.prepareCalls) != 0 {
		t.Fatalf("backend called despite invalid amount")
	}
}
