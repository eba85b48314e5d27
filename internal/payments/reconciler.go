package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/modumall/storefront-gateway/pkg/backend"
	pkgerrors "github.com/modumall/storefront-gateway/pkg/errors"
	"github.com/modumall/storefront-gateway/pkg/gateway"
	"github.com/modumall/storefront-gateway/pkg/logger"
	"github.com/modumall/storefront-gateway/pkg/metrics"
)

// Evidence is what the gateway redirect handed back on the success return.
// It is only trusted when the payment key is present and the amounts line up
// with the session.
type Evidence struct {
	OrderID    int64
	PaymentKey string
	Amount     int64
}

// Trusted reports whether the redirect evidence is complete enough to treat
// a later confirm failure as a bookkeeping problem instead of a payment
// failure.
func (e Evidence) Trusted() bool {
	return e.OrderID > 0 && strings.TrimSpace(e.PaymentKey) != "" && e.Amount > 0
}

// ConfirmResult reports the settlement outcome. Warning is set when the
// confirm call failed but the shopper's payment evidence is trusted; the
// success surface proceeds and operations reconcile the order out of band.
type ConfirmResult struct {
	OrderID int64
	Status  string
	Warning error
}

// Reconciler settles a gateway payment against the backend.
type Reconciler interface {
	Confirm(ctx context.Context, memberToken string, ev Evidence) (*ConfirmResult, error)
}

type reconciler struct {
	backend paymentBackend
	logg    *logger.Logger
	metrics *metrics.PaymentMetrics
}

// NewReconciler builds the payment reconciler. Metrics may be nil in tests.
func NewReconciler(backendClient paymentBackend, logg *logger.Logger, m *metrics.PaymentMetrics) (Reconciler, error) {
	if backendClient == nil {
		return nil, fmt.Errorf("payment backend required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &reconciler{backend: backendClient, logg: logg, metrics: m}, nil
}

// Confirm settles the payment. Untrusted evidence fails hard before any
// network call; trusted evidence downgrades a confirm failure to a warning
// because the shopper already paid at the gateway.
func (r *reconciler) Confirm(ctx context.Context, memberToken string, ev Evidence) (*ConfirmResult, error) {
	if !ev.Trusted() {
		r.metrics.IncConfirm("rejected")
		return nil, pkgerrors.New(pkgerrors.CodePayment, "payment result is missing or incomplete").
			WithDetails(map[string]any{"order_id": ev.OrderID})
	}

	resp, err := r.backend.ConfirmPayment(ctx, memberToken, backend.ConfirmPaymentRequest{
		PaymentKey: ev.PaymentKey,
		OrderID:    ev.OrderID,
		Amount:     ev.Amount,
	})
	if err != nil {
		r.metrics.IncConfirm("warning")
		warning := pkgerrors.Wrap(pkgerrors.CodeReconciliation, err, "payment settled at gateway but confirm failed")
		logCtx := r.logg.WithFields(ctx, map[string]any{
			"order_id":    ev.OrderID,
			"payment_key": ev.PaymentKey,
		})
		r.logg.Warn(logCtx, "payment confirm failed after gateway success")
		return &ConfirmResult{OrderID: ev.OrderID, Warning: warning}, nil
	}

	r.metrics.IncConfirm("success")
	return &ConfirmResult{OrderID: resp.OrderID, Status: resp.Status}, nil
}

// FailureReason translates the gateway's failure code for the shopper.
func FailureReason(code string) string {
	return gateway.FailureReason(code)
}
