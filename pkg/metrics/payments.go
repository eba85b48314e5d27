package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PaymentMetrics records dispatch and reconciliation outcomes per payment type.
type PaymentMetrics struct {
	dispatchDuration *prometheus.HistogramVec
	dispatchOutcome  *prometheus.CounterVec
	confirmOutcome   *prometheus.CounterVec
}

// NewPaymentMetrics registers the payment metrics on the provided registerer.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		return &PaymentMetrics{}
	}
	dispatchDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "payment_dispatch_duration_seconds",
		Help:    "Duration of payment dispatch calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"payment_type"})
	dispatchOutcome := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_dispatch_total",
		Help: "Payment dispatch attempts by payment type and outcome.",
	}, []string{"payment_type", "outcome"})
	confirmOutcome := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_confirm_total",
		Help: "Payment confirmation results by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(dispatchDuration, dispatchOutcome, confirmOutcome)
	return &PaymentMetrics{
		dispatchDuration: dispatchDuration,
		dispatchOutcome:  dispatchOutcome,
		confirmOutcome:   confirmOutcome,
	}
}

// ObserveDispatch records the duration for a dispatch of the given type.
func (p *PaymentMetrics) ObserveDispatch(paymentType string, duration time.Duration) {
	if p == nil || p.dispatchDuration == nil {
		return
	}
	p.dispatchDuration.WithLabelValues(normalizeLabel(paymentType)).Observe(duration.Seconds())
}

// IncDispatch increments the dispatch counter for the type/outcome pair.
func (p *PaymentMetrics) IncDispatch(paymentType, outcome string) {
	if p == nil || p.dispatchOutcome == nil {
		return
	}
	p.dispatchOutcome.WithLabelValues(normalizeLabel(paymentType), normalizeLabel(outcome)).Inc()
}

// IncConfirm increments the confirmation counter for the outcome.
func (p *PaymentMetrics) IncConfirm(outcome string) {
	if p == nil || p.confirmOutcome == nil {
		return
	}
	p.confirmOutcome.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
