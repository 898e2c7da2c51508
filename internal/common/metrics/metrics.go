package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry collects the mint protocol counters.
type Registry struct {
	registry            *prometheus.Registry
	mintAttemptsTotal   *prometheus.CounterVec
	paymentOutcomes     *prometheus.CounterVec
	verificationRetries *prometheus.CounterVec
	pendingPayments     prometheus.Gauge
}

func NewRegistry() *Registry {
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mintportal_mint_attempts_total",
		Help: "Total number of mint attempts by terminal state",
	}, []string{"state"})

	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mintportal_payment_outcomes_total",
		Help: "Payment submission outcomes",
	}, []string{"outcome"})

	retries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mintportal_verification_retries_total",
		Help: "Verification retry attempts for unresolved payments",
	}, []string{"result"})

	pending := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mintportal_pending_payments",
		Help: "Payments sent without a confirmed mint",
	})

	r := prometheus.NewRegistry()
	r.MustRegister(attempts, outcomes, retries, pending)

	return &Registry{
		registry:            r,
		mintAttemptsTotal:   attempts,
		paymentOutcomes:     outcomes,
		verificationRetries: retries,
		pendingPayments:     pending,
	}
}

func (m *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Registry) IncMintAttempt(state string) {
	m.mintAttemptsTotal.WithLabelValues(state).Inc()
}

func (m *Registry) IncPaymentOutcome(outcome string) {
	m.paymentOutcomes.WithLabelValues(outcome).Inc()
}

func (m *Registry) IncVerificationRetry(result string) {
	m.verificationRetries.WithLabelValues(result).Inc()
}

func (m *Registry) SetPendingPayments(n float64) {
	m.pendingPayments.Set(n)
}
