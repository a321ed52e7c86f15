package metrics

import (
	"strconv"
	"time"

	"github.com/jordanlanch/careconnect/pkg/domain"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestSize     *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Business metrics
	CheckoutSessions *prometheus.CounterVec
	CheckoutFailures *prometheus.CounterVec
	SignupOutcomes   *prometheus.CounterVec
	ActiveWizards    prometheus.Gauge

	// Data store metrics
	PlanLookupDuration *prometheus.HistogramVec
	DBConnections      prometheus.Gauge
}

// New creates a Metrics instance registered on the default registry
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a Metrics instance registered on reg
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	sizeBuckets := []float64{100, 1000, 5000, 10000, 50000, 100000, 500000, 1000000}

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: sizeBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: sizeBuckets,
			},
			[]string{"method", "path"},
		),

		CheckoutSessions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkout_sessions_created_total",
				Help: "Total number of checkout sessions created",
			},
			[]string{"type"}, // buyer_pro, tokens, seller_plus
		),
		CheckoutFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkout_failures_total",
				Help: "Total number of rejected or failed checkout requests",
			},
			[]string{"type", "reason"},
		),
		SignupOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signup_wizard_outcomes_total",
				Help: "Total number of closed sign-up wizards by outcome",
			},
			[]string{"outcome"}, // signed_in, confirmed, timeout, cancelled
		),
		ActiveWizards: factory.NewGauge(prometheus.GaugeOpts{
			Name: "signup_wizards_active",
			Help: "Number of open sign-up wizards",
		}),

		PlanLookupDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "plan_lookup_duration_seconds",
				Help:    "Plan lookup duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"kind", "result"}, // subscription|token, ok|not_found|error
		),
		DBConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		}),
	}
}

// Middleware creates an Echo middleware for Prometheus metrics
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			path := c.Path() // route pattern, e.g. /api/signup/wizards/:id

			if req.ContentLength > 0 {
				m.HTTPRequestSize.WithLabelValues(req.Method, path).Observe(float64(req.ContentLength))
			}

			err := next(c)

			status := strconv.Itoa(c.Response().Status)
			m.HTTPRequestsTotal.WithLabelValues(req.Method, path, status).Inc()
			m.HTTPRequestDuration.WithLabelValues(req.Method, path, status).Observe(time.Since(start).Seconds())
			m.HTTPResponseSize.WithLabelValues(req.Method, path).Observe(float64(c.Response().Size))

			return err
		}
	}
}

// RecordCheckoutSession increments the created sessions counter
func (m *Metrics) RecordCheckoutSession(purchaseType string) {
	m.CheckoutSessions.WithLabelValues(purchaseType).Inc()
}

// RecordCheckoutFailure increments the checkout failures counter
func (m *Metrics) RecordCheckoutFailure(purchaseType, reason string) {
	m.CheckoutFailures.WithLabelValues(purchaseType, reason).Inc()
}

// RecordSignupOutcome increments the wizard outcome counter
func (m *Metrics) RecordSignupOutcome(outcome string) {
	m.SignupOutcomes.WithLabelValues(outcome).Inc()
}

// SetActiveWizards updates the open wizards gauge
func (m *Metrics) SetActiveWizards(count int) {
	m.ActiveWizards.Set(float64(count))
}

// ObservePlanLookup records a plan lookup
func (m *Metrics) ObservePlanLookup(kind string, duration time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
		if domain.IsNotFound(err) {
			result = "not_found"
		}
	}
	m.PlanLookupDuration.WithLabelValues(kind, result).Observe(duration.Seconds())
}

// UpdateDBConnections updates active database connections gauge
func (m *Metrics) UpdateDBConnections(count float64) {
	m.DBConnections.Set(count)
}
