package metrics

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const unmatchedRoute = "unmatched"

// HTTPMetrics groups the request collectors.
type HTTPMetrics struct {
	ReqTotal *prometheus.CounterVec
	ReqDur   *prometheus.HistogramVec
	InFlight prometheus.Gauge
}

// NewHTTPMetrics registers the HTTP collectors on reg, or the default
// registerer when reg is nil. Buckets are milliseconds.
func NewHTTPMetrics(namespace string, buckets []float64, reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if len(buckets) == 0 {
		buckets = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500}
	} else {
		sort.Float64s(buckets)
	}

	m := &HTTPMetrics{
		ReqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled by the server.",
		}, []string{"method", "route", "status"}),
		ReqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency distribution in milliseconds.",
			Buckets:   buckets,
		}, []string{"method", "route"}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
	}

	m.ReqTotal = registerOrExisting(reg, m.ReqTotal)
	m.ReqDur = registerOrExisting(reg, m.ReqDur)
	m.InFlight = registerOrExisting(reg, m.InFlight)
	return m
}

// Middleware labels by the matched route template so path parameters such
// as employee names never become label values.
func (m *HTTPMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.InFlight.Inc()
		defer m.InFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		method := c.Request.Method
		m.ReqTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.ReqDur.WithLabelValues(method, route).Observe(DurationMillis(time.Since(start)))
	}
}

// PayslipMetrics counts domain outcomes.
type PayslipMetrics struct {
	Generated        *prometheus.CounterVec
	StrategySwitches *prometheus.CounterVec
}

func NewPayslipMetrics(namespace string, reg prometheus.Registerer) *PayslipMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &PayslipMetrics{
		Generated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payslips_generated_total",
			Help:      "Count of payslip generation attempts by strategy kind and result.",
		}, []string{"strategy", "result"}),
		StrategySwitches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tax_strategy_switches_total",
			Help:      "Count of tax strategy switches by target kind and result.",
		}, []string{"kind", "result"}),
	}

	m.Generated = registerOrExisting(reg, m.Generated)
	m.StrategySwitches = registerOrExisting(reg, m.StrategySwitches)
	return m
}

// ObserveGenerated is nil-safe so handlers can run without metrics.
func (m *PayslipMetrics) ObserveGenerated(strategy string, err error) {
	if m == nil {
		return
	}
	m.Generated.WithLabelValues(strategy, result(err)).Inc()
}

func (m *PayslipMetrics) ObserveStrategySwitch(kind string, err error) {
	if m == nil {
		return
	}
	m.StrategySwitches.WithLabelValues(kind, result(err)).Inc()
}

// DurationMillis converts a duration to milliseconds for observation.
func DurationMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// registerOrExisting returns the already registered collector when an
// identical one exists, so building the router twice in one process is safe.
func registerOrExisting[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(fmt.Errorf("register collector: %w", err))
	}
	return c
}
