package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricPrefix = "payroll_"

	ResultSuccess = "success"
	ResultInvalid = "invalid"
	ResultError   = "error"

	KindLine    = "line"
	KindRun     = "run"
	KindApprove = "approve"
)

var (
	registerOnce sync.Once

	calculationsTotal   *prometheus.CounterVec
	linesCalculated     prometheus.Counter
	calculationLatency  *prometheus.HistogramVec
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
)

// Init registers the collectors with the default registry. Observe calls made
// before Init are dropped.
func Init() {
	registerOnce.Do(func() {
		calculationsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "calculations_total",
				Help: "Payroll calculations by kind and result",
			},
			[]string{"kind", "result"},
		)
		linesCalculated = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "lines_calculated_total",
				Help: "Employee lines run through gross-to-net",
			},
		)
		calculationLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "calculation_duration_seconds",
				Help:    "Payroll calculation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		)
		httpRequestsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "HTTP requests by method and status",
			},
			[]string{"method", "status"},
		)
		httpRequestDuration = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		)

		prometheus.MustRegister(
			calculationsTotal,
			linesCalculated,
			calculationLatency,
			httpRequestsTotal,
			httpRequestDuration,
		)
	})
}

func ObserveCalculation(kind, result string, lines int, duration time.Duration) {
	if calculationsTotal == nil {
		return
	}
	calculationsTotal.WithLabelValues(kind, result).Inc()
	calculationLatency.WithLabelValues(kind).Observe(duration.Seconds())
	if result == ResultSuccess && lines > 0 {
		linesCalculated.Add(float64(lines))
	}
}

func ObserveHTTP(method string, status int, duration time.Duration) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

func Handler() http.Handler {
	return promhttp.Handler()
}
