package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for monitoring request traffic and the best-effort
// view logging path (insert failures never surface to callers, so the
// counters are the only place they are visible).
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"handler", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method"},
	)

	ImageViewsRecordedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "image_views_recorded_total",
			Help: "Total number of image view events persisted",
		},
	)

	BoletoViewsRecordedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "boleto_views_recorded_total",
			Help: "Total number of boleto view events persisted",
		},
	)

	ViewLogFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "view_log_failures_total",
			Help: "Total number of failed view event inserts",
		},
		[]string{"kind"},
	)

	BoletoRejectsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boleto_rejects_total",
			Help: "Total number of boleto requests rejected before redirect",
		},
		[]string{"reason"},
	)
)

// Register registers all Prometheus metrics.
func Register() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(ImageViewsRecordedTotal)
	prometheus.MustRegister(BoletoViewsRecordedTotal)
	prometheus.MustRegister(ViewLogFailuresTotal)
	prometheus.MustRegister(BoletoRejectsTotal)
}
