package services

import "github.com/prometheus/client_golang/prometheus"

var (
	searchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geekseek_search_requests_total",
			Help: "Total number of searches by mode and outcome (ok, failed, superseded).",
		},
		[]string{"mode", "status"},
	)
	upstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "geekseek_upstream_request_duration_seconds",
			Help:    "Latency of upstream GeekSeek requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)
	normalizedRowsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "geekseek_compare_rows_total",
			Help: "Total number of comparison rows emitted after normalization.",
		},
	)
	emptyComparisonsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "geekseek_compare_empty_tables_total",
			Help: "Comparisons that produced no structured rows and fell back to text.",
		},
	)
	searchLogExportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geekseek_search_log_exports_total",
			Help: "Nightly search log export runs by outcome.",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(
		searchRequestsTotal,
		upstreamDuration,
		normalizedRowsTotal,
		emptyComparisonsTotal,
		searchLogExportsTotal,
	)
}
