package metrics

import "github.com/prometheus/client_golang/prometheus"

var ScansTotalMetrics = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "harmonic_scans_total",
		Help: "number of pattern scans executed",
	}, []string{"scan_type"})

var ScanErrorsMetrics = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "harmonic_scan_errors_total",
		Help: "number of pattern scans that failed",
	})

var PatternsDetectedMetrics = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "harmonic_patterns_detected",
		Help: "patterns found by the most recent scan",
	}, []string{"pattern_type", "direction", "status"})

var ScanDurationMilliseconds = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "harmonic_scan_duration_milliseconds",
		Help:    "wall clock time spent in one pattern scan",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})

var PivotsDetectedMetrics = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "harmonic_pivots_detected",
		Help: "pivot count of the most recent scan",
	})

func init() {
	prometheus.MustRegister(
		ScansTotalMetrics,
		ScanErrorsMetrics,
		PatternsDetectedMetrics,
		ScanDurationMilliseconds,
		PivotsDetectedMetrics,
	)
}
