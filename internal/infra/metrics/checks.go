package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(checksProcessedTotal, checkScanSeconds, checkHits) }

var checksProcessedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "checks_processed_total",
		Help: "Total number of check jobs finished, labeled by terminal status.",
	},
	[]string{"status"}, // 'completed', 'failed'
)

var checkScanSeconds = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "check_scan_seconds",
		Help:    "Wall time of one background scan.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
	},
)

var checkHits = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "check_hits",
		Help:    "Number of duplicate hits kept per completed scan.",
		Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 200},
	},
)

func IncCheck(status string) {
	checksProcessedTotal.WithLabelValues(status).Inc()
}

func ObserveScan(seconds float64, hits int) {
	checkScanSeconds.Observe(seconds)
	checkHits.Observe(float64(hits))
}
