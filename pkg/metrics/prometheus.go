package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	pairsProcessed  *prometheus.CounterVec
	pairsSkipped    *prometheus.CounterVec
	pairsFailed     *prometheus.CounterVec
	recordsUpserted prometheus.Counter
	changePercent   *prometheus.GaugeVec
	latency         *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		pairsProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pricetrack_pairs_processed_total",
				Help: "Total (geo, product) pairs fully processed",
			},
			[]string{"geo"},
		),
		pairsSkipped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pricetrack_pairs_skipped_total",
				Help: "Total pairs skipped, by reason",
			},
			[]string{"reason"},
		),
		pairsFailed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pricetrack_pairs_failed_total",
				Help: "Total pairs that failed processing",
			},
			[]string{"geo"},
		),
		recordsUpserted: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "pricetrack_records_upserted_total",
				Help: "Total observation records upserted during ingestion",
			},
		),
		changePercent: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pricetrack_change_percent",
				Help: "Latest month-over-month change percent per pair",
			},
			[]string{"geo", "product"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pricetrack_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordPairProcessed records a fully processed pair.
func (r *Recorder) RecordPairProcessed(geo string) {
	r.pairsProcessed.WithLabelValues(geo).Inc()
}

// RecordPairSkipped records a skipped pair with its reason.
func (r *Recorder) RecordPairSkipped(reason string) {
	r.pairsSkipped.WithLabelValues(reason).Inc()
}

// RecordPairFailed records a failed pair.
func (r *Recorder) RecordPairFailed(geo string) {
	r.pairsFailed.WithLabelValues(geo).Inc()
}

// RecordRecordsUpserted adds to the ingestion upsert counter.
func (r *Recorder) RecordRecordsUpserted(n int) {
	r.recordsUpserted.Add(float64(n))
}

// RecordChangePercent records the latest change percent for a pair.
func (r *Recorder) RecordChangePercent(geo, product string, pct float64) {
	r.changePercent.WithLabelValues(geo, product).Set(pct)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
