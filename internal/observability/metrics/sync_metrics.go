package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SyncMetrics captures batch synchronization health signals.
type SyncMetrics struct {
	batches       *prometheus.CounterVec
	items         *prometheus.CounterVec
	batchSize     prometheus.Histogram
	batchDuration prometheus.Histogram
}

var (
	syncMetricsOnce sync.Once
	syncMetrics     *SyncMetrics
)

// Sync returns the singleton sync metrics registry.
func Sync() *SyncMetrics {
	syncMetricsOnce.Do(func() {
		syncMetrics = newSyncMetrics(prometheus.DefaultRegisterer)
	})
	return syncMetrics
}

func newSyncMetrics(registerer prometheus.Registerer) *SyncMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &SyncMetrics{
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fieldsync_sync_batches_total",
			Help: "Processed sync batches by vendor.",
		}, []string{"vendor_id"}),
		items: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fieldsync_sync_items_total",
			Help: "Processed batch items by kind and outcome.",
		}, []string{"kind", "outcome"}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fieldsync_sync_batch_items",
			Help:    "Items per processed batch.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fieldsync_sync_batch_duration_seconds",
			Help:    "End-to-end batch processing time.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
	}

	registerer.MustRegister(m.batches, m.items, m.batchSize, m.batchDuration)
	return m
}

// IncItem records one batch item outcome (committed, replayed or failed).
func (m *SyncMetrics) IncItem(kind, outcome string) {
	if m == nil {
		return
	}
	m.items.WithLabelValues(kind, outcome).Inc()
}

// ObserveBatch records a completed batch.
func (m *SyncMetrics) ObserveBatch(vendorID string, itemCount int, took time.Duration) {
	if m == nil {
		return
	}
	m.batches.WithLabelValues(vendorID).Inc()
	m.batchSize.Observe(float64(itemCount))
	m.batchDuration.Observe(took.Seconds())
}
