// Package metrics exposes Prometheus instruments for document processing.
package metrics

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for processed documents
const (
	OutcomeRecorded = "recorded"
	OutcomeSkipped  = "skipped"
	OutcomeFailed   = "failed"
)

// Metrics holds the service's Prometheus collectors
type Metrics struct {
	Documents         *prometheus.CounterVec
	RetrievalDuration prometheus.Histogram
	AnalysisDuration  prometheus.Histogram
	FogIndex          prometheus.Histogram

	dbOpenConnections prometheus.Gauge
	dbInUse           prometheus.Gauge
	dbIdle            prometheus.Gauge
	dbWaitCount       prometheus.Gauge
}

// New registers the collectors with reg under namespace
func New(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Documents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Documents processed, by outcome.",
		}, []string{"outcome"}),
		RetrievalDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "retrieval_duration_seconds",
			Help:      "Time spent fetching document content.",
			Buckets:   prometheus.DefBuckets,
		}),
		AnalysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time spent computing lexical metrics for one document.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		FogIndex: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fog_index",
			Help:      "Distribution of computed fog index values.",
			Buckets:   prometheus.LinearBuckets(0, 5, 10),
		}),
		dbOpenConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "open_connections",
			Help:      "Established database connections.",
		}),
		dbInUse: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "in_use_connections",
			Help:      "Database connections currently in use.",
		}),
		dbIdle: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "idle_connections",
			Help:      "Idle database connections.",
		}),
		dbWaitCount: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "wait_count",
			Help:      "Total connections waited for.",
		}),
	}
}

// UpdateDBStats copies connection pool stats into the db gauges
func (m *Metrics) UpdateDBStats(conn *sql.DB) {
	stats := conn.Stats()
	m.dbOpenConnections.Set(float64(stats.OpenConnections))
	m.dbInUse.Set(float64(stats.InUse))
	m.dbIdle.Set(float64(stats.Idle))
	m.dbWaitCount.Set(float64(stats.WaitCount))
}
