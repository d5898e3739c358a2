package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Processing metrics
	TransactionsProcessed *prometheus.CounterVec
	TransactionsApplied   prometheus.Counter
	TransactionsRejected  prometheus.Counter
	MalformedRecords      prometheus.Counter
	ProcessingDuration    prometheus.Histogram

	// Account metrics
	AccountsCreated prometheus.Counter
	AccountsLocked  prometheus.Counter

	// Event metrics
	EventsPublished prometheus.Counter
	EventErrors     prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Processing metrics
		TransactionsProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payengine_transactions_total",
				Help: "Total number of transactions processed by kind",
			},
			[]string{"kind"},
		),
		TransactionsApplied: promauto.NewCounter(prometheus.CounterOpts{
			Name: "payengine_transactions_applied_total",
			Help: "Total number of transactions applied to an account",
		}),
		TransactionsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "payengine_transactions_rejected_total",
			Help: "Total number of transactions rejected by an account",
		}),
		MalformedRecords: promauto.NewCounter(prometheus.CounterOpts{
			Name: "payengine_malformed_records_total",
			Help: "Total number of input records skipped as malformed",
		}),
		ProcessingDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "payengine_processing_duration_seconds",
			Help:    "Duration of full processing runs",
			Buckets: prometheus.DefBuckets,
		}),

		// Account metrics
		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "payengine_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		AccountsLocked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "payengine_accounts_locked_total",
			Help: "Total number of accounts frozen by a chargeback",
		}),

		// Event metrics
		EventsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "payengine_events_published_total",
			Help: "Total number of events delivered to the publisher",
		}),
		EventErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "payengine_event_errors_total",
			Help: "Total number of event publish failures",
		}),
	}
}
