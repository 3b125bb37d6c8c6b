package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Event metrics
	EventsRecorded  *prometheus.CounterVec
	EventsReversed  prometheus.Counter
	Adjustments     prometheus.Counter
	ProcessDuration prometheus.Histogram
	ProcessErrors   *prometheus.CounterVec

	// Ledger metrics
	EntriesPosted   prometheus.Counter
	AccountsCreated prometheus.Counter

	// Rule metrics
	RulesAdded prometheus.Counter
	RuleMisses prometheus.Counter

	// Database metrics
	DBConnections prometheus.Gauge

	// Outbox metrics
	OutboxPending   prometheus.Gauge
	OutboxPublished prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		EventsRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookledger_events_recorded_total",
				Help: "Total accounting events recorded, by kind",
			},
			[]string{"kind"},
		),
		EventsReversed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bookledger_events_reversed_total",
			Help: "Total accounting events reversed",
		}),
		Adjustments: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bookledger_adjustments_total",
			Help: "Total adjustments applied",
		}),
		ProcessDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "bookledger_event_process_duration_seconds",
			Help:    "Duration of event processing",
			Buckets: prometheus.DefBuckets,
		}),
		ProcessErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookledger_event_process_errors_total",
				Help: "Total event processing errors by type",
			},
			[]string{"error_type"},
		),
		EntriesPosted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bookledger_entries_posted_total",
			Help: "Total ledger entries posted",
		}),
		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bookledger_accounts_created_total",
			Help: "Total accounts created",
		}),
		RulesAdded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bookledger_posting_rules_added_total",
			Help: "Total posting rules added",
		}),
		RuleMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bookledger_posting_rule_misses_total",
			Help: "Events that resolved to no posting rule",
		}),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "bookledger_db_connections",
			Help: "Current number of database connections",
		}),
		OutboxPending: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "bookledger_outbox_pending",
			Help: "Outbox records waiting to be published",
		}),
		OutboxPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bookledger_outbox_published_total",
			Help: "Total outbox records published",
		}),
	}
}
