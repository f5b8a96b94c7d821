package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Entry metrics
	EntriesCreated      *prometheus.CounterVec
	EntriesDeduplicated *prometheus.CounterVec

	// Balance metrics
	Recalculations        prometheus.Counter
	RecalculatedEntries   prometheus.Counter
	RecalculationDuration prometheus.Histogram

	// Advance metrics
	AdvancesCreated    prometheus.Counter
	AdvanceTransitions *prometheus.CounterVec
	Allocations        *prometheus.CounterVec
	AdvanceAmountUsed  prometheus.Counter
	AllocationWarnings prometheus.Counter
	AllocationDuration prometheus.Histogram
	SweepRuns          *prometheus.CounterVec

	// Report metrics
	ReportCacheLookups *prometheus.CounterVec

	// Outbox metrics
	OutboxPublished *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		EntriesCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentledger_entries_created_total",
				Help: "Total ledger entries created by type and category",
			},
			[]string{"type", "category"},
		),
		EntriesDeduplicated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentledger_entries_deduplicated_total",
				Help: "Entry creations that returned an existing entry for the same source",
			},
			[]string{"source"},
		),

		Recalculations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rentledger_recalculations_total",
			Help: "Total full running-balance recalculations",
		}),
		RecalculatedEntries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rentledger_recalculated_entries_total",
			Help: "Entries whose running balance was rewritten by a recalculation",
		}),
		RecalculationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rentledger_recalculation_duration_seconds",
			Help:    "Duration of full running-balance recalculations",
			Buckets: prometheus.DefBuckets,
		}),

		AdvancesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rentledger_advances_created_total",
			Help: "Total advance payments created",
		}),
		AdvanceTransitions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentledger_advance_transitions_total",
				Help: "Advance payments leaving ACTIVE by target status",
			},
			[]string{"status"},
		),
		Allocations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentledger_allocations_total",
				Help: "Advance allocations against payments by outcome",
			},
			[]string{"outcome"},
		),
		AdvanceAmountUsed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rentledger_advance_amount_used_total",
			Help: "Sum of advance credit consumed by allocations",
		}),
		AllocationWarnings: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rentledger_allocation_warnings_total",
			Help: "Usage entries that failed to persist after an allocation committed",
		}),
		AllocationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rentledger_allocation_duration_seconds",
			Help:    "Duration of single-payment allocations",
			Buckets: prometheus.DefBuckets,
		}),
		SweepRuns: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentledger_advance_sweep_runs_total",
				Help: "Advance sweep iterations by result",
			},
			[]string{"result"},
		),

		ReportCacheLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentledger_report_cache_lookups_total",
				Help: "Report cache lookups by result",
			},
			[]string{"result"},
		),

		OutboxPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentledger_outbox_published_total",
				Help: "Outbox events published by event type",
			},
			[]string{"event_type"},
		),

		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentledger_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"path"},
		),

		AuditLogsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentledger_audit_logs_total",
				Help: "Total audit logs created",
			},
			[]string{"action", "status"},
		),
	}
}
