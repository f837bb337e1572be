// Package metrics defines and registers the custom Prometheus metrics of the
// credit marketplace API. HTTP request metrics come from echoprometheus; the
// ones here describe the quota ledger and its audit pipeline.
//
// All metrics register with the default Prometheus registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "credits"

// ── Reservation metrics ───────────────────────────────────────────────────────

// ReservationsTotal counts reservation attempts by outcome.
// Label:
//   - result: "granted", "replayed", "capacity_exceeded", "invalid_quantity",
//     "not_found", "conflict", "idempotency_conflict" or "error"
var ReservationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reservations_total",
		Help:      "Total number of quota reservation attempts, by result.",
	},
	[]string{"result"},
)

// ReservedQuotasTotal counts quota units granted.
var ReservedQuotasTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reserved_quotas_total",
		Help:      "Total number of quota units granted to users.",
	},
)

// ReservationDuration measures the ledger call, retries included.
var ReservationDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "reservation_duration_seconds",
		Help:      "Duration of quota reservations including version-conflict retries.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Audit pipeline metrics ────────────────────────────────────────────────────

// AuditQueueDepth tracks pending audit entries per dispatcher worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of reservation audit entries pending in each worker channel.",
	},
	[]string{"worker_id"},
)

// AuditEntriesDroppedTotal counts entries discarded because a worker was full
// or the dispatcher had stopped.
var AuditEntriesDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_entries_dropped_total",
		Help:      "Total number of reservation audit entries dropped before being written.",
	},
)

// AuditErrorsTotal counts audit entries that failed to persist.
var AuditErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_errors_total",
		Help:      "Total number of reservation audit entries that failed to persist.",
	},
)
