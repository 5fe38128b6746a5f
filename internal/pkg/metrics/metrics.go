// Package metrics defines and registers all custom Prometheus metrics for the
// catalog API. It is the single source of truth for metric names, labels and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catalog"

// ── Authorization metrics ─────────────────────────────────────────────────────

// AuthorizationDecisionsTotal counts guard decisions.
// Labels:
//   - route: the route path as declared in the router (e.g. "/api/products/:id")
//   - decision: "allow" or "deny"
var AuthorizationDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_decisions_total",
		Help:      "Total number of authorization guard decisions.",
	},
	[]string{"route", "decision"},
)

// ── Product metrics ───────────────────────────────────────────────────────────

// ProductMutationsTotal counts product write operations by outcome.
// Labels:
//   - operation: "create", "update", "remove" or "delete_all"
//   - outcome: "committed", "conflict", "not_found" or "rolled_back"
var ProductMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "product_mutations_total",
		Help:      "Total number of product mutations, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// ProductTransactionDuration measures how long a product write holds its
// store session, from begin to commit or rollback.
var ProductTransactionDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "product_transaction_duration_seconds",
		Help:      "Duration of product store transactions.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// ── Event metrics ─────────────────────────────────────────────────────────────

// EventsPublishedTotal counts product events handed to the broker.
// Labels:
//   - type: e.g. "product.updated"
//   - result: "ok", "error", "rejected" (breaker open) or "logged" (no broker)
var EventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Total number of product events published, by type and result.",
	},
	[]string{"type", "result"},
)

// EventsDroppedTotal counts events discarded because a worker queue was full
// or the dispatcher had already been closed.
var EventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_dropped_total",
		Help:      "Total number of product events dropped on a full dispatcher queue.",
	},
)

// EventsQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index ("0", "1", ...)
var EventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
