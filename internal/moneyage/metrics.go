package moneyage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moneyage_events_processed_total",
		Help: "Number of transaction events processed, by event type.",
	}, []string{"type"})

	allocationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "moneyage_allocations_total",
		Help: "Number of expense allocations performed.",
	})

	recalculationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moneyage_recalculations_total",
		Help: "Number of recalculation passes, by result.",
	}, []string{"result"})

	snapshotsBuilt = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moneyage_snapshots_built_total",
		Help: "Number of snapshots built, by granularity.",
	}, []string{"granularity"})
)
