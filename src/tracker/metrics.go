package tracker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	viewsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lnrecon_views_applied_total",
		Help: "Partial views merged into tracked entities, by kind and source.",
	}, []string{"kind", "source"})

	applyErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lnrecon_apply_errors_total",
		Help: "Partial views rejected by the engine, by kind and error.",
	}, []string{"kind", "error"})

	diffEntries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lnrecon_diff_entries_total",
		Help: "Changed leaves reported by applied views, by kind.",
	}, []string{"kind"})

	trackedEntities = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "lnrecon_tracked_entities",
		Help: "Entities held by the tracker, by kind.",
	}, []string{"kind"})
)
