package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AdjustmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_adjustments_total",
		Help: "Adjustment attempts by kind and outcome.",
	}, []string{"kind", "outcome"})

	VersionConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_version_conflicts_total",
		Help: "Conditional writes rejected by the version check.",
	})

	ReservationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_reservations_total",
		Help: "Reservation attempts by outcome.",
	}, []string{"outcome"})

	AlertsEmittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_alerts_emitted_total",
		Help: "Alert events emitted on status transitions.",
	}, []string{"status"})
)
