package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adventure_http_requests_total",
			Help: "HTTP requests served, by method, route, and status.",
		},
		[]string{"method", "route", "status"},
	)

	Moves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adventure_moves_total",
			Help: "Successful player moves, by destination room.",
		},
		[]string{"room"},
	)

	MoveFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "adventure_move_failures_total",
			Help: "Moves refused because the direction had no exit.",
		},
	)

	ItemActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adventure_item_actions_total",
			Help: "Item actions applied, by action and outcome.",
		},
		[]string{"action", "outcome"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "adventure_active_sessions",
			Help: "Sessions currently tracked by the session store.",
		},
	)
)
