package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/trezcool/darasa/core/session"
)

var prunedSessions = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "darasa",
	Name:      "sessions_pruned_total",
	Help:      "Number of idle sessions forgotten by the janitor.",
})

// newMetricsRegistry exposes the session registry size and the janitor's work.
func newMetricsRegistry(ctx context.Context, svc *session.Service) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "darasa",
			Name:      "sessions_active",
			Help:      "Number of sessions currently held in memory.",
		}, func() float64 {
			n, _ := svc.Count(ctx)
			return float64(n)
		}),
		prunedSessions,
	)
	return reg
}
