package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "landtoken",
		Name:      "transitions_total",
		Help:      "State transitions committed, by entity and transition.",
	}, []string{"entity", "transition"})

	sideEffectFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "landtoken",
		Name:      "side_effect_failures_total",
		Help:      "Notification and email side effects that failed and were dropped.",
	}, []string{"kind"})
)

func recordTransition(entity, transition string) {
	transitionsTotal.WithLabelValues(entity, transition).Inc()
}
