package culling

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	reasonLabel = "reason"
	stateLabel  = "state"
	opLabel     = "op"
)

var (
	registeredObjects = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fcs_registered_objects",
		Help: "The number of objects in the culling registry.",
	})

	registryCapacity = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fcs_registry_capacity",
		Help: "The allocated capacity of the culling registry.",
	})

	visibleObjects = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fcs_visible_objects",
		Help: "The number of objects inside the frustum after the last evaluation.",
	})

	evaluationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fcs_evaluations_total",
		Help: "The total number of completed evaluation passes.",
	})

	evaluationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fcs_evaluation_duration_seconds",
		Help:    "Time spent in the parallel visibility pass.",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
	})

	skippedCycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fcs_skipped_cycles_total",
		Help: "Eligible cycles skipped without evaluation.",
	}, []string{reasonLabel})

	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fcs_visibility_transitions_total",
		Help: "Visibility state changes delivered to objects.",
	}, []string{stateLabel})

	deferredMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fcs_deferred_mutations_total",
		Help: "Registry mutations queued while an evaluation was in flight.",
	}, []string{opLabel})

	registerFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fcs_register_failures_total",
		Help: "Registrations rejected because the registry could not grow.",
	})
)

func instrumentRegistry(r *Registry) {
	registeredObjects.Set(float64(r.Count()))
	registryCapacity.Set(float64(r.Capacity()))
}

func instrumentSkip(reason string) {
	skippedCycles.With(prometheus.Labels{reasonLabel: reason}).Inc()
}

func instrumentTransition(s State) {
	transitionsTotal.With(prometheus.Labels{stateLabel: s.String()}).Inc()
}

func instrumentDeferred(op string) {
	deferredMutations.With(prometheus.Labels{opLabel: op}).Inc()
}
