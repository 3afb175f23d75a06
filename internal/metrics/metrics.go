// Package metrics registers the Prometheus collectors the engine exposes:
// active fiber counts, make-right outcomes, and status-updater latency.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// ActiveFibers tracks the number of active make-right fibers per namespace.
	ActiveFibers = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "weblogic_operator_active_fibers",
		Help: "Number of currently active make-right fibers, by namespace.",
	}, []string{"namespace"})

	// MakeRightTotal counts completed make-right plans by namespace, plan kind, and outcome.
	MakeRightTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "weblogic_operator_makeright_total",
		Help: "Total make-right plans run, by namespace, plan, and outcome.",
	}, []string{"namespace", "plan", "outcome"})

	// MakeRightFailuresTotal counts make-right throwables per domain.
	MakeRightFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "weblogic_operator_makeright_failures_total",
		Help: "Total make-right fiber failures, by namespace and domain UID.",
	}, []string{"namespace", "domain_uid"})

	// StatusUpdateDuration observes the latency of a single status-read fiber.
	StatusUpdateDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "weblogic_operator_status_update_duration_seconds",
		Help:    "Duration of a single domain status update, by namespace.",
		Buckets: prometheus.DefBuckets,
	}, []string{"namespace"})
)

// MustRegister registers every collector on reg. Call once at startup.
func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(ActiveFibers, MakeRightTotal, MakeRightFailuresTotal, StatusUpdateDuration)
}
