package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RendersTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "mairiedoc", Name: "renders_total", Help: "Number of PDF render requests that completed successfully."},
	)
	RenderFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mairiedoc", Name: "render_failures_total", Help: "Number of failed PDF renders by reason."},
		[]string{"reason"},
	)
	ArchiveTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mairiedoc", Name: "archive_transitions_total", Help: "Number of archive lifecycle transitions by entity and operation."},
		[]string{"entity", "op"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mairiedoc", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mairiedoc", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RendersTotal)
	reg.MustRegister(RenderFailures)
	reg.MustRegister(ArchiveTransitions)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
