package runtime

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Dispatch outcomes
const (
	OutcomeOK           = "ok"
	OutcomeRejected     = "rejected"
	OutcomeHandlerError = "handler_error"
	OutcomeConvertError = "convert_error"
)

// shapeUnknown labels payloads that matched no shape; shapePassthrough labels
// dispatches that skipped classification.
const (
	shapeUnknown     = "unknown"
	shapePassthrough = "passthrough"
)

// Metrics counts dispatches. A nil *Metrics records nothing.
type Metrics struct {
	dispatches *prometheus.CounterVec
}

// NewMetrics registers the dispatch counters with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		dispatches: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "action_runtime_dispatch_total",
			Help: "Total invocations dispatched, by detected shape and outcome",
		}, []string{"shape", "outcome"}),
	}
}

func (m *Metrics) observe(shape, outcome string) {
	if m == nil {
		return
	}
	m.dispatches.WithLabelValues(shape, outcome).Inc()
}
