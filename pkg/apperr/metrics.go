package apperr

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// errorsTotal counts every typed error raised anywhere in the retrieval
// core, labeled by Kind, mirroring the teacher's per-classifier-provider
// error counters.
var errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "casesearch_errors_total",
	Help: "Total typed errors raised by the retrieval core, by kind.",
}, []string{"kind"})

// Record increments the counter for this error's kind. Call once at the
// point an *Error is finally handled (HTTP boundary or pipeline stage),
// not at every Unwrap.
func (e *Error) Record() *Error {
	errorsTotal.WithLabelValues(string(e.Kind)).Inc()
	return e
}
