package apperr

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecord_IncrementsCounterForKind(t *testing.T) {
	before := testutil.ToFloat64(errorsTotal.WithLabelValues(string(KindVerifierDetail)))

	New(KindVerifierDetail, "detail fetch failed", nil).Record()

	after := testutil.ToFloat64(errorsTotal.WithLabelValues(string(KindVerifierDetail)))
	assert.Equal(t, before+1, after)
}

func TestRecord_ReturnsTheSameError(t *testing.T) {
	e := New(KindConfigError, "missing required env var", nil)
	assert.Same(t, e, e.Record())
}
