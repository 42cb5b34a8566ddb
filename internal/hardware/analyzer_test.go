package hardware

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzer_AnalyzeReturnsPositiveCoreCount(t *testing.T) {
	a := NewAnalyzer()
	analysis, err := a.Analyze(context.Background())
	require.NoError(t, err)
	assert.Greater(t, analysis.CPU.Cores, 0)
}

func TestAnalyzer_AnalyzeWithTimeoutDoesNotHang(t *testing.T) {
	a := NewAnalyzer()
	done := make(chan struct{})
	var err error
	go func() {
		_, err = a.AnalyzeWithTimeout(5 * time.Second)
		close(done)
	}()

	select {
	case <-done:
		assert.NoError(t, err)
	case <-time.After(6 * time.Second):
		t.Fatal("AnalyzeWithTimeout did not return within its own timeout budget")
	}
}
