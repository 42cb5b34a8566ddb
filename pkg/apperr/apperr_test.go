package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_MessageIncludesCauseWhenPresent(t *testing.T) {
	e := New(KindProviderTimeout, "fetch timed out", errors.New("context deadline exceeded"))
	assert.Equal(t, "fetch timed out: context deadline exceeded", e.Error())
}

func TestError_MessageAloneWhenNoCause(t *testing.T) {
	e := New(KindInputMalformed, "query too short", nil)
	assert.Equal(t, "query too short", e.Error())
}

func TestAs_FindsErrorThroughWrapping(t *testing.T) {
	inner := New(KindCacheFailure, "redis unreachable", nil)
	wrapped := fmt.Errorf("loading proposition checklist: %w", inner)

	found, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, KindCacheFailure, found.Kind)
}

func TestAs_FalseForPlainError(t *testing.T) {
	_, ok := As(errors.New("plain error"))
	assert.False(t, ok)
}

func TestKind_Propagated(t *testing.T) {
	assert.True(t, KindInputMalformed.Propagated())
	assert.True(t, KindRateLimitExceeded.Propagated())
	assert.False(t, KindReasonerFailure.Propagated())
	assert.False(t, KindProviderTimeout.Propagated())
}
