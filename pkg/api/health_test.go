package api

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHealth_WithoutDetailsOmitsSystem(t *testing.T) {
	h := NewHealthService()
	resp, err := h.GetHealth(context.Background(), "local", false)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "local", resp.Environment)
	assert.Nil(t, resp.System)
}

func TestGetHealth_WithDetailsPopulatesSystem(t *testing.T) {
	h := NewHealthService()
	resp, err := h.GetHealth(context.Background(), "production", true)
	require.NoError(t, err)
	require.NotNil(t, resp.System)
	assert.NotEmpty(t, resp.System.GoVersion)
}
