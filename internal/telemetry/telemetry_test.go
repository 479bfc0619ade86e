package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTelemetry_Disabled(t *testing.T) {
	shutdown, err := InitTelemetry(false, "test")
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTelemetry_Enabled(t *testing.T) {
	shutdown, err := InitTelemetry(true, "test")
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	assert.NoError(t, shutdown(context.Background()))
}

func TestTracers(t *testing.T) {
	assert.NotNil(t, GetHTTPTracer())
	assert.NotNil(t, GetServiceTracer())
}
