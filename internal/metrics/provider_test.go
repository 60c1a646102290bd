package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	provider, err := NewProvider("leasehold")
	require.NoError(t, err)
	require.NotNil(t, provider.MeterProvider())

	t.Cleanup(func() {
		_ = provider.Shutdown(context.Background())
	})
}

func TestProviderHandlerServesMetrics(t *testing.T) {
	provider, err := NewProvider("leasehold")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = provider.Shutdown(context.Background())
	})

	business, err := NewBusinessMetrics(provider.MeterProvider(), "leasehold")
	require.NoError(t, err)
	business.RecordOperation(context.Background(), "lease", "create", "success")
	business.RecordDuration(context.Background(), "lease", "create", 10*time.Millisecond, "success")

	recorder := httptest.NewRecorder()
	provider.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	body, err := io.ReadAll(recorder.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "leasehold_operations_total")
}

func TestNoOpBusinessMetrics(t *testing.T) {
	metrics := NewNoOpBusinessMetrics()
	assert.NotPanics(t, func() {
		metrics.RecordOperation(context.Background(), "lease", "create", "success")
		metrics.RecordDuration(context.Background(), "lease", "create", time.Second, "error")
	})
}
