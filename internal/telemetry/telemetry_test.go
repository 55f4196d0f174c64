package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Disabled_NeverSamples(t *testing.T) {
	p, err := New(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, p)

	_, span := p.Tracer().Start(context.Background(), "test")
	defer span.End()

	assert.False(t, span.IsRecording())
}

func TestNew_Enabled_Samples(t *testing.T) {
	p, err := New(context.Background(), Config{Enabled: true, ServiceName: "cx-gateway-test"})
	require.NoError(t, err)
	defer p.Shutdown(context.Background())

	_, span := p.Tracer().Start(context.Background(), "test")
	defer span.End()

	assert.True(t, span.IsRecording())
}

func TestWrapServer_ServesRequest(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	wrapped := WrapServer("test-op", inner)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTraceID_EmptyWithoutSpan(t *testing.T) {
	assert.Equal(t, "", TraceID(context.Background()))
}
