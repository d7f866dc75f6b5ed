package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	t.Run("production defaults to info", func(t *testing.T) {
		logger, err := NewLogger("production", "")
		require.NoError(t, err)
		require.NotNil(t, logger)

		assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
		assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	})

	t.Run("development defaults to debug", func(t *testing.T) {
		logger, err := NewLogger("development", "")
		require.NoError(t, err)

		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("level override", func(t *testing.T) {
		logger, err := NewLogger("production", "debug")
		require.NoError(t, err)

		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := NewLogger("production", "verbose")
		assert.Error(t, err)
	})
}

func TestMiddleware(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/ping", "204"))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/ping", "204"))
	assert.Equal(t, before+1, after)
}

func TestNormalizePath(t *testing.T) {
	t.Run("without chi route context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/anything", nil)
		assert.Equal(t, "unknown", normalizePath(req))
	})
}

func TestRegisterPipelineMetrics(t *testing.T) {
	// Registering twice must not panic
	RegisterPipelineMetrics()
	RegisterPipelineMetrics()

	IntentFallbacksTotal.Inc()
	assert.GreaterOrEqual(t, testutil.ToFloat64(IntentFallbacksTotal), 1.0)
}
