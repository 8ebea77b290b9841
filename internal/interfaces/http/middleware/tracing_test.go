package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func newTracedRouter(cfg TracingConfig) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Tracing(cfg), SpanErrorMarker())
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/v1/bills", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/api/v1/bills", func(c *gin.Context) { c.Status(http.StatusConflict) })
	return r
}

func TestTracing(t *testing.T) {
	t.Run("records server spans", func(t *testing.T) {
		sr := setupTestTracer(t)
		r := newTracedRouter(TracingConfig{ServiceName: "bills-api", Enabled: true})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/bills", nil)
		req.Header.Set(RequestIDHeader, "req-7")
		serve(r, req)

		spans := sr.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, "GET /api/v1/bills", spans[0].Name())
		assert.Contains(t, spans[0].Attributes(), attribute.String("request_id", "req-7"))
		assert.NotEqual(t, codes.Error, spans[0].Status().Code)
	})

	t.Run("error status marks span", func(t *testing.T) {
		sr := setupTestTracer(t)
		r := newTracedRouter(TracingConfig{ServiceName: "bills-api", Enabled: true})

		serve(r, httptest.NewRequest(http.MethodPost, "/api/v1/bills", nil))

		spans := sr.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status().Code)
	})

	t.Run("skip paths", func(t *testing.T) {
		sr := setupTestTracer(t)
		r := newTracedRouter(TracingConfig{ServiceName: "bills-api", Enabled: true, SkipPaths: []string{"/health"}})

		serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Empty(t, sr.Ended())
	})

	t.Run("disabled", func(t *testing.T) {
		sr := setupTestTracer(t)
		r := newTracedRouter(TracingConfig{Enabled: false})

		w := serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/bills", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, sr.Ended())
	})
}
