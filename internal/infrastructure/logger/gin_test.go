package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(mw...)
	return router
}

func TestGinMiddleware(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	router := newTestRouter(
		func(c *gin.Context) { c.Set("request_id", "req-1"); c.Next() },
		GinMiddleware(zap.New(core)),
	)
	router.GET("/api/v1/bills", func(c *gin.Context) {
		assert.Equal(t, "req-1", GetRequestID(c.Request.Context()))
		GetGinLogger(c).Info("inside handler")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/bills?x=1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	inner := recorded.FilterMessage("inside handler").All()
	require.Len(t, inner, 1)
	assert.Equal(t, "req-1", inner[0].ContextMap()["request_id"])

	access := recorded.FilterMessage("HTTP Request").All()
	require.Len(t, access, 1)
	fields := access[0].ContextMap()
	assert.Equal(t, zapcore.InfoLevel, access[0].Level)
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.Equal(t, "/api/v1/bills", fields["route"])
	assert.Equal(t, "x=1", fields["query"])
	assert.Equal(t, "GET", fields["method"])
}

func TestGinMiddleware_StatusLevels(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	router := newTestRouter(GinMiddleware(zap.New(core)))
	router.GET("/bad", func(c *gin.Context) { c.Status(http.StatusConflict) })
	router.GET("/fail", func(c *gin.Context) { c.Status(http.StatusServiceUnavailable) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bad", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

	entries := recorded.FilterMessage("HTTP Request").All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}

func TestGinMiddleware_SkipPaths(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	router := newTestRouter(GinMiddleware(zap.New(core), "/health"))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Zero(t, recorded.FilterMessage("HTTP Request").Len())
}

func TestRecovery(t *testing.T) {
	t.Run("bare 500 without handler", func(t *testing.T) {
		core, recorded := observer.New(zapcore.ErrorLevel)
		router := newTestRouter(Recovery(zap.New(core), nil))
		router.GET("/panic", func(c *gin.Context) { panic("boom") })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		entries := recorded.FilterMessage("Panic recovered").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "boom", entries[0].ContextMap()["error"])
	})

	t.Run("custom response", func(t *testing.T) {
		router := newTestRouter(Recovery(zap.NewNop(), func(c *gin.Context) {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false})
		}))
		router.GET("/panic", func(c *gin.Context) { panic("boom") })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"success":false}`, w.Body.String())
	})
}

func TestGetGinLogger_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.NotNil(t, GetGinLogger(c))
}
