package router

import (
	"github.com/erp/bills/internal/infrastructure/logger"
	"github.com/erp/bills/internal/infrastructure/telemetry"
	"github.com/erp/bills/internal/interfaces/http/handler"
	"github.com/erp/bills/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthPath is served without access logs or server spans
const HealthPath = "/health"

// EngineConfig holds the settings of the gin engine and its middleware stack
type EngineConfig struct {
	TrustedProxies []string
	CORS           middleware.CORSConfig
	MaxBodySize    int64
	Tracing        middleware.TracingConfig
	// HTTPMetrics may be nil
	HTTPMetrics *telemetry.HTTPMetrics
}

// NewEngine creates a gin engine with the middleware stack applied in order:
//  1. RequestID - generate/propagate the request ID
//  2. Recovery - turn panics into the 500 envelope
//  3. Logger - one access-log line per request
//  4. Secure - security headers
//  5. CORS
//  6. BodyLimit
//  7. Tracing, SpanErrorMarker - otel server span
//  8. HTTPMetrics - request duration histogram
func NewEngine(cfg EngineConfig, log *zap.Logger) *gin.Engine {
	middleware.SetupValidator()

	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	if len(cfg.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	tracing := cfg.Tracing
	tracing.SkipPaths = append(tracing.SkipPaths, HealthPath)

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log, handler.PanicResponse))
	engine.Use(logger.GinMiddleware(log, HealthPath))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(cfg.CORS))
	engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	engine.Use(middleware.Tracing(tracing))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(cfg.HTTPMetrics))

	engine.NoRoute(handler.NoRoute)
	engine.NoMethod(handler.NoMethod)

	return engine
}

// RegisterSystemRoutes registers GET / and GET /health
func RegisterSystemRoutes(engine *gin.Engine, h *handler.SystemHandler) {
	engine.GET("/", h.Root)
	engine.GET(HealthPath, h.Health)
}

// BillRoutes returns the bill endpoints, mounted under the versioned API group
func BillRoutes(h *handler.BillHandler) *DomainGroup {
	return NewDomainGroup("billing", "").
		GET("/bills", h.ListBills).
		POST("/bills", h.CreateBill).
		GET("/bills-minimal", h.ListBillsMinimal)
}
