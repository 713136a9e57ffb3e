package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/ekremrn/crypto-excel-export/internal/middleware"
)

// NewRouter creates a Gin engine with routes configured.
// It receives a Handler instance with all business logic already injected.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, RateLimiter).
//   - Serves the export form at GET /.
//   - Mounts Swagger docs (/swagger/*any).
//   - Configures API v1 routes (/api/v1) with a per-request timeout sized
//     for long paginated exports.
//
// Note:
//   - Health and readiness endpoints (/healthz, /readyz) are registered in app.InitializeApp().
//
// Parameters:
//   - handler (*Handler): The HTTP handler with business logic.
//   - exportTimeout (time.Duration): Budget for one export request.
//
// Returns:
//   - *gin.Engine: Configured Gin router.
func NewRouter(handler *Handler, exportTimeout time.Duration) *gin.Engine {
	router := gin.New()

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		middleware.RateLimiter(),
	)

	// ─── Export form ──────────────────────────────
	router.SetHTMLTemplate(IndexTemplate())
	router.GET("/", handler.Index)

	// ─── Swagger ──────────────────────────────────
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ─── API v1 ───────────────────────────────────
	v1 := router.Group("/api/v1")

	// a full export paginates through the whole range; the timeout has to
	// cover the slowest realistic case, not a single upstream call
	v1.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), exportTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	{
		v1.GET("/klines", handler.GetKlines)
		v1.GET("/export", handler.Export)
	}

	return router
}
