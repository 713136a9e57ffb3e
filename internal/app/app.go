package app

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/ekremrn/crypto-excel-export/config"
	"github.com/ekremrn/crypto-excel-export/internal/api"
	"github.com/ekremrn/crypto-excel-export/internal/service"
)

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Builds one driver per supported exchange from configuration.
//   - Initializes the export service layer on top of the drivers.
//   - Creates the HTTP handler layer to handle requests.
//   - Configures the Gin router with all routes.
//   - Registers health and readiness probes (readiness pings the default
//     exchange).
//   - Provides a cleanup function to release kept-alive HTTP connections.
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*gin.Engine, func(), error) {
	// Load global configuration
	cfg := config.AppConfig

	// Build exchange drivers
	// indirection for unit testing
	drivers := driversCtor(cfg)

	defaultDriver, ok := drivers[cfg.Exchange]
	if !ok {
		return nil, nil, fmt.Errorf("no driver for configured exchange %q", cfg.Exchange)
	}

	// Initialize service layer (fetch + export orchestration)
	svc := service.NewExportService(cfg.Exchange, drivers)

	// Initialize HTTP handler layer (business logic to HTTP mapping)
	handler := api.NewHandler(svc)

	// Setup Gin router with routes
	router := api.NewRouter(handler, cfg.HTTP.ExportTimeout)

	// Register health and readiness probes
	healthHandler := api.NewHealthHandler(defaultDriver.HealthCheck)
	healthHandler.Register(router)

	// Cleanup resources on shutdown
	cleanup := func() {
		for _, d := range drivers {
			if closer, ok := d.(interface{ CloseIdleConnections() }); ok {
				closer.CloseIdleConnections()
			}
		}
	}

	return router, cleanup, nil
}
