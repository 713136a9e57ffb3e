package main

//
//  @title           crypto-excel-export API
//  @version         1.0
//  @description     Historical crypto k-line fetch & spreadsheet export service.
//  @termsOfService  https://github.com/ekremrn/crypto-excel-export
//  @contact.name    API Support
//  @contact.url     https://github.com/ekremrn/crypto-excel-export
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        klines
//  @tag.description Endpoints for previewing and exporting candle data
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ekremrn/crypto-excel-export/config"
	_ "github.com/ekremrn/crypto-excel-export/docs" // swagger docs registration
	"github.com/ekremrn/crypto-excel-export/internal/app"
	"github.com/ekremrn/crypto-excel-export/internal/batch"
	"github.com/ekremrn/crypto-excel-export/internal/domain/models"
	"github.com/ekremrn/crypto-excel-export/internal/logger"
	"github.com/ekremrn/crypto-excel-export/internal/service"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		// exports stream for as long as the fetch loop runs
		WriteTimeout: config.AppConfig.HTTP.ExportTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (e.g., idle connections).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// splitList turns a comma-separated flag value into trimmed non-empty parts.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseIntervals converts a comma-separated interval list ("1d,4h") into
// canonical intervals, failing on the first unknown one.
func parseIntervals(s string) ([]models.Interval, error) {
	var out []models.Interval
	for _, part := range splitList(s) {
		iv, err := models.ParseInterval(part)
		if err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	return out, nil
}

// parseDate parses a YYYY-MM-DD flag value as a UTC date.
func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// main is the entry point of the crypto-excel-export application.
//
// Modes (selected via --mode flag):
//   - serve:  Starts the HTTP server with the export form and JSON/download API.
//   - export: One-shot CLI export of one or more symbol/interval combinations.
//
// Flags:
//   - --mode:      Execution mode ("serve" or "export"). Default: "serve".
//   - --port:      Port for serve mode. Defaults to value from config (SERVER_PORT).
//   - --exchange:  Exchange for export mode ("binance" or "kucoin"). Defaults to config (EXCHANGE).
//   - --symbols:   Comma-separated trading pairs for export mode (e.g. "BTCUSDT,ETHUSDT").
//   - --intervals: Comma-separated intervals for export mode (e.g. "1d,4h").
//   - --start:     Range start date (YYYY-MM-DD), required in export mode.
//   - --end:       Range end date (YYYY-MM-DD). Default: today.
//   - --outdir:    Output directory for export mode. Default: "./data/export".
//   - --out:       Explicit output file; single symbol/interval only.
//   - --parallel:  Concurrent export jobs (0=auto up to 4, max 8).
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	// Parse CLI flags (override config defaults if provided)
	mode := flag.String("mode", "serve", "Mode: serve or export")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for serve mode")
	exchangeName := flag.String("exchange", config.AppConfig.Exchange, "Exchange: binance or kucoin")
	symbols := flag.String("symbols", "", "Comma-separated trading pairs (e.g. BTCUSDT,ETHUSDT)")
	intervals := flag.String("intervals", "1d", "Comma-separated intervals (e.g. 1d,4h)")
	start := flag.String("start", "", "Range start date, YYYY-MM-DD")
	end := flag.String("end", "", "Range end date, YYYY-MM-DD (default: today)")
	outDir := flag.String("outdir", "./data/export", "Output directory for exported workbooks")
	outFile := flag.String("out", "", "Explicit output file (single symbol/interval only)")
	parallel := flag.Int("parallel", 0, "Concurrent export jobs (0=auto up to 4, max 8)")
	flag.Parse()

	switch *mode {
	case "serve":
		// Serve mode: start the HTTP server
		logger.L().Info().Msg("starting HTTP server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	case "export":
		// Export mode: fetch and write workbooks, then exit
		logger.L().Info().Msg("running one-shot export")

		opts := batch.Options{
			Exchange: *exchangeName,
			Symbols:  splitList(*symbols),
			OutDir:   *outDir,
			OutFile:  *outFile,
			Parallel: *parallel,
		}

		ivs, err := parseIntervals(*intervals)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("invalid --intervals")
		}
		opts.Intervals = ivs

		if *start == "" {
			logger.L().Fatal().Msg("--start is required in export mode")
		}
		if opts.Start, err = parseDate(*start); err != nil {
			logger.L().Fatal().Err(err).Msg("invalid --start")
		}

		opts.End = time.Now().UTC().Truncate(24 * time.Hour)
		if *end != "" {
			if opts.End, err = parseDate(*end); err != nil {
				logger.L().Fatal().Err(err).Msg("invalid --end")
			}
		}

		svc := service.NewExportService(config.AppConfig.Exchange, app.BuildDrivers(config.AppConfig))
		if err := batch.Run(ctx, svc, opts); err != nil {
			logger.L().Fatal().Err(err).Msg("export failed")
		}
		logger.L().Info().Msg("export completed successfully")

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
