package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"go-forge/internal/catalog"
	"go-forge/internal/industry"
	"go-forge/internal/prices"
	"go-forge/pkg/app"
	"go-forge/pkg/config"
	"go-forge/pkg/module"
	"go-forge/pkg/version"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	_ "go.uber.org/automaxprocs"
)

// customLoggerMiddleware logs requests but excludes health check endpoints
func customLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip logging for health check endpoints
		if strings.HasSuffix(r.URL.Path, "/health") {
			next.ServeHTTP(w, r)
			return
		}

		middleware.Logger(next).ServeHTTP(w, r)
	})
}

func main() {
	versionInfo := version.Get()
	log.Printf("go-forge %s | build: %s", version.GetVersionString(), versionInfo.BuildDate)
	log.Printf("CPUs: %d | GOMAXPROCS: %d", runtime.NumCPU(), runtime.GOMAXPROCS(0))

	ctx := context.Background()

	// Initialize application with shared components
	appCtx, err := app.InitializeApp("forge")
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer appCtx.Shutdown(ctx)

	// Initialize Chi router
	r := chi.NewRouter()

	// Global middleware
	r.Use(customLoggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check endpoint with version info
	r.Get("/health", healthHandler)

	// Initialize modules
	industryModule, err := industry.New(appCtx.SDEService, appCtx.MarketService)
	if err != nil {
		log.Fatalf("Failed to initialize industry module: %v", err)
	}
	catalogModule := catalog.New(appCtx.SDEService)
	pricesModule := prices.New(appCtx.SDEService, appCtx.MarketService)

	modules := []module.Module{industryModule, catalogModule, pricesModule}

	// Create unified Huma API configuration
	apiPrefix := config.GetEnv("API_PREFIX", "/api")
	humaConfig := huma.DefaultConfig("Go Forge API Server", versionInfo.Version)
	humaConfig.Info.Description = "EVE Online manufacturing cost and profitability API"

	var unifiedAPI huma.API
	if apiPrefix == "" {
		unifiedAPI = humachi.New(r, humaConfig)
	} else {
		// Mount the API under the prefix
		r.Route(apiPrefix, func(prefixRouter chi.Router) {
			unifiedAPI = humachi.New(prefixRouter, humaConfig)
		})
	}

	// Register all module routes on the unified API
	industryModule.RegisterUnifiedRoutes(unifiedAPI, "/industry")
	catalogModule.RegisterUnifiedRoutes(unifiedAPI, "/catalog")
	pricesModule.RegisterUnifiedRoutes(unifiedAPI, "/prices")

	// Start background services for all modules
	for _, mod := range modules {
		go mod.StartBackgroundTasks(ctx)
	}

	// Warm the snapshots in the background. Failures are logged and retried
	// lazily on the first query; the server keeps serving either way.
	go warmSnapshots(appCtx)

	// Schedule periodic market snapshot reloads. Cached breakdowns are
	// flushed after every reload so stale prices never leak into results.
	scheduler := cron.New()
	marketCron := config.GetEnv("MARKET_RELOAD_CRON", "0 */6 * * *")
	if _, err := scheduler.AddFunc(marketCron, func() {
		slog.Info("Scheduled market snapshot reload starting")
		if err := appCtx.MarketService.Reload(); err != nil {
			slog.Error("Market snapshot reload failed", "error", err)
			return
		}
		industryModule.FlushCache()
		slog.Info("Market snapshot reload completed")
	}); err != nil {
		log.Fatalf("Invalid MARKET_RELOAD_CRON %q: %v", marketCron, err)
	}
	scheduler.Start()

	// HTTP server setup
	port := app.GetPort("8080")
	host := config.GetEnv("HOST", "0.0.0.0")

	srv := &http.Server{
		Addr:         host + ":" + port,
		Handler:      otelhttp.NewHandler(r, "forge"),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Server: http://%s:%s%s | OpenAPI: %s/openapi.json", host, port, apiPrefix, apiPrefix)

	go func() {
		slog.Info("Starting main API forge server", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Main server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Received shutdown signal, initiating graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cronCtx := scheduler.Stop()
	select {
	case <-cronCtx.Done():
	case <-shutdownCtx.Done():
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Main server forced to shutdown", "error", err)
	}

	for _, mod := range modules {
		mod.Stop()
	}

	appCtx.Shutdown(shutdownCtx)

	slog.Info("Forge shutdown completed successfully")
}

// warmSnapshots loads the static data and market snapshots before the first
// request hits them.
func warmSnapshots(appCtx *app.AppContext) {
	if err := appCtx.SDEService.EnsureLoaded(); err != nil {
		slog.Error("Static data load failed", "error", err)
	}
	if err := appCtx.MarketService.EnsureLoaded(); err != nil {
		slog.Error("Market data load failed", "error", err)
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	slog.Info("Snapshot warm-up finished",
		"heap", formatBytes(m.HeapAlloc),
		"total", formatBytes(m.Sys),
	)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	// Health checks are excluded from logging to reduce noise
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	versionInfo := version.Get()
	response := fmt.Sprintf(`{
		"status": "healthy",
		"version": "%s",
		"git_commit": "%s",
		"build_date": "%s",
		"go_version": "%s",
		"platform": "%s"
	}`, versionInfo.Version, versionInfo.GitCommit, versionInfo.BuildDate, versionInfo.GoVersion, versionInfo.Platform)

	w.Write([]byte(response))
}

// formatBytes converts bytes to human readable format
func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
