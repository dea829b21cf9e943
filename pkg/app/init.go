package app

import (
	"context"
	"log"
	"log/slog"

	"go-forge/pkg/config"
	"go-forge/pkg/logging"
	"go-forge/pkg/market"
	"go-forge/pkg/sde"

	"github.com/joho/godotenv"
)

// AppContext holds the shared application context and dependencies
type AppContext struct {
	SDEService       sde.SDEService
	MarketService    *market.Service
	TelemetryManager *logging.TelemetryManager
	ServiceName      string
	shutdownFuncs    []func(context.Context) error
}

// InitializeApp initializes common application dependencies
func InitializeApp(serviceName string) (*AppContext, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading it: %v", err)
	}

	ctx := context.Background()

	// Initialize telemetry
	telemetryManager := logging.NewTelemetryManager()
	if err := telemetryManager.Initialize(ctx); err != nil {
		log.Printf("Warning: Failed to initialize telemetry: %v", err)
		// Continue without telemetry rather than failing
	}

	// Initialize the static data service. Nothing is read from disk until
	// the first query.
	sdeDataDir := config.GetEnv("SDE_DATA_DIR", "data/sde")
	sdeService := sde.NewService(sdeDataDir)
	slog.Info("SDE service initialized", "data_dir", sdeDataDir)

	// Initialize the market price service.
	marketDataDir := config.GetEnv("MARKET_DATA_DIR", "data/market")
	defaultRegion := config.GetIntEnv("DEFAULT_REGION_ID", 10000002)
	marketService := market.NewService(marketDataDir, defaultRegion)
	slog.Info("Market service initialized", "data_dir", marketDataDir, "default_region", defaultRegion)

	appCtx := &AppContext{
		SDEService:       sdeService,
		MarketService:    marketService,
		TelemetryManager: telemetryManager,
		ServiceName:      serviceName,
	}

	if telemetryManager != nil {
		appCtx.shutdownFuncs = append(appCtx.shutdownFuncs, telemetryManager.Shutdown)
	}

	return appCtx, nil
}

// Shutdown gracefully shuts down all application dependencies
func (a *AppContext) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down application", "service", a.ServiceName)

	for _, shutdown := range a.shutdownFuncs {
		if err := shutdown(ctx); err != nil {
			slog.Error("Error during shutdown", "error", err)
		}
	}

	slog.Info("Application shutdown completed", "service", a.ServiceName)
	return nil
}

// GetPort returns the port from environment or default
func GetPort(defaultPort string) string {
	return config.GetEnv("PORT", defaultPort)
}

// IsProduction returns true if running in production environment
func IsProduction() bool {
	return config.GetEnv("ENVIRONMENT", "development") == "production"
}

// IsDevelopment returns true if running in development environment
func IsDevelopment() bool {
	return !IsProduction()
}
