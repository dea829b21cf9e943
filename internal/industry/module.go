package industry

import (
	"context"
	"log/slog"

	"go-forge/internal/industry/routes"
	"go-forge/internal/industry/services"
	"go-forge/pkg/config"
	"go-forge/pkg/market"
	"go-forge/pkg/module"
	"go-forge/pkg/sde"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
)

// Module represents the industry module
type Module struct {
	*module.BaseModule
	service       *services.Service
	sdeService    sde.SDEService
	marketService *market.Service
}

// New creates a new industry module instance
func New(sdeService sde.SDEService, marketService *market.Service) (*Module, error) {
	cacheSize := config.GetIntEnv("BREAKDOWN_CACHE_SIZE", 1024)

	service, err := services.NewService(sdeService, marketService, cacheSize)
	if err != nil {
		return nil, err
	}

	return &Module{
		BaseModule:    module.NewBaseModule("industry"),
		service:       service,
		sdeService:    sdeService,
		marketService: marketService,
	}, nil
}

// GetService returns the industry service for external access (scheduler integration)
func (m *Module) GetService() *services.Service {
	return m.service
}

// FlushCache drops cached breakdowns. Called after market snapshot reloads.
func (m *Module) FlushCache() {
	m.service.FlushCache()
}

// Routes registers the module's plain HTTP routes
func (m *Module) Routes(r chi.Router) {
	m.RegisterHealthRoute(r)
}

// RegisterUnifiedRoutes registers routes on the shared Huma API
func (m *Module) RegisterUnifiedRoutes(api huma.API, basePath string) {
	routes.RegisterIndustryRoutes(api, basePath, m.service, m.sdeService, m.marketService)
	slog.Info("Industry module unified routes registered", "base_path", basePath)
}

// StartBackgroundTasks starts any background processes for the module
func (m *Module) StartBackgroundTasks(ctx context.Context) {
	// Cost calculations are request-driven; cache invalidation is handled
	// by the market reload scheduler.
}
