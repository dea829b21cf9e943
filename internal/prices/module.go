package prices

import (
	"context"
	"log/slog"

	"go-forge/internal/prices/routes"
	"go-forge/internal/prices/services"
	"go-forge/pkg/market"
	"go-forge/pkg/module"
	"go-forge/pkg/sde"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
)

// Module represents the prices module
type Module struct {
	*module.BaseModule
	service       *services.Service
	marketService *market.Service
}

// New creates a new prices module instance
func New(sdeService sde.SDEService, marketService *market.Service) *Module {
	return &Module{
		BaseModule:    module.NewBaseModule("prices"),
		service:       services.NewService(sdeService, marketService),
		marketService: marketService,
	}
}

// GetService returns the prices service for external access
func (m *Module) GetService() *services.Service {
	return m.service
}

// Routes registers the module's plain HTTP routes
func (m *Module) Routes(r chi.Router) {
	m.RegisterHealthRoute(r)
}

// RegisterUnifiedRoutes registers routes on the shared Huma API
func (m *Module) RegisterUnifiedRoutes(api huma.API, basePath string) {
	routes.RegisterPricesRoutes(api, basePath, m.service, m.marketService)
	slog.Info("Prices module unified routes registered", "base_path", basePath)
}

// StartBackgroundTasks starts any background processes for the module
func (m *Module) StartBackgroundTasks(ctx context.Context) {
	// Snapshot reloads are driven by the application scheduler.
}
