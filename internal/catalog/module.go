package catalog

import (
	"context"
	"log/slog"

	"go-forge/internal/catalog/routes"
	"go-forge/internal/catalog/services"
	"go-forge/pkg/module"
	"go-forge/pkg/sde"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
)

// Module represents the catalog module
type Module struct {
	*module.BaseModule
	service *services.Service
}

// New creates a new catalog module instance
func New(sdeService sde.SDEService) *Module {
	return &Module{
		BaseModule: module.NewBaseModule("catalog"),
		service:    services.NewService(sdeService),
	}
}

// GetService returns the catalog service for external access
func (m *Module) GetService() *services.Service {
	return m.service
}

// Routes registers the module's plain HTTP routes
func (m *Module) Routes(r chi.Router) {
	m.RegisterHealthRoute(r)
}

// RegisterUnifiedRoutes registers routes on the shared Huma API
func (m *Module) RegisterUnifiedRoutes(api huma.API, basePath string) {
	routes.RegisterCatalogRoutes(api, basePath, m.service)
	slog.Info("Catalog module unified routes registered", "base_path", basePath)
}

// StartBackgroundTasks starts any background processes for the module
func (m *Module) StartBackgroundTasks(ctx context.Context) {
	// Catalog queries are request-driven; nothing runs in the background.
}
