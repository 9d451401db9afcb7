package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/batipro-erp/batipro-erp/internal/billing"
	"github.com/batipro-erp/batipro-erp/internal/catalog"
	"github.com/batipro-erp/batipro-erp/internal/clients"
	"github.com/batipro-erp/batipro-erp/internal/inventory"
	"github.com/batipro-erp/batipro-erp/internal/production"
	"github.com/batipro-erp/batipro-erp/jobs"
	"github.com/batipro-erp/batipro-erp/report"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	ClientsHandler    *clients.Handler
	CatalogHandler    *catalog.Handler
	InventoryHandler  *inventory.Handler
	ProductionHandler *production.Handler
	BillingHandler    *billing.Handler
	ReportHandler     *report.Handler
	JobHandler        *jobs.Handler
}

// NewRouter constructs the chi.Router with BatiPro defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		params.ClientsHandler.MountRoutes(r)
		params.CatalogHandler.MountRoutes(r)
		params.InventoryHandler.MountRoutes(r)
		params.ProductionHandler.MountRoutes(r)
		params.BillingHandler.MountRoutes(r)
		params.ReportHandler.MountRoutes(r)
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	return r
}
