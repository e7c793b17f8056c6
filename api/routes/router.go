package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kafanica/kafanica-backend/api/controllers"
	"github.com/kafanica/kafanica-backend/api/middleware"
	historysvc "github.com/kafanica/kafanica-backend/internal/history"
	inventorysvc "github.com/kafanica/kafanica-backend/internal/inventory"
	tabssvc "github.com/kafanica/kafanica-backend/internal/tabs"
	"github.com/kafanica/kafanica-backend/pkg/config"
	"github.com/kafanica/kafanica-backend/pkg/db"
	"github.com/kafanica/kafanica-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	inventoryService inventorysvc.Service,
	tabService tabssvc.Service,
	historyService historysvc.Service,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", controllers.ListInventory(inventoryService, logg))
			r.Post("/", controllers.UpsertStock(inventoryService, logg))
			r.Put("/order", controllers.ReorderInventory(inventoryService, logg))
			r.Patch("/{itemID}/quantity", controllers.AdjustInventoryQuantity(inventoryService, logg))
			r.Delete("/{itemID}", controllers.DeleteInventoryItem(inventoryService, logg))
		})

		r.Route("/tabs", func(r chi.Router) {
			r.Get("/", controllers.ListTabs(tabService, logg))
			r.Post("/", controllers.OpenTab(tabService, logg))
			r.Delete("/{tabID}", controllers.CloseTab(tabService, logg))
			r.Post("/{tabID}/orders", controllers.AddDrinkToTab(tabService, logg))
			r.Get("/{tabID}/total", controllers.TabTotal(tabService, logg))
			r.Post("/{tabID}/settle", controllers.SettleTab(tabService, logg))
		})

		r.Route("/history", func(r chi.Router) {
			r.Get("/", controllers.ListHistory(historyService, logg))
			r.Delete("/", controllers.ClearHistory(historyService, logg))
			r.Get("/sales-report", controllers.SalesReport(historyService, logg))
		})
	})

	return r
}
