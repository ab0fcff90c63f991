package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/shopsmart/shopsmart-backend/api/controllers"
	"github.com/shopsmart/shopsmart-backend/api/middleware"
	"github.com/shopsmart/shopsmart-backend/internal/cart"
	"github.com/shopsmart/shopsmart-backend/internal/catalog"
	"github.com/shopsmart/shopsmart-backend/pkg/config"
	"github.com/shopsmart/shopsmart-backend/pkg/logger"
	"github.com/shopsmart/shopsmart-backend/pkg/metrics"
)

type catalogPinger interface {
	Ping(ctx context.Context) error
}

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	Provider      catalog.Provider
	CatalogPinger catalogPinger
	CartManager   *cart.Manager
	CartMetrics   *metrics.CartIntentMetrics
	TaxRate       decimal.Decimal
	Registry      *prometheus.Registry
}

// NewRouter assembles the storefront API.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.CORS(deps.Config.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, deps.Logger, deps.CatalogPinger))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ListProducts(deps.Provider, deps.Logger))
		r.Get("/products/{productId}", controllers.GetProduct(deps.Provider, deps.Logger))

		r.Group(func(r chi.Router) {
			r.Use(middleware.CartSession(deps.Config.Cart.SessionTTL, deps.Logger))
			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(deps.CartManager, deps.TaxRate, deps.Logger))
				r.Delete("/", controllers.CartClear(deps.CartManager, deps.TaxRate, deps.CartMetrics, deps.Logger))
				r.Post("/items", controllers.CartAddItem(deps.CartManager, deps.Provider, deps.TaxRate, deps.CartMetrics, deps.Logger))
				r.Put("/items/{productId}", controllers.CartSetQuantity(deps.CartManager, deps.TaxRate, deps.CartMetrics, deps.Logger))
				r.Delete("/items/{productId}", controllers.CartRemoveItem(deps.CartManager, deps.TaxRate, deps.CartMetrics, deps.Logger))
			})
		})
	})

	return r
}
