package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cartworks/storefront-backend/api/controllers"
	webhookcontrollers "github.com/cartworks/storefront-backend/api/controllers/webhooks"
	"github.com/cartworks/storefront-backend/api/middleware"
	cartsvc "github.com/cartworks/storefront-backend/internal/cart"
	checkoutsvc "github.com/cartworks/storefront-backend/internal/checkout"
	ordersvc "github.com/cartworks/storefront-backend/internal/orders"
	productsvc "github.com/cartworks/storefront-backend/internal/products"
	identitywebhook "github.com/cartworks/storefront-backend/internal/webhooks/identity"
	"github.com/cartworks/storefront-backend/pkg/config"
	"github.com/cartworks/storefront-backend/pkg/db"
	"github.com/cartworks/storefront-backend/pkg/logger"
	"github.com/cartworks/storefront-backend/pkg/metrics"
	"github.com/cartworks/storefront-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           db.Pinger
	Redis        *redis.Client
	HTTPMetrics  *metrics.HTTPMetrics
	Registry     *prometheus.Registry
	Products     productsvc.Service
	Cart         cartsvc.Service
	Checkout     checkoutsvc.Service
	Orders       ordersvc.Service
	Webhook      *identitywebhook.Service
	WebhookGuard *identitywebhook.IdempotencyGuard
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	mutationPolicy := middleware.NewMutationRateLimitPolicy(
		"mutation",
		cfg.RateLimit.MutationWindow,
		cfg.RateLimit.MutationLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.Products, logg))
			r.Get("/{id}", controllers.GetProduct(deps.Products, logg))
		})

		r.Route("/webhooks", func(r chi.Router) {
			r.Post("/identity", webhookcontrollers.IdentityWebhook(deps.Webhook, cfg.Webhook.SigningSecret, deps.WebhookGuard, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.Idempotency(deps.Redis, logg))
			r.Use(middleware.MutationRateLimit(mutationPolicy, deps.Redis, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(deps.Cart, logg))
				r.Get("/count", controllers.CartCount(deps.Cart, logg))
				r.Post("/items", controllers.CartAddItem(deps.Cart, logg))
				r.Put("/items/{id}", controllers.CartUpdateItem(deps.Cart, logg))
				r.Delete("/items/{id}", controllers.CartRemoveItem(deps.Cart, logg))
			})

			r.Post("/checkout", controllers.Checkout(deps.Checkout, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.ListOrders(deps.Orders, logg))
				r.Get("/{id}", controllers.GetOrder(deps.Orders, logg))
			})
		})
	})

	return r
}
