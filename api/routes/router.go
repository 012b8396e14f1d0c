package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shoplane/shoplane-backend/api/controllers"
	paymentcontrollers "github.com/shoplane/shoplane-backend/api/controllers/payments"
	webhookcontrollers "github.com/shoplane/shoplane-backend/api/controllers/webhooks"
	"github.com/shoplane/shoplane-backend/api/middleware"
	"github.com/shoplane/shoplane-backend/internal/blog"
	"github.com/shoplane/shoplane-backend/internal/cart"
	"github.com/shoplane/shoplane-backend/internal/catalog"
	internalpayments "github.com/shoplane/shoplane-backend/internal/payments"
	"github.com/shoplane/shoplane-backend/internal/sellers"
	gatewaywebhook "github.com/shoplane/shoplane-backend/internal/webhooks/gateway"
	"github.com/shoplane/shoplane-backend/pkg/config"
	"github.com/shoplane/shoplane-backend/pkg/db"
	"github.com/shoplane/shoplane-backend/pkg/logger"
	"github.com/shoplane/shoplane-backend/pkg/metrics"
	"github.com/shoplane/shoplane-backend/pkg/redis"
	"github.com/shoplane/shoplane-backend/pkg/stripe"
)

// RouterParams groups everything the HTTP surface depends on.
type RouterParams struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          redis.Pinger
	Gateway        *stripe.Client
	PaymentService internalpayments.Service
	WebhookService *gatewaywebhook.Service
	WebhookGuard   *gatewaywebhook.IdempotencyGuard
	WebhookMetrics *metrics.WebhookMetrics
	CatalogService catalog.Service
	BlogService    blog.Service
	SellerService  sellers.Service
	CartService    cart.Service
	Registry       prometheus.Gatherer
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, params.DB, params.Redis, logg))
	})

	if params.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(params.Registry, promhttp.HandlerOpts{}))
	}

	// The webhook authenticates by HMAC signature, never by bearer token.
	r.Post("/api/payments/webhook", webhookcontrollers.GatewayWebhook(
		params.WebhookService, params.Gateway, params.WebhookGuard, params.WebhookMetrics, logg,
	))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/api/payments", func(r chi.Router) {
			r.Post("/", paymentcontrollers.Create(params.PaymentService, logg))
			r.Post("/confirm", paymentcontrollers.Confirm(params.PaymentService, logg))
		})

		r.Route("/api/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(params.CatalogService, logg))
			r.Post("/", controllers.CreateProduct(params.CatalogService, logg))
			r.Get("/{productId}", controllers.GetProduct(params.CatalogService, logg))
			r.Patch("/{productId}", controllers.UpdateProduct(params.CatalogService, logg))
			r.Delete("/{productId}", controllers.DeleteProduct(params.CatalogService, logg))
		})

		r.Route("/api/posts", func(r chi.Router) {
			r.Get("/", controllers.ListPosts(params.BlogService, logg))
			r.Post("/", controllers.CreatePost(params.BlogService, logg))
			r.Get("/{postId}", controllers.GetPost(params.BlogService, logg))
			r.Patch("/{postId}", controllers.UpdatePost(params.BlogService, logg))
			r.Delete("/{postId}", controllers.DeletePost(params.BlogService, logg))
		})

		r.Route("/api/sellers", func(r chi.Router) {
			r.Post("/", controllers.CreateSeller(params.SellerService, logg))
			r.Get("/{sellerId}", controllers.GetSeller(params.SellerService, logg))
			r.Patch("/{sellerId}", controllers.UpdateSeller(params.SellerService, logg))
			r.Delete("/{sellerId}", controllers.DeleteSeller(params.SellerService, logg))
		})

		r.Route("/api/cart", func(r chi.Router) {
			r.Get("/", controllers.ListCart(params.CartService, logg))
			r.Post("/items", controllers.AddCartItem(params.CartService, logg))
			r.Put("/items/{productId}", controllers.SetCartQuantity(params.CartService, logg))
			r.Delete("/items/{productId}", controllers.RemoveCartItem(params.CartService, logg))
			r.Delete("/", controllers.ClearCart(params.CartService, logg))
		})
	})

	return r
}
