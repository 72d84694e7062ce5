package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/merchware/pulseboard/internal/adapter/api/handler"
	"github.com/merchware/pulseboard/internal/adapter/api/middleware"
	"github.com/merchware/pulseboard/internal/adapter/metrics"
	"github.com/merchware/pulseboard/internal/domain"
	"github.com/merchware/pulseboard/internal/pkg/config"
	"github.com/merchware/pulseboard/internal/scheduler"
	"github.com/merchware/pulseboard/internal/usecase"
)

// Deps bundles everything the router wires together.
type Deps struct {
	Users      domain.UserRepository
	Tenants    domain.TenantRepository
	Auth       usecase.AuthUseCase
	Analytics  *usecase.AnalyticsService
	Sync       *usecase.SyncService
	Reconciler usecase.ReconcileUseCase
	Scheduler  *scheduler.Scheduler
	Metrics    *metrics.Metrics
}

// NewRouter creates and configures the main HTTP router.
func NewRouter(cfg *config.Config, logger *slog.Logger, d Deps) http.Handler {
	dev := cfg.IsDevelopment()

	authHandler := handler.NewAuthHandler(d.Auth, logger, dev)
	analyticsHandler := handler.NewAnalyticsHandler(d.Analytics, logger, dev)
	syncHandler := handler.NewSyncHandler(d.Sync, d.Scheduler, logger, dev)
	webhookHandler := handler.NewWebhookHandler(d.Reconciler, d.Sync, cfg.ShopifyWebhookSecret, logger, d.Metrics)

	authenticate := middleware.Authenticate(cfg.JWTSecret, d.Users, d.Tenants, logger)

	r := chi.NewRouter()
	r.Use(middleware.Logging(logger))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
		})

		// Webhook routes authenticate via HMAC signature, not JWT.
		r.Route("/webhooks", func(r chi.Router) {
			r.Get("/health", webhookHandler.Health)
			r.Post("/customers/create", webhookHandler.Customer)
			r.Post("/customers/update", webhookHandler.Customer)
			r.Post("/products/create", webhookHandler.Product)
			r.Post("/products/update", webhookHandler.Product)
			r.Post("/orders/create", webhookHandler.Order)
			r.Post("/orders/update", webhookHandler.Order)
			r.Post("/carts/abandoned", webhookHandler.CartAbandoned)
			r.Post("/checkouts/create", webhookHandler.CheckoutStarted)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Route("/analytics", func(r chi.Router) {
				r.Get("/summary", analyticsHandler.Summary)
				r.Get("/orders-by-date", analyticsHandler.OrdersByDate)
				r.Get("/top-customers", analyticsHandler.TopCustomers)
				r.Get("/top-products", analyticsHandler.TopProducts)
				r.Get("/customers", analyticsHandler.ListCustomers)
				r.Get("/products", analyticsHandler.ListProducts)
				r.Get("/orders", analyticsHandler.ListOrders)
				r.Get("/events", analyticsHandler.Events)
			})

			r.Route("/sync", func(r chi.Router) {
				r.Post("/shopify", syncHandler.FullSync)
				r.Get("/status", syncHandler.Status)
			})

			r.Route("/ingest", func(r chi.Router) {
				r.Use(middleware.RequireTenant)
				r.Post("/customers", syncHandler.IngestCustomers)
				r.Post("/products", syncHandler.IngestProducts)
				r.Post("/orders", syncHandler.IngestOrders)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = fmt.Fprintf(w, `{"error":"Not found","details":"Route %s %s not found"}`, req.Method, req.URL.Path)
	})

	return r
}
