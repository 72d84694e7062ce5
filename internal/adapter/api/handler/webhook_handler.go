package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/merchware/pulseboard/internal/adapter/metrics"
	"github.com/merchware/pulseboard/internal/domain"
	"github.com/merchware/pulseboard/internal/pkg/hmacsig"
	"github.com/merchware/pulseboard/internal/usecase"
)

const (
	hmacHeader = "X-Shopify-Hmac-Sha256"
	shopHeader = "X-Shopify-Shop-Domain"
)

// WebhookHandler is the push ingress. Every delivery is verified against the
// shared webhook secret before any parsing happens; an unverified payload
// never reaches the reconciliation pipeline.
type WebhookHandler struct {
	reconciler usecase.ReconcileUseCase
	syncs      *usecase.SyncService
	secret     string
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

func NewWebhookHandler(reconciler usecase.ReconcileUseCase, syncs *usecase.SyncService, secret string, logger *slog.Logger, m *metrics.Metrics) *WebhookHandler {
	return &WebhookHandler{reconciler: reconciler, syncs: syncs, secret: secret, logger: logger, metrics: m}
}

// verify reads the raw body and checks the HMAC signature over the untouched
// bytes. It writes the 401 itself and returns ok=false on failure.
func (h *WebhookHandler) verify(w http.ResponseWriter, r *http.Request, topic string) ([]byte, *domain.Tenant, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.metrics.RecordWebhook(topic, "error")
		respondError(w, http.StatusInternalServerError, "Failed to read request body", nil, false)
		return nil, nil, false
	}

	if !hmacsig.Verify(body, r.Header.Get(hmacHeader), h.secret) {
		h.logger.Warn("webhook signature rejected", "topic", topic, "shop", r.Header.Get(shopHeader), "remote_addr", r.RemoteAddr)
		h.metrics.RecordWebhook(topic, "unauthorized")
		respondError(w, http.StatusUnauthorized, "Invalid webhook signature", nil, false)
		return nil, nil, false
	}

	shop := strings.TrimSuffix(r.Header.Get(shopHeader), ".myshopify.com")
	if shop == "" {
		shop = "default"
	}

	tenant, err := h.syncs.ResolveShopTenant(r.Context(), shop)
	if err != nil {
		h.logger.Error("webhook tenant resolution failed", "shop", shop, "error", err)
		h.metrics.RecordWebhook(topic, "error")
		respondError(w, http.StatusInternalServerError, "Failed to resolve tenant", nil, false)
		return nil, nil, false
	}

	return body, tenant, true
}

func (h *WebhookHandler) done(w http.ResponseWriter, topic string, err error) {
	if err != nil {
		h.logger.Error("webhook processing failed", "topic", topic, "error", err)
		h.metrics.RecordWebhook(topic, "error")
		respondError(w, http.StatusInternalServerError, "Failed to process webhook", nil, false)
		return
	}
	h.metrics.RecordWebhook(topic, "ok")
	respondJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// Customer handles customers/create and customers/update deliveries.
func (h *WebhookHandler) Customer(w http.ResponseWriter, r *http.Request) {
	const topic = "customers"
	body, tenant, ok := h.verify(w, r, topic)
	if !ok {
		return
	}

	var record domain.ShopifyCustomer
	if err := json.Unmarshal(body, &record); err != nil {
		h.metrics.RecordWebhook(topic, "error")
		respondError(w, http.StatusBadRequest, "Invalid webhook payload", nil, false)
		return
	}

	_, err := h.reconciler.ReconcileCustomers(r.Context(), tenant.ID, []domain.ShopifyCustomer{record})
	h.done(w, topic, err)
}

// Product handles products/create and products/update deliveries.
func (h *WebhookHandler) Product(w http.ResponseWriter, r *http.Request) {
	const topic = "products"
	body, tenant, ok := h.verify(w, r, topic)
	if !ok {
		return
	}

	var record domain.ShopifyProduct
	if err := json.Unmarshal(body, &record); err != nil {
		h.metrics.RecordWebhook(topic, "error")
		respondError(w, http.StatusBadRequest, "Invalid webhook payload", nil, false)
		return
	}

	_, err := h.reconciler.ReconcileProducts(r.Context(), tenant.ID, []domain.ShopifyProduct{record})
	h.done(w, topic, err)
}

// Order handles orders/create and orders/update deliveries.
func (h *WebhookHandler) Order(w http.ResponseWriter, r *http.Request) {
	const topic = "orders"
	body, tenant, ok := h.verify(w, r, topic)
	if !ok {
		return
	}

	var record domain.ShopifyOrder
	if err := json.Unmarshal(body, &record); err != nil {
		h.metrics.RecordWebhook(topic, "error")
		respondError(w, http.StatusBadRequest, "Invalid webhook payload", nil, false)
		return
	}

	_, err := h.reconciler.ReconcileOrders(r.Context(), tenant.ID, []domain.ShopifyOrder{record})
	h.done(w, topic, err)
}

// CartAbandoned records a cart_abandoned behavioral event.
func (h *WebhookHandler) CartAbandoned(w http.ResponseWriter, r *http.Request) {
	const topic = "carts_abandoned"
	body, tenant, ok := h.verify(w, r, topic)
	if !ok {
		return
	}
	h.done(w, topic, h.reconciler.RecordEvent(r.Context(), tenant.ID, domain.EventCartAbandoned, body))
}

// CheckoutStarted records a checkout_started behavioral event.
func (h *WebhookHandler) CheckoutStarted(w http.ResponseWriter, r *http.Request) {
	const topic = "checkouts_started"
	body, tenant, ok := h.verify(w, r, topic)
	if !ok {
		return
	}
	h.done(w, topic, h.reconciler.RecordEvent(r.Context(), tenant.ID, domain.EventCheckoutStarted, body))
}

// Health answers the platform's endpoint liveness probe.
func (h *WebhookHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"webhooks":  "active",
	})
}
