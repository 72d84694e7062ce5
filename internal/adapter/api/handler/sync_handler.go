package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/merchware/pulseboard/internal/adapter/api/middleware"
	"github.com/merchware/pulseboard/internal/scheduler"
	"github.com/merchware/pulseboard/internal/usecase"
)

// SyncHandler serves the manual full-sync trigger, the single-kind ingestion
// routes and the scheduler status endpoint.
type SyncHandler struct {
	syncs   *usecase.SyncService
	sched   *scheduler.Scheduler
	logger  *slog.Logger
	devMode bool
}

func NewSyncHandler(syncs *usecase.SyncService, sched *scheduler.Scheduler, logger *slog.Logger, devMode bool) *SyncHandler {
	return &SyncHandler{syncs: syncs, sched: sched, logger: logger, devMode: devMode}
}

type syncCounts struct {
	Customers int `json:"customers"`
	Products  int `json:"products"`
	Orders    int `json:"orders"`
}

type syncDetails struct {
	TotalShopifyCustomers int `json:"totalShopifyCustomers"`
	TotalShopifyProducts  int `json:"totalShopifyProducts"`
	TotalShopifyOrders    int `json:"totalShopifyOrders"`
	OrdersWithCustomers   int `json:"ordersWithCustomers"`
	OrdersSkipped         int `json:"ordersSkipped"`
}

type fullSyncResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Synced  syncCounts  `json:"synced"`
	Store   string      `json:"store"`
	Details syncDetails `json:"details"`
}

// FullSync lazily creates the caller's tenant from the configured store,
// verifies connectivity and runs a complete reconciliation pass.
func (h *SyncHandler) FullSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.UserFromContext(ctx)

	tenant, err := h.syncs.EnsureTenant(ctx, user, middleware.TenantFromContext(ctx))
	if err != nil {
		if errors.Is(err, usecase.ErrNotConfigured) {
			respondError(w, http.StatusBadRequest, "Shopify store is not configured", err, h.devMode)
			return
		}
		h.logger.Error("tenant resolution failed", "user_id", user.ID, "error", err)
		respondError(w, statusFor(err), "Sync failed", err, h.devMode)
		return
	}

	result, err := h.syncs.FullSync(ctx, tenant)
	if err != nil {
		h.logger.Error("full sync failed", "tenant_id", tenant.ID, "error", err)
		respondError(w, statusFor(err), "Sync failed", err, h.devMode)
		return
	}

	respondJSON(w, http.StatusOK, fullSyncResponse{
		Success: true,
		Message: "Full sync completed successfully",
		Synced: syncCounts{
			Customers: result.Customers.Synced,
			Products:  result.Products.Synced,
			Orders:    result.Orders.Synced,
		},
		Store: result.Store,
		Details: syncDetails{
			TotalShopifyCustomers: result.Customers.Total,
			TotalShopifyProducts:  result.Products.Total,
			TotalShopifyOrders:    result.Orders.Total,
			OrdersWithCustomers:   result.Orders.WithCustomer,
			OrdersSkipped:         result.Orders.Skipped,
		},
	})
}

// Status reports the background scheduler state.
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.sched.Status())
}

// The ingestion routes pull and reconcile a single record kind. RequireTenant
// guarantees a non-nil tenant here.

func (h *SyncHandler) IngestCustomers(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())

	sum, err := h.syncs.PullCustomers(r.Context(), tenant)
	if err != nil {
		h.logger.Error("customer ingest failed", "tenant_id", tenant.ID, "error", err)
		respondError(w, statusFor(err), "Customer sync failed", err, h.devMode)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":        "Customers synced successfully",
		"syncedCount":    sum.Synced,
		"totalCustomers": sum.Total,
	})
}

func (h *SyncHandler) IngestProducts(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())

	sum, err := h.syncs.PullProducts(r.Context(), tenant)
	if err != nil {
		h.logger.Error("product ingest failed", "tenant_id", tenant.ID, "error", err)
		respondError(w, statusFor(err), "Product sync failed", err, h.devMode)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":       "Products synced successfully",
		"syncedCount":   sum.Synced,
		"totalProducts": sum.Total,
	})
}

func (h *SyncHandler) IngestOrders(w http.ResponseWriter, r *http.Request) {
	tenant := middleware.TenantFromContext(r.Context())

	sum, err := h.syncs.PullOrders(r.Context(), tenant)
	if err != nil {
		h.logger.Error("order ingest failed", "tenant_id", tenant.ID, "error", err)
		respondError(w, statusFor(err), "Order sync failed", err, h.devMode)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Orders synced successfully",
		"syncedCount": sum.Synced,
		"totalOrders": sum.Total,
	})
}
