package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/merchware/pulseboard/internal/adapter/api/middleware"
	"github.com/merchware/pulseboard/internal/usecase"
)

// AnalyticsHandler serves the read-only dashboard endpoints. Every route
// tolerates a tenant-less caller and answers 200 with an empty, message
// annotated body in that case.
type AnalyticsHandler struct {
	analytics *usecase.AnalyticsService
	logger    *slog.Logger
	devMode   bool
}

func NewAnalyticsHandler(analytics *usecase.AnalyticsService, logger *slog.Logger, devMode bool) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, logger: logger, devMode: devMode}
}

// parseDateRange reads optional from/to query params as YYYY-MM-DD dates.
// "to" is pushed to the end of its day so the range is inclusive.
func parseDateRange(r *http.Request) (from, to *time.Time, err error) {
	if v := r.URL.Query().Get("from"); v != "" {
		t, perr := time.Parse("2006-01-02", v)
		if perr != nil {
			return nil, nil, perr
		}
		from = &t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, perr := time.Parse("2006-01-02", v)
		if perr != nil {
			return nil, nil, perr
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	return from, to, nil
}

func parseLimit(r *http.Request) int {
	n, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return n
}

func (h *AnalyticsHandler) fail(w http.ResponseWriter, op string, err error) {
	h.logger.Error("analytics query failed", "op", op, "error", err)
	respondError(w, statusFor(err), "Failed to load analytics", err, h.devMode)
}

func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	report, err := h.analytics.Summary(r.Context(), middleware.TenantFromContext(r.Context()))
	if err != nil {
		h.fail(w, "summary", err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (h *AnalyticsHandler) OrdersByDate(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", err, h.devMode)
		return
	}

	report, err := h.analytics.OrdersByDate(r.Context(), middleware.TenantFromContext(r.Context()), from, to)
	if err != nil {
		h.fail(w, "orders_by_date", err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (h *AnalyticsHandler) TopCustomers(w http.ResponseWriter, r *http.Request) {
	report, err := h.analytics.TopCustomers(r.Context(), middleware.TenantFromContext(r.Context()), parseLimit(r))
	if err != nil {
		h.fail(w, "top_customers", err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (h *AnalyticsHandler) TopProducts(w http.ResponseWriter, r *http.Request) {
	report, err := h.analytics.TopProducts(r.Context(), middleware.TenantFromContext(r.Context()), parseLimit(r))
	if err != nil {
		h.fail(w, "top_products", err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (h *AnalyticsHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	report, err := h.analytics.ListCustomers(r.Context(), middleware.TenantFromContext(r.Context()))
	if err != nil {
		h.fail(w, "list_customers", err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (h *AnalyticsHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	report, err := h.analytics.ListProducts(r.Context(), middleware.TenantFromContext(r.Context()))
	if err != nil {
		h.fail(w, "list_products", err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (h *AnalyticsHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	report, err := h.analytics.ListOrders(r.Context(), middleware.TenantFromContext(r.Context()))
	if err != nil {
		h.fail(w, "list_orders", err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (h *AnalyticsHandler) Events(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", err, h.devMode)
		return
	}

	report, err := h.analytics.Events(r.Context(), middleware.TenantFromContext(r.Context()), r.URL.Query().Get("eventType"), from, to)
	if err != nil {
		h.fail(w, "events", err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}
