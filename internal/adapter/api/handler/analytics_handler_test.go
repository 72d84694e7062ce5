package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/merchware/pulseboard/internal/adapter/api/middleware"
	"github.com/merchware/pulseboard/internal/domain"
	"github.com/merchware/pulseboard/internal/usecase"
)

// recordingAnalyticsRepo captures the filter the service passes down.
type recordingAnalyticsRepo struct {
	gotFilter domain.EventFilter
}

func (r *recordingAnalyticsRepo) CountCustomers(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return 0, nil
}

func (r *recordingAnalyticsRepo) CountOrders(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return 0, nil
}

func (r *recordingAnalyticsRepo) SumOrderRevenue(ctx context.Context, tenantID uuid.UUID) (float64, error) {
	return 0, nil
}

func (r *recordingAnalyticsRepo) OrdersByDate(ctx context.Context, tenantID uuid.UUID, from, to *time.Time) ([]domain.DailyOrderStat, error) {
	return nil, nil
}

func (r *recordingAnalyticsRepo) TopCustomers(ctx context.Context, tenantID uuid.UUID, limit int) ([]domain.CustomerRank, error) {
	return nil, nil
}

func (r *recordingAnalyticsRepo) TopProducts(ctx context.Context, tenantID uuid.UUID, limit int) ([]domain.ProductRank, error) {
	return nil, nil
}

func (r *recordingAnalyticsRepo) ListCustomers(ctx context.Context, tenantID uuid.UUID) ([]*domain.Customer, error) {
	return nil, nil
}

func (r *recordingAnalyticsRepo) ListProducts(ctx context.Context, tenantID uuid.UUID) ([]*domain.Product, error) {
	return nil, nil
}

func (r *recordingAnalyticsRepo) ListOrders(ctx context.Context, tenantID uuid.UUID) ([]*domain.OrderWithCustomer, error) {
	return nil, nil
}

func (r *recordingAnalyticsRepo) ListEvents(ctx context.Context, tenantID uuid.UUID, filter domain.EventFilter) ([]*domain.CustomEvent, error) {
	r.gotFilter = filter
	return nil, nil
}

func (r *recordingAnalyticsRepo) EventSummary(ctx context.Context, tenantID uuid.UUID) (map[string]domain.EventTypeStats, error) {
	return nil, nil
}

func newAnalyticsHandlerFixture() (*recordingAnalyticsRepo, *AnalyticsHandler) {
	repo := &recordingAnalyticsRepo{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return repo, NewAnalyticsHandler(usecase.NewAnalyticsService(repo), logger, false)
}

func tenantRequest(target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	tenant := &domain.Tenant{ID: uuid.New(), Shop: "acme"}
	return req.WithContext(middleware.WithTenant(req.Context(), tenant))
}

func TestEventsPassesEventTypeFilter(t *testing.T) {
	repo, h := newAnalyticsHandlerFixture()

	rr := httptest.NewRecorder()
	h.Events(rr, tenantRequest("/api/analytics/events?eventType="+domain.EventCartAbandoned))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if repo.gotFilter.EventType != domain.EventCartAbandoned {
		t.Errorf("repo received EventType=%q, want %q", repo.gotFilter.EventType, domain.EventCartAbandoned)
	}
}

func TestEventsPassesDateRange(t *testing.T) {
	repo, h := newAnalyticsHandlerFixture()

	rr := httptest.NewRecorder()
	h.Events(rr, tenantRequest("/api/analytics/events?from=2026-03-01&to=2026-03-02"))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if repo.gotFilter.From == nil || repo.gotFilter.To == nil {
		t.Fatalf("date range not passed: %+v", repo.gotFilter)
	}
	if repo.gotFilter.From.Format("2006-01-02") != "2026-03-01" {
		t.Errorf("from = %v", repo.gotFilter.From)
	}
	// the "to" bound covers its whole day
	if !repo.gotFilter.To.After(time.Date(2026, 3, 2, 23, 59, 0, 0, time.UTC)) {
		t.Errorf("to = %v, want end of day", repo.gotFilter.To)
	}
}

func TestEventsRejectsMalformedDate(t *testing.T) {
	_, h := newAnalyticsHandlerFixture()

	rr := httptest.NewRecorder()
	h.Events(rr, tenantRequest("/api/analytics/events?from=03-01-2026"))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}
