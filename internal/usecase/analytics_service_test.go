package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/merchware/pulseboard/internal/domain"
)

// stubAnalyticsRepo serves canned aggregation results.
type stubAnalyticsRepo struct {
	customers int64
	orders    int64
	revenue   float64
	daily     []domain.DailyOrderStat
	topC      []domain.CustomerRank
	topP      []domain.ProductRank
	events    []*domain.CustomEvent
	summary   map[string]domain.EventTypeStats

	topLimit int // records the limit the service asked for
}

func (s *stubAnalyticsRepo) CountCustomers(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return s.customers, nil
}

func (s *stubAnalyticsRepo) CountOrders(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return s.orders, nil
}

func (s *stubAnalyticsRepo) SumOrderRevenue(ctx context.Context, tenantID uuid.UUID) (float64, error) {
	return s.revenue, nil
}

func (s *stubAnalyticsRepo) OrdersByDate(ctx context.Context, tenantID uuid.UUID, from, to *time.Time) ([]domain.DailyOrderStat, error) {
	return s.daily, nil
}

func (s *stubAnalyticsRepo) TopCustomers(ctx context.Context, tenantID uuid.UUID, limit int) ([]domain.CustomerRank, error) {
	s.topLimit = limit
	if limit < len(s.topC) {
		return s.topC[:limit], nil
	}
	return s.topC, nil
}

func (s *stubAnalyticsRepo) TopProducts(ctx context.Context, tenantID uuid.UUID, limit int) ([]domain.ProductRank, error) {
	s.topLimit = limit
	if limit < len(s.topP) {
		return s.topP[:limit], nil
	}
	return s.topP, nil
}

func (s *stubAnalyticsRepo) ListCustomers(ctx context.Context, tenantID uuid.UUID) ([]*domain.Customer, error) {
	return nil, nil
}

func (s *stubAnalyticsRepo) ListProducts(ctx context.Context, tenantID uuid.UUID) ([]*domain.Product, error) {
	return nil, nil
}

func (s *stubAnalyticsRepo) ListOrders(ctx context.Context, tenantID uuid.UUID) ([]*domain.OrderWithCustomer, error) {
	return nil, nil
}

func (s *stubAnalyticsRepo) ListEvents(ctx context.Context, tenantID uuid.UUID, filter domain.EventFilter) ([]*domain.CustomEvent, error) {
	return s.events, nil
}

func (s *stubAnalyticsRepo) EventSummary(ctx context.Context, tenantID uuid.UUID) (map[string]domain.EventTypeStats, error) {
	return s.summary, nil
}

func testTenant() *domain.Tenant {
	return &domain.Tenant{ID: uuid.New(), Shop: "acme", IsActive: true}
}

func TestSummaryWithoutTenant(t *testing.T) {
	svc := NewAnalyticsService(&stubAnalyticsRepo{})

	report, err := svc.Summary(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if report.TotalCustomers != 0 || report.TotalOrders != 0 || report.TotalRevenue != 0 {
		t.Errorf("expected zeroed totals, got %+v", report)
	}
	if !strings.Contains(report.Message, "No tenant associated") {
		t.Errorf("message = %q", report.Message)
	}
}

func TestSummaryWithTenant(t *testing.T) {
	svc := NewAnalyticsService(&stubAnalyticsRepo{customers: 12, orders: 34, revenue: 567.89})

	report, err := svc.Summary(context.Background(), testTenant())
	if err != nil {
		t.Fatal(err)
	}
	if report.TotalCustomers != 12 || report.TotalOrders != 34 || report.TotalRevenue != 567.89 {
		t.Errorf("report = %+v", report)
	}
	if report.Message != "" {
		t.Errorf("unexpected message %q", report.Message)
	}
}

func TestTopCustomersDefaultLimit(t *testing.T) {
	repo := &stubAnalyticsRepo{
		topC: []domain.CustomerRank{
			{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"}, {Name: "e"}, {Name: "f"},
		},
	}
	svc := NewAnalyticsService(repo)

	report, err := svc.TopCustomers(context.Background(), testTenant(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if repo.topLimit != defaultTopLimit {
		t.Errorf("limit passed to repo = %d, want %d", repo.topLimit, defaultTopLimit)
	}
	if len(report.Customers) != defaultTopLimit {
		t.Errorf("got %d customers, want %d", len(report.Customers), defaultTopLimit)
	}
}

func TestListOrdersWithoutTenantEmptyNotNil(t *testing.T) {
	svc := NewAnalyticsService(&stubAnalyticsRepo{})

	report, err := svc.ListOrders(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if report.Data == nil {
		t.Error("data must be an empty slice, not nil")
	}
	if !strings.Contains(report.Message, "orders") {
		t.Errorf("message = %q", report.Message)
	}
}

func TestEventsReport(t *testing.T) {
	v := 10.0
	day1 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 2, 18, 30, 0, 0, time.UTC)
	repo := &stubAnalyticsRepo{
		events: []*domain.CustomEvent{
			{EventType: domain.EventCartAbandoned, TotalValue: &v, CreatedAt: day1},
			{EventType: domain.EventCheckoutStarted, CreatedAt: day1},
			{EventType: domain.EventCartAbandoned, CreatedAt: day2},
		},
		summary: map[string]domain.EventTypeStats{
			domain.EventCartAbandoned: {Count: 2, TotalValue: 10, AverageValue: 5},
		},
	}
	svc := NewAnalyticsService(repo)

	report, err := svc.Events(context.Background(), testTenant(), "", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if report.TotalEvents != 3 || len(report.Data) != 3 {
		t.Errorf("report = %+v", report)
	}
	if report.Summary[domain.EventCartAbandoned].Count != 2 {
		t.Errorf("summary = %+v", report.Summary)
	}
	if report.EventsByDay["2026-03-01"] != 2 || report.EventsByDay["2026-03-02"] != 1 {
		t.Errorf("eventsByDay = %+v", report.EventsByDay)
	}
}

func TestEventsWithoutTenant(t *testing.T) {
	svc := NewAnalyticsService(&stubAnalyticsRepo{})

	report, err := svc.Events(context.Background(), nil, "", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if report.Data == nil || report.Summary == nil || report.EventsByDay == nil {
		t.Error("empty report must carry non-nil slice and maps")
	}
	if !strings.Contains(report.Message, "custom events") {
		t.Errorf("message = %q", report.Message)
	}
}
