package usecase

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/merchware/pulseboard/internal/domain"
)

// Messages returned alongside empty results when the caller has no tenant.
// The frontend keys off these, so the shape is part of the API contract.
const (
	noTenantAnalyticsMsg = "No tenant associated. Shopify store configured - sync data to see analytics."
	noTenantCustomersMsg = "No tenant associated. Sync data to see customers."
	noTenantProductsMsg  = "No tenant associated. Sync data to see products."
	noTenantOrdersMsg    = "No tenant associated. Sync data to see orders."
	noTenantEventsMsg    = "No tenant associated. Sync data to see custom events."
)

const defaultTopLimit = 5

// eventListLimit caps the custom-events listing to the most recent records.
const eventListLimit = 100

// SummaryReport is the dashboard totals response.
type SummaryReport struct {
	TotalCustomers int64   `json:"totalCustomers"`
	TotalOrders    int64   `json:"totalOrders"`
	TotalRevenue   float64 `json:"totalRevenue"`
	Message        string  `json:"message,omitempty"`
}

// OrdersByDateReport groups orders per day with count and revenue.
type OrdersByDateReport struct {
	Orders  []domain.DailyOrderStat `json:"orders"`
	Message string                  `json:"message,omitempty"`
}

// TopCustomersReport ranks customers by total spend.
type TopCustomersReport struct {
	Customers []domain.CustomerRank `json:"customers"`
	Message   string                `json:"message,omitempty"`
}

// TopProductsReport ranks products by quantity sold.
type TopProductsReport struct {
	Products []domain.ProductRank `json:"products"`
	Message  string               `json:"message,omitempty"`
}

// CustomerListReport is the raw customer listing.
type CustomerListReport struct {
	Data    []*domain.Customer `json:"data"`
	Message string             `json:"message,omitempty"`
}

// ProductListReport is the raw product listing.
type ProductListReport struct {
	Data    []*domain.Product `json:"data"`
	Message string            `json:"message,omitempty"`
}

// OrderListReport is the raw order listing with embedded customers.
type OrderListReport struct {
	Data    []*domain.OrderWithCustomer `json:"data"`
	Message string                      `json:"message,omitempty"`
}

// EventsReport lists recent custom events plus a per-type summary and a
// per-day count of the listed events.
type EventsReport struct {
	Data        []*domain.CustomEvent            `json:"data"`
	Summary     map[string]domain.EventTypeStats `json:"summary"`
	EventsByDay map[string]int64                 `json:"eventsByDay"`
	TotalEvents int                              `json:"totalEvents"`
	Message     string                           `json:"message,omitempty"`
}

// AnalyticsService serves read-only, tenant-scoped aggregations. Every query
// returns an empty, message-annotated result when tenant is nil instead of
// erroring; that graceful empty state is a frontend contract.
type AnalyticsService struct {
	repo domain.AnalyticsRepository
}

// NewAnalyticsService creates the analytics service.
func NewAnalyticsService(repo domain.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{repo: repo}
}

// Summary returns total customers, orders and revenue for the tenant.
func (s *AnalyticsService) Summary(ctx context.Context, tenant *domain.Tenant) (*SummaryReport, error) {
	ctx, span := otel.Tracer("analytics").Start(ctx, "Summary")
	defer span.End()

	if tenant == nil {
		return &SummaryReport{Message: noTenantAnalyticsMsg}, nil
	}

	customers, err := s.repo.CountCustomers(ctx, tenant.ID)
	if err != nil {
		return nil, err
	}
	orders, err := s.repo.CountOrders(ctx, tenant.ID)
	if err != nil {
		return nil, err
	}
	revenue, err := s.repo.SumOrderRevenue(ctx, tenant.ID)
	if err != nil {
		return nil, err
	}

	return &SummaryReport{
		TotalCustomers: customers,
		TotalOrders:    orders,
		TotalRevenue:   revenue,
	}, nil
}

// OrdersByDate returns per-day order counts and revenue, optionally bounded
// by a date range.
func (s *AnalyticsService) OrdersByDate(ctx context.Context, tenant *domain.Tenant, from, to *time.Time) (*OrdersByDateReport, error) {
	ctx, span := otel.Tracer("analytics").Start(ctx, "OrdersByDate")
	defer span.End()

	if tenant == nil {
		return &OrdersByDateReport{Orders: []domain.DailyOrderStat{}, Message: noTenantAnalyticsMsg}, nil
	}

	stats, err := s.repo.OrdersByDate(ctx, tenant.ID, from, to)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = []domain.DailyOrderStat{}
	}
	return &OrdersByDateReport{Orders: stats}, nil
}

// TopCustomers ranks customers by total spend, descending, ties stable.
func (s *AnalyticsService) TopCustomers(ctx context.Context, tenant *domain.Tenant, limit int) (*TopCustomersReport, error) {
	ctx, span := otel.Tracer("analytics").Start(ctx, "TopCustomers")
	defer span.End()

	if tenant == nil {
		return &TopCustomersReport{Customers: []domain.CustomerRank{}, Message: noTenantAnalyticsMsg}, nil
	}
	if limit <= 0 {
		limit = defaultTopLimit
	}

	ranks, err := s.repo.TopCustomers(ctx, tenant.ID, limit)
	if err != nil {
		return nil, err
	}
	if ranks == nil {
		ranks = []domain.CustomerRank{}
	}
	return &TopCustomersReport{Customers: ranks}, nil
}

// TopProducts ranks products by quantity sold, descending.
func (s *AnalyticsService) TopProducts(ctx context.Context, tenant *domain.Tenant, limit int) (*TopProductsReport, error) {
	ctx, span := otel.Tracer("analytics").Start(ctx, "TopProducts")
	defer span.End()

	if tenant == nil {
		return &TopProductsReport{Products: []domain.ProductRank{}, Message: noTenantAnalyticsMsg}, nil
	}
	if limit <= 0 {
		limit = defaultTopLimit
	}

	ranks, err := s.repo.TopProducts(ctx, tenant.ID, limit)
	if err != nil {
		return nil, err
	}
	if ranks == nil {
		ranks = []domain.ProductRank{}
	}
	return &TopProductsReport{Products: ranks}, nil
}

// ListCustomers lists all customers ordered by total spend.
func (s *AnalyticsService) ListCustomers(ctx context.Context, tenant *domain.Tenant) (*CustomerListReport, error) {
	if tenant == nil {
		return &CustomerListReport{Data: []*domain.Customer{}, Message: noTenantCustomersMsg}, nil
	}

	customers, err := s.repo.ListCustomers(ctx, tenant.ID)
	if err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []*domain.Customer{}
	}
	return &CustomerListReport{Data: customers}, nil
}

// ListProducts lists all products ordered by price.
func (s *AnalyticsService) ListProducts(ctx context.Context, tenant *domain.Tenant) (*ProductListReport, error) {
	if tenant == nil {
		return &ProductListReport{Data: []*domain.Product{}, Message: noTenantProductsMsg}, nil
	}

	products, err := s.repo.ListProducts(ctx, tenant.ID)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []*domain.Product{}
	}
	return &ProductListReport{Data: products}, nil
}

// ListOrders lists all orders, newest first, with embedded customers.
func (s *AnalyticsService) ListOrders(ctx context.Context, tenant *domain.Tenant) (*OrderListReport, error) {
	if tenant == nil {
		return &OrderListReport{Data: []*domain.OrderWithCustomer{}, Message: noTenantOrdersMsg}, nil
	}

	orders, err := s.repo.ListOrders(ctx, tenant.ID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []*domain.OrderWithCustomer{}
	}
	return &OrderListReport{Data: orders}, nil
}

// Events lists recent custom events (capped at the 100 most recent) with a
// per-type count/sum/average summary.
func (s *AnalyticsService) Events(ctx context.Context, tenant *domain.Tenant, eventType string, from, to *time.Time) (*EventsReport, error) {
	ctx, span := otel.Tracer("analytics").Start(ctx, "Events")
	defer span.End()

	if tenant == nil {
		return &EventsReport{
			Data:        []*domain.CustomEvent{},
			Summary:     map[string]domain.EventTypeStats{},
			EventsByDay: map[string]int64{},
			Message:     noTenantEventsMsg,
		}, nil
	}

	events, err := s.repo.ListEvents(ctx, tenant.ID, domain.EventFilter{
		EventType: eventType,
		From:      from,
		To:        to,
		Limit:     eventListLimit,
	})
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []*domain.CustomEvent{}
	}

	summary, err := s.repo.EventSummary(ctx, tenant.ID)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		summary = map[string]domain.EventTypeStats{}
	}

	byDay := make(map[string]int64, len(events))
	for _, e := range events {
		byDay[e.CreatedAt.UTC().Format("2006-01-02")]++
	}

	return &EventsReport{
		Data:        events,
		Summary:     summary,
		EventsByDay: byDay,
		TotalEvents: len(events),
	}, nil
}
