package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DailyOrderStat is one bucket of the orders-by-date aggregation.
type DailyOrderStat struct {
	Date         string  `json:"date"` // YYYY-MM-DD
	OrderCount   int64   `json:"orderCount"`
	TotalRevenue float64 `json:"totalRevenue"`
}

// CustomerRank is one row of the top-customers ranking.
type CustomerRank struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	TotalSpent float64   `json:"totalSpent"`
	OrderCount int64     `json:"orderCount"`
}

// ProductRank is one row of the top-products ranking.
type ProductRank struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	SKU               string    `json:"sku"`
	Price             float64   `json:"price"`
	TotalQuantitySold int64     `json:"totalQuantitySold"`
	TotalOrderCount   int64     `json:"totalOrderCount"`
}

// OrderWithCustomer is an order listing row with its customer embedded.
type OrderWithCustomer struct {
	Order
	Customer *CustomerRef `json:"customer,omitempty"`
}

// CustomerRef is the customer summary embedded in order listings.
type CustomerRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// EventTypeStats summarizes custom events of one type.
type EventTypeStats struct {
	Count        int64   `json:"count"`
	TotalValue   float64 `json:"totalValue"`
	AverageValue float64 `json:"averageValue"`
}

// EventFilter narrows a custom-event listing.
type EventFilter struct {
	EventType string
	From      *time.Time
	To        *time.Time
	Limit     int
}

// AnalyticsRepository is the read-only aggregation surface over the record
// store. All queries are tenant-scoped and deterministic; there is no cache.
type AnalyticsRepository interface {
	CountCustomers(ctx context.Context, tenantID uuid.UUID) (int64, error)
	CountOrders(ctx context.Context, tenantID uuid.UUID) (int64, error)
	SumOrderRevenue(ctx context.Context, tenantID uuid.UUID) (float64, error)
	OrdersByDate(ctx context.Context, tenantID uuid.UUID, from, to *time.Time) ([]DailyOrderStat, error)
	// TopCustomers orders by totalSpent descending; ties keep insertion order.
	TopCustomers(ctx context.Context, tenantID uuid.UUID, limit int) ([]CustomerRank, error)
	TopProducts(ctx context.Context, tenantID uuid.UUID, limit int) ([]ProductRank, error)
	ListCustomers(ctx context.Context, tenantID uuid.UUID) ([]*Customer, error)
	ListProducts(ctx context.Context, tenantID uuid.UUID) ([]*Product, error)
	ListOrders(ctx context.Context, tenantID uuid.UUID) ([]*OrderWithCustomer, error)
	ListEvents(ctx context.Context, tenantID uuid.UUID, filter EventFilter) ([]*CustomEvent, error)
	EventSummary(ctx context.Context, tenantID uuid.UUID) (map[string]EventTypeStats, error)
}
