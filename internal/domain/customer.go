package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Customer is a synced store customer, unique per (tenantID, shopifyID).
type Customer struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenantId"`
	ShopifyID   string    `json:"shopifyId"`
	Name        string    `json:"name"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	TotalSpent  float64   `json:"totalSpent"`
	OrdersCount int       `json:"ordersCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CustomerRepository persists customers keyed by their natural key.
type CustomerRepository interface {
	// Upsert inserts or fully overwrites the row matching
	// (TenantID, ShopifyID) and fills in the surrogate ID.
	Upsert(ctx context.Context, c *Customer) error
	// FindByShopifyID returns (nil, nil) when no row matches.
	FindByShopifyID(ctx context.Context, tenantID uuid.UUID, shopifyID string) (*Customer, error)
}
