package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Tenant represents one connected store. Every synced record is scoped to a
// tenant; no entity is shared across tenants.
type Tenant struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Shop      string    `json:"shop"` // store handle, e.g. "acme" for acme.myshopify.com
	StoreURL  string    `json:"storeUrl"`
	APIKey    string    `json:"-"`
	APISecret string    `json:"-"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TenantRepository defines the interface for tenant persistence.
// Find methods return (nil, nil) when no row matches.
type TenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindByShop(ctx context.Context, shop string) (*Tenant, error)
	List(ctx context.Context) ([]*Tenant, error)
	Store(ctx context.Context, t *Tenant) error
}
