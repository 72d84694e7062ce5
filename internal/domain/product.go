package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Product is a synced store product, unique per (tenantID, shopifyID).
// Products are keyed at the variant level: a parent product with N variants
// becomes N rows, each carrying the parent's title and the variant's own
// shopify id, sku and price.
type Product struct {
	ID             uuid.UUID `json:"id"`
	TenantID       uuid.UUID `json:"tenantId"`
	ShopifyID      string    `json:"shopifyId"`
	Title          string    `json:"title"`
	Vendor         string    `json:"vendor"`
	SKU            string    `json:"sku"`
	Price          float64   `json:"price"`
	CompareAtPrice *float64  `json:"compareAtPrice,omitempty"`
	Inventory      int       `json:"inventory"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ProductRepository persists products keyed by their natural key.
type ProductRepository interface {
	Upsert(ctx context.Context, p *Product) error
	// FindByShopifyID returns (nil, nil) when no row matches.
	FindByShopifyID(ctx context.Context, tenantID uuid.UUID, shopifyID string) (*Product, error)
}
