package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/merchware/pulseboard/internal/domain"
)

type postgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) domain.ProductRepository {
	return &postgresProductRepository{db: db}
}

func (r *postgresProductRepository) Upsert(ctx context.Context, p *domain.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.UpdatedAt = time.Now().UTC()

	query := `
        INSERT INTO products (id, tenant_id, shopify_id, title, vendor, sku, price, compare_at_price, inventory, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        ON CONFLICT (tenant_id, shopify_id) DO UPDATE SET
            title = EXCLUDED.title,
            vendor = EXCLUDED.vendor,
            sku = EXCLUDED.sku,
            price = EXCLUDED.price,
            compare_at_price = EXCLUDED.compare_at_price,
            inventory = EXCLUDED.inventory,
            updated_at = EXCLUDED.updated_at
        RETURNING id
    `

	err := r.db.QueryRowContext(ctx, query,
		p.ID,
		p.TenantID,
		p.ShopifyID,
		p.Title,
		p.Vendor,
		p.SKU,
		p.Price,
		p.CompareAtPrice,
		p.Inventory,
		p.CreatedAt,
		p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}

func (r *postgresProductRepository) FindByShopifyID(ctx context.Context, tenantID uuid.UUID, shopifyID string) (*domain.Product, error) {
	query := `
        SELECT id, tenant_id, shopify_id, title, vendor, sku, price, compare_at_price, inventory, created_at, updated_at
        FROM products
        WHERE tenant_id = $1 AND shopify_id = $2
    `

	var p domain.Product
	err := r.db.QueryRowContext(ctx, query, tenantID, shopifyID).Scan(
		&p.ID,
		&p.TenantID,
		&p.ShopifyID,
		&p.Title,
		&p.Vendor,
		&p.SKU,
		&p.Price,
		&p.CompareAtPrice,
		&p.Inventory,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // not found
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &p, nil
}
