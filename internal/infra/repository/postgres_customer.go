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

type postgresCustomerRepository struct {
	db *sql.DB
}

func NewPostgresCustomerRepository(db *sql.DB) domain.CustomerRepository {
	return &postgresCustomerRepository{db: db}
}

// Upsert overwrites all mutable fields on conflict: sync is last-write-wins,
// there is no field-level merge.
func (r *postgresCustomerRepository) Upsert(ctx context.Context, c *domain.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	c.UpdatedAt = time.Now().UTC()

	query := `
        INSERT INTO customers (id, tenant_id, shopify_id, name, first_name, last_name, email, phone, total_spent, orders_count, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        ON CONFLICT (tenant_id, shopify_id) DO UPDATE SET
            name = EXCLUDED.name,
            first_name = EXCLUDED.first_name,
            last_name = EXCLUDED.last_name,
            email = EXCLUDED.email,
            phone = EXCLUDED.phone,
            total_spent = EXCLUDED.total_spent,
            orders_count = EXCLUDED.orders_count,
            updated_at = EXCLUDED.updated_at
        RETURNING id
    `

	err := r.db.QueryRowContext(ctx, query,
		c.ID,
		c.TenantID,
		c.ShopifyID,
		c.Name,
		c.FirstName,
		c.LastName,
		c.Email,
		c.Phone,
		c.TotalSpent,
		c.OrdersCount,
		c.CreatedAt,
		c.UpdatedAt,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("upsert customer: %w", err)
	}
	return nil
}

func (r *postgresCustomerRepository) FindByShopifyID(ctx context.Context, tenantID uuid.UUID, shopifyID string) (*domain.Customer, error) {
	query := `
        SELECT id, tenant_id, shopify_id, name, first_name, last_name, email, phone, total_spent, orders_count, created_at, updated_at
        FROM customers
        WHERE tenant_id = $1 AND shopify_id = $2
    `

	var c domain.Customer
	err := r.db.QueryRowContext(ctx, query, tenantID, shopifyID).Scan(
		&c.ID,
		&c.TenantID,
		&c.ShopifyID,
		&c.Name,
		&c.FirstName,
		&c.LastName,
		&c.Email,
		&c.Phone,
		&c.TotalSpent,
		&c.OrdersCount,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // not found
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}
	return &c, nil
}
