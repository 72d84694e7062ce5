package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/merchware/pulseboard/internal/domain"
)

type postgresOrderRepository struct {
	db *sql.DB
}

func NewPostgresOrderRepository(db *sql.DB) domain.OrderRepository {
	return &postgresOrderRepository{db: db}
}

func (r *postgresOrderRepository) Upsert(ctx context.Context, o *domain.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	o.UpdatedAt = time.Now().UTC()

	query := `
        INSERT INTO orders (id, tenant_id, shopify_id, customer_id, order_number, total_price, subtotal_price, total_tax, currency, financial_status, fulfillment_status, email, order_date, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
        ON CONFLICT (tenant_id, shopify_id) DO UPDATE SET
            customer_id = EXCLUDED.customer_id,
            order_number = EXCLUDED.order_number,
            total_price = EXCLUDED.total_price,
            subtotal_price = EXCLUDED.subtotal_price,
            total_tax = EXCLUDED.total_tax,
            currency = EXCLUDED.currency,
            financial_status = EXCLUDED.financial_status,
            fulfillment_status = EXCLUDED.fulfillment_status,
            email = EXCLUDED.email,
            order_date = EXCLUDED.order_date,
            updated_at = EXCLUDED.updated_at
        RETURNING id
    `

	err := r.db.QueryRowContext(ctx, query,
		o.ID,
		o.TenantID,
		o.ShopifyID,
		o.CustomerID,
		o.OrderNumber,
		o.TotalPrice,
		o.SubtotalPrice,
		o.TotalTax,
		o.Currency,
		o.FinancialStatus,
		o.FulfillmentStatus,
		o.Email,
		o.OrderDate,
		o.CreatedAt,
		o.UpdatedAt,
	).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("upsert order: %w", err)
	}
	return nil
}

func (r *postgresOrderRepository) UpsertItem(ctx context.Context, item *domain.OrderItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	query := `
        INSERT INTO order_items (id, order_id, product_id, quantity, price)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (order_id, product_id) DO UPDATE SET
            quantity = EXCLUDED.quantity,
            price = EXCLUDED.price
        RETURNING id
    `

	err := r.db.QueryRowContext(ctx, query,
		item.ID,
		item.OrderID,
		item.ProductID,
		item.Quantity,
		item.Price,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("upsert order item: %w", err)
	}
	return nil
}
