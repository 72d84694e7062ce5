package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/merchware/pulseboard/internal/domain"
)

type postgresAnalyticsRepository struct {
	db *sql.DB
}

func NewPostgresAnalyticsRepository(db *sql.DB) domain.AnalyticsRepository {
	return &postgresAnalyticsRepository{db: db}
}

func (r *postgresAnalyticsRepository) CountCustomers(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers WHERE tenant_id = $1`, tenantID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return n, nil
}

func (r *postgresAnalyticsRepository) CountOrders(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE tenant_id = $1`, tenantID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

func (r *postgresAnalyticsRepository) SumOrderRevenue(ctx context.Context, tenantID uuid.UUID) (float64, error) {
	var sum float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total_price), 0) FROM orders WHERE tenant_id = $1`, tenantID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum order revenue: %w", err)
	}
	return sum, nil
}

func (r *postgresAnalyticsRepository) OrdersByDate(ctx context.Context, tenantID uuid.UUID, from, to *time.Time) ([]domain.DailyOrderStat, error) {
	query := `
        SELECT TO_CHAR(order_date::date, 'YYYY-MM-DD') AS day, COUNT(*), COALESCE(SUM(total_price), 0)
        FROM orders
        WHERE tenant_id = $1
    `
	args := []interface{}{tenantID}
	argIdx := 2

	if from != nil {
		query += fmt.Sprintf(" AND order_date >= $%d", argIdx)
		args = append(args, *from)
		argIdx++
	}
	if to != nil {
		query += fmt.Sprintf(" AND order_date <= $%d", argIdx)
		args = append(args, *to)
		argIdx++
	}
	query += ` GROUP BY 1 ORDER BY 1 ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("orders by date: %w", err)
	}
	defer rows.Close()

	var stats []domain.DailyOrderStat
	for rows.Next() {
		var s domain.DailyOrderStat
		if err := rows.Scan(&s.Date, &s.OrderCount, &s.TotalRevenue); err != nil {
			return nil, fmt.Errorf("scan daily stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// TopCustomers orders by total spend descending; ties keep insertion order via
// the customers table's monotonic sequence.
func (r *postgresAnalyticsRepository) TopCustomers(ctx context.Context, tenantID uuid.UUID, limit int) ([]domain.CustomerRank, error) {
	query := `
        SELECT c.id, c.name, c.email, c.total_spent, COUNT(o.id)
        FROM customers c
        LEFT JOIN orders o ON o.customer_id = c.id
        WHERE c.tenant_id = $1
        GROUP BY c.id, c.name, c.email, c.total_spent, c.inserted_seq
        ORDER BY c.total_spent DESC, c.inserted_seq ASC
        LIMIT $2
    `

	rows, err := r.db.QueryContext(ctx, query, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("top customers: %w", err)
	}
	defer rows.Close()

	var ranks []domain.CustomerRank
	for rows.Next() {
		var c domain.CustomerRank
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.TotalSpent, &c.OrderCount); err != nil {
			return nil, fmt.Errorf("scan customer rank: %w", err)
		}
		ranks = append(ranks, c)
	}
	return ranks, rows.Err()
}

func (r *postgresAnalyticsRepository) TopProducts(ctx context.Context, tenantID uuid.UUID, limit int) ([]domain.ProductRank, error) {
	query := `
        SELECT p.id, p.title, p.sku, p.price, COALESCE(SUM(i.quantity), 0), COUNT(i.id)
        FROM products p
        JOIN order_items i ON i.product_id = p.id
        JOIN orders o ON o.id = i.order_id
        WHERE o.tenant_id = $1
        GROUP BY p.id, p.title, p.sku, p.price
        ORDER BY SUM(i.quantity) DESC
        LIMIT $2
    `

	rows, err := r.db.QueryContext(ctx, query, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()

	var ranks []domain.ProductRank
	for rows.Next() {
		var p domain.ProductRank
		if err := rows.Scan(&p.ID, &p.Name, &p.SKU, &p.Price, &p.TotalQuantitySold, &p.TotalOrderCount); err != nil {
			return nil, fmt.Errorf("scan product rank: %w", err)
		}
		ranks = append(ranks, p)
	}
	return ranks, rows.Err()
}

func (r *postgresAnalyticsRepository) ListCustomers(ctx context.Context, tenantID uuid.UUID) ([]*domain.Customer, error) {
	query := `
        SELECT id, tenant_id, shopify_id, name, first_name, last_name, email, phone, total_spent, orders_count, created_at, updated_at
        FROM customers
        WHERE tenant_id = $1
        ORDER BY total_spent DESC, inserted_seq ASC
    `

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var customers []*domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(
			&c.ID, &c.TenantID, &c.ShopifyID, &c.Name, &c.FirstName, &c.LastName,
			&c.Email, &c.Phone, &c.TotalSpent, &c.OrdersCount, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, &c)
	}
	return customers, rows.Err()
}

func (r *postgresAnalyticsRepository) ListProducts(ctx context.Context, tenantID uuid.UUID) ([]*domain.Product, error) {
	query := `
        SELECT id, tenant_id, shopify_id, title, vendor, sku, price, compare_at_price, inventory, created_at, updated_at
        FROM products
        WHERE tenant_id = $1
        ORDER BY price DESC
    `

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID, &p.TenantID, &p.ShopifyID, &p.Title, &p.Vendor, &p.SKU,
			&p.Price, &p.CompareAtPrice, &p.Inventory, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}

func (r *postgresAnalyticsRepository) ListOrders(ctx context.Context, tenantID uuid.UUID) ([]*domain.OrderWithCustomer, error) {
	query := `
        SELECT o.id, o.tenant_id, o.shopify_id, o.customer_id, o.order_number,
               o.total_price, o.subtotal_price, o.total_tax, o.currency,
               o.financial_status, o.fulfillment_status, o.email, o.order_date,
               o.created_at, o.updated_at,
               c.id, c.name, c.email
        FROM orders o
        LEFT JOIN customers c ON c.id = o.customer_id
        WHERE o.tenant_id = $1
        ORDER BY o.order_date DESC
    `

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.OrderWithCustomer
	for rows.Next() {
		var o domain.OrderWithCustomer
		var custID *uuid.UUID
		var custName, custEmail *string
		if err := rows.Scan(
			&o.ID, &o.TenantID, &o.ShopifyID, &o.CustomerID, &o.OrderNumber,
			&o.TotalPrice, &o.SubtotalPrice, &o.TotalTax, &o.Currency,
			&o.FinancialStatus, &o.FulfillmentStatus, &o.Email, &o.OrderDate,
			&o.CreatedAt, &o.UpdatedAt,
			&custID, &custName, &custEmail,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if custID != nil {
			o.Customer = &domain.CustomerRef{ID: *custID, Name: *custName, Email: *custEmail}
		}
		orders = append(orders, &o)
	}
	return orders, rows.Err()
}

func (r *postgresAnalyticsRepository) ListEvents(ctx context.Context, tenantID uuid.UUID, filter domain.EventFilter) ([]*domain.CustomEvent, error) {
	query := `
        SELECT id, tenant_id, event_type, customer_email, token, total_value, items_count, event_data, created_at
        FROM custom_events
        WHERE tenant_id = $1
    `
	args := []interface{}{tenantID}
	argIdx := 2

	if filter.EventType != "" {
		query += fmt.Sprintf(" AND event_type = $%d", argIdx)
		args = append(args, filter.EventType)
		argIdx++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argIdx)
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", argIdx)
		args = append(args, *filter.To)
		argIdx++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argIdx)
	args = append(args, filter.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []*domain.CustomEvent
	for rows.Next() {
		var e domain.CustomEvent
		var data []byte
		if err := rows.Scan(
			&e.ID, &e.TenantID, &e.EventType, &e.CustomerEmail, &e.Token,
			&e.TotalValue, &e.ItemsCount, &data, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.EventData = data
		events = append(events, &e)
	}
	return events, rows.Err()
}

func (r *postgresAnalyticsRepository) EventSummary(ctx context.Context, tenantID uuid.UUID) (map[string]domain.EventTypeStats, error) {
	query := `
        SELECT event_type, COUNT(*), COALESCE(SUM(total_value), 0), COALESCE(AVG(total_value), 0)
        FROM custom_events
        WHERE tenant_id = $1
        GROUP BY event_type
    `

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("event summary: %w", err)
	}
	defer rows.Close()

	summary := make(map[string]domain.EventTypeStats)
	for rows.Next() {
		var eventType string
		var stats domain.EventTypeStats
		if err := rows.Scan(&eventType, &stats.Count, &stats.TotalValue, &stats.AverageValue); err != nil {
			return nil, fmt.Errorf("scan event summary: %w", err)
		}
		summary[eventType] = stats
	}
	return summary, rows.Err()
}
