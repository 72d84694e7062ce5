package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/merchware/pulseboard/internal/adapter/metrics"
	"github.com/merchware/pulseboard/internal/domain"
)

// Reconciler merges raw platform records into the tenant-scoped record store.
// Upserts are keyed by (tenantID, shopifyID), so replaying the same input is
// idempotent and duplicate webhook/poll deliveries converge to one row with
// last-write-wins field values.
//
// A failure on a single record is counted as skipped and the batch continues;
// a store-level failure aborts the batch and surfaces to the caller.
type Reconciler struct {
	customers domain.CustomerRepository
	products  domain.ProductRepository
	orders    domain.OrderRepository
	events    domain.EventRepository
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// NewReconciler creates a Reconciler. metrics may be nil.
func NewReconciler(
	customers domain.CustomerRepository,
	products domain.ProductRepository,
	orders domain.OrderRepository,
	events domain.EventRepository,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Reconciler {
	return &Reconciler{
		customers: customers,
		products:  products,
		orders:    orders,
		events:    events,
		logger:    logger,
		metrics:   m,
	}
}

// ReconcileCustomers upserts a batch of raw customers for one tenant.
func (r *Reconciler) ReconcileCustomers(ctx context.Context, tenantID uuid.UUID, records []domain.ShopifyCustomer) (Summary, error) {
	ctx, span := otel.Tracer("reconciler").Start(ctx, "ReconcileCustomers")
	defer span.End()

	sum := Summary{Total: len(records)}
	for _, rec := range records {
		if rec.ID == 0 {
			r.logger.Warn("skipping customer with no external id", "tenant_id", tenantID)
			sum.Skipped++
			r.metrics.RecordReconciled("customer", "skipped")
			continue
		}

		c := normalizeCustomer(tenantID, rec)
		if err := r.customers.Upsert(ctx, c); err != nil {
			return sum, err
		}
		sum.Synced++
		r.metrics.RecordReconciled("customer", "synced")
	}

	return sum, nil
}

// ReconcileProducts upserts a batch of raw products for one tenant. Each
// parent product expands into one row per variant; Synced counts variant rows
// while Total counts parent records.
func (r *Reconciler) ReconcileProducts(ctx context.Context, tenantID uuid.UUID, records []domain.ShopifyProduct) (Summary, error) {
	ctx, span := otel.Tracer("reconciler").Start(ctx, "ReconcileProducts")
	defer span.End()

	sum := Summary{Total: len(records)}
	for _, rec := range records {
		if rec.ID == 0 {
			r.logger.Warn("skipping product with no external id", "tenant_id", tenantID)
			sum.Skipped++
			r.metrics.RecordReconciled("product", "skipped")
			continue
		}

		for _, p := range normalizeProduct(tenantID, rec) {
			if err := r.products.Upsert(ctx, p); err != nil {
				return sum, err
			}
			sum.Synced++
			r.metrics.RecordReconciled("product", "synced")
		}
	}

	return sum, nil
}

// ReconcileOrders upserts a batch of raw orders for one tenant, resolving each
// order's customer and line-item products with create-on-miss fallbacks.
// Orders with no resolvable customer are persisted with a nil customer link.
func (r *Reconciler) ReconcileOrders(ctx context.Context, tenantID uuid.UUID, records []domain.ShopifyOrder) (OrderSummary, error) {
	ctx, span := otel.Tracer("reconciler").Start(ctx, "ReconcileOrders")
	defer span.End()

	sum := OrderSummary{Summary: Summary{Total: len(records)}}
	for _, rec := range records {
		if rec.ID == 0 {
			r.logger.Warn("skipping order with no external id", "tenant_id", tenantID)
			sum.Skipped++
			r.metrics.RecordReconciled("order", "skipped")
			continue
		}

		linked, err := r.reconcileOrder(ctx, tenantID, rec)
		if err != nil {
			return sum, err
		}
		if linked {
			sum.WithCustomer++
		}
		sum.Synced++
		r.metrics.RecordReconciled("order", "synced")
	}

	return sum, nil
}

func (r *Reconciler) reconcileOrder(ctx context.Context, tenantID uuid.UUID, rec domain.ShopifyOrder) (linked bool, err error) {
	customerID, err := r.resolveCustomer(ctx, tenantID, rec)
	if err != nil {
		return false, err
	}

	order := normalizeOrder(tenantID, rec)
	order.CustomerID = customerID
	if err := r.orders.Upsert(ctx, order); err != nil {
		return false, err
	}

	for _, item := range rec.LineItems {
		product, err := r.resolveLineItemProduct(ctx, tenantID, item)
		if err != nil {
			return false, err
		}
		if product == nil {
			// line item carried no usable product reference
			r.logger.Warn("skipping line item with no product id",
				"tenant_id", tenantID, "order_id", rec.ID)
			continue
		}

		if err := r.orders.UpsertItem(ctx, &domain.OrderItem{
			OrderID:   order.ID,
			ProductID: product.ID,
			Quantity:  item.Quantity,
			Price:     parseAmount(item.Price),
		}); err != nil {
			return false, err
		}
	}

	return customerID != nil, nil
}

// resolveCustomer looks up the order's customer by external id, creating it
// from the embedded customer data on miss. Returns nil when the order carries
// no embedded customer at all.
func (r *Reconciler) resolveCustomer(ctx context.Context, tenantID uuid.UUID, rec domain.ShopifyOrder) (*uuid.UUID, error) {
	if rec.Customer == nil || rec.Customer.ID == 0 {
		return nil, nil
	}

	shopifyID := strconv.FormatInt(rec.Customer.ID, 10)
	existing, err := r.customers.FindByShopifyID(ctx, tenantID, shopifyID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &existing.ID, nil
	}

	c := normalizeCustomer(tenantID, *rec.Customer)
	if c.Email == "" {
		c.Email = rec.Email
	}
	if err := r.customers.Upsert(ctx, c); err != nil {
		return nil, err
	}
	return &c.ID, nil
}

// resolveLineItemProduct looks up the line item's product by variant id,
// falling back to the parent product id, creating a minimal product from the
// line item's own fields on miss.
func (r *Reconciler) resolveLineItemProduct(ctx context.Context, tenantID uuid.UUID, item domain.ShopifyLineItem) (*domain.Product, error) {
	var shopifyID string
	switch {
	case item.VariantID != nil && *item.VariantID != 0:
		shopifyID = strconv.FormatInt(*item.VariantID, 10)
	case item.ProductID != 0:
		shopifyID = strconv.FormatInt(item.ProductID, 10)
	default:
		return nil, nil
	}

	existing, err := r.products.FindByShopifyID(ctx, tenantID, shopifyID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	p := &domain.Product{
		TenantID:  tenantID,
		ShopifyID: shopifyID,
		Title:     item.Title,
		SKU:       item.SKU,
		Price:     parseAmount(item.Price),
	}
	if err := r.products.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// RecordEvent stores one behavioral event (cart abandoned, checkout started)
// with the raw payload retained verbatim.
func (r *Reconciler) RecordEvent(ctx context.Context, tenantID uuid.UUID, eventType string, payload []byte) error {
	ctx, span := otel.Tracer("reconciler").Start(ctx, "RecordEvent")
	defer span.End()

	var body struct {
		Email      string            `json:"email"`
		Token      string            `json:"token"`
		TotalPrice string            `json:"total_price"`
		LineItems  []json.RawMessage `json:"line_items"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return err
	}

	event := &domain.CustomEvent{
		TenantID:      tenantID,
		EventType:     eventType,
		CustomerEmail: body.Email,
		Token:         body.Token,
		ItemsCount:    len(body.LineItems),
		EventData:     json.RawMessage(payload),
	}
	if body.TotalPrice != "" {
		v := parseAmount(body.TotalPrice)
		event.TotalValue = &v
	}

	if err := r.events.Store(ctx, event); err != nil {
		return err
	}
	r.metrics.RecordReconciled("event", "synced")
	return nil
}

func normalizeCustomer(tenantID uuid.UUID, rec domain.ShopifyCustomer) *domain.Customer {
	return &domain.Customer{
		TenantID:    tenantID,
		ShopifyID:   strconv.FormatInt(rec.ID, 10),
		Name:        strings.TrimSpace(rec.FirstName + " " + rec.LastName),
		FirstName:   rec.FirstName,
		LastName:    rec.LastName,
		Email:       rec.Email,
		Phone:       rec.Phone,
		TotalSpent:  parseAmount(rec.TotalSpent),
		OrdersCount: rec.OrdersCount,
		CreatedAt:   parseTime(rec.CreatedAt),
	}
}

// normalizeProduct expands one parent product into one row per variant. A
// parent with no variants still yields one row keyed by the parent id.
func normalizeProduct(tenantID uuid.UUID, rec domain.ShopifyProduct) []*domain.Product {
	created := parseTime(rec.CreatedAt)

	if len(rec.Variants) == 0 {
		return []*domain.Product{{
			TenantID:  tenantID,
			ShopifyID: strconv.FormatInt(rec.ID, 10),
			Title:     rec.Title,
			Vendor:    rec.Vendor,
			CreatedAt: created,
		}}
	}

	rows := make([]*domain.Product, 0, len(rec.Variants))
	for _, v := range rec.Variants {
		p := &domain.Product{
			TenantID:  tenantID,
			ShopifyID: strconv.FormatInt(v.ID, 10),
			Title:     rec.Title,
			Vendor:    rec.Vendor,
			SKU:       v.SKU,
			Price:     parseAmount(v.Price),
			Inventory: v.InventoryQuantity,
			CreatedAt: created,
		}
		if v.CompareAtPrice != "" {
			cap := parseAmount(v.CompareAtPrice)
			p.CompareAtPrice = &cap
		}
		rows = append(rows, p)
	}
	return rows
}

func normalizeOrder(tenantID uuid.UUID, rec domain.ShopifyOrder) *domain.Order {
	orderNumber := rec.Name
	if rec.OrderNumber != 0 {
		orderNumber = strconv.FormatInt(rec.OrderNumber, 10)
	}

	currency := rec.Currency
	if currency == "" {
		currency = "USD"
	}
	financial := rec.FinancialStatus
	if financial == "" {
		financial = "pending"
	}
	fulfillment := rec.FulfillmentStatus
	if fulfillment == "" {
		fulfillment = "unfulfilled"
	}

	return &domain.Order{
		TenantID:          tenantID,
		ShopifyID:         strconv.FormatInt(rec.ID, 10),
		OrderNumber:       orderNumber,
		TotalPrice:        parseAmount(rec.TotalPrice),
		SubtotalPrice:     parseAmount(rec.SubtotalPrice),
		TotalTax:          parseAmount(rec.TotalTax),
		Currency:          currency,
		FinancialStatus:   financial,
		FulfillmentStatus: fulfillment,
		Email:             rec.Email,
		OrderDate:         parseTime(rec.CreatedAt),
	}
}

// parseAmount parses a decimal string, defaulting to 0 on absence or failure.
func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// parseTime parses the platform's creation timestamp, defaulting to the
// current time when absent or malformed.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Now().UTC()
	}
	return t
}
