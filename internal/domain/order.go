package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Order is a synced store order, unique per (tenantID, shopifyID).
// CustomerID is nil when the order carried no resolvable customer.
type Order struct {
	ID                uuid.UUID  `json:"id"`
	TenantID          uuid.UUID  `json:"tenantId"`
	ShopifyID         string     `json:"shopifyId"`
	CustomerID        *uuid.UUID `json:"customerId,omitempty"`
	OrderNumber       string     `json:"orderNumber"`
	TotalPrice        float64    `json:"totalPrice"`
	SubtotalPrice     float64    `json:"subtotalPrice"`
	TotalTax          float64    `json:"totalTax"`
	Currency          string     `json:"currency"`
	FinancialStatus   string     `json:"financialStatus"`
	FulfillmentStatus string     `json:"fulfillmentStatus"`
	Email             string     `json:"email"`
	OrderDate         time.Time  `json:"orderDate"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// OrderItem is one line of an order, unique per (orderID, productID).
type OrderItem struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"orderId"`
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
}

// OrderRepository persists orders and their line items.
type OrderRepository interface {
	// Upsert inserts or fully overwrites the row matching
	// (TenantID, ShopifyID) and fills in the surrogate ID.
	Upsert(ctx context.Context, o *Order) error
	// UpsertItem inserts or overwrites the line matching (OrderID, ProductID).
	UpsertItem(ctx context.Context, item *OrderItem) error
}
