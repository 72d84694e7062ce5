package domain

import (
	"context"
	"fmt"
)

// Raw records as returned by the Shopify Admin REST API. Monetary amounts
// arrive as decimal strings; the reconciler owns their parsing.

type ShopifyCustomer struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	TotalSpent  string `json:"total_spent"`
	OrdersCount int    `json:"orders_count"`
	CreatedAt   string `json:"created_at"`
}

type ShopifyVariant struct {
	ID                int64  `json:"id"`
	SKU               string `json:"sku"`
	Price             string `json:"price"`
	CompareAtPrice    string `json:"compare_at_price"`
	InventoryQuantity int    `json:"inventory_quantity"`
}

type ShopifyProduct struct {
	ID        int64            `json:"id"`
	Title     string           `json:"title"`
	Vendor    string           `json:"vendor"`
	Status    string           `json:"status"`
	CreatedAt string           `json:"created_at"`
	Variants  []ShopifyVariant `json:"variants"`
}

type ShopifyLineItem struct {
	VariantID *int64 `json:"variant_id"`
	ProductID int64  `json:"product_id"`
	Title     string `json:"title"`
	SKU       string `json:"sku"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
}

type ShopifyOrder struct {
	ID                int64             `json:"id"`
	OrderNumber       int64             `json:"order_number"`
	Name              string            `json:"name"`
	Email             string            `json:"email"`
	TotalPrice        string            `json:"total_price"`
	SubtotalPrice     string            `json:"subtotal_price"`
	TotalTax          string            `json:"total_tax"`
	Currency          string            `json:"currency"`
	FinancialStatus   string            `json:"financial_status"`
	FulfillmentStatus string            `json:"fulfillment_status"`
	CreatedAt         string            `json:"created_at"`
	Customer          *ShopifyCustomer  `json:"customer"`
	LineItems         []ShopifyLineItem `json:"line_items"`
}

// ConnectionStatus is the result of a commerce connectivity test.
type ConnectionStatus struct {
	Success bool   `json:"success"`
	Shop    string `json:"shop,omitempty"`
	Message string `json:"message"`
}

// CommerceClient is the read contract against the external platform.
// sinceID is an optional pagination cursor; empty means from the start.
type CommerceClient interface {
	ListCustomers(ctx context.Context, limit int, sinceID string) ([]ShopifyCustomer, error)
	ListProducts(ctx context.Context, limit int, sinceID string) ([]ShopifyProduct, error)
	ListOrders(ctx context.Context, limit int, sinceID string) ([]ShopifyOrder, error)
	TestConnection(ctx context.Context) (*ConnectionStatus, error)
}

// CommerceClientFactory builds a client bound to one store.
type CommerceClientFactory interface {
	For(storeURL string) CommerceClient
}

// UpstreamError marks failures of the external platform so the HTTP boundary
// can map them to 502 instead of 500.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("shopify %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
