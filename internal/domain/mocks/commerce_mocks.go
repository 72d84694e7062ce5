package mocks

import (
	"context"
	"strconv"

	"github.com/merchware/pulseboard/internal/domain"
)

// MockCommerceClient is a canned-response implementation of
// domain.CommerceClient. Slices are served page by page honoring limit and
// sinceID the way the platform does.
type MockCommerceClient struct {
	Customers []domain.ShopifyCustomer
	Products  []domain.ShopifyProduct
	Orders    []domain.ShopifyOrder

	Status *domain.ConnectionStatus

	CustomersErr  error
	ProductsErr   error
	OrdersErr     error
	ConnectionErr error
}

func (m *MockCommerceClient) ListCustomers(ctx context.Context, limit int, sinceID string) ([]domain.ShopifyCustomer, error) {
	if m.CustomersErr != nil {
		return nil, m.CustomersErr
	}
	return page(m.Customers, limit, sinceID, func(c domain.ShopifyCustomer) int64 { return c.ID }), nil
}

func (m *MockCommerceClient) ListProducts(ctx context.Context, limit int, sinceID string) ([]domain.ShopifyProduct, error) {
	if m.ProductsErr != nil {
		return nil, m.ProductsErr
	}
	return page(m.Products, limit, sinceID, func(p domain.ShopifyProduct) int64 { return p.ID }), nil
}

func (m *MockCommerceClient) ListOrders(ctx context.Context, limit int, sinceID string) ([]domain.ShopifyOrder, error) {
	if m.OrdersErr != nil {
		return nil, m.OrdersErr
	}
	return page(m.Orders, limit, sinceID, func(o domain.ShopifyOrder) int64 { return o.ID }), nil
}

func (m *MockCommerceClient) TestConnection(ctx context.Context) (*domain.ConnectionStatus, error) {
	if m.ConnectionErr != nil {
		return nil, m.ConnectionErr
	}
	if m.Status != nil {
		return m.Status, nil
	}
	return &domain.ConnectionStatus{Success: true, Shop: "mock", Message: "connected"}, nil
}

func page[T any](all []T, limit int, sinceID string, id func(T) int64) []T {
	start := 0
	if sinceID != "" {
		for i, v := range all {
			if strconv.FormatInt(id(v), 10) == sinceID {
				start = i + 1
				break
			}
		}
	}
	end := start + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	if start >= len(all) {
		return nil
	}
	return all[start:end]
}

// MockClientFactory hands out the same client for every store.
type MockClientFactory struct {
	Client *MockCommerceClient
}

func (f *MockClientFactory) For(storeURL string) domain.CommerceClient {
	return f.Client
}
