package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/merchware/pulseboard/internal/domain"
)

// MockUserRepository is an in-memory implementation of domain.UserRepository
// for testing.
type MockUserRepository struct {
	mu       sync.Mutex
	Users    []*domain.User
	FindErr  error
	StoreErr error
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	for _, u := range m.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	for _, u := range m.Users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) Store(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StoreErr != nil {
		return m.StoreErr
	}
	m.Users = append(m.Users, u)
	return nil
}

func (m *MockUserRepository) SetTenant(ctx context.Context, userID, tenantID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if u.ID == userID {
			id := tenantID
			u.TenantID = &id
			return nil
		}
	}
	return domain.ErrNotFound
}

// MockTenantRepository is an in-memory implementation of
// domain.TenantRepository for testing.
type MockTenantRepository struct {
	mu       sync.Mutex
	Tenants  []*domain.Tenant
	FindErr  error
	ListErr  error
	StoreErr error
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	for _, t := range m.Tenants {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (m *MockTenantRepository) FindByShop(ctx context.Context, shop string) (*domain.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	for _, t := range m.Tenants {
		if t.Shop == shop {
			return t, nil
		}
	}
	return nil, nil
}

func (m *MockTenantRepository) List(ctx context.Context) ([]*domain.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return append([]*domain.Tenant(nil), m.Tenants...), nil
}

func (m *MockTenantRepository) Store(ctx context.Context, t *domain.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StoreErr != nil {
		return m.StoreErr
	}
	m.Tenants = append(m.Tenants, t)
	return nil
}

// MockCustomerRepository keeps customers in insertion order and overwrites on
// natural-key conflicts, mirroring the Postgres upsert.
type MockCustomerRepository struct {
	mu        sync.Mutex
	Customers []*domain.Customer
	UpsertErr error
	FindErr   error
}

func (m *MockCustomerRepository) Upsert(ctx context.Context, c *domain.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	for i, existing := range m.Customers {
		if existing.TenantID == c.TenantID && existing.ShopifyID == c.ShopifyID {
			c.ID = existing.ID
			m.Customers[i] = cloneCustomer(c)
			return nil
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	m.Customers = append(m.Customers, cloneCustomer(c))
	return nil
}

func (m *MockCustomerRepository) FindByShopifyID(ctx context.Context, tenantID uuid.UUID, shopifyID string) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	for _, c := range m.Customers {
		if c.TenantID == tenantID && c.ShopifyID == shopifyID {
			return cloneCustomer(c), nil
		}
	}
	return nil, nil
}

func cloneCustomer(c *domain.Customer) *domain.Customer {
	cp := *c
	return &cp
}

// MockProductRepository mirrors the Postgres product upsert in memory.
type MockProductRepository struct {
	mu        sync.Mutex
	Products  []*domain.Product
	UpsertErr error
	FindErr   error
}

func (m *MockProductRepository) Upsert(ctx context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	for i, existing := range m.Products {
		if existing.TenantID == p.TenantID && existing.ShopifyID == p.ShopifyID {
			p.ID = existing.ID
			m.Products[i] = cloneProduct(p)
			return nil
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.Products = append(m.Products, cloneProduct(p))
	return nil
}

func (m *MockProductRepository) FindByShopifyID(ctx context.Context, tenantID uuid.UUID, shopifyID string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	for _, p := range m.Products {
		if p.TenantID == tenantID && p.ShopifyID == shopifyID {
			return cloneProduct(p), nil
		}
	}
	return nil, nil
}

func cloneProduct(p *domain.Product) *domain.Product {
	cp := *p
	return &cp
}

// MockOrderRepository mirrors the Postgres order and line-item upserts.
type MockOrderRepository struct {
	mu            sync.Mutex
	Orders        []*domain.Order
	Items         []*domain.OrderItem
	UpsertErr     error
	UpsertItemErr error
}

func (m *MockOrderRepository) Upsert(ctx context.Context, o *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	for i, existing := range m.Orders {
		if existing.TenantID == o.TenantID && existing.ShopifyID == o.ShopifyID {
			o.ID = existing.ID
			cp := *o
			m.Orders[i] = &cp
			return nil
		}
	}
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	cp := *o
	m.Orders = append(m.Orders, &cp)
	return nil
}

func (m *MockOrderRepository) UpsertItem(ctx context.Context, item *domain.OrderItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertItemErr != nil {
		return m.UpsertItemErr
	}
	for i, existing := range m.Items {
		if existing.OrderID == item.OrderID && existing.ProductID == item.ProductID {
			item.ID = existing.ID
			cp := *item
			m.Items[i] = &cp
			return nil
		}
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	cp := *item
	m.Items = append(m.Items, &cp)
	return nil
}

// MockEventRepository records custom events in memory.
type MockEventRepository struct {
	mu        sync.Mutex
	Events    []*domain.CustomEvent
	StoreErr  error
	DeleteErr error
}

func (m *MockEventRepository) Store(ctx context.Context, e *domain.CustomEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StoreErr != nil {
		return m.StoreErr
	}
	cp := *e
	m.Events = append(m.Events, &cp)
	return nil
}

func (m *MockEventRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return 0, m.DeleteErr
	}
	var kept []*domain.CustomEvent
	var removed int64
	for _, e := range m.Events {
		if e.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	m.Events = kept
	return removed, nil
}
