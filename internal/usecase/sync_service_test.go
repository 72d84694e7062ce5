package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/merchware/pulseboard/internal/domain"
	"github.com/merchware/pulseboard/internal/domain/mocks"
)

type syncFixture struct {
	tenants *mocks.MockTenantRepository
	users   *mocks.MockUserRepository
	rec     *reconcilerFixture
	client  *mocks.MockCommerceClient
	svc     *SyncService
}

func newSyncFixture(store StoreConfig, pageSize int) *syncFixture {
	f := &syncFixture{
		tenants: &mocks.MockTenantRepository{},
		users:   &mocks.MockUserRepository{},
		rec:     newReconcilerFixture(),
		client:  &mocks.MockCommerceClient{},
	}
	f.svc = NewSyncService(
		f.tenants, f.users, f.rec.reconcile,
		&mocks.MockClientFactory{Client: f.client},
		store, pageSize, time.Second, discardLogger(), nil,
	)
	return f
}

func configuredStore() StoreConfig {
	return StoreConfig{StoreURL: "https://acme.myshopify.com", APIKey: "key", APISecret: "secret"}
}

func TestEnsureTenantCreatesLazily(t *testing.T) {
	f := newSyncFixture(configuredStore(), 250)
	user := &domain.User{ID: uuid.New(), Name: "Pat", Email: "pat@example.com"}
	f.users.Users = append(f.users.Users, user)

	tenant, err := f.svc.EnsureTenant(context.Background(), user, nil)
	if err != nil {
		t.Fatal(err)
	}

	if tenant.Shop != "acme" {
		t.Errorf("shop = %q, want %q", tenant.Shop, "acme")
	}
	if tenant.Name != "Pat's Store" {
		t.Errorf("name = %q", tenant.Name)
	}
	if user.TenantID == nil || *user.TenantID != tenant.ID {
		t.Error("user not linked to created tenant")
	}
	if len(f.tenants.Tenants) != 1 {
		t.Errorf("tenant rows = %d", len(f.tenants.Tenants))
	}
}

func TestEnsureTenantWithoutStoreConfig(t *testing.T) {
	f := newSyncFixture(StoreConfig{}, 250)
	user := &domain.User{ID: uuid.New(), Name: "Pat"}

	_, err := f.svc.EnsureTenant(context.Background(), user, nil)
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestEnsureTenantReturnsExisting(t *testing.T) {
	f := newSyncFixture(configuredStore(), 250)
	existing := &domain.Tenant{ID: uuid.New(), Shop: "acme"}

	tenant, err := f.svc.EnsureTenant(context.Background(), &domain.User{}, existing)
	if err != nil {
		t.Fatal(err)
	}
	if tenant != existing {
		t.Error("existing tenant must be returned untouched")
	}
	if len(f.tenants.Tenants) != 0 {
		t.Error("no tenant row should be created")
	}
}

func TestResolveShopTenantCreatesOnMiss(t *testing.T) {
	f := newSyncFixture(StoreConfig{}, 250)

	tenant, err := f.svc.ResolveShopTenant(context.Background(), "fresh-shop")
	if err != nil {
		t.Fatal(err)
	}
	if tenant.Shop != "fresh-shop" || !tenant.IsActive {
		t.Errorf("tenant = %+v", tenant)
	}

	again, err := f.svc.ResolveShopTenant(context.Background(), "fresh-shop")
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != tenant.ID {
		t.Error("second resolution must return the same tenant")
	}
	if len(f.tenants.Tenants) != 1 {
		t.Errorf("tenant rows = %d, want 1", len(f.tenants.Tenants))
	}
}

func TestPullCustomersPaginates(t *testing.T) {
	f := newSyncFixture(configuredStore(), 2)
	for i := int64(1); i <= 5; i++ {
		f.client.Customers = append(f.client.Customers, domain.ShopifyCustomer{ID: i, Email: "c@example.com"})
	}
	tenant := &domain.Tenant{ID: uuid.New(), StoreURL: "https://acme.myshopify.com"}

	sum, err := f.svc.PullCustomers(context.Background(), tenant)
	if err != nil {
		t.Fatal(err)
	}

	if sum.Total != 5 || sum.Synced != 5 {
		t.Errorf("summary = %+v", sum)
	}
	if len(f.rec.customers.Customers) != 5 {
		t.Errorf("rows = %d, want 5", len(f.rec.customers.Customers))
	}
}

func TestFullSyncFailsOnBrokenConnection(t *testing.T) {
	f := newSyncFixture(configuredStore(), 250)
	f.client.Status = &domain.ConnectionStatus{Success: false, Message: "invalid token"}
	tenant := &domain.Tenant{ID: uuid.New(), StoreURL: "https://acme.myshopify.com"}

	_, err := f.svc.FullSync(context.Background(), tenant)
	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("err = %v, want UpstreamError", err)
	}
}

func TestSyncAllTenantsIsolatesFailures(t *testing.T) {
	f := newSyncFixture(configuredStore(), 250)
	f.client.Customers = []domain.ShopifyCustomer{{ID: 1}}

	broken := &domain.Tenant{ID: uuid.New(), Shop: "broken", StoreURL: "https://broken.myshopify.com", IsActive: true}
	healthy := &domain.Tenant{ID: uuid.New(), Shop: "healthy", StoreURL: "https://healthy.myshopify.com", IsActive: true}
	inactive := &domain.Tenant{ID: uuid.New(), Shop: "paused", StoreURL: "https://paused.myshopify.com"}
	f.tenants.Tenants = []*domain.Tenant{broken, healthy, inactive}

	// the broken store fails at the connection test, the healthy one succeeds
	seen := map[string]bool{}
	origClient := f.client
	f.svc.clients = factoryFunc(func(storeURL string) domain.CommerceClient {
		seen[storeURL] = true
		if storeURL == broken.StoreURL {
			return &mocks.MockCommerceClient{ConnectionErr: errors.New("dns failure")}
		}
		return origClient
	})

	f.svc.SyncAllTenants(context.Background())

	if seen[inactive.StoreURL] {
		t.Error("inactive tenant must be skipped")
	}
	if !seen[broken.StoreURL] || !seen[healthy.StoreURL] {
		t.Errorf("active tenants not visited: %v", seen)
	}
	// healthy tenant synced despite the broken one failing first
	if len(f.rec.customers.Customers) != 1 {
		t.Errorf("healthy tenant rows = %d, want 1", len(f.rec.customers.Customers))
	}
}

type factoryFunc func(storeURL string) domain.CommerceClient

func (f factoryFunc) For(storeURL string) domain.CommerceClient { return f(storeURL) }

func TestShopHandle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://acme.myshopify.com", "acme"},
		{"http://acme.myshopify.com/", "acme"},
		{"acme.myshopify.com", "acme"},
		{"acme", "acme"},
	}
	for _, tt := range tests {
		if got := ShopHandle(tt.in); got != tt.want {
			t.Errorf("ShopHandle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
