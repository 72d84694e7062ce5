package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/merchware/pulseboard/internal/adapter/metrics"
	"github.com/merchware/pulseboard/internal/domain"
)

// ErrNotConfigured is returned when no store credentials are configured and a
// tenant would have to be created.
var ErrNotConfigured = errors.New("shopify store configuration missing")

// StoreConfig carries the platform credentials used for lazily created
// tenants.
type StoreConfig struct {
	StoreURL  string
	APIKey    string
	APISecret string
}

// FullSyncResult reports one complete pull-reconcile pass for a tenant.
type FullSyncResult struct {
	Store     string       `json:"store"`
	Customers Summary      `json:"customers"`
	Products  Summary      `json:"products"`
	Orders    OrderSummary `json:"orders"`
}

// SyncService orchestrates pull-based synchronization: it enumerates tenants,
// fetches batches from the commerce platform and hands them to the
// reconciliation pipeline. One tenant's failure never stops a sweep.
type SyncService struct {
	tenants      domain.TenantRepository
	users        domain.UserRepository
	reconciler   ReconcileUseCase
	clients      domain.CommerceClientFactory
	store        StoreConfig
	pageSize     int
	fetchTimeout time.Duration
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

// NewSyncService creates the sync service. metrics may be nil.
func NewSyncService(
	tenants domain.TenantRepository,
	users domain.UserRepository,
	reconciler ReconcileUseCase,
	clients domain.CommerceClientFactory,
	store StoreConfig,
	pageSize int,
	fetchTimeout time.Duration,
	logger *slog.Logger,
	m *metrics.Metrics,
) *SyncService {
	return &SyncService{
		tenants:      tenants,
		users:        users,
		reconciler:   reconciler,
		clients:      clients,
		store:        store,
		pageSize:     pageSize,
		fetchTimeout: fetchTimeout,
		logger:       logger,
		metrics:      m,
	}
}

// EnsureTenant returns the user's tenant, creating one from the configured
// store credentials when the user has none yet.
func (s *SyncService) EnsureTenant(ctx context.Context, user *domain.User, tenant *domain.Tenant) (*domain.Tenant, error) {
	if tenant != nil {
		return tenant, nil
	}
	if s.store.StoreURL == "" || s.store.APIKey == "" || s.store.APISecret == "" {
		return nil, ErrNotConfigured
	}

	now := time.Now().UTC()
	tenant = &domain.Tenant{
		ID:        uuid.New(),
		Name:      user.Name + "'s Store",
		Shop:      ShopHandle(s.store.StoreURL),
		StoreURL:  s.store.StoreURL,
		APIKey:    s.store.APIKey,
		APISecret: s.store.APISecret,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.tenants.Store(ctx, tenant); err != nil {
		return nil, err
	}
	if err := s.users.SetTenant(ctx, user.ID, tenant.ID); err != nil {
		return nil, err
	}

	s.logger.Info("created tenant for user", "user_id", user.ID, "tenant_id", tenant.ID, "shop", tenant.Shop)
	return tenant, nil
}

// ResolveShopTenant finds the tenant for a webhook shop handle, creating it
// lazily so push deliveries for a new store are never dropped.
func (s *SyncService) ResolveShopTenant(ctx context.Context, shop string) (*domain.Tenant, error) {
	tenant, err := s.tenants.FindByShop(ctx, shop)
	if err != nil {
		return nil, err
	}
	if tenant != nil {
		return tenant, nil
	}

	now := time.Now().UTC()
	tenant = &domain.Tenant{
		ID:        uuid.New(),
		Name:      shop,
		Shop:      shop,
		StoreURL:  shop + ".myshopify.com",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.tenants.Store(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

// FullSync verifies connectivity and runs a complete customer, product and
// order reconciliation pass for the tenant.
func (s *SyncService) FullSync(ctx context.Context, tenant *domain.Tenant) (*FullSyncResult, error) {
	ctx, span := otel.Tracer("sync").Start(ctx, "FullSync")
	defer span.End()

	client := s.clients.For(tenant.StoreURL)

	status, err := client.TestConnection(ctx)
	if err != nil {
		return nil, err
	}
	if !status.Success {
		return nil, &domain.UpstreamError{Op: "test connection", Err: errors.New(status.Message)}
	}

	result := &FullSyncResult{Store: tenant.StoreURL}

	if result.Customers, err = s.PullCustomers(ctx, tenant); err != nil {
		return nil, err
	}
	if result.Products, err = s.PullProducts(ctx, tenant); err != nil {
		return nil, err
	}
	if result.Orders, err = s.PullOrders(ctx, tenant); err != nil {
		return nil, err
	}

	s.logger.Info("full sync completed",
		"tenant_id", tenant.ID,
		"customers", result.Customers.Synced,
		"products", result.Products.Synced,
		"orders", result.Orders.Synced,
	)
	return result, nil
}

// PullCustomers fetches all customer pages and reconciles them.
func (s *SyncService) PullCustomers(ctx context.Context, tenant *domain.Tenant) (Summary, error) {
	client := s.clients.For(tenant.StoreURL)
	total := Summary{}

	var sinceID string
	for {
		batch, err := s.fetchCustomers(ctx, client, sinceID)
		if err != nil {
			return total, err
		}
		if len(batch) == 0 {
			break
		}

		sum, err := s.reconciler.ReconcileCustomers(ctx, tenant.ID, batch)
		total.Total += sum.Total
		total.Synced += sum.Synced
		total.Skipped += sum.Skipped
		if err != nil {
			return total, err
		}

		if len(batch) < s.pageSize {
			break
		}
		sinceID = fmt.Sprintf("%d", batch[len(batch)-1].ID)
	}
	return total, nil
}

// PullProducts fetches all product pages and reconciles them.
func (s *SyncService) PullProducts(ctx context.Context, tenant *domain.Tenant) (Summary, error) {
	client := s.clients.For(tenant.StoreURL)
	total := Summary{}

	var sinceID string
	for {
		fctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
		batch, err := client.ListProducts(fctx, s.pageSize, sinceID)
		cancel()
		if err != nil {
			return total, err
		}
		if len(batch) == 0 {
			break
		}

		sum, err := s.reconciler.ReconcileProducts(ctx, tenant.ID, batch)
		total.Total += sum.Total
		total.Synced += sum.Synced
		total.Skipped += sum.Skipped
		if err != nil {
			return total, err
		}

		if len(batch) < s.pageSize {
			break
		}
		sinceID = fmt.Sprintf("%d", batch[len(batch)-1].ID)
	}
	return total, nil
}

// PullOrders fetches all order pages and reconciles them.
func (s *SyncService) PullOrders(ctx context.Context, tenant *domain.Tenant) (OrderSummary, error) {
	client := s.clients.For(tenant.StoreURL)
	total := OrderSummary{}

	var sinceID string
	for {
		fctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
		batch, err := client.ListOrders(fctx, s.pageSize, sinceID)
		cancel()
		if err != nil {
			return total, err
		}
		if len(batch) == 0 {
			break
		}

		sum, err := s.reconciler.ReconcileOrders(ctx, tenant.ID, batch)
		total.Total += sum.Total
		total.Synced += sum.Synced
		total.Skipped += sum.Skipped
		total.WithCustomer += sum.WithCustomer
		if err != nil {
			return total, err
		}

		if len(batch) < s.pageSize {
			break
		}
		sinceID = fmt.Sprintf("%d", batch[len(batch)-1].ID)
	}
	return total, nil
}

func (s *SyncService) fetchCustomers(ctx context.Context, client domain.CommerceClient, sinceID string) ([]domain.ShopifyCustomer, error) {
	fctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()
	return client.ListCustomers(fctx, s.pageSize, sinceID)
}

// SyncAllTenants runs a full sync for every known tenant sequentially.
// Per-tenant failures are logged and the sweep continues.
func (s *SyncService) SyncAllTenants(ctx context.Context) {
	s.metrics.RecordSweep()

	tenants, err := s.tenants.List(ctx)
	if err != nil {
		s.logger.Error("failed to list tenants for sweep", "error", err)
		return
	}

	s.logger.Info("starting sync sweep", "tenants", len(tenants))
	for _, tenant := range tenants {
		if !tenant.IsActive {
			continue
		}
		if ctx.Err() != nil {
			return
		}

		if _, err := s.FullSync(ctx, tenant); err != nil {
			s.logger.Error("tenant sync failed", "tenant_id", tenant.ID, "shop", tenant.Shop, "error", err)
			s.metrics.RecordTenantSync("error")
			continue
		}
		s.metrics.RecordTenantSync("ok")
	}
}

// ShopHandle derives the shop handle from a store URL:
// "https://acme.myshopify.com" becomes "acme".
func ShopHandle(storeURL string) string {
	h := strings.TrimPrefix(storeURL, "https://")
	h = strings.TrimPrefix(h, "http://")
	h = strings.TrimSuffix(strings.TrimSuffix(h, "/"), ".myshopify.com")
	return h
}
