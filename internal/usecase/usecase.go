package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/merchware/pulseboard/internal/domain"
)

// Summary reports the outcome of one reconciliation batch. Skipped counts
// records that failed individually; a store-level failure aborts the batch
// instead and surfaces as an error.
type Summary struct {
	Total   int `json:"total"`
	Synced  int `json:"synced"`
	Skipped int `json:"skipped"`
}

// OrderSummary extends Summary with the number of orders that resolved to a
// customer link.
type OrderSummary struct {
	Summary
	WithCustomer int `json:"withCustomer"`
}

// AuthUseCase defines the contract for authentication services.
type AuthUseCase interface {
	Signup(ctx context.Context, name, email, password string) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// ReconcileUseCase is the merge pipeline between raw platform records and the
// tenant-scoped record store.
type ReconcileUseCase interface {
	ReconcileCustomers(ctx context.Context, tenantID uuid.UUID, records []domain.ShopifyCustomer) (Summary, error)
	ReconcileProducts(ctx context.Context, tenantID uuid.UUID, records []domain.ShopifyProduct) (Summary, error)
	ReconcileOrders(ctx context.Context, tenantID uuid.UUID, records []domain.ShopifyOrder) (OrderSummary, error)
	RecordEvent(ctx context.Context, tenantID uuid.UUID, eventType string, payload []byte) error
}
