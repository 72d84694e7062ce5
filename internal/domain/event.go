package domain

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Behavioral event types delivered by the platform.
const (
	EventCartAbandoned   = "cart_abandoned"
	EventCheckoutStarted = "checkout_started"
)

// CustomEvent is a tenant-scoped behavioral event. The full raw payload is
// retained so fields the schema does not model yet are not lost.
type CustomEvent struct {
	ID            uuid.UUID       `json:"id"`
	TenantID      uuid.UUID       `json:"tenantId"`
	EventType     string          `json:"eventType"`
	CustomerEmail string          `json:"customerEmail,omitempty"`
	Token         string          `json:"token,omitempty"`
	TotalValue    *float64        `json:"totalValue,omitempty"`
	ItemsCount    int             `json:"itemsCount"`
	EventData     json.RawMessage `json:"eventData,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// EventRepository persists custom events.
type EventRepository interface {
	Store(ctx context.Context, e *CustomEvent) error
	// DeleteOlderThan prunes events created before the cutoff, across all
	// tenants, and reports how many rows were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
