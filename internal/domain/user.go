package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("not found")
)

// User is a dashboard account. A user belongs to at most one tenant;
// the tenant is attached lazily on the first full sync.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	TenantID     *uuid.UUID `json:"tenantId,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Store(ctx context.Context, u *User) error
	// SetTenant associates a user with a tenant after lazy tenant creation.
	SetTenant(ctx context.Context, userID, tenantID uuid.UUID) error
}
