package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/merchware/pulseboard/internal/domain"
	"github.com/merchware/pulseboard/internal/pkg/util"
)

type contextKey string

const (
	userKey   contextKey = "user"
	tenantKey contextKey = "tenant"
)

// UserFromContext returns the authenticated user, or nil outside the
// Authenticate middleware.
func UserFromContext(ctx context.Context) *domain.User {
	u, _ := ctx.Value(userKey).(*domain.User)
	return u
}

// TenantFromContext returns the caller's tenant. A nil tenant is a valid
// state: the user has not synced a store yet.
func TenantFromContext(ctx context.Context) *domain.Tenant {
	t, _ := ctx.Value(tenantKey).(*domain.Tenant)
	return t
}

// WithUser and WithTenant seed the request context; used by tests.
func WithUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func WithTenant(ctx context.Context, t *domain.Tenant) context.Context {
	return context.WithValue(ctx, tenantKey, t)
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// Authenticate validates the bearer token and loads the user and the user's
// tenant (when present) into the request context.
func Authenticate(secret string, users domain.UserRepository, tenants domain.TenantRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w, "Authorization token required")
				return
			}

			claims, err := util.ValidateToken(strings.TrimPrefix(header, "Bearer "), secret)
			if err != nil {
				logger.Warn("token validation failed", "remote_addr", r.RemoteAddr, "error", err)
				unauthorized(w, "Invalid or expired token")
				return
			}

			user, err := users.FindByID(r.Context(), claims.UserID)
			if err != nil {
				logger.Error("failed to load user", "user_id", claims.UserID, "error", err)
				unauthorized(w, "Invalid or expired token")
				return
			}
			if user == nil {
				unauthorized(w, "Invalid or expired token")
				return
			}

			ctx := WithUser(r.Context(), user)
			if user.TenantID != nil {
				tenant, err := tenants.FindByID(ctx, *user.TenantID)
				if err != nil {
					logger.Error("failed to load tenant", "tenant_id", *user.TenantID, "error", err)
					unauthorized(w, "Invalid or expired token")
					return
				}
				ctx = WithTenant(ctx, tenant)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireTenant rejects requests whose caller has no tenant yet. Used on
// ingestion routes where a tenant-less call cannot do anything useful.
func RequireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if TenantFromContext(r.Context()) == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "No tenant associated with this account. Run a full sync first."})
			return
		}
		next.ServeHTTP(w, r)
	})
}
