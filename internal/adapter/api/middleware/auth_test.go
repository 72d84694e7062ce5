package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/merchware/pulseboard/internal/domain"
	"github.com/merchware/pulseboard/internal/domain/mocks"
	"github.com/merchware/pulseboard/internal/pkg/util"
)

const jwtSecret = "mw-test-secret"

func authChain(users *mocks.MockUserRepository, tenants *mocks.MockTenantRepository, next http.Handler) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return Authenticate(jwtSecret, users, tenants, logger)(next)
}

func TestAuthenticateLoadsUserAndTenant(t *testing.T) {
	tenantID := uuid.New()
	user := &domain.User{ID: uuid.New(), Email: "pat@example.com", TenantID: &tenantID}
	users := &mocks.MockUserRepository{Users: []*domain.User{user}}
	tenants := &mocks.MockTenantRepository{Tenants: []*domain.Tenant{{ID: tenantID, Shop: "acme"}}}

	var gotUser *domain.User
	var gotTenant *domain.Tenant
	h := authChain(users, tenants, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserFromContext(r.Context())
		gotTenant = TenantFromContext(r.Context())
	}))

	token, err := util.GenerateToken(user.ID, user.Email, jwtSecret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/analytics/summary", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if gotUser == nil || gotUser.ID != user.ID {
		t.Error("user not loaded into context")
	}
	if gotTenant == nil || gotTenant.Shop != "acme" {
		t.Error("tenant not loaded into context")
	}
}

func TestAuthenticateAllowsTenantlessUser(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Email: "new@example.com"}
	users := &mocks.MockUserRepository{Users: []*domain.User{user}}

	var gotTenant *domain.Tenant
	called := false
	h := authChain(users, &mocks.MockTenantRepository{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		gotTenant = TenantFromContext(r.Context())
	}))

	token, _ := util.GenerateToken(user.ID, user.Email, jwtSecret, time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if !called {
		t.Fatal("handler not reached")
	}
	if gotTenant != nil {
		t.Error("tenant must be nil for a fresh user")
	}
}

func TestAuthenticateRejections(t *testing.T) {
	users := &mocks.MockUserRepository{}
	h := authChain(users, &mocks.MockTenantRepository{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not be reached")
	}))

	expired, _ := util.GenerateToken(uuid.New(), "x@example.com", jwtSecret, -time.Minute)
	unknownUser, _ := util.GenerateToken(uuid.New(), "ghost@example.com", jwtSecret, time.Hour)
	wrongKey, _ := util.GenerateToken(uuid.New(), "x@example.com", "other-secret", time.Hour)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"expired token", "Bearer " + expired},
		{"wrong signing key", "Bearer " + wrongKey},
		{"unknown user", "Bearer " + unknownUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rr.Code)
			}
		})
	}
}

func TestRequireTenant(t *testing.T) {
	called := false
	h := RequireTenant(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/ingest/orders", nil))
	if rr.Code != http.StatusBadRequest || called {
		t.Errorf("tenant-less call: status = %d, called = %v", rr.Code, called)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/ingest/orders", nil)
	req = req.WithContext(WithTenant(req.Context(), &domain.Tenant{ID: uuid.New()}))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || !called {
		t.Errorf("with tenant: status = %d, called = %v", rr.Code, called)
	}
}
