package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/merchware/pulseboard/internal/domain"
)

type postgresTenantRepository struct {
	db *sql.DB
}

func NewPostgresTenantRepository(db *sql.DB) domain.TenantRepository {
	return &postgresTenantRepository{db: db}
}

const tenantColumns = `id, name, shop, store_url, api_key, api_secret, is_active, created_at, updated_at`

func scanTenant(row *sql.Row) (*domain.Tenant, error) {
	var t domain.Tenant
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Shop,
		&t.StoreURL,
		&t.APIKey,
		&t.APISecret,
		&t.IsActive,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // not found
		}
		return nil, err
	}
	return &t, nil
}

func (r *postgresTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`

	t, err := scanTenant(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("find tenant by ID: %w", err)
	}
	return t, nil
}

func (r *postgresTenantRepository) FindByShop(ctx context.Context, shop string) (*domain.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE shop = $1`

	t, err := scanTenant(r.db.QueryRowContext(ctx, query, shop))
	if err != nil {
		return nil, fmt.Errorf("find tenant by shop: %w", err)
	}
	return t, nil
}

func (r *postgresTenantRepository) List(ctx context.Context) ([]*domain.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []*domain.Tenant
	for rows.Next() {
		var t domain.Tenant
		if err := rows.Scan(
			&t.ID,
			&t.Name,
			&t.Shop,
			&t.StoreURL,
			&t.APIKey,
			&t.APISecret,
			&t.IsActive,
			&t.CreatedAt,
			&t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		tenants = append(tenants, &t)
	}
	return tenants, rows.Err()
}

func (r *postgresTenantRepository) Store(ctx context.Context, t *domain.Tenant) error {
	query := `
        INSERT INTO tenants (id, name, shop, store_url, api_key, api_secret, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `

	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.Name,
		t.Shop,
		t.StoreURL,
		t.APIKey,
		t.APISecret,
		t.IsActive,
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("store tenant: %w", err)
	}
	return nil
}
