package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/merchware/pulseboard/internal/domain"
)

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) domain.EventRepository {
	return &postgresEventRepository{db: db}
}

func (r *postgresEventRepository) Store(ctx context.Context, e *domain.CustomEvent) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	query := `
        INSERT INTO custom_events (id, tenant_id, event_type, customer_email, token, total_value, items_count, event_data, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `

	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.TenantID,
		e.EventType,
		e.CustomerEmail,
		e.Token,
		e.TotalValue,
		e.ItemsCount,
		[]byte(e.EventData),
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("store custom event: %w", err)
	}
	return nil
}

func (r *postgresEventRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM custom_events WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old events: %w", err)
	}
	return res.RowsAffected()
}
