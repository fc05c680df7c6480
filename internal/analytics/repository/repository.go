package repository

import (
	"errors"
	"time"

	"brokerage_backend/internal/analytics/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("export audit not found")

// Repository reads brokerage tables for analytics and owns the export
// audit table. It is the only writer of analytics_export_audits.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func timeParam(value domain.Optional[time.Time]) *time.Time {
	return value.Ptr()
}

func sideParam(value domain.Optional[domain.Side]) *string {
	side, ok := value.Get()
	if !ok {
		return nil
	}
	raw := string(side)
	return &raw
}

func nullableTime(value time.Time) *time.Time {
	if value.IsZero() {
		return nil
	}
	return &value
}
