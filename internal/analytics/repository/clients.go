package repository

import (
	"context"
	"fmt"

	"brokerage_backend/internal/analytics/domain"
	"brokerage_backend/platform/sanitize"

	"github.com/google/uuid"
)

// SearchClientIDs matches the term against first, last and full name of the
// broker's clients, case-insensitively.
func (r *Repository) SearchClientIDs(ctx context.Context, brokerID uuid.UUID, name string) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id
		FROM users
		WHERE broker_id = $1
			AND role = 'CLIENT'
			AND (first_name ILIKE $2 OR last_name ILIKE $2 OR (first_name || ' ' || last_name) ILIKE $2)
		ORDER BY id
	`, brokerID, sanitize.ContainsPattern(name))
	if err != nil {
		return nil, fmt.Errorf("search clients: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan client id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search clients: %w", err)
	}
	return ids, nil
}

// FindUsersByIDs returns the users that exist; missing IDs are simply absent.
func (r *Repository) FindUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Client, error) {
	if len(ids) == 0 {
		return []domain.Client{}, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, first_name, last_name
		FROM users
		WHERE id = ANY($1::uuid[])
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Client, 0, len(ids))
	for rows.Next() {
		var item domain.Client
		if err := rows.Scan(&item.ID, &item.FirstName, &item.LastName); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	return items, nil
}
