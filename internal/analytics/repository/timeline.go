package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"brokerage_backend/internal/analytics/domain"

	"github.com/google/uuid"
)

type stageChangePayload struct {
	PreviousStage string `json:"previousStage"`
	NewStage      string `json:"newStage"`
}

// ListStageChanges returns STAGE_CHANGE entries for the given transactions,
// ordered by occurred_at ascending. Stage names are validated against the
// owning transaction's side.
func (r *Repository) ListStageChanges(ctx context.Context, transactionIDs []uuid.UUID) ([]domain.TimelineEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT te.id, te.transaction_id, te.occurred_at, te.payload, t.side
		FROM timeline_entries te
		JOIN transactions t ON t.id = te.transaction_id
		WHERE te.transaction_id = ANY($1::uuid[])
			AND te.event_type = $2
		ORDER BY te.occurred_at ASC, te.id ASC
	`, idSet(transactionIDs), string(domain.TimelineStageChange))
	if err != nil {
		return nil, fmt.Errorf("list stage changes: %w", err)
	}
	defer rows.Close()

	items := make([]domain.TimelineEntry, 0)
	for rows.Next() {
		var (
			item       domain.TimelineEntry
			rawPayload []byte
			rawSide    string
		)
		if err := rows.Scan(&item.ID, &item.TransactionID, &item.OccurredAt, &rawPayload, &rawSide); err != nil {
			return nil, fmt.Errorf("scan timeline entry: %w", err)
		}
		side, err := domain.ParseSide(rawSide)
		if err != nil {
			return nil, err
		}

		var payload stageChangePayload
		if len(rawPayload) > 0 {
			if err := json.Unmarshal(rawPayload, &payload); err != nil {
				return nil, fmt.Errorf("decode timeline entry %s: %w", item.ID, err)
			}
		}

		item.Type = domain.TimelineStageChange
		if item.PreviousStage, err = optionalStage(payload.PreviousStage, side); err != nil {
			return nil, err
		}
		if item.NewStage, err = optionalStage(payload.NewStage, side); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stage changes: %w", err)
	}
	return items, nil
}

func optionalStage(raw string, side domain.Side) (domain.Optional[domain.Stage], error) {
	if raw == "" {
		return domain.None[domain.Stage](), nil
	}
	stage, err := domain.ParseStage(raw, side)
	if err != nil {
		return domain.None[domain.Stage](), err
	}
	return domain.Some(stage), nil
}
