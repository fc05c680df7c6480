package repository

import (
	"context"
	"errors"
	"fmt"

	"brokerage_backend/internal/analytics/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const exportAuditColumns = `id, broker_id, broker_name, format, filters, archive_key, exported_at`

// AppendExportAudit inserts one audit row. The server assigns id and
// exported_at when the caller leaves them zero.
func (r *Repository) AppendExportAudit(ctx context.Context, audit domain.ExportAudit) (domain.ExportAudit, error) {
	var id *uuid.UUID
	if audit.ID != uuid.Nil {
		id = &audit.ID
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO analytics_export_audits (id, broker_id, broker_name, format, filters, exported_at)
		VALUES (COALESCE($1, gen_random_uuid()), $2, $3, $4, $5, COALESCE($6, now()))
		RETURNING `+exportAuditColumns,
		id, audit.BrokerID, audit.BrokerName, string(audit.Format), audit.Filters, nullableTime(audit.ExportedAt))

	stored, err := scanExportAudit(row)
	if err != nil {
		return domain.ExportAudit{}, fmt.Errorf("append export audit: %w", err)
	}
	return stored, nil
}

// ListExportAudits returns the broker's most recent exports first.
func (r *Repository) ListExportAudits(ctx context.Context, brokerID uuid.UUID, limit int) ([]domain.ExportAudit, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+exportAuditColumns+`
		FROM analytics_export_audits
		WHERE broker_id = $1
		ORDER BY exported_at DESC, id DESC
		LIMIT $2
	`, brokerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list export audits: %w", err)
	}
	defer rows.Close()

	items := make([]domain.ExportAudit, 0)
	for rows.Next() {
		item, err := scanExportAudit(rows)
		if err != nil {
			return nil, fmt.Errorf("list export audits: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list export audits: %w", err)
	}
	return items, nil
}

func (r *Repository) GetExportAudit(ctx context.Context, brokerID, id uuid.UUID) (domain.ExportAudit, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+exportAuditColumns+`
		FROM analytics_export_audits
		WHERE id = $1 AND broker_id = $2
	`, id, brokerID)

	item, err := scanExportAudit(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ExportAudit{}, ErrNotFound
	}
	if err != nil {
		return domain.ExportAudit{}, fmt.Errorf("get export audit: %w", err)
	}
	return item, nil
}

func (r *Repository) SetArchiveKey(ctx context.Context, id uuid.UUID, key string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE analytics_export_audits SET archive_key = $2
		WHERE id = $1
	`, id, key)
	if err != nil {
		return fmt.Errorf("set archive key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanExportAudit(row pgx.Row) (domain.ExportAudit, error) {
	var (
		item       domain.ExportAudit
		rawFormat  string
		archiveKey *string
	)
	if err := row.Scan(&item.ID, &item.BrokerID, &item.BrokerName, &rawFormat, &item.Filters, &archiveKey, &item.ExportedAt); err != nil {
		return domain.ExportAudit{}, err
	}
	item.Format = domain.ExportFormat(rawFormat)
	if !item.Format.Valid() {
		return domain.ExportAudit{}, fmt.Errorf("%w: export format %q", domain.ErrUnknownValue, rawFormat)
	}
	item.ArchiveKey = domain.FromPtr(archiveKey)
	return item, nil
}
