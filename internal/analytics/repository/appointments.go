package repository

import (
	"context"
	"fmt"

	"brokerage_backend/internal/analytics/domain"

	"github.com/google/uuid"
)

// ListAppointments is scoped by broker and start time only. Side and client
// filters are applied by the caller against the transaction membership set
// because appointments carry no side of their own.
func (r *Repository) ListAppointments(ctx context.Context, scope domain.Scope) ([]domain.Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, broker_id, client_id, transaction_id, kind, status, initiated_by, from_time, to_time, visitor_count
		FROM appointments
		WHERE broker_id = $1
			AND ($2::timestamptz IS NULL OR from_time >= $2)
			AND ($3::timestamptz IS NULL OR from_time <= $3)
		ORDER BY from_time ASC, id ASC
	`, scope.BrokerID, timeParam(scope.From), timeParam(scope.To))
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Appointment, 0)
	for rows.Next() {
		var (
			item          domain.Appointment
			transactionID *uuid.UUID
			rawKind       string
			rawStatus     string
			rawInitiator  string
			visitorCount  *int
		)
		if err := rows.Scan(&item.ID, &item.BrokerID, &item.ClientID, &transactionID, &rawKind, &rawStatus,
			&rawInitiator, &item.StartTime, &item.EndTime, &visitorCount); err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		if item.Kind, err = domain.ParseAppointmentKind(rawKind); err != nil {
			return nil, err
		}
		if item.Status, err = domain.ParseAppointmentStatus(rawStatus); err != nil {
			return nil, err
		}
		if item.Initiator, err = domain.ParseInitiator(rawInitiator); err != nil {
			return nil, err
		}
		item.TransactionID = domain.FromPtr(transactionID)
		item.VisitorCount = domain.FromPtr(visitorCount)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return items, nil
}
