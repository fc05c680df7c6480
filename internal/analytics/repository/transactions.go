package repository

import (
	"context"
	"fmt"
	"time"

	"brokerage_backend/internal/analytics/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func (r *Repository) ListTransactions(ctx context.Context, scope domain.Scope) ([]domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, broker_id, client_id, side, status, buyer_stage, seller_stage, opened_at, closed_at
		FROM transactions
		WHERE broker_id = $1
			AND ($2::timestamptz IS NULL OR opened_at >= $2)
			AND ($3::timestamptz IS NULL OR opened_at <= $3)
			AND ($4::text IS NULL OR side = $4)
			AND ($5::uuid[] IS NULL OR client_id = ANY($5::uuid[]))
		ORDER BY opened_at ASC, id ASC
	`, scope.BrokerID, timeParam(scope.From), timeParam(scope.To), sideParam(scope.Side), scope.ClientIDs)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Transaction, 0)
	for rows.Next() {
		item, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return items, nil
}

func (r *Repository) ListTransactionRefs(ctx context.Context, scope domain.Scope) ([]domain.TransactionRef, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, side, status
		FROM transactions
		WHERE broker_id = $1
			AND ($2::text IS NULL OR side = $2)
			AND ($3::uuid[] IS NULL OR client_id = ANY($3::uuid[]))
	`, scope.BrokerID, sideParam(scope.Side), scope.ClientIDs)
	if err != nil {
		return nil, fmt.Errorf("list transaction refs: %w", err)
	}
	defer rows.Close()

	items := make([]domain.TransactionRef, 0)
	for rows.Next() {
		var (
			ref       domain.TransactionRef
			rawSide   string
			rawStatus string
		)
		if err := rows.Scan(&ref.ID, &rawSide, &rawStatus); err != nil {
			return nil, fmt.Errorf("scan transaction ref: %w", err)
		}
		if ref.Side, err = domain.ParseSide(rawSide); err != nil {
			return nil, err
		}
		if ref.Status, err = domain.ParseTransactionStatus(rawStatus); err != nil {
			return nil, err
		}
		items = append(items, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transaction refs: %w", err)
	}
	return items, nil
}

func scanTransaction(rows pgx.Rows) (domain.Transaction, error) {
	var (
		tx          domain.Transaction
		rawSide     string
		rawStatus   string
		buyerStage  *string
		sellerStage *string
		closedAt    *time.Time
	)
	if err := rows.Scan(&tx.ID, &tx.BrokerID, &tx.ClientID, &rawSide, &rawStatus, &buyerStage, &sellerStage, &tx.OpenedAt, &closedAt); err != nil {
		return domain.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}

	var err error
	if tx.Side, err = domain.ParseSide(rawSide); err != nil {
		return domain.Transaction{}, err
	}
	if tx.Status, err = domain.ParseTransactionStatus(rawStatus); err != nil {
		return domain.Transaction{}, err
	}

	rawStage := buyerStage
	if tx.Side == domain.SideSell {
		rawStage = sellerStage
	}
	if rawStage == nil {
		return domain.Transaction{}, fmt.Errorf("transaction %s: %w: missing stage", tx.ID, domain.ErrUnknownValue)
	}
	if tx.Stage, err = domain.ParseStage(*rawStage, tx.Side); err != nil {
		return domain.Transaction{}, fmt.Errorf("transaction %s: %w", tx.ID, err)
	}

	tx.ClosedAt = domain.FromPtr(closedAt)
	return tx, nil
}

// idSet is the uuid[] parameter for collection queries. An empty set is
// still sent as an empty array so the query matches nothing.
func idSet(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}
