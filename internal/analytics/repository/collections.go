package repository

import (
	"context"
	"fmt"
	"time"

	"brokerage_backend/internal/analytics/domain"

	"github.com/google/uuid"
)

func (r *Repository) ListDocuments(ctx context.Context, transactionIDs []uuid.UUID) ([]domain.Document, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, transaction_id, status
		FROM documents
		WHERE transaction_id = ANY($1::uuid[])
	`, idSet(transactionIDs))
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Document, 0)
	for rows.Next() {
		var (
			item      domain.Document
			rawStatus string
		)
		if err := rows.Scan(&item.ID, &item.TransactionID, &rawStatus); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		if item.Status, err = domain.ParseDocumentStatus(rawStatus); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return items, nil
}

func (r *Repository) ListProperties(ctx context.Context, transactionIDs []uuid.UUID) ([]domain.Property, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, transaction_id, status
		FROM properties
		WHERE transaction_id = ANY($1::uuid[])
	`, idSet(transactionIDs))
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Property, 0)
	for rows.Next() {
		var (
			item      domain.Property
			rawStatus string
		)
		if err := rows.Scan(&item.ID, &item.TransactionID, &rawStatus); err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		if item.Status, err = domain.ParsePropertyStatus(rawStatus); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	return items, nil
}

// ListPropertyOffers joins through properties because property offers only
// reference their property.
func (r *Repository) ListPropertyOffers(ctx context.Context, transactionIDs []uuid.UUID) ([]domain.PropertyOffer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT po.id, po.property_id, p.transaction_id, po.status, po.counterparty_response, po.offer_amount
		FROM property_offers po
		JOIN properties p ON p.id = po.property_id
		WHERE p.transaction_id = ANY($1::uuid[])
	`, idSet(transactionIDs))
	if err != nil {
		return nil, fmt.Errorf("list property offers: %w", err)
	}
	defer rows.Close()

	items := make([]domain.PropertyOffer, 0)
	for rows.Next() {
		var (
			item        domain.PropertyOffer
			rawStatus   string
			rawResponse *string
			amount      *float64
		)
		if err := rows.Scan(&item.ID, &item.PropertyID, &item.TransactionID, &rawStatus, &rawResponse, &amount); err != nil {
			return nil, fmt.Errorf("scan property offer: %w", err)
		}
		if item.Status, err = domain.ParsePropertyOfferStatus(rawStatus); err != nil {
			return nil, err
		}
		if rawResponse != nil && *rawResponse != "" {
			response, err := domain.ParseCounterpartyResponse(*rawResponse)
			if err != nil {
				return nil, err
			}
			item.CounterpartyResponse = domain.Some(response)
		}
		item.Amount = domain.FromPtr(amount)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list property offers: %w", err)
	}
	return items, nil
}

func (r *Repository) ListOffers(ctx context.Context, transactionIDs []uuid.UUID) ([]domain.Offer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, transaction_id, status, offer_amount
		FROM offers
		WHERE transaction_id = ANY($1::uuid[])
	`, idSet(transactionIDs))
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Offer, 0)
	for rows.Next() {
		var (
			item      domain.Offer
			rawStatus string
			amount    *float64
		)
		if err := rows.Scan(&item.ID, &item.TransactionID, &rawStatus, &amount); err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		if item.Status, err = domain.ParseOfferStatus(rawStatus); err != nil {
			return nil, err
		}
		item.Amount = domain.FromPtr(amount)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	return items, nil
}

func (r *Repository) ListConditions(ctx context.Context, transactionIDs []uuid.UUID) ([]domain.Condition, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, transaction_id, status, deadline_date
		FROM conditions
		WHERE transaction_id = ANY($1::uuid[])
	`, idSet(transactionIDs))
	if err != nil {
		return nil, fmt.Errorf("list conditions: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Condition, 0)
	for rows.Next() {
		var (
			item      domain.Condition
			rawStatus string
			deadline  *time.Time
		)
		if err := rows.Scan(&item.ID, &item.TransactionID, &rawStatus, &deadline); err != nil {
			return nil, fmt.Errorf("scan condition: %w", err)
		}
		if item.Status, err = domain.ParseConditionStatus(rawStatus); err != nil {
			return nil, err
		}
		item.Deadline = domain.FromPtr(deadline)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list conditions: %w", err)
	}
	return items, nil
}
