package repository

import (
	"context"

	"brokerage_backend/internal/analytics/domain"

	"github.com/google/uuid"
)

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================

// TransactionReader lists transactions in scope.
type TransactionReader interface {
	// ListTransactions applies every scope filter, including the date range
	// on opened_at.
	ListTransactions(ctx context.Context, scope domain.Scope) ([]domain.Transaction, error)
	// ListTransactionRefs applies side and client filters only. It is the
	// membership set appointments are intersected against.
	ListTransactionRefs(ctx context.Context, scope domain.Scope) ([]domain.TransactionRef, error)
}

// AppointmentReader lists a broker's appointments within the scope's date range.
type AppointmentReader interface {
	ListAppointments(ctx context.Context, scope domain.Scope) ([]domain.Appointment, error)
}

// TransactionCollectionReader reads the rows hanging off a transaction set.
type TransactionCollectionReader interface {
	ListDocuments(ctx context.Context, transactionIDs []uuid.UUID) ([]domain.Document, error)
	ListProperties(ctx context.Context, transactionIDs []uuid.UUID) ([]domain.Property, error)
	ListPropertyOffers(ctx context.Context, transactionIDs []uuid.UUID) ([]domain.PropertyOffer, error)
	ListOffers(ctx context.Context, transactionIDs []uuid.UUID) ([]domain.Offer, error)
	ListConditions(ctx context.Context, transactionIDs []uuid.UUID) ([]domain.Condition, error)
}

// TimelineReader reads STAGE_CHANGE entries ordered by occurred_at ascending.
type TimelineReader interface {
	ListStageChanges(ctx context.Context, transactionIDs []uuid.UUID) ([]domain.TimelineEntry, error)
}

// ClientDirectory resolves user records for names and searches.
type ClientDirectory interface {
	SearchClientIDs(ctx context.Context, brokerID uuid.UUID, name string) ([]uuid.UUID, error)
	FindUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Client, error)
}

// ExportAuditStore is the append-only export audit log.
type ExportAuditStore interface {
	AppendExportAudit(ctx context.Context, audit domain.ExportAudit) (domain.ExportAudit, error)
	ListExportAudits(ctx context.Context, brokerID uuid.UUID, limit int) ([]domain.ExportAudit, error)
	GetExportAudit(ctx context.Context, brokerID, id uuid.UUID) (domain.ExportAudit, error)
	SetArchiveKey(ctx context.Context, id uuid.UUID, key string) error
}

// Store is the full read surface the analytics engine consumes.
type Store interface {
	TransactionReader
	AppointmentReader
	TransactionCollectionReader
	TimelineReader
	ClientDirectory
}

// Compile-time check that Repository implements every interface.
var (
	_ Store            = (*Repository)(nil)
	_ ExportAuditStore = (*Repository)(nil)
)
