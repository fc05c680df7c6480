// Package domain holds the read models the analytics engine reduces over.
// None of these are owned by the engine; they mirror rows written by the
// transaction, appointment and identity services.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Transaction is a buy or sell engagement between a broker and a client.
type Transaction struct {
	ID       uuid.UUID
	BrokerID uuid.UUID
	ClientID uuid.UUID
	Side     Side
	Status   TransactionStatus
	Stage    Stage
	OpenedAt time.Time
	ClosedAt Optional[time.Time]
}

// Closed reports whether the transaction completed successfully and has a
// close timestamp to measure its duration against.
func (t Transaction) Closed() bool {
	_, ok := t.ClosedAt.Get()
	return t.Status == TransactionClosed && ok
}

// Appointment is a scheduled meeting between broker and client.
type Appointment struct {
	ID            uuid.UUID
	BrokerID      uuid.UUID
	ClientID      uuid.UUID
	TransactionID Optional[uuid.UUID]
	Kind          AppointmentKind
	Status        AppointmentStatus
	Initiator     Initiator
	StartTime     time.Time
	EndTime       time.Time
	VisitorCount  Optional[int]
}

// Document is a file the broker requested from the client.
type Document struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
	Status        DocumentStatus
}

// Property is a listing shortlisted on a buy-side transaction.
type Property struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
	Status        PropertyStatus
}

// PropertyOffer is an offer the buyer made on a shortlisted property.
type PropertyOffer struct {
	ID                   uuid.UUID
	PropertyID           uuid.UUID
	TransactionID        uuid.UUID
	Status               PropertyOfferStatus
	CounterpartyResponse Optional[CounterpartyResponse]
	Amount               Optional[float64]
}

// Offer is an offer received from a buyer on a sell-side listing.
type Offer struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
	Status        OfferStatus
	Amount        Optional[float64]
}

// Condition is a contractual condition attached to a transaction.
type Condition struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
	Status        ConditionStatus
	Deadline      Optional[time.Time]
}

// TimelineEntry is an immutable audit event on a transaction.
type TimelineEntry struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
	Type          TimelineEventType
	OccurredAt    time.Time
	PreviousStage Optional[Stage]
	NewStage      Optional[Stage]
}

// Client is the subset of a user record the engine needs for labels.
type Client struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
}

// DisplayName joins first and last name, falling back to the ID when both
// are blank.
func (c Client) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
	if name == "" {
		return c.ID.String()
	}
	return name
}

// ExportAudit is one append-only record of a broker exporting analytics.
type ExportAudit struct {
	ID         uuid.UUID
	BrokerID   uuid.UUID
	BrokerName string
	Format     ExportFormat
	Filters    string
	ArchiveKey Optional[string]
	ExportedAt time.Time
}
