// Package events declares the analytics domain events and aliases the
// platform bus so modules depend on a single events import.
package events

import (
	"brokerage_backend/platform/events"
	"brokerage_backend/platform/logger"

	"github.com/google/uuid"
)

type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

var NewBaseEvent = events.NewBaseEvent

func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Analytics Domain Events
// =============================================================================

// AnalyticsExported is published after an export has been rendered. AuditID
// is uuid.Nil when the audit append failed.
type AnalyticsExported struct {
	BaseEvent
	AuditID     uuid.UUID `json:"auditId"`
	BrokerID    uuid.UUID `json:"brokerId"`
	Format      string    `json:"format"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	Payload     []byte    `json:"-"`
}

func (e AnalyticsExported) EventName() string { return "analytics.export.completed" }
