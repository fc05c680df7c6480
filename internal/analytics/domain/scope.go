package domain

import (
	"time"

	"github.com/google/uuid"
)

// Scope is the resolved filter context handed unchanged to every reader.
// ClientIDs is nil when no client filter is active; an empty non-nil slice
// never reaches a reader because the computation short-circuits first.
type Scope struct {
	BrokerID   uuid.UUID
	From       Optional[time.Time]
	To         Optional[time.Time]
	Side       Optional[Side]
	ClientIDs  []uuid.UUID
	ClientName string
}

// Narrowed reports whether a side or client filter restricts which
// transactions are in scope.
func (s Scope) Narrowed() bool {
	return s.Side.IsPresent() || s.ClientIDs != nil
}

// Sides returns the sides whose pipelines are in scope, in display order.
func (s Scope) Sides() []Side {
	if side, ok := s.Side.Get(); ok {
		return []Side{side}
	}
	return AllSides()
}

// TransactionRef is the slim projection of a transaction used to attach
// appointments to a side without loading the full row.
type TransactionRef struct {
	ID     uuid.UUID
	Side   Side
	Status TransactionStatus
}
