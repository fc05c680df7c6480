package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"brokerage_backend/internal/analytics/domain"

	"github.com/google/uuid"
)

// Filters are the optional request filters. StartDate and EndDate are
// calendar dates; only their year, month and day are read. The boundary
// guarantees they are either both present or both absent.
type Filters struct {
	StartDate       domain.Optional[time.Time]
	EndDate         domain.Optional[time.Time]
	TransactionSide domain.Optional[domain.Side]
	ClientName      domain.Optional[string]
}

// resolveScope normalizes filters into a reader scope. The second result is
// false when a client name matched no clients and the computation should
// short-circuit without touching any reader.
func (s *Service) resolveScope(ctx context.Context, brokerID uuid.UUID, filters Filters) (domain.Scope, bool, error) {
	scope := domain.Scope{
		BrokerID: brokerID,
		Side:     filters.TransactionSide,
	}

	start, hasStart := filters.StartDate.Get()
	end, hasEnd := filters.EndDate.Get()
	if hasStart && hasEnd {
		scope.From = domain.Some(startOfDay(start, s.location))
		scope.To = domain.Some(endOfDay(end, s.location))
	}

	name, ok := filters.ClientName.Get()
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return scope, true, nil
	}

	scope.ClientName = name
	ids, err := s.store.SearchClientIDs(ctx, brokerID, name)
	if err != nil {
		return domain.Scope{}, false, fmt.Errorf("resolve client name: %w", err)
	}
	if len(ids) == 0 {
		return scope, false, nil
	}
	scope.ClientIDs = ids
	return scope, true, nil
}

func startOfDay(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func endOfDay(date time.Time, loc *time.Location) time.Time {
	return startOfDay(date, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// Describe renders the filters for the export audit log and report headers.
func (f Filters) Describe() string {
	parts := make([]string, 0, 3)
	start, hasStart := f.StartDate.Get()
	end, hasEnd := f.EndDate.Get()
	if hasStart && hasEnd {
		parts = append(parts, fmt.Sprintf("dates=%s..%s", start.Format(time.DateOnly), end.Format(time.DateOnly)))
	}
	if side, ok := f.TransactionSide.Get(); ok {
		parts = append(parts, "side="+string(side))
	}
	if name, ok := f.ClientName.Get(); ok && strings.TrimSpace(name) != "" {
		parts = append(parts, fmt.Sprintf("client=%q", strings.TrimSpace(name)))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "; ")
}
