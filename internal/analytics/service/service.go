package service

import (
	"context"
	"time"

	"brokerage_backend/internal/analytics/domain"
	"brokerage_backend/internal/analytics/metrics"
	"brokerage_backend/internal/analytics/repository"
	"brokerage_backend/internal/events"
	"brokerage_backend/platform/config"
	"brokerage_backend/platform/logger"

	"github.com/google/uuid"
)

// Service computes broker analytics snapshots and exports.
type Service struct {
	store           repository.Store
	audits          repository.ExportAuditStore
	renderers       map[domain.ExportFormat]Renderer
	archive         ArchiveLinker
	eventBus        events.Bus
	metrics         *metrics.Metrics
	log             *logger.Logger
	now             func() time.Time
	location        *time.Location
	approachingDays int
}

// New creates a new analytics service.
func New(store repository.Store, audits repository.ExportAuditStore, eventBus events.Bus, m *metrics.Metrics, cfg config.AnalyticsConfig, log *logger.Logger) *Service {
	return &Service{
		store:           store,
		audits:          audits,
		renderers:       make(map[domain.ExportFormat]Renderer),
		eventBus:        eventBus,
		metrics:         m,
		log:             log,
		now:             time.Now,
		location:        cfg.GetReportLocation(),
		approachingDays: cfg.GetApproachingDeadlineDays(),
	}
}

// SetClock replaces the wall clock. Used by tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// SetRenderer registers the renderer for an export format.
func (s *Service) SetRenderer(format domain.ExportFormat, renderer Renderer) {
	s.renderers[format] = renderer
}

// SetArchive enables presigned downloads of archived exports.
func (s *Service) SetArchive(archive ArchiveLinker) {
	s.archive = archive
}

// Compute returns the analytics snapshot for a broker. A client name that
// matches nobody yields the zero snapshot without querying anything else.
func (s *Service) Compute(ctx context.Context, brokerID uuid.UUID, filters Filters) (domain.Snapshot, error) {
	start := time.Now()
	defer s.metrics.ObserveCompute(start)

	scope, proceed, err := s.resolveScope(ctx, brokerID, filters)
	if err != nil {
		return domain.Snapshot{}, err
	}
	now := s.now()
	if !proceed {
		s.metrics.IncrementClientNameMisses()
		return s.assemble(dataset{}, scope, now), nil
	}

	data, err := s.fetch(ctx, scope)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return s.assemble(data, scope, now), nil
}

// assemble is the single place aggregator outputs are merged.
func (s *Service) assemble(data dataset, scope domain.Scope, now time.Time) domain.Snapshot {
	txCount := len(data.transactions)
	today := civilDate(now, s.location)

	return domain.Snapshot{
		Overview:     aggregateOverview(data.transactions),
		BuySide:      aggregateBuySide(data),
		SellSide:     aggregateSellSide(data),
		Documents:    aggregateDocuments(data.documents, txCount),
		Appointments: aggregateAppointments(data.appointments, txCount, now),
		Conditions:   aggregateConditions(data.conditions, txCount, today, s.approachingDays),
		Pipeline:     reconstructPipeline(data, scope.Sides(), now),
	}
}
