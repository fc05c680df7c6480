package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"brokerage_backend/internal/analytics/domain"
	"brokerage_backend/internal/analytics/repository"
	"brokerage_backend/internal/events"
	"brokerage_backend/platform/apperr"

	"github.com/google/uuid"
)

const (
	unknownBrokerLabel = "Unknown broker"
	defaultHistorySize = 50
	maxHistorySize     = 200
)

// Renderer turns a report into export bytes.
type Renderer interface {
	Render(ctx context.Context, report domain.Report) ([]byte, error)
}

// ArchiveLinker issues short-lived download links for archived exports.
type ArchiveLinker interface {
	DownloadURL(ctx context.Context, key string) (string, time.Time, error)
}

// Export is a rendered artifact ready to be sent to the broker.
type Export struct {
	FileName    string
	ContentType string
	Data        []byte
	AuditID     uuid.UUID
	BrokerName  string
	Filters     string
}

// DownloadLink is a presigned URL for an archived export.
type DownloadLink struct {
	URL       string
	ExpiresAt time.Time
}

func (s *Service) ExportCSV(ctx context.Context, brokerID uuid.UUID, filters Filters) (Export, error) {
	return s.export(ctx, brokerID, filters, domain.ExportCSV)
}

func (s *Service) ExportPDF(ctx context.Context, brokerID uuid.UUID, filters Filters) (Export, error) {
	return s.export(ctx, brokerID, filters, domain.ExportPDF)
}

// export computes, renders, then records exactly one audit row. A render
// failure aborts the export; an audit failure is logged and swallowed.
func (s *Service) export(ctx context.Context, brokerID uuid.UUID, filters Filters, format domain.ExportFormat) (Export, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return Export{}, apperr.Unavailable(fmt.Sprintf("%s export is not configured", format))
	}

	snapshot, err := s.Compute(ctx, brokerID, filters)
	if err != nil {
		return Export{}, err
	}

	now := s.now()
	report := domain.Report{
		Snapshot:    snapshot,
		BrokerName:  s.actorName(ctx, brokerID),
		Filters:     filters.Describe(),
		GeneratedAt: now.In(s.location),
	}

	renderStart := time.Now()
	data, err := renderer.Render(ctx, report)
	s.metrics.ObserveRender(string(format), renderStart)
	if err != nil {
		return Export{}, fmt.Errorf("render %s export: %w", format, err)
	}

	out := Export{
		FileName:    fmt.Sprintf("analytics-%s.%s", report.GeneratedAt.Format("20060102-150405"), format.Extension()),
		ContentType: format.ContentType(),
		Data:        data,
		BrokerName:  report.BrokerName,
		Filters:     report.Filters,
	}

	// The audit row outlives a cancelled request: the bytes were produced.
	audit, err := s.audits.AppendExportAudit(context.WithoutCancel(ctx), domain.ExportAudit{
		BrokerID:   brokerID,
		BrokerName: report.BrokerName,
		Format:     format,
		Filters:    report.Filters,
		ExportedAt: now,
	})
	if err != nil {
		s.log.WithContext(ctx).ExportAuditFailed(brokerID.String(), string(format), err)
		s.metrics.IncrementAuditFailures()
	} else {
		out.AuditID = audit.ID
	}

	s.metrics.IncrementExports(string(format))
	s.log.WithContext(ctx).ExportRecorded(brokerID.String(), string(format), len(data))

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.AnalyticsExported{
			BaseEvent:   events.NewBaseEvent(),
			AuditID:     out.AuditID,
			BrokerID:    brokerID,
			Format:      string(format),
			FileName:    out.FileName,
			ContentType: out.ContentType,
			Payload:     data,
		})
	}
	return out, nil
}

// actorName never fails; an unknown or unreachable user gets a fixed label.
func (s *Service) actorName(ctx context.Context, brokerID uuid.UUID) string {
	users, err := s.store.FindUsersByIDs(ctx, []uuid.UUID{brokerID})
	if err != nil {
		s.log.WithContext(ctx).Warn("broker name lookup failed", "broker_id", brokerID.String(), "error", err)
		return unknownBrokerLabel
	}
	for _, user := range users {
		if user.ID == brokerID {
			if user.FirstName == "" && user.LastName == "" {
				return unknownBrokerLabel
			}
			return user.DisplayName()
		}
	}
	return unknownBrokerLabel
}

// ListExports returns the broker's export history, newest first.
func (s *Service) ListExports(ctx context.Context, brokerID uuid.UUID, limit int) ([]domain.ExportAudit, error) {
	switch {
	case limit <= 0:
		limit = defaultHistorySize
	case limit > maxHistorySize:
		limit = maxHistorySize
	}
	return s.audits.ListExportAudits(ctx, brokerID, limit)
}

// DownloadExport returns a presigned link to an archived export owned by
// the broker.
func (s *Service) DownloadExport(ctx context.Context, brokerID, auditID uuid.UUID) (DownloadLink, error) {
	if s.archive == nil {
		return DownloadLink{}, apperr.Unavailable("export archive is not configured")
	}

	audit, err := s.audits.GetExportAudit(ctx, brokerID, auditID)
	if errors.Is(err, repository.ErrNotFound) {
		return DownloadLink{}, apperr.NotFound("export not found").WithOp("analytics.download_export")
	}
	if err != nil {
		return DownloadLink{}, err
	}

	key, ok := audit.ArchiveKey.Get()
	if !ok {
		return DownloadLink{}, apperr.NotFound("export has not been archived").WithOp("analytics.download_export")
	}

	url, expiresAt, err := s.archive.DownloadURL(ctx, key)
	if err != nil {
		return DownloadLink{}, fmt.Errorf("presign export %s: %w", auditID, err)
	}
	return DownloadLink{URL: url, ExpiresAt: expiresAt}, nil
}
