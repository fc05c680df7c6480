package adapters

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"brokerage_backend/internal/adapters/storage"
	analyticssvc "brokerage_backend/internal/analytics/service"
	"brokerage_backend/internal/events"
	"brokerage_backend/platform/logger"

	"github.com/google/uuid"
)

// ArchiveKeyWriter records where an export was archived.
type ArchiveKeyWriter interface {
	SetArchiveKey(ctx context.Context, id uuid.UUID, key string) error
}

// ExportArchive copies rendered analytics exports to object storage and
// links them to their audit rows. Archiving is best effort: failures are
// logged and never reach the broker.
type ExportArchive struct {
	storage storage.StorageService
	bucket  string
	audits  ArchiveKeyWriter
	log     *logger.Logger
}

// NewExportArchive creates a new export archive adapter.
func NewExportArchive(storageSvc storage.StorageService, bucket string, audits ArchiveKeyWriter, log *logger.Logger) *ExportArchive {
	return &ExportArchive{storage: storageSvc, bucket: bucket, audits: audits, log: log}
}

// Handle implements events.Handler for AnalyticsExported.
func (a *ExportArchive) Handle(ctx context.Context, event events.Event) error {
	exported, ok := event.(events.AnalyticsExported)
	if !ok {
		return nil
	}
	// Without an audit row there is nothing to attach the archive to.
	if exported.AuditID == uuid.Nil {
		return nil
	}

	if err := a.storage.ValidateContentType(exported.ContentType); err != nil {
		return err
	}
	size := int64(len(exported.Payload))
	if err := a.storage.ValidateFileSize(size); err != nil {
		return err
	}

	folder := archiveFolder(exported.BrokerID, exported.OccurredAt())
	key, err := a.storage.UploadFile(ctx, a.bucket, folder, exported.FileName, exported.ContentType, bytes.NewReader(exported.Payload), size)
	if err != nil {
		return fmt.Errorf("archive export %s: %w", exported.AuditID, err)
	}

	if err := a.audits.SetArchiveKey(ctx, exported.AuditID, key); err != nil {
		if delErr := a.storage.DeleteObject(ctx, a.bucket, key); delErr != nil {
			a.log.Warn("orphaned export archive", "key", key, "error", delErr)
		}
		return fmt.Errorf("link export archive %s: %w", exported.AuditID, err)
	}
	return nil
}

// DownloadURL implements analytics/service.ArchiveLinker.
func (a *ExportArchive) DownloadURL(ctx context.Context, key string) (string, time.Time, error) {
	presigned, err := a.storage.GenerateDownloadURL(ctx, a.bucket, key)
	if err != nil {
		return "", time.Time{}, err
	}
	return presigned.URL, presigned.ExpiresAt, nil
}

func archiveFolder(brokerID uuid.UUID, at time.Time) string {
	return fmt.Sprintf("%s/%s", brokerID, at.UTC().Format("2006/01"))
}

// Compile-time checks.
var (
	_ events.Handler             = (*ExportArchive)(nil)
	_ analyticssvc.ArchiveLinker = (*ExportArchive)(nil)
)
