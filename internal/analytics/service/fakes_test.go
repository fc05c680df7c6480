package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"brokerage_backend/internal/analytics/domain"
	"brokerage_backend/internal/analytics/metrics"
	"brokerage_backend/internal/analytics/repository"
	"brokerage_backend/internal/events"
	"brokerage_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

var fixedNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return fixedNow.Add(-time.Duration(n) * day)
}

// fakeStore serves canned rows and counts every call. Readers run
// concurrently so the counters are guarded.
type fakeStore struct {
	mu    sync.Mutex
	calls map[string]int

	transactions   []domain.Transaction
	refs           []domain.TransactionRef
	appointments   []domain.Appointment
	documents      []domain.Document
	properties     []domain.Property
	propertyOffers []domain.PropertyOffer
	offers         []domain.Offer
	conditions     []domain.Condition
	stageChanges   []domain.TimelineEntry
	clientIDs      []uuid.UUID
	users          []domain.Client
	usersErr       error
	transactionErr error
}

func (f *fakeStore) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
}

func (f *fakeStore) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeStore) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total int
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *fakeStore) ListTransactions(ctx context.Context, scope domain.Scope) ([]domain.Transaction, error) {
	f.record("ListTransactions")
	if f.transactionErr != nil {
		return nil, f.transactionErr
	}
	return slices.Clone(f.transactions), nil
}

func (f *fakeStore) ListTransactionRefs(ctx context.Context, scope domain.Scope) ([]domain.TransactionRef, error) {
	f.record("ListTransactionRefs")
	if f.refs != nil {
		return slices.Clone(f.refs), nil
	}
	refs := make([]domain.TransactionRef, 0, len(f.transactions))
	for _, tx := range f.transactions {
		refs = append(refs, domain.TransactionRef{ID: tx.ID, Side: tx.Side, Status: tx.Status})
	}
	return refs, nil
}

func (f *fakeStore) ListAppointments(ctx context.Context, scope domain.Scope) ([]domain.Appointment, error) {
	f.record("ListAppointments")
	return slices.Clone(f.appointments), nil
}

func (f *fakeStore) ListDocuments(ctx context.Context, ids []uuid.UUID) ([]domain.Document, error) {
	f.record("ListDocuments")
	return slices.Clone(f.documents), nil
}

func (f *fakeStore) ListProperties(ctx context.Context, ids []uuid.UUID) ([]domain.Property, error) {
	f.record("ListProperties")
	return slices.Clone(f.properties), nil
}

func (f *fakeStore) ListPropertyOffers(ctx context.Context, ids []uuid.UUID) ([]domain.PropertyOffer, error) {
	f.record("ListPropertyOffers")
	return slices.Clone(f.propertyOffers), nil
}

func (f *fakeStore) ListOffers(ctx context.Context, ids []uuid.UUID) ([]domain.Offer, error) {
	f.record("ListOffers")
	return slices.Clone(f.offers), nil
}

func (f *fakeStore) ListConditions(ctx context.Context, ids []uuid.UUID) ([]domain.Condition, error) {
	f.record("ListConditions")
	return slices.Clone(f.conditions), nil
}

func (f *fakeStore) ListStageChanges(ctx context.Context, ids []uuid.UUID) ([]domain.TimelineEntry, error) {
	f.record("ListStageChanges")
	return slices.Clone(f.stageChanges), nil
}

func (f *fakeStore) SearchClientIDs(ctx context.Context, brokerID uuid.UUID, name string) ([]uuid.UUID, error) {
	f.record("SearchClientIDs")
	return slices.Clone(f.clientIDs), nil
}

func (f *fakeStore) FindUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Client, error) {
	f.record("FindUsersByIDs")
	if f.usersErr != nil {
		return nil, f.usersErr
	}
	out := make([]domain.Client, 0, len(ids))
	for _, user := range f.users {
		if slices.Contains(ids, user.ID) {
			out = append(out, user)
		}
	}
	return out, nil
}

type fakeAudits struct {
	mu       sync.Mutex
	appended []domain.ExportAudit
	err      error
	stored   map[uuid.UUID]domain.ExportAudit
	limits   []int
}

func (f *fakeAudits) AppendExportAudit(ctx context.Context, audit domain.ExportAudit) (domain.ExportAudit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appended = append(f.appended, audit)
	if f.err != nil {
		return domain.ExportAudit{}, f.err
	}
	audit.ID = uuid.New()
	return audit, nil
}

func (f *fakeAudits) ListExportAudits(ctx context.Context, brokerID uuid.UUID, limit int) ([]domain.ExportAudit, error) {
	f.limits = append(f.limits, limit)
	return nil, nil
}

func (f *fakeAudits) GetExportAudit(ctx context.Context, brokerID, id uuid.UUID) (domain.ExportAudit, error) {
	audit, ok := f.stored[id]
	if !ok || audit.BrokerID != brokerID {
		return domain.ExportAudit{}, repository.ErrNotFound
	}
	return audit, nil
}

func (f *fakeAudits) SetArchiveKey(ctx context.Context, id uuid.UUID, key string) error {
	return nil
}

type fakeRenderer struct {
	data    []byte
	err     error
	reports []domain.Report
}

func (f *fakeRenderer) Render(ctx context.Context, report domain.Report) ([]byte, error) {
	f.reports = append(f.reports, report)
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

type fakeArchive struct {
	keys []string
}

func (f *fakeArchive) DownloadURL(ctx context.Context, key string) (string, time.Time, error) {
	f.keys = append(f.keys, key)
	return "https://storage.example.test/" + key, fixedNow.Add(15 * time.Minute), nil
}

type recordingBus struct {
	mu        sync.Mutex
	published []events.Event
}

func (b *recordingBus) Publish(ctx context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(eventName string, handler events.Handler) {}

type analyticsConfig struct {
	window int
	loc    *time.Location
}

func (c analyticsConfig) GetApproachingDeadlineDays() int   { return c.window }
func (c analyticsConfig) GetReportLocation() *time.Location { return c.loc }

func newTestService(store *fakeStore, audits *fakeAudits) *Service {
	svc := New(store, audits, nil, metrics.New(prometheus.NewRegistry()),
		analyticsConfig{window: 7, loc: time.UTC}, logger.Discard())
	svc.SetClock(func() time.Time { return fixedNow })
	return svc
}
