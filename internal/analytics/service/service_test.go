package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"brokerage_backend/internal/analytics/domain"
	"brokerage_backend/internal/analytics/metrics"
	"brokerage_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closedTx(side domain.Side, openedDaysBeforeClose int) domain.Transaction {
	closedAt := daysAgo(1)
	return domain.Transaction{
		ID:       uuid.New(),
		ClientID: uuid.New(),
		Side:     side,
		Status:   domain.TransactionClosed,
		Stage:    side.Stages()[len(side.Stages())-1],
		OpenedAt: closedAt.Add(-time.Duration(openedDaysBeforeClose) * day),
		ClosedAt: domain.Some(closedAt),
	}
}

func activeTx(side domain.Side, stage domain.Stage, openedDaysAgo int) domain.Transaction {
	return domain.Transaction{
		ID:       uuid.New(),
		ClientID: uuid.New(),
		Side:     side,
		Status:   domain.TransactionActive,
		Stage:    stage,
		OpenedAt: daysAgo(openedDaysAgo),
	}
}

func terminatedTx(side domain.Side) domain.Transaction {
	return domain.Transaction{
		ID:       uuid.New(),
		ClientID: uuid.New(),
		Side:     side,
		Status:   domain.TransactionTerminated,
		Stage:    side.Stages()[0],
		OpenedAt: daysAgo(40),
	}
}

func TestComputeWithNoDataIsZero(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, &fakeAudits{})

	snapshot, err := svc.Compute(context.Background(), uuid.New(), Filters{})
	require.NoError(t, err)

	assert.Equal(t, domain.TransactionOverview{}, snapshot.Overview)
	assert.Equal(t, domain.BuySideMetrics{}, snapshot.BuySide)
	assert.Equal(t, domain.SellSideMetrics{}, snapshot.SellSide)
	assert.Equal(t, domain.DocumentMetrics{}, snapshot.Documents)
	assert.Equal(t, domain.AppointmentMetrics{}, snapshot.Appointments)
	assert.Equal(t, domain.ConditionMetrics{}, snapshot.Conditions)

	require.Len(t, snapshot.Pipeline, len(domain.SideBuy.Stages())+len(domain.SideSell.Stages()))
	for _, stage := range snapshot.Pipeline {
		assert.Zero(t, stage.Count, stage.Stage)
		assert.Zero(t, stage.AvgDays, stage.Stage)
		assert.Empty(t, stage.Clients, stage.Stage)
	}

	// Nothing to fan out over, so the per-transaction readers stay idle.
	assert.Zero(t, store.count("ListDocuments"))
	assert.Zero(t, store.count("ListConditions"))
	assert.Zero(t, store.count("ListStageChanges"))
	assert.Zero(t, store.count("FindUsersByIDs"))
}

func TestComputeSuccessRate(t *testing.T) {
	store := &fakeStore{transactions: []domain.Transaction{
		closedTx(domain.SideBuy, 10),
		closedTx(domain.SideSell, 20),
		terminatedTx(domain.SideBuy),
	}}
	svc := newTestService(store, &fakeAudits{})

	snapshot, err := svc.Compute(context.Background(), uuid.New(), Filters{})
	require.NoError(t, err)

	assert.Equal(t, 3, snapshot.Overview.TotalTransactions)
	assert.Equal(t, 2, snapshot.Overview.ClosedTransactions)
	assert.Equal(t, 1, snapshot.Overview.TerminatedTransactions)
	assert.Equal(t, 2, snapshot.Overview.BuySideTransactions)
	assert.Equal(t, 1, snapshot.Overview.SellSideTransactions)
	assert.Equal(t, 66.7, snapshot.Overview.SuccessRate)
}

func TestComputeTransactionDurations(t *testing.T) {
	store := &fakeStore{transactions: []domain.Transaction{
		closedTx(domain.SideBuy, 10),
		closedTx(domain.SideBuy, 20),
		activeTx(domain.SideBuy, domain.BuyerPropertySearch, 90),
	}}
	svc := newTestService(store, &fakeAudits{})

	snapshot, err := svc.Compute(context.Background(), uuid.New(), Filters{})
	require.NoError(t, err)

	assert.Equal(t, 15.0, snapshot.Overview.AvgTransactionDurationDays)
	assert.Equal(t, 10, snapshot.Overview.ShortestTransactionDays)
	assert.Equal(t, 20, snapshot.Overview.LongestTransactionDays)
}

func TestComputeDocumentMetrics(t *testing.T) {
	tx := activeTx(domain.SideSell, domain.SellerPublishListing, 3)
	store := &fakeStore{
		transactions: []domain.Transaction{tx},
		documents: []domain.Document{
			{ID: uuid.New(), TransactionID: tx.ID, Status: domain.DocumentApproved},
			{ID: uuid.New(), TransactionID: tx.ID, Status: domain.DocumentNeedsRevision},
			{ID: uuid.New(), TransactionID: tx.ID, Status: domain.DocumentRequested},
		},
	}
	svc := newTestService(store, &fakeAudits{})

	snapshot, err := svc.Compute(context.Background(), uuid.New(), Filters{})
	require.NoError(t, err)

	assert.Equal(t, domain.DocumentMetrics{
		TotalDocuments:             3,
		PendingDocuments:           2,
		DocumentsNeedingRevision:   1,
		DocumentCompletionRate:     33.3,
		AvgDocumentsPerTransaction: 3.0,
	}, snapshot.Documents)
}

func TestComputeAppointmentMetrics(t *testing.T) {
	store := &fakeStore{appointments: []domain.Appointment{
		{ID: uuid.New(), Status: domain.AppointmentConfirmed, Initiator: domain.InitiatorBroker, StartTime: fixedNow.Add(48 * time.Hour)},
		{ID: uuid.New(), Status: domain.AppointmentConfirmed, Initiator: domain.InitiatorClient, StartTime: daysAgo(2)},
		{ID: uuid.New(), Status: domain.AppointmentDeclined, Initiator: domain.InitiatorClient, StartTime: fixedNow.Add(24 * time.Hour)},
		{ID: uuid.New(), Status: domain.AppointmentCancelled, Initiator: domain.InitiatorBroker, StartTime: daysAgo(1)},
	}}
	svc := newTestService(store, &fakeAudits{})

	snapshot, err := svc.Compute(context.Background(), uuid.New(), Filters{})
	require.NoError(t, err)

	got := snapshot.Appointments
	assert.Equal(t, 4, got.TotalAppointments)
	assert.Equal(t, 50.0, got.ConfirmationRate)
	assert.Equal(t, 25.0, got.DeclineRate)
	assert.Equal(t, 25.0, got.CancellationRate)
	// The declined appointment is in the future but terminal.
	assert.Equal(t, 1, got.UpcomingAppointments)
	assert.Equal(t, 2, got.BrokerInitiated)
	assert.Equal(t, 2, got.ClientInitiated)
	assert.Zero(t, got.AvgAppointmentsPerTransaction)
}

func TestComputeConditionMetrics(t *testing.T) {
	tx := activeTx(domain.SideBuy, domain.BuyerFinancingAndConditions, 12)
	store := &fakeStore{
		transactions: []domain.Transaction{tx},
		conditions: []domain.Condition{
			{ID: uuid.New(), TransactionID: tx.ID, Status: domain.ConditionSatisfied, Deadline: domain.Some(civilDate(daysAgo(10), time.UTC))},
			{ID: uuid.New(), TransactionID: tx.ID, Status: domain.ConditionPending, Deadline: domain.Some(civilDate(daysAgo(3), time.UTC))},
			{ID: uuid.New(), TransactionID: tx.ID, Status: domain.ConditionPending, Deadline: domain.Some(civilDate(fixedNow.Add(5*day), time.UTC))},
		},
	}
	svc := newTestService(store, &fakeAudits{})

	snapshot, err := svc.Compute(context.Background(), uuid.New(), Filters{})
	require.NoError(t, err)

	assert.Equal(t, domain.ConditionMetrics{
		TotalConditions:             3,
		SatisfiedRate:               33.3,
		OverdueConditions:           1,
		ApproachingDeadline:         1,
		AvgConditionsPerTransaction: 3.0,
	}, snapshot.Conditions)
}

func TestComputeClientNameMissQueriesNothingElse(t *testing.T) {
	store := &fakeStore{
		transactions: []domain.Transaction{closedTx(domain.SideBuy, 10)},
		appointments: []domain.Appointment{{ID: uuid.New(), Status: domain.AppointmentConfirmed}},
	}
	svc := newTestService(store, &fakeAudits{})

	snapshot, err := svc.Compute(context.Background(), uuid.New(), Filters{ClientName: domain.Some("nobody")})
	require.NoError(t, err)

	assert.Equal(t, 1, store.count("SearchClientIDs"))
	assert.Equal(t, 1, store.totalCalls(), "only the name search may run")
	assert.Equal(t, domain.TransactionOverview{}, snapshot.Overview)
	assert.Equal(t, domain.AppointmentMetrics{}, snapshot.Appointments)
	for _, stage := range snapshot.Pipeline {
		assert.Zero(t, stage.Count)
	}
}

func TestComputeBlankClientNameIsIgnored(t *testing.T) {
	store := &fakeStore{transactions: []domain.Transaction{closedTx(domain.SideBuy, 10)}}
	svc := newTestService(store, &fakeAudits{})

	snapshot, err := svc.Compute(context.Background(), uuid.New(), Filters{ClientName: domain.Some("   ")})
	require.NoError(t, err)

	assert.Zero(t, store.count("SearchClientIDs"))
	assert.Equal(t, 1, snapshot.Overview.TotalTransactions)
}

func TestComputeNarrowedScopeIntersectsAppointments(t *testing.T) {
	buy := closedTx(domain.SideBuy, 10)
	foreign := uuid.New()
	store := &fakeStore{
		transactions: []domain.Transaction{buy},
		appointments: []domain.Appointment{
			{ID: uuid.New(), TransactionID: domain.Some(buy.ID), Kind: domain.KindShowing, Status: domain.AppointmentConfirmed},
			{ID: uuid.New(), TransactionID: domain.Some(foreign), Kind: domain.KindShowing, Status: domain.AppointmentConfirmed},
			{ID: uuid.New(), Kind: domain.KindConsultation, Status: domain.AppointmentProposed},
		},
	}
	svc := newTestService(store, &fakeAudits{})

	snapshot, err := svc.Compute(context.Background(), uuid.New(), Filters{TransactionSide: domain.Some(domain.SideBuy)})
	require.NoError(t, err)

	assert.Equal(t, 1, snapshot.Appointments.TotalAppointments)
	assert.Equal(t, 1, snapshot.BuySide.TotalHouseVisits)
	assert.Equal(t, 1.0, snapshot.BuySide.AvgHouseVisitsPerClosedTransaction)
	assert.Zero(t, snapshot.SellSide.TotalShowings)

	for _, stage := range snapshot.Pipeline {
		assert.Equal(t, domain.SideBuy, stage.Side, "only buy-side stages are in scope")
	}
}

func TestComputeUnfilteredKeepsUnlinkedAppointments(t *testing.T) {
	store := &fakeStore{appointments: []domain.Appointment{
		{ID: uuid.New(), Kind: domain.KindConsultation, Status: domain.AppointmentProposed, StartTime: daysAgo(1)},
		{ID: uuid.New(), TransactionID: domain.Some(uuid.New()), Kind: domain.KindShowing, Status: domain.AppointmentConfirmed, StartTime: daysAgo(1)},
	}}
	svc := newTestService(store, &fakeAudits{})

	snapshot, err := svc.Compute(context.Background(), uuid.New(), Filters{})
	require.NoError(t, err)
	assert.Equal(t, 2, snapshot.Appointments.TotalAppointments)
}

func TestComputeSideMetrics(t *testing.T) {
	buy := closedTx(domain.SideBuy, 30)
	sell := closedTx(domain.SideSell, 45)
	store := &fakeStore{
		transactions: []domain.Transaction{buy, sell},
		appointments: []domain.Appointment{
			{ID: uuid.New(), TransactionID: domain.Some(buy.ID), Kind: domain.KindHouseVisit, Status: domain.AppointmentConfirmed},
			{ID: uuid.New(), TransactionID: domain.Some(buy.ID), Kind: domain.KindShowing, Status: domain.AppointmentConfirmed},
			{ID: uuid.New(), TransactionID: domain.Some(buy.ID), Kind: domain.KindShowing, Status: domain.AppointmentDeclined},
			{ID: uuid.New(), TransactionID: domain.Some(sell.ID), Kind: domain.KindOpenHouse, Status: domain.AppointmentConfirmed, VisitorCount: domain.Some(12)},
			{ID: uuid.New(), TransactionID: domain.Some(sell.ID), Kind: domain.KindShowing, Status: domain.AppointmentConfirmed},
		},
		properties: []domain.Property{
			{ID: uuid.New(), TransactionID: buy.ID, Status: domain.PropertyInterested},
			{ID: uuid.New(), TransactionID: buy.ID, Status: domain.PropertyNotInterested},
			{ID: uuid.New(), TransactionID: buy.ID, Status: domain.PropertyUnderReview},
			{ID: uuid.New(), TransactionID: buy.ID, Status: domain.PropertyInterested},
		},
		propertyOffers: []domain.PropertyOffer{
			{ID: uuid.New(), TransactionID: buy.ID, Status: domain.PropertyOfferAccepted, Amount: domain.Some(400000.0)},
			{ID: uuid.New(), TransactionID: buy.ID, Status: domain.PropertyOfferDeclined, Amount: domain.Some(380000.0)},
			{ID: uuid.New(), TransactionID: buy.ID, Status: domain.PropertyOfferWithdrawn},
		},
		offers: []domain.Offer{
			{ID: uuid.New(), TransactionID: sell.ID, Status: domain.OfferAccepted, Amount: domain.Some(510000.0)},
			{ID: uuid.New(), TransactionID: sell.ID, Status: domain.OfferDeclined, Amount: domain.Some(525000.0)},
			{ID: uuid.New(), TransactionID: sell.ID, Status: domain.OfferPending},
			{ID: uuid.New(), TransactionID: sell.ID, Status: domain.OfferExpired, Amount: domain.Some(490000.0)},
		},
	}
	svc := newTestService(store, &fakeAudits{})

	snapshot, err := svc.Compute(context.Background(), uuid.New(), Filters{})
	require.NoError(t, err)

	assert.Equal(t, domain.BuySideMetrics{
		TotalProperties:                    4,
		PropertyInterestRate:               50.0,
		TotalHouseVisits:                   2,
		AvgHouseVisitsPerClosedTransaction: 2.0,
		TotalBuyerOffers:                   3,
		BuyerOfferAcceptanceRate:           33.3,
		// The offer without an amount is excluded from the average.
		AvgBuyerOfferAmount: 390000.0,
	}, snapshot.BuySide)

	assert.Equal(t, domain.SellSideMetrics{
		TotalShowings:                   2,
		AvgShowingsPerClosedTransaction: 2.0,
		TotalVisitors:                   12,
		TotalOffersReceived:             4,
		OfferAcceptanceRate:             25.0,
		HighestOfferAmount:              525000.0,
	}, snapshot.SellSide)
}

func TestComputeReaderErrorPropagates(t *testing.T) {
	boom := errors.New("connection reset")
	store := &fakeStore{transactionErr: boom}
	svc := newTestService(store, &fakeAudits{})

	_, err := svc.Compute(context.Background(), uuid.New(), Filters{})
	require.ErrorIs(t, err, boom)
}

func TestComputeLogsReaderError(t *testing.T) {
	var buf bytes.Buffer
	store := &fakeStore{transactionErr: errors.New("connection reset")}
	svc := New(store, &fakeAudits{}, nil, metrics.New(prometheus.NewRegistry()),
		analyticsConfig{window: 7, loc: time.UTC}, logger.NewWithWriter("production", &buf))
	svc.SetClock(func() time.Time { return fixedNow })

	_, err := svc.Compute(context.Background(), uuid.New(), Filters{})
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"database_error"`)
	assert.Contains(t, out, `"operation":"analytics.fetch.scope"`)
	assert.Contains(t, out, "connection reset")
}

func TestComputeAppointmentsPerTransactionCountsUnlinked(t *testing.T) {
	first := activeTx(domain.SideBuy, domain.BuyerPropertySearch, 10)
	second := activeTx(domain.SideSell, domain.SellerPublishListing, 10)
	store := &fakeStore{
		transactions: []domain.Transaction{first, second},
		appointments: []domain.Appointment{
			{ID: uuid.New(), TransactionID: domain.Some(first.ID), Status: domain.AppointmentConfirmed, Initiator: domain.InitiatorBroker, StartTime: daysAgo(3)},
			{ID: uuid.New(), TransactionID: domain.Some(second.ID), Status: domain.AppointmentProposed, Initiator: domain.InitiatorClient, StartTime: daysAgo(2)},
			{ID: uuid.New(), Status: domain.AppointmentConfirmed, Initiator: domain.InitiatorBroker, StartTime: daysAgo(1)},
		},
	}
	svc := newTestService(store, &fakeAudits{})

	snapshot, err := svc.Compute(context.Background(), uuid.New(), Filters{})
	require.NoError(t, err)

	got := snapshot.Appointments
	assert.Equal(t, 3, got.TotalAppointments)
	assert.Equal(t, 1.5, got.AvgAppointmentsPerTransaction)
	assert.Equal(t, 66.7, got.ConfirmationRate)
}

func TestComputeIsIdempotent(t *testing.T) {
	tx := activeTx(domain.SideBuy, domain.BuyerOfferAndNegotiation, 30)
	store := &fakeStore{
		transactions: []domain.Transaction{tx, closedTx(domain.SideSell, 12), terminatedTx(domain.SideBuy)},
		documents:    []domain.Document{{ID: uuid.New(), TransactionID: tx.ID, Status: domain.DocumentSubmitted}},
		stageChanges: []domain.TimelineEntry{
			stageChange(tx.ID, domain.BuyerOfferAndNegotiation, daysAgo(4)),
			stageChange(tx.ID, domain.BuyerPropertySearch, daysAgo(20)),
		},
		users: []domain.Client{{ID: tx.ClientID, FirstName: "Ada", LastName: "Lovelace"}},
	}
	svc := newTestService(store, &fakeAudits{})
	brokerID := uuid.New()
	filters := Filters{TransactionSide: domain.Some(domain.SideBuy)}

	first, err := svc.Compute(context.Background(), brokerID, filters)
	require.NoError(t, err)
	second, err := svc.Compute(context.Background(), brokerID, filters)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
