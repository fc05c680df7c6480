package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"brokerage_backend/internal/analytics/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stageChange(transactionID uuid.UUID, next domain.Stage, at time.Time) domain.TimelineEntry {
	return domain.TimelineEntry{
		ID:            uuid.New(),
		TransactionID: transactionID,
		Type:          domain.TimelineStageChange,
		OccurredAt:    at,
		NewStage:      domain.Some(next),
	}
}

func findStage(t *testing.T, stages []domain.PipelineStage, stage domain.Stage) domain.PipelineStage {
	t.Helper()
	for _, s := range stages {
		if s.Stage == stage {
			return s
		}
	}
	t.Fatalf("stage %s missing from pipeline", stage)
	return domain.PipelineStage{}
}

func TestPipelineUsesLatestEntryIntoCurrentStage(t *testing.T) {
	tx := activeTx(domain.SideBuy, domain.BuyerOfferAndNegotiation, 30)
	store := &fakeStore{
		transactions: []domain.Transaction{tx},
		// Deliberately out of order, with a reversion back into the current stage.
		stageChanges: []domain.TimelineEntry{
			stageChange(tx.ID, domain.BuyerOfferAndNegotiation, daysAgo(5)),
			stageChange(tx.ID, domain.BuyerPropertySearch, daysAgo(25)),
			stageChange(tx.ID, domain.BuyerPropertySearch, daysAgo(10)),
			stageChange(tx.ID, domain.BuyerOfferAndNegotiation, daysAgo(20)),
		},
		users: []domain.Client{{ID: tx.ClientID, FirstName: "Grace", LastName: "Hopper"}},
	}
	svc := newTestService(store, &fakeAudits{})

	snapshot, err := svc.Compute(context.Background(), uuid.New(), Filters{})
	require.NoError(t, err)

	stage := findStage(t, snapshot.Pipeline, domain.BuyerOfferAndNegotiation)
	require.Equal(t, 1, stage.Count)
	require.Len(t, stage.Clients, 1)
	assert.GreaterOrEqual(t, stage.Clients[0].ElapsedDays, 5)
	assert.Equal(t, 5, stage.Clients[0].ElapsedDays)
	assert.Equal(t, 5.0, stage.AvgDays)
	assert.Equal(t, "Grace Hopper", stage.Clients[0].ClientName)
	assert.Equal(t, tx.ID, stage.Clients[0].TransactionID)

	assert.Zero(t, findStage(t, snapshot.Pipeline, domain.BuyerPropertySearch).Count)
}

func TestPipelineFallsBackToOpenedAt(t *testing.T) {
	tx := activeTx(domain.SideSell, domain.SellerInitialConsultation, 3)
	store := &fakeStore{transactions: []domain.Transaction{tx}}
	svc := newTestService(store, &fakeAudits{})

	snapshot, err := svc.Compute(context.Background(), uuid.New(), Filters{})
	require.NoError(t, err)

	stage := findStage(t, snapshot.Pipeline, domain.SellerInitialConsultation)
	require.Len(t, stage.Clients, 1)
	assert.Equal(t, 3, stage.Clients[0].ElapsedDays)
}

func TestPipelineIgnoresClosedAndTerminated(t *testing.T) {
	store := &fakeStore{transactions: []domain.Transaction{
		closedTx(domain.SideBuy, 10),
		terminatedTx(domain.SideBuy),
	}}
	svc := newTestService(store, &fakeAudits{})

	snapshot, err := svc.Compute(context.Background(), uuid.New(), Filters{})
	require.NoError(t, err)

	for _, stage := range snapshot.Pipeline {
		assert.Zero(t, stage.Count, stage.Stage)
	}
	assert.Zero(t, store.count("ListStageChanges"))
}

func TestPipelineOrdersLongestDwellingFirst(t *testing.T) {
	zoe := activeTx(domain.SideBuy, domain.BuyerPropertySearch, 7)
	adam := activeTx(domain.SideBuy, domain.BuyerPropertySearch, 3)
	bea := activeTx(domain.SideBuy, domain.BuyerPropertySearch, 7)
	store := &fakeStore{
		transactions: []domain.Transaction{zoe, adam, bea},
		users: []domain.Client{
			{ID: zoe.ClientID, FirstName: "Zoe"},
			{ID: adam.ClientID, FirstName: "Adam"},
			{ID: bea.ClientID, FirstName: "Bea"},
		},
	}
	svc := newTestService(store, &fakeAudits{})

	snapshot, err := svc.Compute(context.Background(), uuid.New(), Filters{})
	require.NoError(t, err)

	stage := findStage(t, snapshot.Pipeline, domain.BuyerPropertySearch)
	require.Len(t, stage.Clients, 3)
	names := []string{stage.Clients[0].ClientName, stage.Clients[1].ClientName, stage.Clients[2].ClientName}
	assert.Equal(t, []string{"Bea", "Zoe", "Adam"}, names)
	assert.Equal(t, 5.7, stage.AvgDays)
}

func TestPipelineOrdersByExactDwellWithinSameDay(t *testing.T) {
	amy := activeTx(domain.SideSell, domain.SellerPublishListing, 0)
	amy.OpenedAt = fixedNow.Add(-6*day - time.Hour)
	zoe := activeTx(domain.SideSell, domain.SellerPublishListing, 0)
	zoe.OpenedAt = fixedNow.Add(-6*day - 22*time.Hour)
	store := &fakeStore{
		transactions: []domain.Transaction{amy, zoe},
		users: []domain.Client{
			{ID: amy.ClientID, FirstName: "Amy"},
			{ID: zoe.ClientID, FirstName: "Zoe"},
		},
	}
	svc := newTestService(store, &fakeAudits{})

	snapshot, err := svc.Compute(context.Background(), uuid.New(), Filters{})
	require.NoError(t, err)

	stage := findStage(t, snapshot.Pipeline, domain.SellerPublishListing)
	require.Len(t, stage.Clients, 2)
	assert.Equal(t, "Zoe", stage.Clients[0].ClientName)
	assert.Equal(t, "Amy", stage.Clients[1].ClientName)
	assert.Equal(t, 6, stage.Clients[0].ElapsedDays)
	assert.Equal(t, 6, stage.Clients[1].ElapsedDays)
}

func TestPipelineMissingClientFallsBackToID(t *testing.T) {
	known := activeTx(domain.SideSell, domain.SellerPublishListing, 4)
	deleted := activeTx(domain.SideSell, domain.SellerPublishListing, 2)
	store := &fakeStore{
		transactions: []domain.Transaction{known, deleted},
		users:        []domain.Client{{ID: known.ClientID, FirstName: "Known", LastName: "Client"}},
	}
	svc := newTestService(store, &fakeAudits{})

	snapshot, err := svc.Compute(context.Background(), uuid.New(), Filters{})
	require.NoError(t, err)

	stage := findStage(t, snapshot.Pipeline, domain.SellerPublishListing)
	require.Len(t, stage.Clients, 2)
	assert.Equal(t, "Known Client", stage.Clients[0].ClientName)
	assert.Equal(t, deleted.ClientID.String(), stage.Clients[1].ClientName)
}

func TestPipelineSurvivesNameLookupFailure(t *testing.T) {
	tx := activeTx(domain.SideBuy, domain.BuyerFinancialPreparation, 1)
	store := &fakeStore{
		transactions: []domain.Transaction{tx},
		usersErr:     errors.New("identity store down"),
	}
	svc := newTestService(store, &fakeAudits{})

	snapshot, err := svc.Compute(context.Background(), uuid.New(), Filters{})
	require.NoError(t, err)

	stage := findStage(t, snapshot.Pipeline, domain.BuyerFinancialPreparation)
	require.Len(t, stage.Clients, 1)
	assert.Equal(t, tx.ClientID.String(), stage.Clients[0].ClientName)
}

func TestStageEntriesSkipsOtherTransactionsAndEventTypes(t *testing.T) {
	tx := activeTx(domain.SideBuy, domain.BuyerPossession, 50)
	other := uuid.New()
	changes := []domain.TimelineEntry{
		stageChange(other, domain.BuyerPossession, daysAgo(1)),
		{ID: uuid.New(), TransactionID: tx.ID, Type: "NOTE_ADDED", OccurredAt: daysAgo(2), NewStage: domain.Some(domain.BuyerPossession)},
		stageChange(tx.ID, domain.BuyerPossession, daysAgo(9)),
	}

	entered := stageEntries([]domain.Transaction{tx}, changes)

	require.Contains(t, entered, tx.ID)
	assert.Equal(t, daysAgo(9), entered[tx.ID])
	assert.NotContains(t, entered, other)
}
