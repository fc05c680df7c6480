package domain

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is the result of one analytics computation. It is a value type;
// nothing in it aliases the rows it was computed from.
type Snapshot struct {
	Overview     TransactionOverview
	BuySide      BuySideMetrics
	SellSide     SellSideMetrics
	Documents    DocumentMetrics
	Appointments AppointmentMetrics
	Conditions   ConditionMetrics
	Pipeline     []PipelineStage
}

type TransactionOverview struct {
	TotalTransactions          int
	ActiveTransactions         int
	ClosedTransactions         int
	TerminatedTransactions     int
	BuySideTransactions        int
	SellSideTransactions       int
	SuccessRate                float64
	AvgTransactionDurationDays float64
	ShortestTransactionDays    int
	LongestTransactionDays     int
}

type BuySideMetrics struct {
	TotalProperties                    int
	PropertyInterestRate               float64
	TotalHouseVisits                   int
	AvgHouseVisitsPerClosedTransaction float64
	TotalBuyerOffers                   int
	BuyerOfferAcceptanceRate           float64
	AvgBuyerOfferAmount                float64
}

type SellSideMetrics struct {
	TotalShowings                   int
	AvgShowingsPerClosedTransaction float64
	TotalVisitors                   int
	TotalOffersReceived             int
	OfferAcceptanceRate             float64
	HighestOfferAmount              float64
}

type DocumentMetrics struct {
	TotalDocuments             int
	PendingDocuments           int
	DocumentsNeedingRevision   int
	DocumentCompletionRate     float64
	AvgDocumentsPerTransaction float64
}

type AppointmentMetrics struct {
	TotalAppointments             int
	ConfirmationRate              float64
	DeclineRate                   float64
	CancellationRate              float64
	UpcomingAppointments          int
	BrokerInitiated               int
	ClientInitiated               int
	AvgAppointmentsPerTransaction float64
}

type ConditionMetrics struct {
	TotalConditions             int
	SatisfiedRate               float64
	OverdueConditions           int
	ApproachingDeadline         int
	AvgConditionsPerTransaction float64
}

// PipelineStage groups the active transactions currently sitting in one
// stage. Clients is ordered longest-dwelling first.
type PipelineStage struct {
	Side    Side
	Stage   Stage
	Count   int
	AvgDays float64
	Clients []StageClient
}

type StageClient struct {
	ClientID      uuid.UUID
	ClientName    string
	TransactionID uuid.UUID
	ElapsedDays   int
}

// Report is what a renderer turns into bytes: the snapshot plus the header
// details printed above it.
type Report struct {
	Snapshot    Snapshot
	BrokerName  string
	Filters     string
	GeneratedAt time.Time
}
