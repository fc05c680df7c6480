package transport

import (
	"brokerage_backend/internal/analytics/domain"

	"github.com/google/uuid"
)

type SnapshotResponse struct {
	Overview     OverviewResponse        `json:"overview"`
	BuySide      BuySideResponse         `json:"buySide"`
	SellSide     SellSideResponse        `json:"sellSide"`
	Documents    DocumentsResponse       `json:"documents"`
	Appointments AppointmentsResponse    `json:"appointments"`
	Conditions   ConditionsResponse      `json:"conditions"`
	Pipeline     []PipelineStageResponse `json:"pipeline"`
}

type OverviewResponse struct {
	TotalTransactions          int     `json:"totalTransactions"`
	ActiveTransactions         int     `json:"activeTransactions"`
	ClosedTransactions         int     `json:"closedTransactions"`
	TerminatedTransactions     int     `json:"terminatedTransactions"`
	BuySideTransactions        int     `json:"buySideTransactions"`
	SellSideTransactions       int     `json:"sellSideTransactions"`
	SuccessRate                float64 `json:"successRate"`
	AvgTransactionDurationDays float64 `json:"avgTransactionDurationDays"`
	ShortestTransactionDays    int     `json:"shortestTransactionDays"`
	LongestTransactionDays     int     `json:"longestTransactionDays"`
}

type BuySideResponse struct {
	TotalProperties                    int     `json:"totalProperties"`
	PropertyInterestRate               float64 `json:"propertyInterestRate"`
	TotalHouseVisits                   int     `json:"totalHouseVisits"`
	AvgHouseVisitsPerClosedTransaction float64 `json:"avgHouseVisitsPerClosedTransaction"`
	TotalBuyerOffers                   int     `json:"totalBuyerOffers"`
	BuyerOfferAcceptanceRate           float64 `json:"buyerOfferAcceptanceRate"`
	AvgBuyerOfferAmount                float64 `json:"avgBuyerOfferAmount"`
}

type SellSideResponse struct {
	TotalShowings                   int     `json:"totalShowings"`
	AvgShowingsPerClosedTransaction float64 `json:"avgShowingsPerClosedTransaction"`
	TotalVisitors                   int     `json:"totalVisitors"`
	TotalOffersReceived             int     `json:"totalOffersReceived"`
	OfferAcceptanceRate             float64 `json:"offerAcceptanceRate"`
	HighestOfferAmount              float64 `json:"highestOfferAmount"`
}

type DocumentsResponse struct {
	TotalDocuments             int     `json:"totalDocuments"`
	PendingDocuments           int     `json:"pendingDocuments"`
	DocumentsNeedingRevision   int     `json:"documentsNeedingRevision"`
	DocumentCompletionRate     float64 `json:"documentCompletionRate"`
	AvgDocumentsPerTransaction float64 `json:"avgDocumentsPerTransaction"`
}

type AppointmentsResponse struct {
	TotalAppointments             int            `json:"totalAppointments"`
	ConfirmationRate              float64        `json:"confirmationRate"`
	DeclineRate                   float64        `json:"declineRate"`
	CancellationRate              float64        `json:"cancellationRate"`
	UpcomingAppointments          int            `json:"upcomingAppointments"`
	ByInitiator                   map[string]int `json:"byInitiator"`
	AvgAppointmentsPerTransaction float64        `json:"avgAppointmentsPerTransaction"`
}

type ConditionsResponse struct {
	TotalConditions             int     `json:"totalConditions"`
	SatisfiedRate               float64 `json:"satisfiedRate"`
	OverdueConditions           int     `json:"overdueConditions"`
	ApproachingDeadline         int     `json:"approachingDeadline"`
	AvgConditionsPerTransaction float64 `json:"avgConditionsPerTransaction"`
}

type PipelineStageResponse struct {
	Side    string                `json:"side"`
	Stage   string                `json:"stage"`
	Count   int                   `json:"count"`
	AvgDays float64               `json:"avgDays"`
	Clients []StageClientResponse `json:"clients"`
}

type StageClientResponse struct {
	ClientID      uuid.UUID `json:"clientId"`
	ClientName    string    `json:"clientName"`
	TransactionID uuid.UUID `json:"transactionId"`
	ElapsedDays   int       `json:"elapsedDays"`
}

func ToSnapshotResponse(s domain.Snapshot) SnapshotResponse {
	pipeline := make([]PipelineStageResponse, 0, len(s.Pipeline))
	for _, stage := range s.Pipeline {
		clients := make([]StageClientResponse, 0, len(stage.Clients))
		for _, client := range stage.Clients {
			clients = append(clients, StageClientResponse(client))
		}
		pipeline = append(pipeline, PipelineStageResponse{
			Side:    string(stage.Side),
			Stage:   string(stage.Stage),
			Count:   stage.Count,
			AvgDays: stage.AvgDays,
			Clients: clients,
		})
	}

	return SnapshotResponse{
		Overview:  OverviewResponse(s.Overview),
		BuySide:   BuySideResponse(s.BuySide),
		SellSide:  SellSideResponse(s.SellSide),
		Documents: DocumentsResponse(s.Documents),
		Appointments: AppointmentsResponse{
			TotalAppointments:    s.Appointments.TotalAppointments,
			ConfirmationRate:     s.Appointments.ConfirmationRate,
			DeclineRate:          s.Appointments.DeclineRate,
			CancellationRate:     s.Appointments.CancellationRate,
			UpcomingAppointments: s.Appointments.UpcomingAppointments,
			ByInitiator: map[string]int{
				string(domain.InitiatorBroker): s.Appointments.BrokerInitiated,
				string(domain.InitiatorClient): s.Appointments.ClientInitiated,
			},
			AvgAppointmentsPerTransaction: s.Appointments.AvgAppointmentsPerTransaction,
		},
		Conditions: ConditionsResponse(s.Conditions),
		Pipeline:   pipeline,
	}
}
