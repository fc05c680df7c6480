// Package render turns analytics reports into CSV and PDF exports.
package render

import (
	"strconv"
	"strings"

	"brokerage_backend/internal/analytics/domain"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MetricRow is one labelled value in a report section.
type MetricRow struct {
	Section string
	Metric  string
	Value   string
}

// PipelineRow is one client in one stage of the pipeline roster.
type PipelineRow struct {
	Side        string
	Stage       string
	ClientName  string
	ElapsedDays string
}

var titleCaser = cases.Title(language.English)

// StageLabel renders BUYER_PROPERTY_SEARCH as "Property Search".
func StageLabel(stage domain.Stage) string {
	raw := string(stage)
	raw = strings.TrimPrefix(raw, "BUYER_")
	raw = strings.TrimPrefix(raw, "SELLER_")
	return enumLabel(raw)
}

// SideLabel renders BUY_SIDE as "Buy Side".
func SideLabel(side domain.Side) string {
	return enumLabel(string(side))
}

func enumLabel(raw string) string {
	return titleCaser.String(strings.ToLower(strings.ReplaceAll(raw, "_", " ")))
}

func count(v int) string { return strconv.Itoa(v) }

func decimal(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }

func percent(v float64) string { return decimal(v) + "%" }

func money(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// MetricRows flattens a snapshot into section rows in a fixed order.
func MetricRows(s domain.Snapshot) []MetricRow {
	const (
		overview     = "Transaction Overview"
		buySide      = "Buy Side"
		sellSide     = "Sell Side"
		documents    = "Documents"
		appointments = "Appointments"
		conditions   = "Conditions"
	)

	o, b, sl, d, a, c := s.Overview, s.BuySide, s.SellSide, s.Documents, s.Appointments, s.Conditions
	return []MetricRow{
		{overview, "Total transactions", count(o.TotalTransactions)},
		{overview, "Active transactions", count(o.ActiveTransactions)},
		{overview, "Closed transactions", count(o.ClosedTransactions)},
		{overview, "Terminated transactions", count(o.TerminatedTransactions)},
		{overview, "Buy-side transactions", count(o.BuySideTransactions)},
		{overview, "Sell-side transactions", count(o.SellSideTransactions)},
		{overview, "Success rate", percent(o.SuccessRate)},
		{overview, "Average duration (days)", decimal(o.AvgTransactionDurationDays)},
		{overview, "Shortest duration (days)", count(o.ShortestTransactionDays)},
		{overview, "Longest duration (days)", count(o.LongestTransactionDays)},

		{buySide, "Total properties", count(b.TotalProperties)},
		{buySide, "Property interest rate", percent(b.PropertyInterestRate)},
		{buySide, "House visits", count(b.TotalHouseVisits)},
		{buySide, "Average visits per closed transaction", decimal(b.AvgHouseVisitsPerClosedTransaction)},
		{buySide, "Buyer offers", count(b.TotalBuyerOffers)},
		{buySide, "Buyer offer acceptance rate", percent(b.BuyerOfferAcceptanceRate)},
		{buySide, "Average buyer offer amount", money(b.AvgBuyerOfferAmount)},

		{sellSide, "Showings", count(sl.TotalShowings)},
		{sellSide, "Average showings per closed transaction", decimal(sl.AvgShowingsPerClosedTransaction)},
		{sellSide, "Visitors", count(sl.TotalVisitors)},
		{sellSide, "Offers received", count(sl.TotalOffersReceived)},
		{sellSide, "Offer acceptance rate", percent(sl.OfferAcceptanceRate)},
		{sellSide, "Highest offer amount", money(sl.HighestOfferAmount)},

		{documents, "Total documents", count(d.TotalDocuments)},
		{documents, "Pending documents", count(d.PendingDocuments)},
		{documents, "Needing revision", count(d.DocumentsNeedingRevision)},
		{documents, "Completion rate", percent(d.DocumentCompletionRate)},
		{documents, "Average per transaction", decimal(d.AvgDocumentsPerTransaction)},

		{appointments, "Total appointments", count(a.TotalAppointments)},
		{appointments, "Confirmation rate", percent(a.ConfirmationRate)},
		{appointments, "Decline rate", percent(a.DeclineRate)},
		{appointments, "Cancellation rate", percent(a.CancellationRate)},
		{appointments, "Upcoming", count(a.UpcomingAppointments)},
		{appointments, "Broker initiated", count(a.BrokerInitiated)},
		{appointments, "Client initiated", count(a.ClientInitiated)},
		{appointments, "Average per transaction", decimal(a.AvgAppointmentsPerTransaction)},

		{conditions, "Total conditions", count(c.TotalConditions)},
		{conditions, "Satisfied rate", percent(c.SatisfiedRate)},
		{conditions, "Overdue", count(c.OverdueConditions)},
		{conditions, "Approaching deadline", count(c.ApproachingDeadline)},
		{conditions, "Average per transaction", decimal(c.AvgConditionsPerTransaction)},
	}
}

// PipelineRows lists every client of every non-empty stage, in roster order.
func PipelineRows(stages []domain.PipelineStage) []PipelineRow {
	rows := make([]PipelineRow, 0)
	for _, stage := range stages {
		for _, client := range stage.Clients {
			rows = append(rows, PipelineRow{
				Side:        SideLabel(stage.Side),
				Stage:       StageLabel(stage.Stage),
				ClientName:  client.ClientName,
				ElapsedDays: count(client.ElapsedDays),
			})
		}
	}
	return rows
}
