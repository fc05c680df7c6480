package service

import (
	"time"

	"brokerage_backend/internal/analytics/domain"

	"github.com/google/uuid"
)

func aggregateOverview(transactions []domain.Transaction) domain.TransactionOverview {
	var (
		out       domain.TransactionOverview
		durations []time.Duration
	)
	out.TotalTransactions = len(transactions)

	for _, tx := range transactions {
		switch tx.Side {
		case domain.SideBuy:
			out.BuySideTransactions++
		case domain.SideSell:
			out.SellSideTransactions++
		}

		switch tx.Status {
		case domain.TransactionActive:
			out.ActiveTransactions++
		case domain.TransactionClosed:
			out.ClosedTransactions++
		case domain.TransactionTerminated:
			out.TerminatedTransactions++
		}

		if closedAt, ok := tx.ClosedAt.Get(); ok && tx.Status == domain.TransactionClosed {
			durations = append(durations, closedAt.Sub(tx.OpenedAt))
		}
	}

	out.SuccessRate = rate(out.ClosedTransactions, out.ClosedTransactions+out.TerminatedTransactions)

	if len(durations) == 0 {
		return out
	}
	var total float64
	shortest, longest := durations[0], durations[0]
	for _, d := range durations {
		total += fractionalDays(d)
		shortest = min(shortest, d)
		longest = max(longest, d)
	}
	out.AvgTransactionDurationDays = average(total, len(durations))
	out.ShortestTransactionDays = wholeDays(shortest)
	out.LongestTransactionDays = wholeDays(longest)
	return out
}

// visits counts confirmed property visits per transaction of the given side.
func visits(appointments []domain.Appointment, refs map[uuid.UUID]domain.TransactionRef, side domain.Side) map[uuid.UUID][]domain.Appointment {
	out := make(map[uuid.UUID][]domain.Appointment)
	for _, appt := range appointments {
		if appt.Status != domain.AppointmentConfirmed || !appt.Kind.IsVisit() {
			continue
		}
		id, ok := appt.TransactionID.Get()
		if !ok {
			continue
		}
		if ref, member := refs[id]; member && ref.Side == side {
			out[id] = append(out[id], appt)
		}
	}
	return out
}

// closedOnSide returns the IDs of successfully closed transactions on side.
func closedOnSide(transactions []domain.Transaction, side domain.Side) map[uuid.UUID]struct{} {
	out := make(map[uuid.UUID]struct{})
	for _, tx := range transactions {
		if tx.Side == side && tx.Closed() {
			out[tx.ID] = struct{}{}
		}
	}
	return out
}

func perClosed(byTransaction map[uuid.UUID][]domain.Appointment, closed map[uuid.UUID]struct{}) float64 {
	var onClosed int
	for id := range closed {
		onClosed += len(byTransaction[id])
	}
	return average(float64(onClosed), len(closed))
}

func aggregateBuySide(data dataset) domain.BuySideMetrics {
	var out domain.BuySideMetrics

	out.TotalProperties = len(data.properties)
	var interested int
	for _, p := range data.properties {
		if p.Status == domain.PropertyInterested {
			interested++
		}
	}
	out.PropertyInterestRate = rate(interested, out.TotalProperties)

	byTransaction := visits(data.appointments, data.refs, domain.SideBuy)
	for _, list := range byTransaction {
		out.TotalHouseVisits += len(list)
	}
	out.AvgHouseVisitsPerClosedTransaction = perClosed(byTransaction, closedOnSide(data.transactions, domain.SideBuy))

	out.TotalBuyerOffers = len(data.propertyOffers)
	var (
		accepted    int
		amountSum   float64
		amountCount int
	)
	for _, offer := range data.propertyOffers {
		if offer.Status == domain.PropertyOfferAccepted {
			accepted++
		}
		if amount, ok := offer.Amount.Get(); ok {
			amountSum += amount
			amountCount++
		}
	}
	out.BuyerOfferAcceptanceRate = rate(accepted, out.TotalBuyerOffers)
	out.AvgBuyerOfferAmount = average(amountSum, amountCount)
	return out
}

func aggregateSellSide(data dataset) domain.SellSideMetrics {
	var out domain.SellSideMetrics

	byTransaction := visits(data.appointments, data.refs, domain.SideSell)
	for _, list := range byTransaction {
		out.TotalShowings += len(list)
		for _, appt := range list {
			out.TotalVisitors += appt.VisitorCount.OrElse(0)
		}
	}
	out.AvgShowingsPerClosedTransaction = perClosed(byTransaction, closedOnSide(data.transactions, domain.SideSell))

	out.TotalOffersReceived = len(data.offers)
	var accepted int
	for _, offer := range data.offers {
		if offer.Status == domain.OfferAccepted {
			accepted++
		}
		if amount, ok := offer.Amount.Get(); ok && amount > out.HighestOfferAmount {
			out.HighestOfferAmount = amount
		}
	}
	out.OfferAcceptanceRate = rate(accepted, out.TotalOffersReceived)
	return out
}

func aggregateDocuments(documents []domain.Document, transactionCount int) domain.DocumentMetrics {
	out := domain.DocumentMetrics{TotalDocuments: len(documents)}
	var approved int
	for _, doc := range documents {
		switch doc.Status {
		case domain.DocumentApproved:
			approved++
		case domain.DocumentNeedsRevision:
			out.DocumentsNeedingRevision++
		case domain.DocumentRequested, domain.DocumentSubmitted:
		}
		if doc.Status.Pending() {
			out.PendingDocuments++
		}
	}
	out.DocumentCompletionRate = rate(approved, out.TotalDocuments)
	out.AvgDocumentsPerTransaction = average(float64(out.TotalDocuments), transactionCount)
	return out
}

func aggregateAppointments(appointments []domain.Appointment, transactionCount int, now time.Time) domain.AppointmentMetrics {
	out := domain.AppointmentMetrics{TotalAppointments: len(appointments)}
	var confirmed, declined, cancelled int
	for _, appt := range appointments {
		switch appt.Status {
		case domain.AppointmentConfirmed:
			confirmed++
		case domain.AppointmentDeclined:
			declined++
		case domain.AppointmentCancelled:
			cancelled++
		case domain.AppointmentProposed:
		}

		switch appt.Initiator {
		case domain.InitiatorBroker:
			out.BrokerInitiated++
		case domain.InitiatorClient:
			out.ClientInitiated++
		}

		if appt.StartTime.After(now) && !appt.Status.Terminal() {
			out.UpcomingAppointments++
		}
	}
	out.ConfirmationRate = rate(confirmed, out.TotalAppointments)
	out.DeclineRate = rate(declined, out.TotalAppointments)
	out.CancellationRate = rate(cancelled, out.TotalAppointments)
	out.AvgAppointmentsPerTransaction = average(float64(out.TotalAppointments), transactionCount)
	return out
}

// aggregateConditions compares deadlines by calendar date. A condition is
// approaching when its deadline falls in [today, today+window].
func aggregateConditions(conditions []domain.Condition, transactionCount int, today time.Time, window int) domain.ConditionMetrics {
	out := domain.ConditionMetrics{TotalConditions: len(conditions)}
	horizon := today.AddDate(0, 0, window)
	var satisfied int
	for _, cond := range conditions {
		switch cond.Status {
		case domain.ConditionSatisfied:
			satisfied++
			continue
		case domain.ConditionPending:
		}

		deadline, ok := cond.Deadline.Get()
		if !ok {
			continue
		}
		due := civilDate(deadline, time.UTC)
		switch {
		case due.Before(today):
			out.OverdueConditions++
		case !due.After(horizon):
			out.ApproachingDeadline++
		}
	}
	out.SatisfiedRate = rate(satisfied, out.TotalConditions)
	out.AvgConditionsPerTransaction = average(float64(out.TotalConditions), transactionCount)
	return out
}
