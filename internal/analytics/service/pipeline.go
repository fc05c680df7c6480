package service

import (
	"cmp"
	"slices"
	"time"

	"brokerage_backend/internal/analytics/domain"

	"github.com/google/uuid"
)

// stageEntries replays stage changes and returns, per transaction, when it
// entered its current stage. Entries are sorted here rather than trusting
// the reader's order; later timestamps win.
func stageEntries(transactions []domain.Transaction, changes []domain.TimelineEntry) map[uuid.UUID]time.Time {
	current := make(map[uuid.UUID]domain.Stage, len(transactions))
	for _, tx := range transactions {
		current[tx.ID] = tx.Stage
	}

	ordered := slices.Clone(changes)
	slices.SortStableFunc(ordered, func(a, b domain.TimelineEntry) int {
		return a.OccurredAt.Compare(b.OccurredAt)
	})

	entered := make(map[uuid.UUID]time.Time, len(transactions))
	for _, entry := range ordered {
		if entry.Type != domain.TimelineStageChange {
			continue
		}
		stage, ok := current[entry.TransactionID]
		if !ok {
			continue
		}
		if next, ok := entry.NewStage.Get(); !ok || next != stage {
			continue
		}
		if prev, seen := entered[entry.TransactionID]; !seen || entry.OccurredAt.After(prev) {
			entered[entry.TransactionID] = entry.OccurredAt
		}
	}
	return entered
}

type dwell struct {
	client  domain.StageClient
	elapsed time.Duration
}

// reconstructPipeline groups active transactions by current stage. Every
// stage of every side in scope is emitted in pipeline order, empty or not.
func reconstructPipeline(data dataset, sides []domain.Side, now time.Time) []domain.PipelineStage {
	active := make([]domain.Transaction, 0, len(data.transactions))
	for _, tx := range data.transactions {
		if tx.Status == domain.TransactionActive {
			active = append(active, tx)
		}
	}
	entered := stageEntries(active, data.stageChanges)

	byStage := make(map[domain.Stage][]dwell)
	for _, tx := range active {
		since, ok := entered[tx.ID]
		if !ok {
			since = tx.OpenedAt
		}
		elapsed := max(now.Sub(since), 0)
		byStage[tx.Stage] = append(byStage[tx.Stage], dwell{
			client: domain.StageClient{
				ClientID:      tx.ClientID,
				ClientName:    clientName(data.clients, tx.ClientID),
				TransactionID: tx.ID,
				ElapsedDays:   wholeDays(elapsed),
			},
			elapsed: elapsed,
		})
	}

	stages := make([]domain.PipelineStage, 0)
	for _, side := range sides {
		for _, stage := range side.Stages() {
			stages = append(stages, summarizeStage(side, stage, byStage[stage]))
		}
	}
	return stages
}

func summarizeStage(side domain.Side, stage domain.Stage, dwells []dwell) domain.PipelineStage {
	// Ordered by exact dwell, not the truncated day count.
	slices.SortStableFunc(dwells, func(a, b dwell) int {
		if c := cmp.Compare(b.elapsed, a.elapsed); c != 0 {
			return c
		}
		return cmp.Compare(a.client.ClientName, b.client.ClientName)
	})

	clients := make([]domain.StageClient, 0, len(dwells))
	var total float64
	for _, d := range dwells {
		clients = append(clients, d.client)
		total += fractionalDays(d.elapsed)
	}

	return domain.PipelineStage{
		Side:    side,
		Stage:   stage,
		Count:   len(clients),
		AvgDays: average(total, len(clients)),
		Clients: clients,
	}
}

func clientName(clients map[uuid.UUID]domain.Client, id uuid.UUID) string {
	if client, ok := clients[id]; ok {
		return client.DisplayName()
	}
	return id.String()
}
