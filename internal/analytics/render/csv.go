package render

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"brokerage_backend/internal/analytics/domain"
)

// CSVRenderer writes a report as one CSV file with a header block, the
// metric table and the pipeline roster.
type CSVRenderer struct{}

func NewCSVRenderer() *CSVRenderer {
	return &CSVRenderer{}
}

func (r *CSVRenderer) Render(_ context.Context, report domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	records := [][]string{
		{"Report", "Broker Analytics"},
		{"Broker", report.BrokerName},
		{"Filters", report.Filters},
		{"Generated", report.GeneratedAt.Format(time.RFC3339)},
		{},
		{"Section", "Metric", "Value"},
	}
	for _, row := range MetricRows(report.Snapshot) {
		records = append(records, []string{row.Section, row.Metric, row.Value})
	}

	records = append(records, []string{}, []string{"Side", "Stage", "Clients", "Average Days"})
	for _, stage := range report.Snapshot.Pipeline {
		records = append(records, []string{SideLabel(stage.Side), StageLabel(stage.Stage), count(stage.Count), decimal(stage.AvgDays)})
	}

	records = append(records, []string{}, []string{"Side", "Stage", "Client", "Days In Stage"})
	for _, row := range PipelineRows(report.Snapshot.Pipeline) {
		records = append(records, []string{row.Side, row.Stage, row.ClientName, row.ElapsedDays})
	}

	if err := writer.WriteAll(records); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}
