package render

import (
	"context"
	"fmt"

	"brokerage_backend/internal/analytics/domain"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	colorPrimary   = &props.Color{Red: 17, Green: 24, Blue: 39}
	colorSecondary = &props.Color{Red: 107, Green: 114, Blue: 128}
	colorAccent    = &props.Color{Red: 37, Green: 99, Blue: 235}
	colorTableHead = &props.Color{Red: 241, Green: 245, Blue: 249}
	colorTableAlt  = &props.Color{Red: 249, Green: 250, Blue: 251}
	colorBorder    = &props.Color{Red: 226, Green: 232, Blue: 240}
)

// PDFRenderer lays a report out as an A4 document.
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

func (r *PDFRenderer) Render(_ context.Context, report domain.Report) ([]byte, error) {
	cfg := config.NewBuilder().
		WithLeftMargin(15).
		WithTopMargin(12).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)
	if err := m.RegisterFooter(buildFooter(report)); err != nil {
		return nil, fmt.Errorf("register footer: %w", err)
	}

	m.AddRows(buildHeader(report)...)
	m.AddRows(row.New(1).WithStyle(&props.Cell{
		BorderType:  border.Bottom,
		BorderColor: colorBorder,
	}))
	m.AddRows(row.New(6))

	m.AddRows(buildMetricSections(MetricRows(report.Snapshot))...)
	m.AddRows(row.New(6))
	m.AddRows(buildPipeline(report.Snapshot.Pipeline)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

func buildHeader(report domain.Report) []core.Row {
	return []core.Row{
		row.New(12).Add(
			col.New(8).Add(text.New("Broker Analytics", props.Text{
				Size:  16,
				Style: fontstyle.Bold,
				Color: colorPrimary,
			})),
			col.New(4).Add(text.New(report.GeneratedAt.Format("2006-01-02 15:04 MST"), props.Text{
				Size:  8,
				Color: colorSecondary,
				Align: align.Right,
				Top:   3,
			})),
		),
		row.New(5).Add(col.New(12).Add(text.New(report.BrokerName, props.Text{
			Size:  10,
			Style: fontstyle.Bold,
			Color: colorPrimary,
		}))),
		row.New(5).Add(col.New(12).Add(text.New("Filters: "+report.Filters, props.Text{
			Size:  8,
			Color: colorSecondary,
		}))),
	}
}

func sectionTitle(title string) core.Row {
	return row.New(7).Add(col.New(12).Add(text.New(title, props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Color: colorAccent,
		Top:   1.5,
	})))
}

func buildMetricSections(metrics []MetricRow) []core.Row {
	labelStyle := props.Text{Size: 8, Color: colorPrimary, Top: 1}
	valueStyle := props.Text{Size: 8, Color: colorPrimary, Align: align.Right, Top: 1}

	rows := make([]core.Row, 0, len(metrics)+12)
	section := ""
	index := 0
	for _, metric := range metrics {
		if metric.Section != section {
			if section != "" {
				rows = append(rows, row.New(3))
			}
			section = metric.Section
			index = 0
			rows = append(rows, sectionTitle(section))
		}
		r := row.New(6).Add(
			col.New(9).Add(text.New(metric.Metric, labelStyle)),
			col.New(3).Add(text.New(metric.Value, valueStyle)),
		)
		if index%2 == 1 {
			r.WithStyle(&props.Cell{BackgroundColor: colorTableAlt})
		}
		rows = append(rows, r)
		index++
	}
	return rows
}

func buildPipeline(stages []domain.PipelineStage) []core.Row {
	headerStyle := props.Text{Size: 7.5, Style: fontstyle.Bold, Color: colorPrimary, Top: 1.5}
	headerStyleRight := props.Text{Size: 7.5, Style: fontstyle.Bold, Color: colorPrimary, Align: align.Right, Top: 1.5}
	cellStyle := props.Text{Size: 8, Color: colorPrimary, Top: 1}
	cellStyleRight := props.Text{Size: 8, Color: colorPrimary, Align: align.Right, Top: 1}
	mutedStyle := props.Text{Size: 7.5, Color: colorSecondary, Top: 1, Left: 4}

	rows := []core.Row{
		sectionTitle("Pipeline"),
		row.New(7).Add(
			col.New(3).Add(text.New("Side", headerStyle)),
			col.New(5).Add(text.New("Stage", headerStyle)),
			col.New(2).Add(text.New("Clients", headerStyleRight)),
			col.New(2).Add(text.New("Avg days", headerStyleRight)),
		).WithStyle(&props.Cell{BackgroundColor: colorTableHead}),
	}

	for _, stage := range stages {
		rows = append(rows, row.New(6).Add(
			col.New(3).Add(text.New(SideLabel(stage.Side), cellStyle)),
			col.New(5).Add(text.New(StageLabel(stage.Stage), cellStyle)),
			col.New(2).Add(text.New(count(stage.Count), cellStyleRight)),
			col.New(2).Add(text.New(decimal(stage.AvgDays), cellStyleRight)),
		))
		for _, client := range stage.Clients {
			rows = append(rows, row.New(5).Add(
				col.New(8).Add(text.New(client.ClientName, mutedStyle)),
				col.New(4).Add(text.New(fmt.Sprintf("%d days", client.ElapsedDays), props.Text{
					Size:  7.5,
					Color: colorSecondary,
					Align: align.Right,
					Top:   1,
				})),
			))
		}
	}
	return rows
}

func buildFooter(report domain.Report) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New("Confidential broker report  ·  "+report.BrokerName, props.Text{
				Size:  6.5,
				Color: colorSecondary,
				Align: align.Center,
				Top:   4,
			}),
		),
	)
}
