package scheduler

import (
	"context"
	"fmt"

	"brokerage_backend/internal/analytics/service"
	"brokerage_backend/internal/analytics/transport"
	"brokerage_backend/internal/email"
	"brokerage_backend/platform/config"
	"brokerage_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// ReportExporter renders a PDF export for a broker, recording its audit row.
type ReportExporter interface {
	ExportPDF(ctx context.Context, brokerID uuid.UUID, filters service.Filters) (service.Export, error)
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, reports *ReportProcessor, deliveries *DeliveryProcessor, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	mux.Handle(TaskAnalyticsReportEmail, reports)
	mux.Handle(TaskAnalyticsReportDeliver, deliveries)

	return &Worker{
		server: server,
		mux:    mux,
		log:    log,
	}, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// ReportProcessor handles analytics.report.email tasks: it renders the PDF
// once and hands the bytes to a delivery task.
type ReportProcessor struct {
	exporter   ReportExporter
	deliveries DeliveryScheduler
	log        *logger.Logger
}

func NewReportProcessor(exporter ReportExporter, deliveries DeliveryScheduler, log *logger.Logger) *ReportProcessor {
	return &ReportProcessor{exporter: exporter, deliveries: deliveries, log: log}
}

// ProcessTask exports the PDF and queues its delivery. Malformed payloads
// are not retried and neither is anything after a successful export, since
// every export leaves an audit row.
func (p *ReportProcessor) ProcessTask(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseAnalyticsReportPayload(task)
	if err != nil {
		return fmt.Errorf("decode report payload: %v: %w", err, asynq.SkipRetry)
	}

	brokerID, err := uuid.Parse(payload.BrokerID)
	if err != nil {
		return fmt.Errorf("invalid broker id %q: %w", payload.BrokerID, asynq.SkipRetry)
	}

	filters, err := transport.AnalyticsQuery{
		StartDate:       payload.StartDate,
		EndDate:         payload.EndDate,
		TransactionSide: payload.TransactionSide,
		ClientName:      payload.ClientName,
	}.ToFilters()
	if err != nil {
		return fmt.Errorf("invalid report filters: %v: %w", err, asynq.SkipRetry)
	}

	export, err := p.exporter.ExportPDF(ctx, brokerID, filters)
	if err != nil {
		return fmt.Errorf("export report: %w", err)
	}

	if err := p.deliveries.ScheduleReportDelivery(ctx, ReportDeliveryPayload{
		BrokerID:    brokerID.String(),
		Recipient:   payload.Recipient,
		BrokerName:  export.BrokerName,
		Filters:     export.Filters,
		FileName:    export.FileName,
		ContentType: export.ContentType,
		Content:     export.Data,
	}); err != nil {
		p.log.Error("analytics report rendered but not queued for delivery", "broker_id", brokerID.String(), "file", export.FileName, "error", err)
		return fmt.Errorf("queue report delivery: %v: %w", err, asynq.SkipRetry)
	}
	return nil
}

// DeliveryProcessor handles analytics.report.deliver tasks. Send failures
// are retried by asynq without touching the export.
type DeliveryProcessor struct {
	sender email.Sender
	log    *logger.Logger
}

func NewDeliveryProcessor(sender email.Sender, log *logger.Logger) *DeliveryProcessor {
	return &DeliveryProcessor{sender: sender, log: log}
}

func (p *DeliveryProcessor) ProcessTask(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseReportDeliveryPayload(task)
	if err != nil {
		return fmt.Errorf("decode delivery payload: %v: %w", err, asynq.SkipRetry)
	}
	if len(payload.Content) == 0 {
		return fmt.Errorf("delivery has no attachment: %w", asynq.SkipRetry)
	}

	if err := p.sender.SendAnalyticsReport(ctx, email.ReportEmail{
		ToEmail:    payload.Recipient,
		BrokerName: payload.BrokerName,
		Filters:    payload.Filters,
		Attachment: email.Attachment{
			Content:  payload.Content,
			FileName: payload.FileName,
			MIMEType: payload.ContentType,
		},
	}); err != nil {
		return fmt.Errorf("send report: %w", err)
	}

	p.log.Info("analytics report emailed", "broker_id", payload.BrokerID, "size_bytes", len(payload.Content))
	return nil
}
