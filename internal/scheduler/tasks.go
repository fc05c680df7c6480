package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskAnalyticsReportEmail = "analytics.report.email"

// AnalyticsReportPayload carries the request filters verbatim so the worker
// validates them the same way the HTTP boundary does.
type AnalyticsReportPayload struct {
	BrokerID        string `json:"brokerId"`
	Recipient       string `json:"recipient"`
	StartDate       string `json:"startDate,omitempty"`
	EndDate         string `json:"endDate,omitempty"`
	TransactionSide string `json:"transactionSide,omitempty"`
	ClientName      string `json:"clientName,omitempty"`
}

func NewAnalyticsReportTask(payload AnalyticsReportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAnalyticsReportEmail, data), nil
}

func ParseAnalyticsReportPayload(task *asynq.Task) (AnalyticsReportPayload, error) {
	var payload AnalyticsReportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return AnalyticsReportPayload{}, err
	}
	return payload, nil
}

const TaskAnalyticsReportDeliver = "analytics.report.deliver"

// ReportDeliveryPayload is a rendered report waiting to be mailed. It is
// enqueued once per export so delivery retries never render again.
type ReportDeliveryPayload struct {
	BrokerID    string `json:"brokerId"`
	Recipient   string `json:"recipient"`
	BrokerName  string `json:"brokerName"`
	Filters     string `json:"filters"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Content     []byte `json:"content"`
}

func NewReportDeliveryTask(payload ReportDeliveryPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAnalyticsReportDeliver, data), nil
}

func ParseReportDeliveryPayload(task *asynq.Task) (ReportDeliveryPayload, error) {
	var payload ReportDeliveryPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ReportDeliveryPayload{}, err
	}
	return payload, nil
}
