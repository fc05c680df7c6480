package transport

import (
	"strings"
	"time"

	"brokerage_backend/internal/analytics/domain"
	"brokerage_backend/internal/analytics/service"
	"brokerage_backend/platform/apperr"
	"brokerage_backend/platform/sanitize"
	"brokerage_backend/platform/validator"

	"github.com/google/uuid"
)

// AnalyticsQuery is the query string accepted by every analytics endpoint.
type AnalyticsQuery struct {
	StartDate       string `form:"startDate" validate:"omitempty,dateonly"`
	EndDate         string `form:"endDate" validate:"omitempty,dateonly"`
	TransactionSide string `form:"transactionSide" validate:"omitempty,oneof=BUY_SIDE SELL_SIDE"`
	ClientName      string `form:"clientName" validate:"max=100"`
}

// invalidField reports a rejected query parameter; the field name is echoed
// in the response details so the UI can highlight it.
func invalidField(field, message string) error {
	return apperr.Validation(message).WithDetails(map[string]string{"field": field})
}

// ToFilters enforces the cross-field rules struct tags cannot express: both
// dates or neither, and end not before start.
func (q AnalyticsQuery) ToFilters() (service.Filters, error) {
	var filters service.Filters

	start, end := strings.TrimSpace(q.StartDate), strings.TrimSpace(q.EndDate)
	if (start == "") != (end == "") {
		return service.Filters{}, invalidField("startDate", "startDate and endDate must be supplied together")
	}
	if start != "" {
		startDate, err := time.Parse(validator.DateLayout, start)
		if err != nil {
			return service.Filters{}, invalidField("startDate", "startDate must be YYYY-MM-DD")
		}
		endDate, err := time.Parse(validator.DateLayout, end)
		if err != nil {
			return service.Filters{}, invalidField("endDate", "endDate must be YYYY-MM-DD")
		}
		if endDate.Before(startDate) {
			return service.Filters{}, invalidField("endDate", "endDate must not be before startDate")
		}
		filters.StartDate = domain.Some(startDate)
		filters.EndDate = domain.Some(endDate)
	}

	if q.TransactionSide != "" {
		side, err := domain.ParseSide(q.TransactionSide)
		if err != nil {
			return service.Filters{}, invalidField("transactionSide", "transactionSide must be BUY_SIDE or SELL_SIDE")
		}
		filters.TransactionSide = domain.Some(side)
	}

	if name := sanitize.Text(q.ClientName); name != "" {
		filters.ClientName = domain.Some(name)
	}
	return filters, nil
}

// EmailReportRequest is the body of POST /analytics/reports/email.
type EmailReportRequest struct {
	Recipient       string `json:"recipient" validate:"required,email,max=254"`
	StartDate       string `json:"startDate" validate:"omitempty,dateonly"`
	EndDate         string `json:"endDate" validate:"omitempty,dateonly"`
	TransactionSide string `json:"transactionSide" validate:"omitempty,oneof=BUY_SIDE SELL_SIDE"`
	ClientName      string `json:"clientName" validate:"max=100"`
}

// Query returns the filter part of the request.
func (r EmailReportRequest) Query() AnalyticsQuery {
	return AnalyticsQuery{
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		TransactionSide: r.TransactionSide,
		ClientName:      r.ClientName,
	}
}

type EmailReportResponse struct {
	Status string `json:"status"`
}

type ListExportsRequest struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=200"`
}

type ExportAuditResponse struct {
	ID         uuid.UUID `json:"id"`
	BrokerName string    `json:"brokerName"`
	Format     string    `json:"format"`
	Filters    string    `json:"filters"`
	Archived   bool      `json:"archived"`
	ExportedAt time.Time `json:"exportedAt"`
}

type ExportListResponse struct {
	Items []ExportAuditResponse `json:"items"`
}

type DownloadResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func ToExportListResponse(audits []domain.ExportAudit) ExportListResponse {
	items := make([]ExportAuditResponse, 0, len(audits))
	for _, audit := range audits {
		items = append(items, ExportAuditResponse{
			ID:         audit.ID,
			BrokerName: audit.BrokerName,
			Format:     string(audit.Format),
			Filters:    audit.Filters,
			Archived:   audit.ArchiveKey.IsPresent(),
			ExportedAt: audit.ExportedAt,
		})
	}
	return ExportListResponse{Items: items}
}
