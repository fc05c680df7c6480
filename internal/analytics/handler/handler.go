package handler

import (
	"context"
	"net/http"

	"brokerage_backend/internal/analytics/domain"
	"brokerage_backend/internal/analytics/service"
	"brokerage_backend/internal/analytics/transport"
	"brokerage_backend/internal/scheduler"
	"brokerage_backend/platform/apperr"
	"brokerage_backend/platform/httpkit"
	"brokerage_backend/platform/logger"
	"brokerage_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// AnalyticsService is the service surface the handler drives.
type AnalyticsService interface {
	Compute(ctx context.Context, brokerID uuid.UUID, filters service.Filters) (domain.Snapshot, error)
	ExportCSV(ctx context.Context, brokerID uuid.UUID, filters service.Filters) (service.Export, error)
	ExportPDF(ctx context.Context, brokerID uuid.UUID, filters service.Filters) (service.Export, error)
	ListExports(ctx context.Context, brokerID uuid.UUID, limit int) ([]domain.ExportAudit, error)
	DownloadExport(ctx context.Context, brokerID, auditID uuid.UUID) (service.DownloadLink, error)
}

// Handler handles HTTP requests for broker analytics
type Handler struct {
	svc     AnalyticsService
	reports scheduler.ReportScheduler
	val     *validator.Validator
}

// New creates a new analytics handler. reports may be nil when no job
// queue is configured.
func New(svc AnalyticsService, reports scheduler.ReportScheduler, val *validator.Validator) *Handler {
	return &Handler{svc: svc, reports: reports, val: val}
}

// RegisterRoutes registers the analytics routes. exportLimit guards the
// endpoints that render files.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, exportLimit gin.HandlerFunc) {
	rg.GET("", h.Get)
	rg.GET("/export.csv", exportLimit, h.ExportCSV)
	rg.GET("/export.pdf", exportLimit, h.ExportPDF)
	rg.GET("/exports", h.ListExports)
	rg.GET("/exports/:id/download", h.DownloadExport)
	rg.POST("/reports/email", exportLimit, h.EmailReport)
}

// Get handles GET /api/v1/analytics
func (h *Handler) Get(c *gin.Context) {
	brokerID, filters, ok := h.bindQuery(c)
	if !ok {
		return
	}

	snapshot, err := h.svc.Compute(brokerContext(c, brokerID), brokerID, filters)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToSnapshotResponse(snapshot))
}

// ExportCSV handles GET /api/v1/analytics/export.csv
func (h *Handler) ExportCSV(c *gin.Context) {
	h.export(c, h.svc.ExportCSV)
}

// ExportPDF handles GET /api/v1/analytics/export.pdf
func (h *Handler) ExportPDF(c *gin.Context) {
	h.export(c, h.svc.ExportPDF)
}

type exportFunc func(ctx context.Context, brokerID uuid.UUID, filters service.Filters) (service.Export, error)

func (h *Handler) export(c *gin.Context, run exportFunc) {
	brokerID, filters, ok := h.bindQuery(c)
	if !ok {
		return
	}

	export, err := run(brokerContext(c, brokerID), brokerID, filters)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Attachment(c, export.FileName, export.ContentType, export.Data)
}

// ListExports handles GET /api/v1/analytics/exports
func (h *Handler) ListExports(c *gin.Context) {
	var req transport.ListExportsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	audits, err := h.svc.ListExports(brokerContext(c, identity.UserID()), identity.UserID(), req.Limit)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ToExportListResponse(audits))
}

// DownloadExport handles GET /api/v1/analytics/exports/:id/download
func (h *Handler) DownloadExport(c *gin.Context) {
	auditID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "invalid export id")
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	link, err := h.svc.DownloadExport(brokerContext(c, identity.UserID()), identity.UserID(), auditID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.DownloadResponse{URL: link.URL, ExpiresAt: link.ExpiresAt})
}

// EmailReport handles POST /api/v1/analytics/reports/email
func (h *Handler) EmailReport(c *gin.Context) {
	if h.reports == nil {
		httpkit.HandleError(c, apperr.Unavailable("report delivery is not configured"))
		return
	}

	var req transport.EmailReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	if _, err := req.Query().ToFilters(); httpkit.HandleError(c, err) {
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	err := h.reports.ScheduleAnalyticsReport(brokerContext(c, identity.UserID()), scheduler.AnalyticsReportPayload{
		BrokerID:        identity.UserID().String(),
		Recipient:       req.Recipient,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		TransactionSide: req.TransactionSide,
		ClientName:      req.ClientName,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusAccepted, transport.EmailReportResponse{Status: "queued"})
}

// bindQuery validates the analytics query string and resolves the caller.
func (h *Handler) bindQuery(c *gin.Context) (uuid.UUID, service.Filters, bool) {
	var query transport.AnalyticsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return uuid.Nil, service.Filters{}, false
	}
	if err := h.val.Struct(query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return uuid.Nil, service.Filters{}, false
	}

	filters, err := query.ToFilters()
	if httpkit.HandleError(c, err) {
		return uuid.Nil, service.Filters{}, false
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return uuid.Nil, service.Filters{}, false
	}
	return identity.UserID(), filters, true
}

func brokerContext(c *gin.Context, brokerID uuid.UUID) context.Context {
	return context.WithValue(c.Request.Context(), logger.BrokerIDKey, brokerID.String())
}
