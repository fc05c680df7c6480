// Package analytics provides the broker analytics domain module: the
// dashboard snapshot, its CSV and PDF exports and the export audit trail.
package analytics

import (
	"brokerage_backend/internal/analytics/domain"
	"brokerage_backend/internal/analytics/handler"
	"brokerage_backend/internal/analytics/metrics"
	"brokerage_backend/internal/analytics/render"
	"brokerage_backend/internal/analytics/repository"
	"brokerage_backend/internal/analytics/service"
	"brokerage_backend/internal/events"
	apphttp "brokerage_backend/internal/http"
	"brokerage_backend/internal/scheduler"
	"brokerage_backend/platform/config"
	"brokerage_backend/platform/httpkit"
	"brokerage_backend/platform/logger"
	"brokerage_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// Module represents the analytics domain module
type Module struct {
	handler     *handler.Handler
	service     *service.Service
	repo        *repository.Repository
	exportLimit *httpkit.IPRateLimiter
}

// NewModule creates a new analytics module with all dependencies wired.
// reports may be nil when no job queue is configured.
func NewModule(
	pool *pgxpool.Pool,
	eventBus events.Bus,
	val *validator.Validator,
	reports scheduler.ReportScheduler,
	reg prometheus.Registerer,
	cfg config.AnalyticsConfig,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, repo, eventBus, metrics.New(reg), cfg, log)
	svc.SetRenderer(domain.ExportCSV, render.NewCSVRenderer())
	svc.SetRenderer(domain.ExportPDF, render.NewPDFRenderer())

	return &Module{
		handler:     handler.New(svc, reports, val),
		service:     svc,
		repo:        repo,
		exportLimit: httpkit.NewExportRateLimiter(log),
	}
}

// Service returns the analytics service for worker-side wiring.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the analytics repository. The export archive uses it
// to record archive keys.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "analytics"
}

// RegisterRoutes registers the module's routes under /api/v1/analytics
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	analytics := ctx.Protected.Group("/analytics")
	analytics.Use(httpkit.RequireRole(httpkit.RoleBroker))
	m.handler.RegisterRoutes(analytics, m.exportLimit.RateLimit())
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
