package http

import (
	"context"

	"brokerage_backend/platform/config"
	"brokerage_backend/platform/logger"

	"github.com/prometheus/client_golang/prometheus"
)

// RouterConfig is the slice of configuration the router reads.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
}

// HealthChecker backs /api/health. A nil checker always reports ok.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App is assembled by a composition root and handed to router.New.
type App struct {
	Config  RouterConfig
	Logger  *logger.Logger
	Health  HealthChecker
	Metrics *prometheus.Registry // nil disables /metrics
	Modules []Module
}
