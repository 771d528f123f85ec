package handlers

import (
	"context"

	"lookout/internal/bright"
)

// HealthCheckService is the facade surface the handlers depend on.
type HealthCheckService interface {
	HealthCheck(ctx context.Context, name, node string) (*bright.HealthCheck, error)
	HealthChecks(ctx context.Context, node string) ([]bright.HealthCheck, error)
	SupportedMeasurables() []string
}
