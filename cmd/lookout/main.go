package main

import (
	"context"
	"time"

	"lookout/internal/bright"
	lookoutconfig "lookout/internal/config"
	"lookout/internal/handlers"
	"lookout/pkg/config"
	"lookout/pkg/logging"
	"lookout/pkg/middleware"
	"lookout/pkg/monitoring"
	"lookout/pkg/server"
	"lookout/pkg/version"
)

func main() {
	logger := logging.NewLoggerWithService("lookout")
	config.LoadEnv(logger)

	logger.Info("Starting Lookout (Bright Cluster Health Check API)")

	cfg, err := lookoutconfig.LoadLookoutConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	if len(cfg.Measurables) == 0 {
		logger.Warn("No supported measurables configured; the API will answer with empty results")
	}

	// Setup monitoring
	healthChecker := monitoring.NewHealthChecker("lookout", version.Version)
	metricsCollector := monitoring.NewMetricsCollector("lookout", version.Version, version.GitCommit)

	healthChecker.AddCheck("config", monitoring.ConfigurationHealthCheck(map[string]string{
		"BRIGHT_HOST": cfg.BrightHost,
	}))

	// Build the upstream facade; probes the appliance version unless one
	// is pinned via BRIGHT_VERSION
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	svc, err := bright.NewService(ctx, cfg.ServiceConfig())
	cancel()
	if err != nil {
		logger.WithError(err).Fatal("Failed to create Bright health check service")
	}
	logger.WithFields(logging.Fields{
		"cmdaemon_version": svc.Version(),
		"measurables":      len(cfg.Measurables),
	}).Info("Selected CMDaemon protocol adapter")

	healthChecker.AddCheck("cmdaemon", func() monitoring.CheckResult {
		start := time.Now()
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pingCancel()
		if err := svc.Ping(pingCtx); err != nil {
			return monitoring.CheckResult{
				Status:  monitoring.StatusUnhealthy,
				Message: err.Error(),
				Latency: time.Since(start).String(),
			}
		}
		return monitoring.CheckResult{
			Status:  monitoring.StatusHealthy,
			Latency: time.Since(start).String(),
		}
	})

	// Create handler metrics
	handlerMetrics := &handlers.LookoutMetrics{
		Lookups: metricsCollector.NewCounter("health_check_lookups_total", "Health check lookups served", []string{"endpoint", "status"}),
	}

	handler := handlers.NewHealthCheckHandler(svc, logger, handlerMetrics)

	// Setup HTTP router (SetupServiceRouter adds /health and /metrics)
	router := server.SetupServiceRouter(logger, "lookout", healthChecker, metricsCollector)

	// Optional service token; /health and /metrics stay open
	if token := config.GetEnv("LOOKOUT_SERVICE_TOKEN", ""); token != "" {
		handler.RegisterRoutes(router.Group("/", middleware.ServiceAuthMiddleware(token)))
	} else {
		handler.RegisterRoutes(router)
	}

	// Start HTTP server with graceful shutdown
	serverConfig := server.DefaultConfig("lookout", cfg.HTTPPort)
	if err := server.Start(serverConfig, router, logger); err != nil {
		logger.WithError(err).Fatal("HTTP server failed")
	}
}
