package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lookout/pkg/api/common"
	"lookout/pkg/logging"
	"lookout/pkg/middleware"
)

// HealthCheckHandler serves the health check REST surface.
type HealthCheckHandler struct {
	service HealthCheckService
	logger  logging.Logger
	metrics *LookoutMetrics
}

// NewHealthCheckHandler wires the REST surface to the facade.
func NewHealthCheckHandler(service HealthCheckService, logger logging.Logger, metrics *LookoutMetrics) *HealthCheckHandler {
	return &HealthCheckHandler{
		service: service,
		logger:  logger,
		metrics: metrics,
	}
}

// RegisterRoutes attaches the health check routes to a router. The
// supported-measurables route registers alongside the name parameter;
// gin resolves the static segment first.
func (h *HealthCheckHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/health-checks", h.List)
	router.GET("/health-checks/supported-measurables", h.SupportedMeasurables)
	router.GET("/health-checks/:name", h.Get)
}

// List returns the current state of every supported health check,
// optionally scoped to one node via the node query parameter.
func (h *HealthCheckHandler) List(c *gin.Context) {
	node := c.Query("node")

	checks, err := h.service.HealthChecks(c.Request.Context(), node)
	if err != nil {
		h.metrics.IncLookup("list", "error")
		middleware.GetContextLogger(c, h.logger).WithError(err).Error("Failed to fetch health checks")
		c.JSON(http.StatusBadGateway, common.NewErrorResponse(http.StatusBadGateway))
		return
	}

	h.metrics.IncLookup("list", "ok")
	c.JSON(http.StatusOK, checks)
}

// Get returns the current state of one named health check. Unsupported
// names and checks without upstream data are a 404.
func (h *HealthCheckHandler) Get(c *gin.Context) {
	name := c.Param("name")
	node := c.Query("node")

	check, err := h.service.HealthCheck(c.Request.Context(), name, node)
	if err != nil {
		h.metrics.IncLookup("get", "error")
		middleware.GetContextLogger(c, h.logger).WithError(err).WithField("check", name).Error("Failed to fetch health check")
		c.JSON(http.StatusBadGateway, common.NewErrorResponse(http.StatusBadGateway))
		return
	}
	if check == nil {
		h.metrics.IncLookup("get", "not_found")
		c.JSON(http.StatusNotFound, common.NewErrorResponse(http.StatusNotFound))
		return
	}

	h.metrics.IncLookup("get", "ok")
	c.JSON(http.StatusOK, check)
}

// SupportedMeasurables returns the configured allow-list.
func (h *HealthCheckHandler) SupportedMeasurables(c *gin.Context) {
	h.metrics.IncLookup("supported", "ok")
	c.JSON(http.StatusOK, h.service.SupportedMeasurables())
}
