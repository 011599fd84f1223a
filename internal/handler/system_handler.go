package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/slp-caseload/internal/service"
	appErrors "github.com/noah-isme/slp-caseload/pkg/errors"
	"github.com/noah-isme/slp-caseload/pkg/response"
)

type readinessChecker interface {
	Ready(ctx context.Context) error
	Status(ctx context.Context, recent int) (*service.SystemStatus, error)
}

// SystemHandler exposes observability endpoints.
type SystemHandler struct {
	metrics *service.MetricsService
	checker readinessChecker
}

// NewSystemHandler constructs a system handler.
func NewSystemHandler(metrics *service.MetricsService, checker readinessChecker) *SystemHandler {
	return &SystemHandler{metrics: metrics, checker: checker}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *SystemHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health responds with a generic OK payload for liveness usage.
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready pings the database.
func (h *SystemHandler) Ready(c *gin.Context) {
	if h.checker == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
		return
	}
	if err := h.checker.Ready(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Status godoc
// @Summary Database size, table counts, recent backups and runtime metrics
// @Tags System
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /system/status [get]
func (h *SystemHandler) Status(c *gin.Context) {
	if h.checker == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	status, err := h.checker.Status(c.Request.Context(), 5)
	if err != nil {
		response.Error(c, err)
		return
	}
	meta := map[string]interface{}{}
	if h.metrics != nil {
		meta["runtime"] = h.metrics.Snapshot()
	}
	response.JSON(c, http.StatusOK, status, nil, meta)
}
