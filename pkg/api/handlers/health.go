package handlers

import (
	"net/http"

	"github.com/jordanlanch/careconnect/pkg/jobs"
	"github.com/labstack/echo/v4"
)

// HealthHandler reports dependency status
type HealthHandler struct {
	monitor *jobs.Monitor
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(monitor *jobs.Monitor) *HealthHandler {
	return &HealthHandler{monitor: monitor}
}

// Health returns 200 while every configured dependency answers, 503 otherwise
func (h *HealthHandler) Health(c echo.Context) error {
	status := h.monitor.Check(c.Request().Context())
	if status.Status != jobs.StatusOK {
		return c.JSON(http.StatusServiceUnavailable, status)
	}
	return c.JSON(http.StatusOK, status)
}
