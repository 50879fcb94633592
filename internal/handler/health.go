package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandler serves the public root, ping and health endpoints shared
// by both services.
type HealthHandler struct {
	App     string
	Version string
}

// NewHealthHandler constructs a HealthHandler for the named service.
func NewHealthHandler(app, version string) *HealthHandler {
	return &HealthHandler{App: app, Version: version}
}

// Root handles GET /.
func (h *HealthHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("Welcome to %s", h.App),
		"version": h.Version,
	})
}

// Ping handles GET /ping.
func (h *HealthHandler) Ping(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "pong"})
}

// Health handles GET /health, used by load balancers and monitoring to
// verify the service is up.
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "healthy",
		"app":     h.App,
		"version": h.Version,
	})
}
