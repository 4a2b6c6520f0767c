// Package v1 provides the journal viewer handlers.
package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/xiaot623/gogo/agentloop/internal/repository"
)

// Handler serves journal records over HTTP.
type Handler struct {
	store repository.Store
}

// NewHandler creates a new handler.
func NewHandler(store repository.Store) *Handler {
	return &Handler{
		store: store,
	}
}

// RegisterRoutes registers the viewer routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/v1/sessions", h.ListSessions)
	e.GET("/v1/sessions/:session_id", h.GetSession)
	e.GET("/v1/sessions/:session_id/turns", h.ListTurns)

	e.GET("/v1/turns/:turn_id/events", h.GetTurnEvents)
	e.GET("/v1/turns/:turn_id/tool_calls", h.ListToolCalls)
	e.GET("/v1/tool_calls/:tool_call_id", h.GetToolCall)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

func errorJSON(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"error": msg})
}

func intQuery(c echo.Context, name string, def int) int {
	if v := c.QueryParam(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
