package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/xiaot623/gogo/agentloop/internal/domain"
)

// ListSessions lists recent sessions, newest first.
// GET /v1/sessions
func (h *Handler) ListSessions(c echo.Context) error {
	limit := intQuery(c, "limit", 50)

	sessions, err := h.store.ListSessions(c.Request().Context(), limit)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	if sessions == nil {
		sessions = []domain.Session{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"sessions": sessions,
	})
}

// GetSession returns one session.
// GET /v1/sessions/:session_id
func (h *Handler) GetSession(c echo.Context) error {
	session, err := h.store.GetSession(c.Request().Context(), c.Param("session_id"))
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	if session == nil {
		return errorJSON(c, http.StatusNotFound, "session not found")
	}
	return c.JSON(http.StatusOK, session)
}

// ListTurns lists the turns of a session in order.
// GET /v1/sessions/:session_id/turns
func (h *Handler) ListTurns(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	session, err := h.store.GetSession(ctx, sessionID)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	if session == nil {
		return errorJSON(c, http.StatusNotFound, "session not found")
	}

	turns, err := h.store.ListTurns(ctx, sessionID)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	if turns == nil {
		turns = []domain.Turn{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"turns": turns,
	})
}
