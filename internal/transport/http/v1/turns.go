package v1

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/xiaot623/gogo/agentloop/internal/domain"
)

// GetTurnEvents retrieves the events of a turn.
// GET /v1/turns/:turn_id/events?after_ts=&types=a,b&limit=
func (h *Handler) GetTurnEvents(c echo.Context) error {
	ctx := c.Request().Context()
	turnID := c.Param("turn_id")

	turn, err := h.store.GetTurn(ctx, turnID)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	if turn == nil {
		return errorJSON(c, http.StatusNotFound, "turn not found")
	}

	limit := intQuery(c, "limit", 100)
	afterTs := int64(0)
	if t := c.QueryParam("after_ts"); t != "" {
		if val, err := strconv.ParseInt(t, 10, 64); err == nil {
			afterTs = val
		}
	}
	var types []string
	if raw := c.QueryParam("types"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				types = append(types, t)
			}
		}
	}

	events, err := h.store.GetEvents(ctx, turnID, afterTs, types, limit)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	if events == nil {
		events = []domain.Event{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"turn":   turn,
		"events": events,
	})
}

// ListToolCalls lists the tool calls made during a turn.
// GET /v1/turns/:turn_id/tool_calls
func (h *Handler) ListToolCalls(c echo.Context) error {
	ctx := c.Request().Context()
	turnID := c.Param("turn_id")

	turn, err := h.store.GetTurn(ctx, turnID)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	if turn == nil {
		return errorJSON(c, http.StatusNotFound, "turn not found")
	}

	calls, err := h.store.ListToolCalls(ctx, turnID)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	if calls == nil {
		calls = []domain.ToolCallRecord{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"tool_calls": calls,
	})
}

// GetToolCall returns the latest journal record of a model tool call ID.
// GET /v1/tool_calls/:tool_call_id
func (h *Handler) GetToolCall(c echo.Context) error {
	tc, err := h.store.GetToolCall(c.Request().Context(), c.Param("tool_call_id"))
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	if tc == nil {
		return errorJSON(c, http.StatusNotFound, "tool call not found")
	}
	return c.JSON(http.StatusOK, tc)
}
