package service

import "github.com/xiaot623/gogo/agentloop/internal/domain"

// Route decides where the turn goes after a model reply: to the tools when
// the last message is an assistant message with pending tool calls, else to the end.
func Route(history *domain.History) domain.Route {
	last, ok := history.Last()
	if ok && last.HasToolCalls() {
		return domain.RouteTools
	}
	return domain.RouteEnd
}
