package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/xiaot623/gogo/agentloop/internal/domain"
)

// recordEvent records an event to the journal. Failures are logged and never fail a turn.
func (s *Service) recordEvent(ctx context.Context, turnID string, eventType domain.EventType, payload interface{}) {
	if s.store == nil {
		return
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		log.Printf("WARN: failed to marshal %s payload: %v", eventType, err)
		return
	}

	event := &domain.Event{
		EventID: "evt_" + uuid.New().String()[:8],
		TurnID:  turnID,
		Ts:      time.Now().UnixMilli(),
		Type:    eventType,
		Payload: payloadBytes,
	}

	if err := s.store.CreateEvent(context.WithoutCancel(ctx), event); err != nil {
		log.Printf("WARN: failed to record %s event: %v", eventType, err)
	}
}
