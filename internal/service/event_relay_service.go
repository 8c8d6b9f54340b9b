package service

import (
	"context"

	"spark-journal-be/internal/pkg/logger"
	"spark-journal-be/internal/websocket"
	"spark-journal-be/pkg/events"
	pktNats "spark-journal-be/pkg/nats"

	"github.com/google/uuid"
)

// EventRelayService bridges the NATS event stream to connected websocket
// sessions. Spark pipeline events reach the editor even when they were
// published by another instance.
type EventRelayService struct {
	subscriber *pktNats.Subscriber
	hub        *websocket.Hub
	logger     logger.ILogger
}

func NewEventRelayService(sub *pktNats.Subscriber, hub *websocket.Hub, log logger.ILogger) *EventRelayService {
	return &EventRelayService{
		subscriber: sub,
		hub:        hub,
		logger:     log,
	}
}

// Start begins listening to the event bus with a durable consumer.
func (s *EventRelayService) Start() {
	err := s.subscriber.Subscribe("events.>", "spark-relay-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("EventRelayService", "Failed to start event subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("EventRelayService", "Event relay started, listening to events.>", nil)
}

func (s *EventRelayService) handleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	rawUserId, ok := payload["user_id"]
	if !ok {
		return nil
	}

	userIdStr, ok := rawUserId.(string)
	if !ok {
		return nil
	}
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		s.logger.Warn("EventRelayService", "Event carried unparseable user_id", map[string]interface{}{
			"type":    event.EventType(),
			"user_id": rawUserId,
		})
		return nil
	}

	if s.hub != nil {
		s.hub.Send(userId, event.EventType(), payload)
	}

	return nil
}
