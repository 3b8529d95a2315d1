package service

import (
	"context"

	"ai-tutor-be/internal/pkg/logger"
	"ai-tutor-be/pkg/events"
	pktNats "ai-tutor-be/pkg/nats"
)

// ActivityService writes every domain event from the bus to the activity log.
type ActivityService struct {
	subscriber *pktNats.Subscriber
	logger     logger.ILogger
}

func NewActivityService(sub *pktNats.Subscriber, log logger.ILogger) *ActivityService {
	return &ActivityService{
		subscriber: sub,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *ActivityService) Start(ctx context.Context) {
	if err := s.subscriber.Subscribe(ctx, "*", "tutor-activity-log", s.handleEvent); err != nil {
		s.logger.Error("ActivityService", "Failed to start activity subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("ActivityService", "Activity service started", nil)
}

func (s *ActivityService) handleEvent(ctx context.Context, event events.Event) error {
	details := make(map[string]interface{}, len(event.Payload())+1)
	for k, v := range event.Payload() {
		details[k] = v
	}
	details["occurred_at"] = event.Timestamp()
	s.logger.Info("ActivityService", event.EventType(), details)
	return nil
}
