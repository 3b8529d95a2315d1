package service

import (
	"context"
	"encoding/json"

	"ai-tutor-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

type IPublisherService interface {
	// RequestSummary queues a summary run for the session and returns immediately.
	RequestSummary(ctx context.Context, sessionId string) error
}

type publisherService struct {
	topicName string
	publisher message.Publisher
}

func NewPublisherService(topicName string, publisher message.Publisher) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
	}
}

func (ps *publisherService) RequestSummary(ctx context.Context, sessionId string) error {
	payload, err := json.Marshal(dto.SummarizeSessionMessage{SessionId: sessionId})
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	return ps.publisher.Publish(ps.topicName, msg)
}
