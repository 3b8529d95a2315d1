package service

import (
	"context"
	"encoding/json"
	"errors"

	"ai-tutor-be/internal/dto"
	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/pkg/logger"
	"ai-tutor-be/pkg/apperror"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type SessionSummarizer interface {
	Summarize(ctx context.Context, sessionId string) (*entity.SessionSummary, error)
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	summarizer SessionSummarizer
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	summarizer SessionSummarizer,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		summarizer: summarizer,
		logger:     log,
	}
}

// Consume starts the summary worker. It stops when ctx is cancelled or the subscriber closes.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

// Summary runs are detached from the chat request that queued them, so they use their own context.
// Every message is acked: a failed summary is logged and the next trigger retries it.
func (cs *consumerService) processMessage(msg *message.Message) {
	defer msg.Ack()

	var payload dto.SummarizeSessionMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.SessionId == "" {
		cs.logger.Error("SUMMARY_WORKER", "Invalid summary request", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err,
		})
		return
	}

	summary, err := cs.summarizer.Summarize(context.Background(), payload.SessionId)
	switch {
	case errors.Is(err, apperror.ErrSummaryInFlight):
		cs.logger.Debug("SUMMARY_WORKER", "Summary already running, request skipped", map[string]interface{}{
			"session_id": payload.SessionId,
		})
	case err != nil:
		cs.logger.Error("SUMMARY_WORKER", "Summary failed", map[string]interface{}{
			"session_id": payload.SessionId,
			"error":      err,
		})
	case summary == nil:
		cs.logger.Debug("SUMMARY_WORKER", "Session too short to summarize", map[string]interface{}{
			"session_id": payload.SessionId,
		})
	}
}
