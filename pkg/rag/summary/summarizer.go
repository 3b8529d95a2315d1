package summary

import (
	"context"
	"strings"

	"ai-tutor-be/internal/constant"
	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/pkg/logger"
	"ai-tutor-be/internal/repository/unitofwork"
	"ai-tutor-be/pkg/apperror"
	"ai-tutor-be/pkg/events"
	"ai-tutor-be/pkg/llm"
	"ai-tutor-be/pkg/lock"
)

// MinMessages is the smallest session worth summarizing.
const MinMessages = 4

type Summarizer struct {
	uowFactory unitofwork.RepositoryFactory
	provider   llm.LLMProvider
	guard      lock.Guard
	publisher  events.Publisher
	logger     logger.ILogger
}

func NewSummarizer(
	uowFactory unitofwork.RepositoryFactory,
	provider llm.LLMProvider,
	guard lock.Guard,
	publisher events.Publisher,
	log logger.ILogger,
) *Summarizer {
	if guard == nil {
		guard = lock.NewLocalGuard()
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Summarizer{
		uowFactory: uowFactory,
		provider:   provider,
		guard:      guard,
		publisher:  publisher,
		logger:     log,
	}
}

// Summarize condenses the session log into a stored summary. It returns nil, nil for sessions
// below MinMessages or deleted before the summary is stored, and ErrSummaryInFlight when
// another run holds the session.
// A failing completion call degrades to a fixed summary text.
func (s *Summarizer) Summarize(ctx context.Context, sessionId string) (*entity.SessionSummary, error) {
	release, ok, err := s.guard.TryAcquire(ctx, "summary:"+sessionId)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.ErrSummaryInFlight
	}
	defer release()

	uow := s.uowFactory.NewUnitOfWork(ctx)

	messages, err := uow.ChatMessageRepository().FindAll(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if len(messages) < MinMessages {
		return nil, nil
	}

	text := s.generate(ctx, sessionId, messages)
	analysis := Analyze(messages)

	summary := &entity.SessionSummary{
		ChatSessionId: sessionId,
		Summary:       text,
		Topics:        analysis.Topics,
		SkillDeltas:   analysis.SkillDeltas,
		LearningStyle: analysis.LearningStyle,
		MessageCount:  len(messages),
	}
	stored, err := s.store(ctx, summary)
	if err != nil {
		return nil, err
	}
	if !stored {
		s.logger.Debug("SUMMARY", "Session deleted during summarization, summary dropped", map[string]interface{}{
			"session_id": sessionId,
		})
		return nil, nil
	}

	if err := s.publisher.Publish(ctx, events.SessionSummarized(sessionId, summary.MessageCount, summary.Topics)); err != nil {
		s.logger.Warn("SUMMARY", "Failed to publish summary event", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}

	s.logger.Info("SUMMARY", "Session summarized", map[string]interface{}{
		"session_id":    sessionId,
		"message_count": summary.MessageCount,
		"topics":        summary.Topics,
	})
	return summary, nil
}

// store writes the summary while holding the session row, so a concurrent delete either
// waits for it or leaves nothing to attach to. It reports false when the session is gone.
func (s *Summarizer) store(ctx context.Context, summary *entity.SessionSummary) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return false, apperror.NewDataIntegrity("store summary", err)
	}
	defer uow.Rollback()

	session, err := uow.ChatSessionRepository().FindOneForUpdate(ctx, summary.ChatSessionId)
	if err != nil {
		return false, apperror.NewDataIntegrity("store summary", err)
	}
	if session == nil {
		return false, nil
	}

	if err := uow.SessionSummaryRepository().Create(ctx, summary); err != nil {
		return false, apperror.NewDataIntegrity("store summary", err)
	}
	if err := uow.Commit(); err != nil {
		return false, apperror.NewDataIntegrity("store summary", err)
	}
	return true, nil
}

// Latest returns the newest summary or nil when the session has none.
func (s *Summarizer) Latest(ctx context.Context, sessionId string) (*entity.SessionSummary, error) {
	return s.uowFactory.NewUnitOfWork(ctx).SessionSummaryRepository().FindLatest(ctx, sessionId)
}

func (s *Summarizer) generate(ctx context.Context, sessionId string, messages []*entity.ChatMessage) string {
	reply, err := llm.Complete(ctx, s.provider, constant.SummaryInstruction, Transcript(messages),
		llm.WithTemperature(0.3),
		llm.WithMaxTokens(200),
	)
	if err == nil {
		reply = strings.TrimSpace(reply)
	}
	if err != nil || reply == "" {
		details := map[string]interface{}{"session_id": sessionId}
		if err != nil {
			details["error"] = err.Error()
		}
		s.logger.Warn("SUMMARY", "Completion failed, using fallback summary", details)
		return constant.SummaryFallback
	}
	return reply
}

// Transcript renders messages as "role: content" lines.
func Transcript(messages []*entity.ChatMessage) string {
	lines := make([]string, len(messages))
	for i, m := range messages {
		lines[i] = m.Role + ": " + m.Content
	}
	return strings.Join(lines, "\n")
}
