package service

import (
	"context"
	"fmt"
	"strings"

	"ai-tutor-be/internal/constant"
	"ai-tutor-be/internal/dto"
	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/pkg/logger"
	"ai-tutor-be/internal/repository/unitofwork"
	"ai-tutor-be/pkg/apperror"
	"ai-tutor-be/pkg/events"
	"ai-tutor-be/pkg/llm"
	ragcontext "ai-tutor-be/pkg/rag/context"
	"ai-tutor-be/pkg/rag/history"
	"ai-tutor-be/pkg/rag/summary"

	"github.com/google/uuid"
)

const (
	// ResponseMessageLimit is how many messages a chat turn returns to the client.
	ResponseMessageLimit = 10

	DefaultSummaryThreshold = 6
	DefaultSummaryInterval  = 6)

// IChatbotService defines the chatbot service interface
type IChatbotService interface {
	SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	GetChatHistory(ctx context.Context, sessionId string) ([]*dto.ChatMessageResponse, error)
	DeleteSession(ctx context.Context, sessionId string) (*dto.DeleteSessionResponse, error)
	GetSummary(ctx context.Context, sessionId string) (*dto.SessionSummaryResponse, error)
	SummarizeSession(ctx context.Context, sessionId string) (*dto.SessionSummaryResponse, error)
}

// SummaryStore reads stored summaries and produces new ones.
type SummaryStore interface {
	ragcontext.SummarySource
	SessionSummarizer
}

type ChatbotOptions struct {
	HistoryLimit     int
	SummaryThreshold int
	SummaryInterval  int
}

type chatbotService struct {
	uowFactory    unitofwork.RepositoryFactory
	llmProvider   llm.LLMProvider
	assembler     *ragcontext.Assembler
	historyLoader *history.Loader
	summaries     SummaryStore
	publisher     IPublisherService
	events        events.Publisher
	opts          ChatbotOptions
	logger        logger.ILogger
	promptLogger  logger.ILogger
}

func NewChatbotService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	assembler *ragcontext.Assembler,
	summaries SummaryStore,
	publisher IPublisherService,
	eventPublisher events.Publisher,
	opts ChatbotOptions,
	log logger.ILogger,
	promptLogger logger.ILogger,
) IChatbotService {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = ragcontext.DefaultRecentLimit
	}
	if opts.SummaryThreshold <= 0 {
		opts.SummaryThreshold = DefaultSummaryThreshold
	}
	if opts.SummaryInterval <= 0 {
		opts.SummaryInterval = DefaultSummaryInterval
	}
	if eventPublisher == nil {
		eventPublisher = events.NopPublisher{}
	}
	if promptLogger == nil {
		promptLogger = log
	}

	return &chatbotService{
		uowFactory:    uowFactory,
		llmProvider:   llmProvider,
		assembler:     assembler,
		historyLoader: history.NewLoader(uowFactory),
		summaries:     summaries,
		publisher:     publisher,
		events:        eventPublisher,
		opts:          opts,
		logger:        log,
		promptLogger:  promptLogger,
	}
}

// SendChat runs one tutoring turn. Store writes propagate as errors; a failing completion
// provider degrades to the fallback reply.
func (cs *chatbotService) SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	userMessage := strings.TrimSpace(request.Message)
	if userMessage == "" {
		return nil, apperror.NewValidation("message", "must not be blank")
	}

	session, err := cs.ensureSession(ctx, request.SessionId)
	if err != nil {
		return nil, err
	}

	// context is assembled from the history before this turn is stored
	enriched := ragcontext.NeedsEnrichment(userMessage)
	var rc *ragcontext.RetrievalContext
	if enriched {
		rc = cs.assembler.BuildContext(ctx, userMessage, session.Id)
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	messages := uow.ChatMessageRepository()

	if err := messages.Append(ctx, &entity.ChatMessage{
		ChatSessionId: session.Id,
		Role:          constant.ChatMessageRoleUser,
		Content:       userMessage,
	}); err != nil {
		return nil, apperror.NewDataIntegrity("append user message", err)
	}

	reply := cs.complete(ctx, session.Id, userMessage, rc)

	if err := messages.Append(ctx, &entity.ChatMessage{
		ChatSessionId: session.Id,
		Role:          constant.ChatMessageRoleAssistant,
		Content:       reply,
	}); err != nil {
		return nil, apperror.NewDataIntegrity("append assistant message", err)
	}

	count, err := messages.Count(ctx, session.Id)
	if err != nil {
		return nil, err
	}
	cs.maybeRequestSummary(ctx, session.Id, count)

	recent, err := messages.Recent(ctx, session.Id, ResponseMessageLimit)
	if err != nil {
		return nil, err
	}

	return &dto.SendChatResponse{
		SessionId:      session.Id,
		AssistantReply: reply,
		RecentMessages: dto.ToChatMessageResponses(recent),
		SessionInfo: dto.SessionInfo{
			CreatedAt:    session.CreatedAt,
			MessageCount: count,
		},
		Enriched: enriched,
	}, nil
}

func (cs *chatbotService) ensureSession(ctx context.Context, sessionId string) (*entity.ChatSession, error) {
	repo := cs.uowFactory.NewUnitOfWork(ctx).ChatSessionRepository()

	if sessionId == "" {
		sessionId = uuid.NewString()
	} else {
		existing, err := repo.FindOne(ctx, sessionId)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	session := &entity.ChatSession{Id: sessionId}
	if err := repo.Create(ctx, session); err != nil {
		// a concurrent request may have created it first
		existing, findErr := repo.FindOne(ctx, sessionId)
		if findErr == nil && existing != nil {
			return existing, nil
		}
		return nil, apperror.NewDataIntegrity("create session", err)
	}
	return session, nil
}

// complete sends the enriched prompt when rc is set, otherwise the stored history.
func (cs *chatbotService) complete(ctx context.Context, sessionId, userMessage string, rc *ragcontext.RetrievalContext) string {
	var prompt []llm.Message

	enriched := rc != nil
	if enriched {
		prompt = []llm.Message{
			{Role: constant.ChatMessageRoleSystem, Content: constant.TutorSystemPromptV1},
			{Role: constant.ChatMessageRoleUser, Content: ragcontext.FormatForPrompt(rc, userMessage)},
		}
	} else {
		// the user turn is already stored, so the history ends with it
		hist, err := cs.historyLoader.LoadConversationHistory(ctx, sessionId, cs.opts.HistoryLimit)
		if err != nil {
			cs.logger.Warn("CHATBOT", "History unavailable, sending the message alone", map[string]interface{}{
				"session_id": sessionId,
				"error":      err.Error(),
			})
			hist = []llm.Message{{Role: constant.ChatMessageRoleUser, Content: userMessage}}
		}
		prompt = append([]llm.Message{{Role: constant.ChatMessageRoleSystem, Content: constant.TutorSystemPromptV1}}, hist...)
	}

	cs.promptLogger.Debug("PROMPT", "Completion request", map[string]interface{}{
		"session_id": sessionId,
		"enriched":   enriched,
		"messages":   prompt,
	})

	reply, err := cs.llmProvider.Chat(ctx, prompt)
	if err != nil || strings.TrimSpace(reply) == "" {
		details := map[string]interface{}{"session_id": sessionId}
		if err != nil {
			details["error"] = err.Error()
		}
		cs.logger.Error("CHATBOT", "Completion failed, using fallback reply", details)
		return constant.FallbackReply
	}
	return reply
}

func (cs *chatbotService) maybeRequestSummary(ctx context.Context, sessionId string, count int64) {
	if !ShouldSummarize(count, cs.opts.SummaryThreshold, cs.opts.SummaryInterval) {
		return
	}
	if err := cs.publisher.RequestSummary(ctx, sessionId); err != nil {
		cs.logger.Error("CHATBOT", "Failed to queue summary", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}
}

// ShouldSummarize fires once the session reaches threshold messages and again every interval after.
func ShouldSummarize(count int64, threshold, interval int) bool {
	if count < int64(threshold) {
		return false
	}
	return (count-int64(threshold))%int64(interval) == 0
}

func (cs *chatbotService) GetChatHistory(ctx context.Context, sessionId string) ([]*dto.ChatMessageResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFound("session", sessionId)
	}

	msgs, err := uow.ChatMessageRepository().FindAll(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	return dto.ToChatMessageResponses(msgs), nil
}

func (cs *chatbotService) DeleteSession(ctx context.Context, sessionId string) (*dto.DeleteSessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	// the session row goes first: it waits out a summarizer holding the row, so the
	// summary delete below sees whatever that run stored
	existed, err := uow.ChatSessionRepository().Delete(ctx, sessionId)
	if err != nil {
		return nil, apperror.NewDataIntegrity("delete session", err)
	}
	if _, err := uow.SessionSummaryRepository().DeleteBySession(ctx, sessionId); err != nil {
		return nil, apperror.NewDataIntegrity("delete summaries", err)
	}
	removed, err := uow.ChatMessageRepository().DeleteBySession(ctx, sessionId)
	if err != nil {
		return nil, apperror.NewDataIntegrity("delete messages", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, apperror.NewDataIntegrity("delete session", err)
	}

	if existed {
		if err := cs.events.Publish(ctx, events.SessionDeleted(sessionId)); err != nil {
			cs.logger.Warn("CHATBOT", "Failed to publish session deleted event", map[string]interface{}{
				"session_id": sessionId,
				"error":      err.Error(),
			})
		}
		cs.logger.Info("CHATBOT", "Session deleted", map[string]interface{}{
			"session_id": sessionId,
			"messages":   removed,
		})
	}

	return &dto.DeleteSessionResponse{Deleted: existed}, nil
}

func (cs *chatbotService) GetSummary(ctx context.Context, sessionId string) (*dto.SessionSummaryResponse, error) {
	latest, err := cs.summaries.Latest(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, apperror.NewNotFound("summary", sessionId)
	}
	return dto.ToSessionSummaryResponse(latest), nil
}

// SummarizeSession summarizes on demand with the request context. A run already in flight
// for the session surfaces as ErrSummaryInFlight.
func (cs *chatbotService) SummarizeSession(ctx context.Context, sessionId string) (*dto.SessionSummaryResponse, error) {
	session, err := cs.uowFactory.NewUnitOfWork(ctx).ChatSessionRepository().FindOne(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFound("session", sessionId)
	}

	produced, err := cs.summaries.Summarize(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if produced == nil {
		return nil, apperror.NewValidation("session", fmt.Sprintf("needs at least %d messages to summarize", summary.MinMessages))
	}
	return dto.ToSessionSummaryResponse(produced), nil
}
