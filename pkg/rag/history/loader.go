package history

import (
	"context"
	"strings"

	"ai-tutor-be/internal/constant"
	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/repository/unitofwork"
	"ai-tutor-be/pkg/llm"
)

// Loader turns the stored conversation into completion-ready messages.
type Loader struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewLoader(uowFactory unitofwork.RepositoryFactory) *Loader {
	return &Loader{uowFactory: uowFactory}
}

// LoadConversationHistory returns the latest summary (if any) followed by the last limit messages.
func (l *Loader) LoadConversationHistory(ctx context.Context, sessionId string, limit int) ([]llm.Message, error) {
	uow := l.uowFactory.NewUnitOfWork(ctx)

	recent, err := uow.ChatMessageRepository().Recent(ctx, sessionId, limit)
	if err != nil {
		return nil, err
	}

	summary, err := uow.SessionSummaryRepository().FindLatest(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	messages := make([]llm.Message, 0, len(recent)+1)
	if summary != nil {
		messages = append(messages, SummaryMessage(summary.Summary))
	}
	return append(messages, ToLLMMessages(recent)...), nil
}

// SummaryMessage wraps a summary in a system message carrying the summary marker.
func SummaryMessage(summary string) llm.Message {
	return llm.Message{
		Role:    constant.ChatMessageRoleSystem,
		Content: constant.SummaryMarker + " " + summary,
	}
}

// IsSummary reports whether content was produced by SummaryMessage.
func IsSummary(content string) bool {
	return strings.HasPrefix(content, constant.SummaryMarker)
}

func ToLLMMessages(msgs []*entity.ChatMessage) []llm.Message {
	out := make([]llm.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, llm.Message{Role: m.Role, Content: m.Content})
	}
	return out
}
