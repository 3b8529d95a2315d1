package dto

import (
	"time"

	"ai-tutor-be/internal/entity"

	"github.com/google/uuid"
)

type SendChatRequest struct {
	SessionId string `json:"session_id" validate:"omitempty,max=64"`
	Message   string `json:"message" validate:"required,max=8000"`
}

type ChatMessageResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type SessionInfo struct {
	CreatedAt    time.Time `json:"created_at"`
	MessageCount int64     `json:"message_count"`
}

type SendChatResponse struct {
	SessionId      string                 `json:"session_id"`
	AssistantReply string                 `json:"assistant_reply"`
	RecentMessages []*ChatMessageResponse `json:"recent_messages"`
	SessionInfo    SessionInfo            `json:"session_info"`
	// Enriched is true when the reply was built from retrieved context.
	Enriched bool `json:"enriched"`
}

type DeleteSessionResponse struct {
	Deleted bool `json:"deleted"`
}

type SessionSummaryResponse struct {
	SessionId     string               `json:"session_id"`
	Summary       string               `json:"summary"`
	Topics        []string             `json:"topics"`
	SkillDeltas   []entity.SkillSignal `json:"skill_deltas"`
	LearningStyle entity.LearningStyle `json:"learning_style"`
	MessageCount  int                  `json:"message_count"`
	CreatedAt     time.Time            `json:"created_at"`
}

// SummarizeSessionMessage is the payload of a summary request on the internal bus.
type SummarizeSessionMessage struct {
	SessionId string `json:"session_id"`
}

func ToChatMessageResponses(msgs []*entity.ChatMessage) []*ChatMessageResponse {
	out := make([]*ChatMessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, &ChatMessageResponse{
			Id:        m.Id,
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	return out
}

func ToSessionSummaryResponse(s *entity.SessionSummary) *SessionSummaryResponse {
	topics := s.Topics
	if topics == nil {
		topics = []string{}
	}
	skills := s.SkillDeltas
	if skills == nil {
		skills = []entity.SkillSignal{}
	}
	return &SessionSummaryResponse{
		SessionId:     s.ChatSessionId,
		Summary:       s.Summary,
		Topics:        topics,
		SkillDeltas:   skills,
		LearningStyle: s.LearningStyle,
		MessageCount:  s.MessageCount,
		CreatedAt:     s.CreatedAt,
	}
}
