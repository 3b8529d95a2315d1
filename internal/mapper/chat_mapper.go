package mapper

import (
	"encoding/json"

	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/model"

	"gorm.io/datatypes"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Session Mappers

func (m *ChatMapper) ChatSessionToEntity(s *model.ChatSession) *entity.ChatSession {
	if s == nil {
		return nil
	}
	return &entity.ChatSession{
		Id:        s.Id,
		CreatedAt: s.CreatedAt,
	}
}

func (m *ChatMapper) ChatSessionToModel(s *entity.ChatSession) *model.ChatSession {
	if s == nil {
		return nil
	}
	return &model.ChatSession{
		Id:        s.Id,
		CreatedAt: s.CreatedAt,
	}
}

// Message Mappers

func (m *ChatMapper) ChatMessageToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}
	return &entity.ChatMessage{
		Id:            msg.Id,
		ChatSessionId: msg.ChatSessionId,
		Role:          msg.Role,
		Content:       msg.Content,
		Seq:           msg.Seq,
		CreatedAt:     msg.CreatedAt,
	}
}

func (m *ChatMapper) ChatMessageToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}
	return &model.ChatMessage{
		Id:            msg.Id,
		ChatSessionId: msg.ChatSessionId,
		Role:          msg.Role,
		Content:       msg.Content,
		Seq:           msg.Seq,
		CreatedAt:     msg.CreatedAt,
	}
}

func (m *ChatMapper) ChatMessagesToEntities(msgs []*model.ChatMessage) []*entity.ChatMessage {
	entities := make([]*entity.ChatMessage, len(msgs))
	for i, msg := range msgs {
		entities[i] = m.ChatMessageToEntity(msg)
	}
	return entities
}

// Summary Mappers

func (m *ChatMapper) SessionSummaryToEntity(s *model.SessionSummary) *entity.SessionSummary {
	if s == nil {
		return nil
	}

	var skills []entity.SkillSignal
	if len(s.SkillDeltas) > 0 {
		// Malformed JSON leaves the deltas empty rather than hiding the summary text
		_ = json.Unmarshal(s.SkillDeltas, &skills)
	}

	var style entity.LearningStyle
	if len(s.LearningStyle) > 0 {
		_ = json.Unmarshal(s.LearningStyle, &style)
	}

	return &entity.SessionSummary{
		Id:            s.Id,
		ChatSessionId: s.ChatSessionId,
		Summary:       s.Summary,
		Topics:        []string(s.Topics),
		SkillDeltas:   skills,
		LearningStyle: style,
		MessageCount:  s.MessageCount,
		CreatedAt:     s.CreatedAt,
	}
}

func (m *ChatMapper) SessionSummaryToModel(s *entity.SessionSummary) (*model.SessionSummary, error) {
	if s == nil {
		return nil, nil
	}

	skills, err := json.Marshal(s.SkillDeltas)
	if err != nil {
		return nil, err
	}
	style, err := json.Marshal(s.LearningStyle)
	if err != nil {
		return nil, err
	}

	return &model.SessionSummary{
		Id:            s.Id,
		ChatSessionId: s.ChatSessionId,
		Summary:       s.Summary,
		Topics:        datatypes.JSONSlice[string](s.Topics),
		SkillDeltas:   datatypes.JSON(skills),
		LearningStyle: datatypes.JSON(style),
		MessageCount:  s.MessageCount,
		CreatedAt:     s.CreatedAt,
	}, nil
}
