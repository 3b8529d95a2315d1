package implementation

import (
	"context"
	"errors"
	"time"

	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/mapper"
	"ai-tutor-be/internal/model"
	"ai-tutor-be/internal/repository/contract"
	"ai-tutor-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionSummaryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewSessionSummaryRepository(db *gorm.DB) contract.SessionSummaryRepository {
	return &SessionSummaryRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *SessionSummaryRepositoryImpl) Create(ctx context.Context, summary *entity.SessionSummary) error {
	if summary.Id == uuid.Nil {
		summary.Id = uuid.New()
	}
	if summary.CreatedAt.IsZero() {
		summary.CreatedAt = time.Now()
	}
	m, err := r.mapper.SessionSummaryToModel(summary)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(m).Error
}

// FindLatest walks idx_session_summaries_latest, so it stays cheap for long sessions.
func (r *SessionSummaryRepositoryImpl) FindLatest(ctx context.Context, sessionId string) (*entity.SessionSummary, error) {
	var m model.SessionSummary
	query := specification.OrderBy{Field: "created_at", Desc: true}.Apply(
		specification.ByChatSessionID{ChatSessionID: sessionId}.Apply(r.db.WithContext(ctx)),
	)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SessionSummaryToEntity(&m), nil
}

func (r *SessionSummaryRepositoryImpl) DeleteBySession(ctx context.Context, sessionId string) (int64, error) {
	res := r.db.WithContext(ctx).Where("chat_session_id = ?", sessionId).Delete(&model.SessionSummary{})
	return res.RowsAffected, res.Error
}
