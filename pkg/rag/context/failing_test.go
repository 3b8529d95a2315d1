package context

import (
	"context"
	"errors"

	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/repository/contract"
	"ai-tutor-be/internal/repository/unitofwork"
)

type failingFactory struct{}

func (failingFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return failingUoW{unitofwork.NewMemoryRepositoryFactory().NewUnitOfWork(ctx)}
}

type failingUoW struct{ unitofwork.UnitOfWork }

func (failingUoW) ChatMessageRepository() contract.ChatMessageRepository { return failingMessages{} }

type failingMessages struct{ contract.ChatMessageRepository }

func (failingMessages) Recent(ctx context.Context, sessionId string, limit int) ([]*entity.ChatMessage, error) {
	return nil, errors.New("database unreachable")
}
