package unitofwork

import (
	"context"

	"ai-tutor-be/internal/repository/contract"
	"ai-tutor-be/internal/repository/memory"

	"gorm.io/gorm"
)

type RepositoryFactoryImpl struct {
	db *gorm.DB
}

func NewRepositoryFactory(db *gorm.DB) RepositoryFactory {
	return &RepositoryFactoryImpl{
		db: db,
	}
}

func (f *RepositoryFactoryImpl) NewUnitOfWork(ctx context.Context) UnitOfWork {
	// UoW is short lived per request; the transaction starts on Begin.
	return NewUnitOfWork(f.db)
}

// MemoryRepositoryFactory hands out the same process-wide stores to every unit of work.
type MemoryRepositoryFactory struct {
	chunks    contract.ChunkRepository
	sessions  contract.ChatSessionRepository
	messages  contract.ChatMessageRepository
	summaries contract.SessionSummaryRepository
}

func NewMemoryRepositoryFactory() RepositoryFactory {
	return &MemoryRepositoryFactory{
		chunks:    memory.NewChunkRepository(),
		sessions:  memory.NewSessionRepository(),
		messages:  memory.NewChatMessageRepository(),
		summaries: memory.NewSessionSummaryRepository(),
	}
}

func (f *MemoryRepositoryFactory) NewUnitOfWork(ctx context.Context) UnitOfWork {
	return &memoryUnitOfWork{f: f}
}

// memoryUnitOfWork has no transactions; each repository call is atomic on its own.
type memoryUnitOfWork struct {
	f *MemoryRepositoryFactory
}

func (u *memoryUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *memoryUnitOfWork) Commit() error                   { return nil }
func (u *memoryUnitOfWork) Rollback() error                 { return nil }

func (u *memoryUnitOfWork) ChunkRepository() contract.ChunkRepository { return u.f.chunks }
func (u *memoryUnitOfWork) ChatSessionRepository() contract.ChatSessionRepository {
	return u.f.sessions
}
func (u *memoryUnitOfWork) ChatMessageRepository() contract.ChatMessageRepository {
	return u.f.messages
}
func (u *memoryUnitOfWork) SessionSummaryRepository() contract.SessionSummaryRepository {
	return u.f.summaries
}
