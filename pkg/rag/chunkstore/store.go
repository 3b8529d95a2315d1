package chunkstore

import (
	"context"
	"strings"

	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/pkg/logger"
	"ai-tutor-be/internal/repository/unitofwork"
	"ai-tutor-be/pkg/apperror"
	"ai-tutor-be/pkg/embedding"
)

// Store writes chunks, attaching vectors first when an embedder is configured.
type Store struct {
	uowFactory unitofwork.RepositoryFactory
	embedder   embedding.EmbeddingProvider
	logger     logger.ILogger
}

// NewStore accepts a nil embedder; chunks are then stored without vectors.
func NewStore(uowFactory unitofwork.RepositoryFactory, embedder embedding.EmbeddingProvider, log logger.ILogger) *Store {
	return &Store{
		uowFactory: uowFactory,
		embedder:   embedder,
		logger:     log,
	}
}

// Upsert validates, embeds (one batch call) and writes all chunks or none.
// Caller supplied vectors are replaced.
func (s *Store) Upsert(ctx context.Context, chunks []entity.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	for i := range chunks {
		if err := validate(&chunks[i]); err != nil {
			return err
		}
	}

	batch := make([]*entity.Chunk, len(chunks))
	for i := range chunks {
		c := chunks[i]
		c.Vector = nil
		batch[i] = &c
	}

	if s.embedder != nil {
		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}

		vectors, err := s.embedder.Embed(ctx, texts, embedding.TaskRetrievalDocument)
		if err != nil {
			return apperror.NewTransient(s.embedder.Name(), err)
		}
		if err := embedding.CheckCount(s.embedder.Name(), len(texts), vectors); err != nil {
			return apperror.NewDataIntegrity("embed chunks", err)
		}
		for i, c := range batch {
			c.Vector = vectors[i]
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChunkRepository().UpsertBulk(ctx, batch); err != nil {
		s.logger.Error("CHUNK_STORE", "Upsert failed", map[string]interface{}{
			"chunks": len(batch),
			"error":  err,
		})
		return apperror.NewDataIntegrity("upsert chunks", err)
	}

	s.logger.Debug("CHUNK_STORE", "Upserted chunks", map[string]interface{}{
		"chunks":   len(batch),
		"embedded": s.embedder != nil,
	})
	return nil
}

// Prune drops chunks of a record that a re-ingest no longer produces.
func (s *Store) Prune(ctx context.Context, source, sourceId string, keep []string) (int64, error) {
	repo := s.uowFactory.NewUnitOfWork(ctx).ChunkRepository()

	pruned, err := repo.DeleteBySourceIdPrefix(ctx, source, sourceId+"#", keep)
	if err != nil {
		return 0, apperror.NewDataIntegrity("prune chunks", err)
	}

	// the unsuffixed key belongs to the single-chunk layout
	if len(keep) != 1 || keep[0] != sourceId {
		n, err := repo.DeleteByKeys(ctx, source, []string{sourceId})
		if err != nil {
			return pruned, apperror.NewDataIntegrity("prune chunks", err)
		}
		pruned += n
	}
	return pruned, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.uowFactory.NewUnitOfWork(ctx).ChunkRepository().Count(ctx)
}

func validate(c *entity.Chunk) error {
	switch {
	case strings.TrimSpace(c.Source) == "":
		return apperror.NewValidation("source", "must not be empty")
	case strings.TrimSpace(c.SourceId) == "":
		return apperror.NewValidation("source_id", "must not be empty")
	case strings.TrimSpace(c.Text) == "":
		return apperror.NewValidation("text", "must not be empty")
	}
	return nil
}
