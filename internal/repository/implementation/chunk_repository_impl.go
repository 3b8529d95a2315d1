package implementation

import (
	"context"
	"errors"
	"strings"

	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/mapper"
	"ai-tutor-be/internal/model"
	"ai-tutor-be/internal/repository/contract"
	"ai-tutor-be/internal/repository/specification"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChunkMapper
}

func NewChunkRepository(db *gorm.DB) contract.ChunkRepository {
	return &ChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewChunkMapper(),
	}
}

func (r *ChunkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChunkRepositoryImpl) UpsertBulk(ctx context.Context, chunks []*entity.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	// Postgres rejects an INSERT .. ON CONFLICT that touches the same key twice, so the last
	// occurrence of a key wins before the statement is built.
	latest := make(map[string]int, len(chunks))
	for i, c := range chunks {
		latest[c.Key()] = i
	}
	models := make([]*model.Chunk, 0, len(latest))
	for i, c := range chunks {
		if latest[c.Key()] == i {
			models = append(models, r.mapper.ToModel(c))
		}
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "source"}, {Name: "source_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"text", "embedding_value", "updated_at"}),
		}).Create(&models).Error
	})
}

func (r *ChunkRepositoryImpl) FindByKey(ctx context.Context, source, sourceId string) (*entity.Chunk, error) {
	var m model.Chunk
	query := r.applySpecifications(r.db.WithContext(ctx), specification.BySourceKey{Source: source, SourceId: sourceId})
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ChunkRepositoryImpl) FindBySource(ctx context.Context, source string) ([]*entity.Chunk, error) {
	var models []*model.Chunk
	query := r.applySpecifications(r.db.WithContext(ctx),
		specification.BySource{Source: source},
		specification.OrderBy{Field: "source_id"},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ChunkRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Chunk{}).Count(&count).Error
	return count, err
}

func (r *ChunkRepositoryImpl) DeleteBySourceIdPrefix(ctx context.Context, source, prefix string, keep []string) (int64, error) {
	query := r.applySpecifications(r.db.WithContext(ctx),
		specification.BySource{Source: source},
		specification.BySourceIdPrefix{Prefix: prefix},
	)
	if len(keep) > 0 {
		query = query.Where("source_id NOT IN ?", keep)
	}
	res := query.Delete(&model.Chunk{})
	return res.RowsAffected, res.Error
}

func (r *ChunkRepositoryImpl) DeleteByKeys(ctx context.Context, source string, sourceIds []string) (int64, error) {
	if len(sourceIds) == 0 {
		return 0, nil
	}
	res := r.applySpecifications(r.db.WithContext(ctx), specification.BySource{Source: source}).
		Where("source_id IN ?", sourceIds).
		Delete(&model.Chunk{})
	return res.RowsAffected, res.Error
}

// SearchSimilarWithScore returns chunks with similarity scores, filtered by threshold
func (r *ChunkRepositoryImpl) SearchSimilarWithScore(ctx context.Context, vector []float32, limit int, threshold float64) ([]*entity.ScoredChunk, error) {
	if limit <= 0 {
		return nil, nil
	}

	// Cosine distance in pgvector is: 1 - cosine_similarity
	type result struct {
		model.Chunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(vector)

	err := r.db.WithContext(ctx).
		Table("chunks").
		Select("chunks.*, 1 - (embedding_value <=> ?) AS similarity", queryVector).
		Where("embedding_value IS NOT NULL").
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Order("source ASC").
		Order("source_id ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*entity.ScoredChunk, len(results))
	for i := range results {
		scored[i] = &entity.ScoredChunk{
			Chunk:      r.mapper.ToEntity(&results[i].Chunk),
			Similarity: results[i].Similarity,
		}
	}
	return scored, nil
}

// SearchLexical ranks with postgres full text search. Terms are OR-ed so a partial match still ranks.
func (r *ChunkRepositoryImpl) SearchLexical(ctx context.Context, terms []string, limit int) ([]*entity.ScoredChunk, error) {
	if limit <= 0 || len(terms) == 0 {
		return nil, nil
	}

	type result struct {
		model.Chunk
		Similarity float64
	}
	var results []result

	tsQuery := strings.Join(terms, " | ")

	err := r.db.WithContext(ctx).
		Table("chunks").
		Select("chunks.*, ts_rank(to_tsvector('english', text), to_tsquery('english', ?)) AS similarity", tsQuery).
		Where("to_tsvector('english', text) @@ to_tsquery('english', ?)", tsQuery).
		Order("similarity DESC").
		Order("source ASC").
		Order("source_id ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*entity.ScoredChunk, len(results))
	for i := range results {
		scored[i] = &entity.ScoredChunk{
			Chunk:      r.mapper.ToEntity(&results[i].Chunk),
			Similarity: results[i].Similarity,
		}
	}
	return scored, nil
}
