package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/repository/contract"
	"ai-tutor-be/pkg/embedding"
	"ai-tutor-be/pkg/utils"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ChunkRepository keeps chunks in process memory keyed by (source, sourceId).
// Writers hold mu for the whole batch so readers never see half of one.
type ChunkRepository struct {
	cache *cache.Cache
	mu    sync.RWMutex
}

func NewChunkRepository() contract.ChunkRepository {
	return &ChunkRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (r *ChunkRepository) UpsertBulk(ctx context.Context, chunks []*entity.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for _, c := range chunks {
		stored := cloneChunk(c)
		if x, found := r.cache.Get(c.Key()); found {
			prev := x.(*entity.Chunk)
			stored.Id = prev.Id
			stored.CreatedAt = prev.CreatedAt
			stored.UpdatedAt = &now
		} else {
			if stored.Id == uuid.Nil {
				stored.Id = uuid.New()
			}
			if stored.CreatedAt.IsZero() {
				stored.CreatedAt = now
			}
		}
		r.cache.Set(c.Key(), stored, cache.NoExpiration)
	}
	return nil
}

func (r *ChunkRepository) FindByKey(ctx context.Context, source, sourceId string) (*entity.Chunk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if x, found := r.cache.Get(entity.ChunkKey(source, sourceId)); found {
		return cloneChunk(x.(*entity.Chunk)), nil
	}
	return nil, nil
}

func (r *ChunkRepository) FindBySource(ctx context.Context, source string) ([]*entity.Chunk, error) {
	var out []*entity.Chunk
	for _, c := range r.snapshot() {
		if c.Source == source {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SourceId < out[j].SourceId })
	return out, nil
}

func (r *ChunkRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(r.cache.ItemCount()), nil
}

func (r *ChunkRepository) DeleteBySourceIdPrefix(ctx context.Context, source, prefix string, keep []string) (int64, error) {
	kept := make(map[string]struct{}, len(keep))
	for _, id := range keep {
		kept[id] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for key, item := range r.cache.Items() {
		c := item.Object.(*entity.Chunk)
		if c.Source != source || !strings.HasPrefix(c.SourceId, prefix) {
			continue
		}
		if _, ok := kept[c.SourceId]; ok {
			continue
		}
		r.cache.Delete(key)
		deleted++
	}
	return deleted, nil
}

func (r *ChunkRepository) DeleteByKeys(ctx context.Context, source string, sourceIds []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for _, id := range sourceIds {
		key := entity.ChunkKey(source, id)
		if _, found := r.cache.Get(key); found {
			r.cache.Delete(key)
			deleted++
		}
	}
	return deleted, nil
}

func (r *ChunkRepository) SearchSimilarWithScore(ctx context.Context, vector []float32, limit int, threshold float64) ([]*entity.ScoredChunk, error) {
	if limit <= 0 {
		return nil, nil
	}

	var scored []*entity.ScoredChunk
	for _, c := range r.snapshot() {
		if len(c.Vector) == 0 {
			continue
		}
		sim := embedding.Cosine(vector, c.Vector)
		if sim < threshold {
			continue
		}
		scored = append(scored, &entity.ScoredChunk{Chunk: c, Similarity: sim})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Similarity != scored[j].Similarity {
			return scored[i].Similarity > scored[j].Similarity
		}
		return scored[i].Chunk.Key() < scored[j].Chunk.Key()
	})
	return truncate(scored, limit), nil
}

// SearchLexical scores a chunk by the share of query terms it contains.
// Ties go to the chunk where those terms are denser, then to key order.
func (r *ChunkRepository) SearchLexical(ctx context.Context, terms []string, limit int) ([]*entity.ScoredChunk, error) {
	if limit <= 0 || len(terms) == 0 {
		return nil, nil
	}

	type candidate struct {
		scored  *entity.ScoredChunk
		density float64
	}
	var candidates []candidate

	for _, c := range r.snapshot() {
		words := utils.Words(c.Text)
		if len(words) == 0 {
			continue
		}
		freq := utils.TermFrequencies(c.Text)

		matched, hits := 0, 0
		for _, t := range terms {
			if n := freq[t]; n > 0 {
				matched++
				hits += n
			}
		}
		if matched == 0 {
			continue
		}
		candidates = append(candidates, candidate{
			scored: &entity.ScoredChunk{
				Chunk:      c,
				Similarity: float64(matched) / float64(len(terms)),
			},
			density: float64(hits) / float64(len(words)),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.scored.Similarity != b.scored.Similarity {
			return a.scored.Similarity > b.scored.Similarity
		}
		if a.density != b.density {
			return a.density > b.density
		}
		return a.scored.Chunk.Key() < b.scored.Chunk.Key()
	})

	scored := make([]*entity.ScoredChunk, len(candidates))
	for i, c := range candidates {
		scored[i] = c.scored
	}
	return truncate(scored, limit), nil
}

// snapshot copies every chunk under the read lock.
func (r *ChunkRepository) snapshot() []*entity.Chunk {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.cache.Items()
	out := make([]*entity.Chunk, 0, len(items))
	for _, item := range items {
		out = append(out, cloneChunk(item.Object.(*entity.Chunk)))
	}
	return out
}

func cloneChunk(c *entity.Chunk) *entity.Chunk {
	out := *c
	if c.Vector != nil {
		out.Vector = append([]float32(nil), c.Vector...)
	}
	return &out
}

func truncate(scored []*entity.ScoredChunk, limit int) []*entity.ScoredChunk {
	if len(scored) > limit {
		return scored[:limit]
	}
	return scored
}
