package service

import (
	"context"
	"strings"

	"ai-tutor-be/internal/dto"
	"ai-tutor-be/pkg/apperror"
	"ai-tutor-be/pkg/rag/ingest"
	"ai-tutor-be/pkg/rag/search"
)

const DefaultSearchLimit = 5

type IKnowledgeService interface {
	Ingest(ctx context.Context, request *dto.IngestRequest) (*dto.IngestResponse, error)
	Search(ctx context.Context, request *dto.SearchRequest) (*dto.SearchResponse, error)
}

type knowledgeService struct {
	ingestor  *ingest.Ingestor
	searcher  search.Searcher
	threshold float64
}

// NewKnowledgeService searches with threshold, or the searcher's default when threshold <= 0.
func NewKnowledgeService(ingestor *ingest.Ingestor, searcher search.Searcher, threshold float64) IKnowledgeService {
	if threshold <= 0 {
		threshold = searcher.DefaultThreshold()
	}
	return &knowledgeService{
		ingestor:  ingestor,
		searcher:  searcher,
		threshold: threshold,
	}
}

func (ks *knowledgeService) Ingest(ctx context.Context, request *dto.IngestRequest) (*dto.IngestResponse, error) {
	res, err := ks.ingestor.Ingest(ctx, request.Records)
	if err != nil {
		return nil, err
	}
	return &dto.IngestResponse{
		Records: res.Records,
		Chunks:  res.Chunks,
		Pruned:  res.Pruned,
	}, nil
}

func (ks *knowledgeService) Search(ctx context.Context, request *dto.SearchRequest) (*dto.SearchResponse, error) {
	query := strings.TrimSpace(request.Query)
	if query == "" {
		return nil, apperror.NewValidation("q", "must not be blank")
	}
	limit := request.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	results := ks.searcher.Search(ctx, query, limit, ks.threshold)
	return &dto.SearchResponse{
		Strategy: ks.searcher.Name(),
		Results:  dto.ToSearchResults(results),
	}, nil
}
