package dto

import (
	"ai-tutor-be/internal/entity"
	"ai-tutor-be/pkg/rag/ingest"
)

type IngestRequest struct {
	Records []ingest.Record `json:"records" validate:"required,min=1,dive"`
}

type IngestResponse struct {
	Records int   `json:"records"`
	Chunks  int   `json:"chunks"`
	Pruned  int64 `json:"pruned"`
}

type SearchRequest struct {
	Query string `query:"q" validate:"required"`
	Limit int    `query:"limit" validate:"omitempty,min=1,max=50"`
}

type SearchResultResponse struct {
	Source     string  `json:"source"`
	SourceId   string  `json:"source_id"`
	Text       string  `json:"text"`
	Similarity float64 `json:"similarity"`
}

type SearchResponse struct {
	Strategy string                  `json:"strategy"`
	Results  []*SearchResultResponse `json:"results"`
}

func ToSearchResults(scored []*entity.ScoredChunk) []*SearchResultResponse {
	out := make([]*SearchResultResponse, 0, len(scored))
	for _, s := range scored {
		out = append(out, &SearchResultResponse{
			Source:     s.Chunk.Source,
			SourceId:   s.Chunk.SourceId,
			Text:       s.Chunk.Text,
			Similarity: s.Similarity,
		})
	}
	return out
}
