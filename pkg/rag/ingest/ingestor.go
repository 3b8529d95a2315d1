package ingest

import (
	"context"
	"fmt"
	"strings"

	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/pkg/logger"
	"ai-tutor-be/pkg/apperror"
	"ai-tutor-be/pkg/events"
	"ai-tutor-be/pkg/rag/chunker"
	"ai-tutor-be/pkg/rag/chunkstore"
)

// Record is what content producers hand over: one source document.
type Record struct {
	Source   string `json:"source" validate:"required"`
	SourceId string `json:"source_id" validate:"required"`
	Text     string `json:"text" validate:"required"`
}

type Result struct {
	Records int   `json:"records"`
	Chunks  int   `json:"chunks"`
	Pruned  int64 `json:"pruned"`
}

type Ingestor struct {
	store       *chunkstore.Store
	maxSizeHint int
	overlap     float64
	publisher   events.Publisher
	logger      logger.ILogger
}

func NewIngestor(store *chunkstore.Store, maxSizeHint int, overlap float64, publisher events.Publisher, log logger.ILogger) *Ingestor {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Ingestor{
		store:       store,
		maxSizeHint: maxSizeHint,
		overlap:     overlap,
		publisher:   publisher,
		logger:      log,
	}
}

// ChunkKey names the i-th of n chunks of a record.
func ChunkKey(sourceId string, i, n int) string {
	if n == 1 {
		return sourceId
	}
	return fmt.Sprintf("%s#%d", sourceId, i)
}

// Ingest chunks every record and writes all chunks in one store call. Re-ingesting a record
// replaces its chunks; ones the new text no longer produces are pruned.
func (in *Ingestor) Ingest(ctx context.Context, records []Record) (*Result, error) {
	if len(records) == 0 {
		return nil, apperror.NewValidation("records", "batch is empty")
	}
	for i, r := range records {
		if strings.TrimSpace(r.Source) == "" || strings.TrimSpace(r.SourceId) == "" || strings.TrimSpace(r.Text) == "" {
			return nil, apperror.NewValidation(fmt.Sprintf("records[%d]", i), "source, source_id and text are required")
		}
	}

	// a record repeated in one batch: the last copy wins
	type recordKey struct{ source, sourceId string }
	last := make(map[recordKey]int, len(records))
	for i, r := range records {
		last[recordKey{r.Source, r.SourceId}] = i
	}

	var (
		chunks []entity.Chunk
		keep   = make(map[recordKey][]string)
		order  []recordKey
	)
	for i, r := range records {
		k := recordKey{r.Source, r.SourceId}
		if last[k] != i {
			continue
		}
		order = append(order, k)

		pieces := chunker.Chunk(r.Text, in.maxSizeHint, in.overlap)
		for j, text := range pieces {
			id := ChunkKey(r.SourceId, j, len(pieces))
			chunks = append(chunks, entity.Chunk{Source: r.Source, SourceId: id, Text: text})
			keep[k] = append(keep[k], id)
		}
	}

	if err := in.store.Upsert(ctx, chunks); err != nil {
		return nil, err
	}

	res := &Result{Records: len(order), Chunks: len(chunks)}
	for _, k := range order {
		n, err := in.store.Prune(ctx, k.source, k.sourceId, keep[k])
		if err != nil {
			return res, err
		}
		res.Pruned += n
	}

	if err := in.publisher.Publish(ctx, events.ChunksIngested(res.Records, res.Chunks, res.Pruned)); err != nil {
		in.logger.Warn("INGEST", "Failed to publish ingest event", map[string]interface{}{"error": err.Error()})
	}

	in.logger.Info("INGEST", "Records ingested", map[string]interface{}{
		"records": res.Records,
		"chunks":  res.Chunks,
		"pruned":  res.Pruned,
	})
	return res, nil
}
