package context

import (
	"context"
	"fmt"
	"strings"

	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/pkg/logger"
	"ai-tutor-be/internal/repository/unitofwork"
	"ai-tutor-be/pkg/rag/prompt"
	"ai-tutor-be/pkg/rag/search"
	"ai-tutor-be/pkg/utils"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultRecentLimit = 20
	DefaultChunkLimit  = 8
)

var tracer = otel.Tracer("ai-tutor-be/rag")

// RetrievalContext is built per request and never stored.
type RetrievalContext struct {
	RecentMessages []*entity.ChatMessage
	RelevantChunks []*entity.ScoredChunk
	Summary        *string
	SkillSignals   []entity.SkillSignal
}

type SummarySource interface {
	Latest(ctx context.Context, sessionId string) (*entity.SessionSummary, error)
}

type SkillSource interface {
	Signals(ctx context.Context, sessionId string) ([]entity.SkillSignal, error)
}

type Options struct {
	RecentLimit int
	ChunkLimit  int
	// Threshold <= 0 uses the searcher's own default.
	Threshold float64
}

type Assembler struct {
	uowFactory unitofwork.RepositoryFactory
	searcher   search.Searcher
	summaries  SummarySource
	skills     SkillSource
	opts       Options
	logger     logger.ILogger
}

func NewAssembler(
	uowFactory unitofwork.RepositoryFactory,
	searcher search.Searcher,
	summaries SummarySource,
	skills SkillSource,
	opts Options,
	log logger.ILogger,
) *Assembler {
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = DefaultRecentLimit
	}
	if opts.ChunkLimit <= 0 {
		opts.ChunkLimit = DefaultChunkLimit
	}
	if opts.Threshold <= 0 {
		opts.Threshold = searcher.DefaultThreshold()
	}
	return &Assembler{
		uowFactory: uowFactory,
		searcher:   searcher,
		summaries:  summaries,
		skills:     skills,
		opts:       opts,
		logger:     log,
	}
}

// BuildContext runs the four lookups concurrently. A failed lookup leaves its field empty;
// the method itself never fails. Cancelling ctx cancels the lookups.
func (a *Assembler) BuildContext(ctx context.Context, userMessage, sessionId string) *RetrievalContext {
	ctx, span := tracer.Start(ctx, "rag.BuildContext", trace.WithAttributes(
		attribute.String("session.id", sessionId),
		attribute.String("search.strategy", a.searcher.Name()),
	))
	defer span.End()

	rc := &RetrievalContext{
		RecentMessages: []*entity.ChatMessage{},
		RelevantChunks: []*entity.ScoredChunk{},
	}

	var g errgroup.Group

	g.Go(func() error {
		msgs, ok := lookup(ctx, a.logger, "recent_messages", func(ctx context.Context) ([]*entity.ChatMessage, error) {
			return a.uowFactory.NewUnitOfWork(ctx).ChatMessageRepository().Recent(ctx, sessionId, a.opts.RecentLimit)
		})
		if ok && msgs != nil {
			rc.RecentMessages = msgs
		}
		return nil
	})

	g.Go(func() error {
		chunks, ok := lookup(ctx, a.logger, "relevant_chunks", func(ctx context.Context) ([]*entity.ScoredChunk, error) {
			return a.searcher.Search(ctx, userMessage, a.opts.ChunkLimit, a.opts.Threshold), nil
		})
		if ok && chunks != nil {
			rc.RelevantChunks = chunks
		}
		return nil
	})

	g.Go(func() error {
		latest, ok := lookup(ctx, a.logger, "summary", func(ctx context.Context) (*entity.SessionSummary, error) {
			return a.summaries.Latest(ctx, sessionId)
		})
		if ok && latest != nil {
			rc.Summary = &latest.Summary
		}
		return nil
	})

	g.Go(func() error {
		signals, ok := lookup(ctx, a.logger, "skill_signals", func(ctx context.Context) ([]entity.SkillSignal, error) {
			return a.skills.Signals(ctx, sessionId)
		})
		if ok {
			rc.SkillSignals = signals
		}
		return nil
	})

	_ = g.Wait()

	span.SetAttributes(
		attribute.Int("context.recent_messages", len(rc.RecentMessages)),
		attribute.Int("context.relevant_chunks", len(rc.RelevantChunks)),
		attribute.Bool("context.has_summary", rc.Summary != nil),
	)
	return rc
}

// lookup runs fn in its own span. Errors and panics are logged and reported as ok == false.
func lookup[T any](ctx context.Context, log logger.ILogger, name string, fn func(ctx context.Context) (T, error)) (out T, ok bool) {
	ctx, span := tracer.Start(ctx, "rag.lookup."+name)
	defer span.End()

	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lookup panicked: %v", r)
		}
		if err != nil {
			var zero T
			out, ok = zero, false
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			log.Warn("ASSEMBLER", "Context lookup failed, using empty value", map[string]interface{}{
				"lookup": name,
				"error":  err.Error(),
			})
		}
	}()

	out, err = fn(ctx)
	return out, err == nil
}

// FormatForPrompt renders the context into the enriched prompt.
func FormatForPrompt(rc *RetrievalContext, userMessage string) string {
	s := prompt.Sections{Question: userMessage}
	if rc != nil {
		if rc.Summary != nil {
			s.Summary = *rc.Summary
		}
		s.Skills = rc.SkillSignals
		s.Recent = rc.RecentMessages
		s.Documents = rc.RelevantChunks
	}
	return prompt.Format(s)
}

var triggerWords = map[string]struct{}{
	"how": {}, "what": {}, "why": {}, "when": {}, "where": {}, "which": {}, "who": {},
	"can": {}, "could": {}, "should": {}, "help": {}, "error": {}, "debug": {}, "fix": {},
	"issue": {}, "problem": {}, "bug": {}, "layout": {}, "style": {}, "center": {}, "align": {},
	"explain": {}, "example": {}, "broken": {}, "wrong": {},
}

var triggerPhrases = []string{"not working"}

// NeedsEnrichment is the cheap gate in front of BuildContext: true when the message contains
// a trigger word (whole word, any case).
func NeedsEnrichment(userMessage string) bool {
	words := utils.Words(userMessage)
	for _, w := range words {
		if _, ok := triggerWords[w]; ok {
			return true
		}
	}
	joined := " " + strings.Join(words, " ") + " "
	for _, p := range triggerPhrases {
		if strings.Contains(joined, " "+p+" ") {
			return true
		}
	}
	return false
}
