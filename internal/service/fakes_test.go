package service

import (
	"context"
	"errors"
	"sync"

	"ai-tutor-be/internal/entity"
	"ai-tutor-be/internal/pkg/logger"
	"ai-tutor-be/internal/repository/contract"
	"ai-tutor-be/internal/repository/unitofwork"
	"ai-tutor-be/pkg/llm"
	"ai-tutor-be/pkg/lock"
	ragcontext "ai-tutor-be/pkg/rag/context"
	"ai-tutor-be/pkg/rag/search"
	"ai-tutor-be/pkg/rag/skill"
	"ai-tutor-be/pkg/rag/summary"
)

type fakeLLM struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts [][]llm.Message
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, history)
	return f.reply, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

func (f *fakeLLM) lastPrompt() []llm.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return nil
	}
	return f.prompts[len(f.prompts)-1]
}

type recordingPublisher struct {
	mu       sync.Mutex
	sessions []string
}

func (p *recordingPublisher) RequestSummary(ctx context.Context, sessionId string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessions = append(p.sessions, sessionId)
	return nil
}

func (p *recordingPublisher) requests() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.sessions...)
}

type fixture struct {
	factory    unitofwork.RepositoryFactory
	llm        *fakeLLM
	publisher  *recordingPublisher
	summarizer *summary.Summarizer
	service    IChatbotService
}

func newFixture(factory unitofwork.RepositoryFactory) *fixture {
	return newFixtureWithGuard(factory, nil)
}

// newFixtureWithGuard lets a test hold the summary guard itself.
func newFixtureWithGuard(factory unitofwork.RepositoryFactory, guard lock.Guard) *fixture {
	nop := logger.NewNopLogger()
	provider := &fakeLLM{reply: "Sure, let's look at that."}
	publisher := &recordingPublisher{}

	summarizer := summary.NewSummarizer(factory, provider, guard, nil, nop)
	assembler := ragcontext.NewAssembler(
		factory,
		search.NewLexicalSearcher(factory, nop),
		summarizer,
		skill.NewTracker(factory),
		ragcontext.Options{},
		nop,
	)

	return &fixture{
		factory:    factory,
		llm:        provider,
		publisher:  publisher,
		summarizer: summarizer,
		service: NewChatbotService(factory, provider, assembler, summarizer, publisher, nil,
			ChatbotOptions{}, nop, nil),
	}
}

// appendFailingFactory serves the memory stores but refuses every message write.
type appendFailingFactory struct {
	unitofwork.RepositoryFactory
}

func (f appendFailingFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return appendFailingUoW{f.RepositoryFactory.NewUnitOfWork(ctx)}
}

type appendFailingUoW struct {
	unitofwork.UnitOfWork
}

func (u appendFailingUoW) ChatMessageRepository() contract.ChatMessageRepository {
	return appendFailingMessages{u.UnitOfWork.ChatMessageRepository()}
}

type appendFailingMessages struct {
	contract.ChatMessageRepository
}

func (appendFailingMessages) Append(ctx context.Context, message *entity.ChatMessage) error {
	return errors.New("disk full")
}
