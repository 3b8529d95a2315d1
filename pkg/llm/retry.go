package llm

import (
	"context"
	"errors"
	"time"

	"ai-tutor-be/pkg/apperror"

	"github.com/cenkalti/backoff/v5"
)

const defaultRetryDelay = 500 * time.Millisecond

// RetryingProvider retries a failed call exactly once. A failure that survives the retry
// comes back as *apperror.TransientProviderError.
type RetryingProvider struct {
	next  LLMProvider
	name  string
	delay time.Duration
}

var _ LLMProvider = &RetryingProvider{}

func NewRetryingProvider(next LLMProvider, name string) *RetryingProvider {
	return &RetryingProvider{next: next, name: name, delay: defaultRetryDelay}
}

// WithDelay changes the pause before the retry.
func (r *RetryingProvider) WithDelay(d time.Duration) *RetryingProvider {
	r.delay = d
	return r
}

func (r *RetryingProvider) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	return r.do(ctx, func() (string, error) {
		return r.next.Chat(ctx, history, options...)
	})
}

func (r *RetryingProvider) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	return r.do(ctx, func() (string, error) {
		return r.next.Generate(ctx, prompt, options...)
	})
}

func (r *RetryingProvider) do(ctx context.Context, call func() (string, error)) (string, error) {
	op := func() (string, error) {
		out, err := call()
		if err != nil && ctx.Err() != nil {
			// the caller gave up; another attempt cannot succeed
			return "", backoff.Permanent(err)
		}
		return out, err
	}

	out, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewConstantBackOff(r.delay)),
		backoff.WithMaxTries(2),
	)
	if err != nil {
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			err = perm.Err
		}
		return "", apperror.NewTransient(r.name, err)
	}
	return out, nil
}
