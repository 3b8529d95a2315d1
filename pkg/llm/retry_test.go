package llm

import (
	"context"
	"errors"
	"testing"

	"ai-tutor-be/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedProvider struct {
	errs    []error
	calls   int
	history []Message
}

func (s *scriptedProvider) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	s.history = history
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	return "ok", nil
}

func (s *scriptedProvider) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	return s.Chat(ctx, []Message{{Role: "user", Content: prompt}}, options...)
}

func TestRetryingProvider(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name      string
		errs      []error
		wantErr   bool
		wantCalls int
	}{
		{"first call succeeds", nil, false, 1},
		{"retry succeeds", []error{boom}, false, 2},
		{"both fail", []error{boom, boom}, true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &scriptedProvider{errs: tt.errs}
			p := NewRetryingProvider(next, "fake").WithDelay(0)

			out, err := p.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}})
			assert.Equal(t, tt.wantCalls, next.calls)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperror.IsTransient(err))
				assert.ErrorIs(t, err, boom)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "ok", out)
		})
	}
}

func TestComplete(t *testing.T) {
	p := &scriptedProvider{}

	_, err := Complete(context.Background(), p, "be kind", "hello")
	require.NoError(t, err)
	require.Len(t, p.history, 2)
	assert.Equal(t, "system", p.history[0].Role)
	assert.Equal(t, "hello", p.history[1].Content)

	_, err = Complete(context.Background(), p, "  ", "hello")
	require.NoError(t, err)
	assert.Len(t, p.history, 1)
}
