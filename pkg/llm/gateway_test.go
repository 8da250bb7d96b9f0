package llm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ielts-tools/rater-api/pkg/llm"
)

type stubGenerator struct {
	reply string
	err   error
	calls int
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func newTestGateway(backends map[string]llm.Generator) *llm.Gateway {
	gateway := llm.NewGateway(llm.GatewayConfig{Logger: zerolog.Nop()})
	for name, generator := range backends {
		gateway.Register(name, generator)
	}
	return gateway
}

func TestGatewayRejectsUnknownModel(t *testing.T) {
	backend := &stubGenerator{reply: "unused"}
	gateway := newTestGateway(map[string]llm.Generator{"llama3.2": backend})

	_, err := gateway.Generate(context.Background(), "gpt-5000", "prompt")
	require.ErrorIs(t, err, llm.ErrInvalidModel)
	require.Zero(t, backend.calls)
}

func TestGatewayRequiresAPIKeyForChatGPT(t *testing.T) {
	// No OpenAI key configured, so the hosted backend is never registered.
	gateway := llm.NewGateway(llm.GatewayConfig{Logger: zerolog.Nop()})

	_, err := gateway.Generate(context.Background(), "chatGPT", "prompt")
	require.ErrorIs(t, err, llm.ErrMissingAPIKey)
}

func TestGatewayDispatchIsCaseInsensitive(t *testing.T) {
	backend := &stubGenerator{reply: "the reply"}
	gateway := newTestGateway(map[string]llm.Generator{"chatgpt": backend})

	reply, err := gateway.Generate(context.Background(), "ChatGPT", "prompt")
	require.NoError(t, err)
	require.Equal(t, "the reply", reply)
	require.Equal(t, 1, backend.calls)
}

func TestGatewayPropagatesUpstreamError(t *testing.T) {
	cause := errors.New("connection refused")
	backend := &stubGenerator{err: &llm.UpstreamError{Backend: "llama3.2", Err: cause}}
	gateway := newTestGateway(map[string]llm.Generator{"llama3.2": backend})

	_, err := gateway.Generate(context.Background(), "llama3.2", "prompt")
	var upstream *llm.UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.Equal(t, "llama3.2", upstream.Backend)
	require.ErrorIs(t, err, cause)
}

func TestNewOpenAIGeneratorRequiresKey(t *testing.T) {
	_, err := llm.NewOpenAIGenerator(llm.OpenAIConfig{})
	require.ErrorIs(t, err, llm.ErrMissingAPIKey)
}
