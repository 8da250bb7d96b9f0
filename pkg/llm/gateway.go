package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// GatewayConfig carries the backend credentials and endpoints. The OpenAI key
// may be empty; selecting "chatgpt" then fails with ErrMissingAPIKey instead
// of failing startup, since the local backend stays usable without it.
type GatewayConfig struct {
	OpenAIAPIKey  string
	OpenAIModel   string
	OllamaBaseURL string
	OllamaModel   string
	Timeout       time.Duration
	Logger        zerolog.Logger
}

// Gateway dispatches a prompt to a backend selected by model name. Names are
// matched case-insensitively, so "chatGPT" and "chatgpt" are the same backend.
type Gateway struct {
	backends map[string]Generator
	logger   zerolog.Logger
}

// NewGateway registers the configured backends under their selection names.
func NewGateway(cfg GatewayConfig) *Gateway {
	logger := cfg.Logger.With().Str("component", "llm_gateway").Logger()

	backends := map[string]Generator{}
	if cfg.OpenAIAPIKey != "" {
		generator, err := NewOpenAIGenerator(OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
			Logger: logger,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("openai backend unavailable")
		} else {
			backends["chatgpt"] = generator
		}
	}

	ollamaModel := cfg.OllamaModel
	if ollamaModel == "" {
		ollamaModel = "llama3.2"
	}
	var client *http.Client
	if cfg.Timeout > 0 {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	backends[strings.ToLower(ollamaModel)] = NewOllamaGenerator(OllamaConfig{
		BaseURL: cfg.OllamaBaseURL,
		Model:   ollamaModel,
		Client:  client,
		Logger:  logger,
	})

	return &Gateway{backends: backends, logger: logger}
}

// Register adds or replaces a backend under the given selection name.
func (g *Gateway) Register(name string, generator Generator) {
	g.backends[strings.ToLower(strings.TrimSpace(name))] = generator
}

// Generate resolves the backend for model and forwards the prompt. A single
// failed call is terminal; retry policy belongs to the caller.
func (g *Gateway) Generate(ctx context.Context, model, prompt string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(model))

	backend, ok := g.backends[name]
	if !ok {
		if name == "chatgpt" {
			return "", ErrMissingAPIKey
		}
		return "", fmt.Errorf("%w: %q", ErrInvalidModel, model)
	}

	reply, err := backend.Generate(ctx, prompt)
	if err != nil {
		g.logger.Error().Err(err).Str("backend", name).Msg("generation failed")
		return "", err
	}

	return reply, nil
}
