package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const examinerSystemPrompt = "You are an IELTS examiner."

// OpenAIConfig defines configuration options for the hosted OpenAI backend.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIGenerator implements Generator against the OpenAI chat completion API.
type OpenAIGenerator struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIGenerator builds the hosted backend from the provided configuration.
func NewOpenAIGenerator(cfg OpenAIConfig) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	if cfg.Model == "" {
		cfg.Model = openai.GPT4
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 500
	}

	if cfg.Temperature == 0 {
		cfg.Temperature = 0.2
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(openai.DefaultConfig(cfg.APIKey)),
		cfg:    cfg,
		tracer: otel.Tracer("github.com/ielts-tools/rater-api/pkg/llm/openai"),
		logger: logger,
	}, nil
}

// Generate sends the prompt as a user turn beneath the examiner system turn
// and returns the first completion's text.
func (g *OpenAIGenerator) Generate(parent context.Context, prompt string) (string, error) {
	ctx, span := g.tracer.Start(parent, "openai.generate", trace.WithAttributes(
		attribute.String("model", g.cfg.Model),
	))
	defer span.End()

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.cfg.Model,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: examinerSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	generateDuration.WithLabelValues("chatgpt").Observe(time.Since(start).Seconds())
	if err != nil {
		generateFailures.WithLabelValues("chatgpt").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", &UpstreamError{Backend: "chatgpt", Err: err}
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned")
		generateFailures.WithLabelValues("chatgpt").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", &UpstreamError{Backend: "chatgpt", Err: err}
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
