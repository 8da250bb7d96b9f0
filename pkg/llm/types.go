package llm

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ErrInvalidModel indicates the requested backend name matches no configured
// generator.
var ErrInvalidModel = errors.New("invalid model selection")

// ErrMissingAPIKey indicates the hosted backend was selected but no API
// credential is configured.
var ErrMissingAPIKey = errors.New("openai api key is not configured")

// UpstreamError wraps a network, auth, or backend-side failure from a model
// provider. It is terminal for the request; no retries are attempted.
type UpstreamError struct {
	Backend string
	Err     error
}

func (e *UpstreamError) Error() string {
	return e.Backend + " backend failed: " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Generator describes a text-generation backend: given a prompt, return the
// model's raw reply text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

var (
	generateDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "rater",
		Subsystem: "llm",
		Name:      "generate_duration_seconds",
		Help:      "Duration of model generation requests",
	}, []string{"backend"})

	generateFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rater",
		Subsystem: "llm",
		Name:      "generate_failures_total",
		Help:      "Number of failed model generation requests",
	}, []string{"backend"})
)
