package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/ielts-tools/rater-api/internal/dto"
	"github.com/ielts-tools/rater-api/internal/rubric"
)

// previewLimit bounds the raw-reply excerpt carried in the diagnostic trace.
const previewLimit = 200

// ErrEvaluationFailed wraps any gateway or extraction failure so callers can
// treat all evaluation failures uniformly. The originating error stays
// reachable through errors.Is / errors.As.
var ErrEvaluationFailed = errors.New("llm evaluation failed")

// ModelGateway dispatches a prompt to the backend selected by model name.
type ModelGateway interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// RatingService scores writing submissions through an LLM backend.
type RatingService interface {
	Rate(ctx context.Context, req dto.WritingSubmissionRequest, debug bool) (dto.RatingResponse, error)
}

type ratingService struct {
	gateway   ModelGateway
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewRatingService constructs the rating orchestrator.
func NewRatingService(gateway ModelGateway, validate *validator.Validate, logger zerolog.Logger) RatingService {
	return &ratingService{
		gateway:   gateway,
		validator: validate,
		logger:    logger.With().Str("component", "rating_service").Logger(),
	}
}

// Rate builds the examiner prompt, forwards it to the selected backend, and
// extracts the structured rating from the reply. The result is exactly one of
// a fully populated rating or an error; partial ratings are never returned.
// The diagnostic trace is collected only when debug is set and never affects
// scoring.
func (s *ratingService) Rate(ctx context.Context, req dto.WritingSubmissionRequest, debug bool) (dto.RatingResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.RatingResponse{}, err
	}

	prompt := rubric.BuildPrompt(req)

	reply, err := s.gateway.Generate(ctx, req.Model, prompt)
	if err != nil {
		s.logger.Error().Err(err).Str("model", req.Model).Msg("model gateway failed")
		return dto.RatingResponse{}, fmt.Errorf("%w: %w", ErrEvaluationFailed, err)
	}

	rating, err := rubric.ExtractRating(reply)
	if err != nil {
		s.logger.Error().Err(err).Str("model", req.Model).Str("reply_preview", truncate(reply)).Msg("rating extraction failed")
		return dto.RatingResponse{}, fmt.Errorf("%w: %w", ErrEvaluationFailed, err)
	}

	response := dto.RatingResponse{Rating: rating}
	if debug {
		response.DebugInfo = map[string]string{"response_preview": truncate(reply)}
	}

	return response, nil
}

// truncate caps text at previewLimit runes, marking the cut with an ellipsis.
func truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLimit {
		return text
	}
	return string(runes[:previewLimit]) + "..."
}
