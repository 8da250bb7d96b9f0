package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ielts-tools/rater-api/internal/dto"
	"github.com/ielts-tools/rater-api/internal/service"
	"github.com/ielts-tools/rater-api/internal/utils"
)

// RatingHandler exposes the rating endpoint.
type RatingHandler struct {
	service service.RatingService
	logger  zerolog.Logger
}

// NewRatingHandler builds a rating handler instance.
func NewRatingHandler(service service.RatingService, logger zerolog.Logger) *RatingHandler {
	return &RatingHandler{
		service: service,
		logger:  logger.With().Str("component", "rating_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *RatingHandler) Register(router fiber.Router) {
	router.Post("", h.rate)
}

func (h *RatingHandler) rate(c *fiber.Ctx) error {
	var payload dto.WritingSubmissionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	debug := c.QueryBool("debug_mode")

	response, err := h.service.Rate(c.UserContext(), payload, debug)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submission rated", response)
}

func (h *RatingHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	case errors.Is(err, service.ErrEvaluationFailed):
		// Evaluation failures are server faults; the specific kind stays in
		// the logs and the wrapped error chain.
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
