package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ielts-tools/rater-api/internal/config"
	"github.com/ielts-tools/rater-api/internal/handler"
	"github.com/ielts-tools/rater-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	RatingHandler *handler.RatingHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})

	api.Get("/health", handler.HealthCheck(cfg))

	if deps.RatingHandler != nil {
		deps.RatingHandler.Register(api.Group("/ratings"))
	}

	app.Get("/metrics", observability.MetricsHandler())
}
