package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/codeclash/arena/internal/config"
	"github.com/codeclash/arena/internal/handler"
	"github.com/codeclash/arena/internal/middleware"
	"github.com/codeclash/arena/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	RoomHandler       *handler.RoomHandler
	SubmissionHandler *handler.SubmissionHandler
	ProblemHandler    *handler.ProblemHandler
	EventHandler      *handler.EventHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	if deps.RoomHandler != nil {
		rooms := api.Group("/rooms")
		deps.RoomHandler.Register(rooms)

		if deps.SubmissionHandler != nil {
			// Submission intake shares the room group so the limiter can key
			// on the room id parameter.
			rooms.Use("/:id/submissions", middleware.RateLimit("submit", cfg.SubmitRateMax, cfg.SubmitRateWindow))
			deps.SubmissionHandler.RegisterIntake(rooms)
		}
	}

	if deps.SubmissionHandler != nil {
		submissions := api.Group("/submissions")
		deps.SubmissionHandler.Register(submissions)
	}

	if deps.ProblemHandler != nil {
		problems := api.Group("/problems")
		deps.ProblemHandler.Register(problems)
	}

	if deps.EventHandler != nil {
		events := api.Group("/events")
		deps.EventHandler.Register(events)
	}
}
