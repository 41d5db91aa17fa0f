package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/meetsy/feedback-service/internal/handlers"
)

func Setup(
	app *fiber.App,
	healthHandler *handlers.HealthHandler,
	profileHandler *handlers.ProfileFeedbackHandler,
	appHandler *handlers.AppFeedbackHandler,
) {
	app.Get("/health", healthHandler.Check)
	app.Get("/health/:echo", healthHandler.CheckEcho)

	feedback := app.Group("/feedback")

	// 120 req/min per IP across the feedback endpoints
	feedback.Use(limiter.New(limiter.Config{
		Max:               120,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// stats must register before /:id so "stats" never parses as an id
	profile := feedback.Group("/profile")
	profile.Get("/stats", profileHandler.Stats)
	profile.Get("/", profileHandler.List)
	profile.Post("/", profileHandler.Create)
	profile.Get("/:id", profileHandler.GetByID)
	profile.Patch("/:id", profileHandler.Update)
	profile.Delete("/:id", profileHandler.Delete)

	appFeedback := feedback.Group("/app")
	appFeedback.Get("/stats", appHandler.Stats)
	appFeedback.Get("/", appHandler.List)
	appFeedback.Post("/", appHandler.Create)
	appFeedback.Get("/:id", appHandler.GetByID)
	appFeedback.Patch("/:id", appHandler.Update)
	appFeedback.Delete("/:id", appHandler.Delete)
}
