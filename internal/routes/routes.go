package routes

import (
	"time"

	"github.com/goaltrackhq/goaltrack-backend/internal/config"
	"github.com/goaltrackhq/goaltrack-backend/internal/handlers"
	"github.com/goaltrackhq/goaltrack-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	goalHandler *handlers.GoalHandler,
	pointsHandler *handlers.PointsHandler,
	healthHandler *handlers.HealthHandler,
) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("API is running")
	})

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Register/login take a stricter limit: 10 req/min per IP
	authLimiter := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
	api.Post("/register", authLimiter, authHandler.Register)
	api.Post("/login", authLimiter, authHandler.Login)

	// Everything touching user-owned data requires a verified token; the
	// owner id always comes from the token subject, never the body.
	protected := middleware.JWTProtected(cfg)

	api.Get("/user", protected, authHandler.Me)

	api.Post("/goals", protected, goalHandler.CreateGoal)
	api.Get("/goals", protected, goalHandler.ListGoals)
	api.Delete("/goals/:id", protected, goalHandler.DeleteGoal)

	api.Post("/completeGoals/:id", protected, goalHandler.CompleteGoal)

	api.Get("/completedGoals", protected, goalHandler.ListCompletedGoals)
	api.Delete("/completedGoals/:id", protected, goalHandler.DeleteCompletedGoal)
	api.Delete("/completedGoals", protected, goalHandler.DeleteAllCompletedGoals)

	api.Post("/increment-points", protected, pointsHandler.Increment)
	api.Post("/decrement-points", protected, pointsHandler.Decrement)
}
