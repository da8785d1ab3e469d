package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/daehan-coding/grader-go-api/internal/config"
	"github.com/daehan-coding/grader-go-api/internal/handler"
	"github.com/daehan-coding/grader-go-api/internal/middleware"
	"github.com/daehan-coding/grader-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	ProblemHandler    *handler.ProblemHandler
	SubmissionHandler *handler.SubmissionHandler
	RosterHandler     *handler.RosterHandler
	DashboardHandler  *handler.DashboardHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth", middleware.RateLimit("auth", 20, time.Minute))
		deps.AuthHandler.Register(auth)
	}

	student := api.Group("", jwtMiddleware, middleware.RequireRole("student"))
	if deps.ProblemHandler != nil {
		deps.ProblemHandler.RegisterStudent(student.Group("/problems"))
	}
	if deps.SubmissionHandler != nil {
		deps.SubmissionHandler.RegisterStudent(
			student.Group("/problems"),
			student.Group("/submissions"),
			student.Group("/history"),
		)
	}

	admin := api.Group("/admin", jwtMiddleware, middleware.RequireRole("admin"))
	if deps.ProblemHandler != nil {
		deps.ProblemHandler.RegisterAdmin(admin.Group("/problems"))
	}
	if deps.SubmissionHandler != nil {
		deps.SubmissionHandler.RegisterAdmin(admin.Group("/submissions"))
	}
	if deps.RosterHandler != nil {
		deps.RosterHandler.Register(admin.Group("/roster"))
	}
	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(admin.Group("/dashboard"))
	}
}
