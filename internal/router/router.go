package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/siuroma-kids/admin-api/internal/config"
	"github.com/siuroma-kids/admin-api/internal/handler"
	"github.com/siuroma-kids/admin-api/internal/middleware"
	"github.com/siuroma-kids/admin-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	CourseHandler     *handler.CourseHandler
	StudentHandler    *handler.StudentHandler
	EnrollmentHandler *handler.EnrollmentHandler
	TimetableHandler  *handler.TimetableHandler
	ReconcileHandler  *handler.ReconcileHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	admin := app.Group("/api/admin")

	if deps.CourseHandler != nil {
		courses := admin.Group("/courses", middleware.RateLimit("courses", 30, time.Minute))
		deps.CourseHandler.Register(courses)
	}

	if deps.StudentHandler != nil {
		students := admin.Group("/students")
		deps.StudentHandler.Register(students)
	}

	if deps.EnrollmentHandler != nil {
		enrollments := admin.Group("/enrollments", middleware.RateLimit("enrollments", 30, time.Minute))
		deps.EnrollmentHandler.Register(enrollments)
	}

	if deps.TimetableHandler != nil {
		timetable := admin.Group("/timetable")
		deps.TimetableHandler.Register(timetable)
	}

	if deps.ReconcileHandler != nil {
		reconcile := admin.Group("/reconcile", middleware.RateLimit("reconcile", 5, time.Minute))
		deps.ReconcileHandler.Register(reconcile)
	}
}
