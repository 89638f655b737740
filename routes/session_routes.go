package routes

import (
	"github.com/wanjiru256/mentor_connect/handlers"
	"github.com/wanjiru256/mentor_connect/middleware"
	"github.com/gofiber/fiber/v2"
)

func SessionRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	sessions := api.Group("/sessions", middleware.Protected())
	sessions.Post("", handlers.CreateSession)
	sessions.Get("/me", handlers.GetMySessions)
	sessions.Patch("/:sessionId/status", handlers.UpdateSessionStatus)
	sessions.Patch("/:sessionId/reschedule", handlers.RescheduleSession)
	sessions.Patch("/:sessionId/confirm", handlers.ConfirmAttendance)
	sessions.Delete("/:sessionId", handlers.CancelSession)
}
