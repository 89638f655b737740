package routes

import (
	"github.com/wanjiru256/mentor_connect/handlers"
	"github.com/wanjiru256/mentor_connect/middleware"
	"github.com/gofiber/fiber/v2"
)

func WebsocketRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/ws", middleware.Protected(), handlers.WebsocketUpgrade, handlers.ServePush)
}
