package routes

import (
	"github.com/wanjiru256/mentor_connect/handlers"
	"github.com/wanjiru256/mentor_connect/middleware"
	"github.com/gofiber/fiber/v2"
)

func MentorRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/mentors", handlers.ListMentors)
	api.Get("/mentors/:mentorId", handlers.GetMentorProfile)
	api.Get("/mentors/:mentorId/availability/:date", handlers.GetMentorAvailability)

	mentor := api.Group("/mentor", middleware.Protected())
	mentor.Post("/apply", handlers.ApplyToBeAMentor)

	profile := mentor.Group("/profile")
	profile.Get("/me", handlers.GetMyMentorProfile)
	profile.Put("/me", handlers.UpdateMyMentorProfile)

	availability := mentor.Group("/availability", middleware.MentorRequired())
	availability.Post("", handlers.CreateAvailabilityRule)
	availability.Get("/me", handlers.GetMyAvailabilityRules)
	availability.Put("/:ruleId", handlers.UpdateAvailabilityRule)
	availability.Delete("/:ruleId", handlers.DeleteAvailabilityRule)
}
