package main

import (
	"log"
	"time"

	config "github.com/wanjiru256/mentor_connect/configs"
	"github.com/wanjiru256/mentor_connect/database"
	"github.com/wanjiru256/mentor_connect/handlers"
	"github.com/wanjiru256/mentor_connect/jobs"
	"github.com/wanjiru256/mentor_connect/notifications"
	"github.com/wanjiru256/mentor_connect/routes"
	"github.com/wanjiru256/mentor_connect/services"
	"github.com/wanjiru256/mentor_connect/utils"
	ws "github.com/wanjiru256/mentor_connect/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
)

func main() {
	database.ConnectDB()
	database.Migrate()
	database.SeedAdmin()
	notifications.InitEmailService()

	clock := utils.SystemClock{}
	dispatcher := notifications.NewDispatcher(services.NewUserDirectory(database.DB), ws.Hub{})
	grace := config.ConfigDuration("MISSED_SESSION_GRACE_PERIOD", 2*time.Hour)

	handlers.InitServices(database.DB, clock, dispatcher, grace)
	jobs.Init(services.NewSessionService(database.DB, clock, dispatcher, grace))
	jobs.InitReminders(dispatcher)

	c := cron.New()
	c.AddFunc("*/5 * * * *", jobs.SweepOverdueSessions)
	c.AddFunc("*/5 * * * *", jobs.SendSessionReminders)
	go c.Start()
	log.Println("✅ Cron jobs for session sweep and reminders scheduled successfully.")

	app := fiber.New(fiber.Config{
		Prefork:           false,
		AppName:           "Mentor Connect",
		CaseSensitive:     true,
		StrictRouting:     true,
		EnablePrintRoutes: true,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to Mentor Connect API",
		})
	})

	routes.AuthRoutes(app)
	routes.ProfileRoutes(app)
	routes.MentorRoutes(app)
	routes.SessionRoutes(app)
	routes.WebsocketRoutes(app)

	go ws.RunHub()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	log.Println("✅ Server is running on port 8080")
	err := app.Listen(":8080")
	if err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
