package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/wanjiru256/mentor_connect/database"
	"github.com/wanjiru256/mentor_connect/services"
	"github.com/wanjiru256/mentor_connect/utils"
	"gorm.io/gorm"
)

var (
	slotSvc         *services.SlotService
	bookingSvc      *services.BookingService
	sessionSvc      *services.SessionService
	availabilitySvc *services.AvailabilityService
)

// InitServices wires the scheduling services onto the shared DB connection.
// Called once from main after the database is up.
func InitServices(db *gorm.DB, clock utils.Clock, notifier services.Notifier, grace time.Duration) {
	if db == nil {
		db = database.DB
	}
	slotSvc = services.NewSlotService(db)
	bookingSvc = services.NewBookingService(db, clock, notifier)
	sessionSvc = services.NewSessionService(db, clock, notifier, grace)
	availabilitySvc = services.NewAvailabilityService(db)
}

// respondServiceError maps a scheduling rejection to its HTTP status and
// includes the machine-readable kind so clients can decide whether to
// re-fetch slots or show a permission error.
func respondServiceError(c *fiber.Ctx, err error) error {
	kind, ok := services.ErrKind(err)
	if !ok {
		log.Printf("[ERROR] %v | Path: %s", err, c.Path())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	status := fiber.StatusBadRequest
	switch kind {
	case services.KindNotFound:
		status = fiber.StatusNotFound
	case services.KindSlotUnavailable, services.KindSlotConflict:
		status = fiber.StatusConflict
	case services.KindInvalidTransition:
		status = fiber.StatusUnprocessableEntity
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error(), "kind": string(kind)})
}
