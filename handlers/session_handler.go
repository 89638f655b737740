package handlers

import (
	"github.com/wanjiru256/mentor_connect/database"
	"github.com/wanjiru256/mentor_connect/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	MentorID        string `json:"mentor_id" validate:"required,uuid"`
	Date            string `json:"date" validate:"required,datetime=2006-01-02"`
	Time            string `json:"time" validate:"required,datetime=15:04"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,min=1"`
}

// CreateSession books a slot for the authenticated mentee. Rejections carry a
// kind: slot_conflict means the caller should refresh the slot list,
// slot_unavailable means the time was never bookable.
func CreateSession(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	menteeID, _ := uuid.Parse(claims["user_id"].(string))

	var req CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	mentorID, _ := uuid.Parse(req.MentorID)

	session, err := bookingSvc.BookSlot(mentorID, menteeID, req.Date, req.Time, req.DurationMinutes)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

func GetMySessions(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var sessions []models.Session
	database.DB.
		Preload("Mentor").
		Preload("Mentee").
		Where("mentor_id = ? OR mentee_id = ?", userID, userID).
		Order("scheduled_at desc").
		Find(&sessions)

	return c.JSON(sessions)
}

type UpdateSessionStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=confirmed cancelled"`
	Reason *string `json:"reason,omitempty"`
}

// UpdateSessionStatus resolves accept/decline decisions: the mentor on a
// scheduled session, the mentee on a rescheduled one. Withdrawing a session
// outright goes through DELETE instead.
func UpdateSessionStatus(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	actorID, _ := uuid.Parse(claims["user_id"].(string))

	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	var req UpdateSessionStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var session *models.Session
	if req.Status == string(models.SessionConfirmed) {
		session, err = sessionSvc.Accept(sessionID, actorID)
	} else {
		reason := ""
		if req.Reason != nil {
			reason = *req.Reason
		}
		session, err = sessionSvc.Decline(sessionID, actorID, reason)
	}
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(session)
}

type RescheduleSessionRequest struct {
	NewDate string `json:"new_date" validate:"required,datetime=2006-01-02"`
	NewTime string `json:"new_time" validate:"required,datetime=15:04"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

func RescheduleSession(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	actorID, _ := uuid.Parse(claims["user_id"].(string))

	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	var req RescheduleSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	session, err := sessionSvc.Reschedule(sessionID, actorID, req.NewDate, req.NewTime, req.Reason, req.Message)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(session)
}

func ConfirmAttendance(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	actorID, _ := uuid.Parse(claims["user_id"].(string))

	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	session, err := sessionSvc.ConfirmAttendance(sessionID, actorID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(session)
}

type CancelSessionRequest struct {
	Reason string `json:"reason,omitempty"`
}

func CancelSession(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	actorID, _ := uuid.Parse(claims["user_id"].(string))

	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	var req CancelSessionRequest
	c.BodyParser(&req)

	session, err := sessionSvc.Cancel(sessionID, actorID, req.Reason)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(session)
}
