package handlers

import (
	"github.com/wanjiru256/mentor_connect/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type BreakRequest struct {
	StartTime string  `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string  `json:"end_time" validate:"required,datetime=15:04"`
	Reason    *string `json:"reason,omitempty"`
}

type AvailabilityRuleRequest struct {
	DayOfWeek           *int           `json:"day_of_week,omitempty" validate:"omitempty,min=0,max=6"`
	SpecificDate        *string        `json:"specific_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	IsRecurring         bool           `json:"is_recurring"`
	StartTime           string         `json:"start_time" validate:"required,datetime=15:04"`
	EndTime             string         `json:"end_time" validate:"required,datetime=15:04"`
	SlotDurationMinutes int            `json:"slot_duration_minutes"`
	Timezone            string         `json:"timezone" validate:"required"`
	Status              string         `json:"status" validate:"omitempty,oneof=available unavailable"`
	Breaks              []BreakRequest `json:"breaks" validate:"dive"`
}

func (r *AvailabilityRuleRequest) toModel(mentorID uuid.UUID) *models.AvailabilityRule {
	rule := &models.AvailabilityRule{
		MentorID:            mentorID,
		DayOfWeek:           r.DayOfWeek,
		SpecificDate:        r.SpecificDate,
		IsRecurring:         r.IsRecurring,
		StartTime:           r.StartTime,
		EndTime:             r.EndTime,
		SlotDurationMinutes: r.SlotDurationMinutes,
		Timezone:            r.Timezone,
		Status:              r.Status,
	}
	if rule.SlotDurationMinutes == 0 {
		rule.SlotDurationMinutes = 30
	}
	if rule.Status == "" {
		rule.Status = models.RuleStatusAvailable
	}
	for _, br := range r.Breaks {
		rule.Breaks = append(rule.Breaks, models.AvailabilityBreak{
			StartTime: br.StartTime,
			EndTime:   br.EndTime,
			Reason:    br.Reason,
		})
	}
	return rule
}

func CreateAvailabilityRule(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	mentorID, _ := uuid.Parse(claims["user_id"].(string))

	var req AvailabilityRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	rule := req.toModel(mentorID)
	if err := availabilitySvc.CreateRule(rule); err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(rule)
}

func GetMyAvailabilityRules(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	mentorID, _ := uuid.Parse(claims["user_id"].(string))

	rules, err := availabilitySvc.ListRules(mentorID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(rules)
}

func UpdateAvailabilityRule(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	mentorID, _ := uuid.Parse(claims["user_id"].(string))

	ruleID, err := uuid.Parse(c.Params("ruleId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid rule id"})
	}

	var req AvailabilityRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	rule, err := availabilitySvc.UpdateRule(mentorID, ruleID, req.toModel(mentorID))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(rule)
}

func DeleteAvailabilityRule(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	mentorID, _ := uuid.Parse(claims["user_id"].(string))

	ruleID, err := uuid.Parse(c.Params("ruleId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid rule id"})
	}

	if err := availabilitySvc.DeleteRule(mentorID, ruleID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetMentorAvailability returns the derived candidate slots for one mentor
// and one date. Recomputed on every read, never cached.
func GetMentorAvailability(c *fiber.Ctx) error {
	mentorID, err := uuid.Parse(c.Params("mentorId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid mentor id"})
	}
	date := c.Params("date")

	slots, err := slotSvc.GenerateSlots(mentorID, date)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"date": date, "slots": slots})
}
