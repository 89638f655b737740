package handlers

import (
	"errors"

	"github.com/wanjiru256/mentor_connect/database"
	"github.com/wanjiru256/mentor_connect/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MentorApplicationRequest struct {
	Headline  string `json:"headline" validate:"required"`
	Bio       string `json:"bio" validate:"required"`
	Expertise string `json:"expertise" validate:"required"`
}

func ApplyToBeAMentor(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var req MentorApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var existing models.Mentor
	err := database.DB.Where("user_id = ?", userID).First(&existing).Error
	if err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "You have already submitted an application."})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	application := models.Mentor{
		UserID:    userID,
		Headline:  &req.Headline,
		Bio:       &req.Bio,
		Expertise: &req.Expertise,
	}
	if err := database.DB.Create(&application).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create application"})
	}

	return c.Status(fiber.StatusCreated).JSON(application)
}

func ListMentors(c *fiber.Ctx) error {
	var mentors []models.Mentor
	query := database.DB.Preload("User").Where("status = ?", "active")

	if expertise := c.Query("expertise"); expertise != "" {
		query = query.Where("expertise LIKE ?", "%"+expertise+"%")
	}

	if err := query.Find(&mentors).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve mentors"})
	}
	return c.JSON(mentors)
}

func GetMentorProfile(c *fiber.Ctx) error {
	mentorID := c.Params("mentorId")

	var mentor models.Mentor
	if err := database.DB.Preload("User").First(&mentor, "user_id = ? AND status = ?", mentorID, "active").Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Active mentor not found"})
	}
	return c.JSON(mentor)
}

func GetMyMentorProfile(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	mentorID, _ := uuid.Parse(claims["user_id"].(string))

	var mentor models.Mentor
	if err := database.DB.Preload("User").First(&mentor, "user_id = ?", mentorID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Mentor profile not found"})
	}
	return c.JSON(mentor)
}

func UpdateMyMentorProfile(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	mentorID, _ := uuid.Parse(claims["user_id"].(string))

	var req MentorApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var mentor models.Mentor
	if err := database.DB.First(&mentor, "user_id = ?", mentorID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Mentor profile not found"})
	}

	mentor.Headline = &req.Headline
	mentor.Bio = &req.Bio
	mentor.Expertise = &req.Expertise
	database.DB.Save(&mentor)

	return c.JSON(mentor)
}
