// handlers/training.go
package handlers

import (
	"strconv"
	"time"

	"betabreaker/database"
	"betabreaker/middleware"
	"betabreaker/models"

	"github.com/gofiber/fiber/v2"
)

type TrainingSessionRequest struct {
	Date      *time.Time `json:"date"`
	Duration  int        `json:"duration"`
	Focus     string     `json:"focus"`
	Intensity int        `json:"intensity"`
	Notes     string     `json:"notes"`
}

// CreateTrainingSession records a training session for the current user
func CreateTrainingSession(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req TrainingSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Duration < 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Duration must not be negative"})
	}
	if req.Intensity < 0 || req.Intensity > 10 {
		return c.Status(400).JSON(fiber.Map{"error": "Intensity must be between 0 and 10"})
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	session := models.TrainingSession{
		UserID:    userID,
		Date:      date,
		Duration:  req.Duration,
		Focus:     req.Focus,
		Intensity: req.Intensity,
		Notes:     req.Notes,
	}

	if err := database.GetDB().Create(&session).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to record training session"})
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"session": session,
	})
}

// GetTrainingSessions returns the current user's training history, newest first
func GetTrainingSessions(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	db := database.GetDB()

	var total int64
	db.Model(&models.TrainingSession{}).Where("user_id = ?", userID).Count(&total)

	var sessions []models.TrainingSession
	if err := db.Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&sessions).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch training sessions"})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"sessions": sessions,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// DeleteTrainingSession removes one of the current user's training sessions
func DeleteTrainingSession(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	result := database.GetDB().
		Where("id = ? AND user_id = ?", c.Params("id"), userID).
		Delete(&models.TrainingSession{})
	if result.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete training session"})
	}
	if result.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "Training session not found"})
	}

	return c.JSON(fiber.Map{"success": true})
}
