// handlers/climbs.go
package handlers

import (
	"strconv"
	"time"

	"betabreaker/database"
	"betabreaker/middleware"
	"betabreaker/models"
	"betabreaker/services"

	"github.com/gofiber/fiber/v2"
)

type LogClimbRequest struct {
	ClimbID     uint       `json:"climb_id"`
	AttemptType string     `json:"attempt_type"`
	Date        *time.Time `json:"date"`
	Attempts    int        `json:"attempts"`
	Note        string     `json:"note"`
}

// LogClimb records a climb attempt and runs the badge check when the attempt
// qualifies. All newly earned badges are returned in one batch so the client
// can queue award popups.
func LogClimb(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req LogClimbRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	switch req.AttemptType {
	case models.AttemptFlashed, models.AttemptSent, models.AttemptProjected:
	default:
		return c.Status(400).JSON(fiber.Map{"error": "Invalid attempt type"})
	}

	db := database.GetDB()

	var climb models.Climb
	if err := db.First(&climb, req.ClimbID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Climb not found"})
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	attempts := req.Attempts
	if attempts < 1 {
		attempts = 1
	}
	if req.AttemptType == models.AttemptFlashed {
		attempts = 1
	}

	entry := models.ClimbLog{
		UserID:      userID,
		ClimbID:     climb.ID,
		AttemptType: req.AttemptType,
		Date:        date,
		Attempts:    attempts,
		Note:        req.Note,
	}

	if err := db.Create(&entry).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to record climb"})
	}
	entry.Climb = &climb

	newBadges := []models.Badge{}
	if models.IsQualifyingAttempt(req.AttemptType) {
		if svc := services.GetBadgeService(); svc != nil {
			newBadges = svc.CheckAndAwardBadges(userID)
		}

		username, _ := middleware.GetUsername(c)
		BroadcastFeedEvent(FeedEvent{
			Type:     "climb_logged",
			UserID:   userID,
			Username: username,
			Data: fiber.Map{
				"climb":        climb.Name,
				"grade":        climb.Grade,
				"gym_id":       climb.GymID,
				"attempt_type": req.AttemptType,
			},
		})
		for _, badge := range newBadges {
			BroadcastFeedEvent(FeedEvent{
				Type:     "badge_earned",
				UserID:   userID,
				Username: username,
				Data: fiber.Map{
					"badge": badge.Name,
					"icon":  badge.Icon,
				},
			})
		}
	}

	return c.Status(201).JSON(fiber.Map{
		"success":    true,
		"log":        entry,
		"new_badges": newBadges,
	})
}

// GetClimbLogs returns the current user's climb history, newest first
func GetClimbLogs(c *fiber.Ctx) error {
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
	db.Model(&models.ClimbLog{}).Where("user_id = ?", userID).Count(&total)

	var logs []models.ClimbLog
	if err := db.Preload("Climb").
		Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&logs).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch climb logs"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"logs":    logs,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// DeleteClimbLog removes one of the current user's projected attempts.
// Qualifying logs are immutable once recorded; badges derived from them stay.
func DeleteClimbLog(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	var entry models.ClimbLog
	if err := db.Where("id = ? AND user_id = ?", c.Params("id"), userID).First(&entry).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Climb log not found"})
	}

	if models.IsQualifyingAttempt(entry.AttemptType) {
		return c.Status(400).JSON(fiber.Map{"error": "Sent and flashed logs cannot be deleted"})
	}

	if err := db.Delete(&entry).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete climb log"})
	}

	return c.JSON(fiber.Map{"success": true})
}
