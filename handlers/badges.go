// handlers/badges.go
package handlers

import (
	"betabreaker/database"
	"betabreaker/middleware"
	"betabreaker/models"

	"github.com/gofiber/fiber/v2"
)

// GetUserBadges returns the full badge catalog merged with the current
// user's earned state.
func GetUserBadges(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	var earned []models.UserBadge
	if err := db.Preload("Badge").Where("user_id = ?", userID).Order("earned_at DESC").Find(&earned).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch badges"})
	}

	var catalog []models.Badge
	if err := db.Find(&catalog).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch badge catalog"})
	}

	earnedMap := make(map[uint]models.UserBadge)
	for _, ub := range earned {
		earnedMap[ub.BadgeID] = ub
	}

	badges := make([]fiber.Map, 0, len(catalog))
	for _, badge := range catalog {
		data := fiber.Map{
			"id":          badge.ID,
			"name":        badge.Name,
			"description": badge.Description,
			"icon":        badge.Icon,
			"earned":      false,
		}

		if ub, ok := earnedMap[badge.ID]; ok {
			data["earned"] = true
			data["earned_at"] = ub.EarnedAt
		}

		badges = append(badges, data)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"badges":  badges,
		"total":   len(catalog),
		"earned":  len(earned),
	})
}
