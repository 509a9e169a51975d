// handlers/gyms.go
package handlers

import (
	"betabreaker/database"
	"betabreaker/models"

	"github.com/gofiber/fiber/v2"
)

// GetGyms returns all active gyms
func GetGyms(c *fiber.Ctx) error {
	db := database.GetDB()

	query := db.Where("is_active = ?", true)
	if city := c.Query("city"); city != "" {
		query = query.Where("city LIKE ?", "%"+city+"%")
	}

	var gyms []models.Gym
	if err := query.Order("name ASC").Find(&gyms).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch gyms"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"gyms":    gyms,
	})
}

// GetGym returns a single gym by ID
func GetGym(c *fiber.Ctx) error {
	db := database.GetDB()

	var gym models.Gym
	if err := db.First(&gym, c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Gym not found"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"gym":     gym,
	})
}

// GetGymClimbs returns a gym's climb catalog
func GetGymClimbs(c *fiber.Ctx) error {
	db := database.GetDB()

	var gym models.Gym
	if err := db.First(&gym, c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Gym not found"})
	}

	query := db.Where("gym_id = ?", gym.ID)
	if !c.QueryBool("include_retired") {
		query = query.Where("is_active = ?", true)
	}
	if climbType := c.Query("type"); climbType != "" {
		query = query.Where("type = ?", climbType)
	}

	var climbs []models.Climb
	if err := query.Order("grade ASC, name ASC").Find(&climbs).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch climbs"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"gym_id":  gym.ID,
		"climbs":  climbs,
	})
}
