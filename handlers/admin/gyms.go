// handlers/admin/gyms.go
package admin

import (
	"betabreaker/database"
	"betabreaker/models"

	"github.com/gofiber/fiber/v2"
)

// CreateGym creates a new gym
func CreateGym(c *fiber.Ctx) error {
	db := database.GetDB()

	var gym models.Gym
	if err := c.BodyParser(&gym); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if gym.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Gym name required"})
	}

	if err := db.Create(&gym).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create gym"})
	}

	return c.Status(201).JSON(gym)
}

// UpdateGym updates gym details
func UpdateGym(c *fiber.Ctx) error {
	db := database.GetDB()

	var gym models.Gym
	if err := db.First(&gym, c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Gym not found"})
	}

	if err := c.BodyParser(&gym); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := db.Save(&gym).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update gym"})
	}

	return c.JSON(gym)
}

// CreateClimb adds a climb to a gym's catalog
func CreateClimb(c *fiber.Ctx) error {
	db := database.GetDB()

	var gym models.Gym
	if err := db.First(&gym, c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Gym not found"})
	}

	var climb models.Climb
	if err := c.BodyParser(&climb); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	climb.GymID = gym.ID

	if climb.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Climb name required"})
	}
	if climb.Grade < 1 {
		return c.Status(400).JSON(fiber.Map{"error": "Grade must be at least 1"})
	}
	switch climb.Type {
	case models.ClimbBoulder, models.ClimbTopRope, models.ClimbLead:
	case "":
		climb.Type = models.ClimbBoulder
	default:
		return c.Status(400).JSON(fiber.Map{"error": "Invalid climb type"})
	}

	if err := db.Create(&climb).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create climb"})
	}

	return c.Status(201).JSON(climb)
}

// RetireClimb marks a climb inactive without touching existing logs
func RetireClimb(c *fiber.Ctx) error {
	db := database.GetDB()

	var climb models.Climb
	if err := db.First(&climb, c.Params("climbId")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Climb not found"})
	}

	if err := db.Model(&climb).Update("is_active", false).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to retire climb"})
	}

	return c.JSON(fiber.Map{"success": true})
}
