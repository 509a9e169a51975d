// handlers/admin/badges.go
package admin

import (
	"betabreaker/database"
	"betabreaker/models"
	"betabreaker/services"

	"github.com/gofiber/fiber/v2"
)

// GetBadges returns the full badge catalog
func GetBadges(c *fiber.Ctx) error {
	db := database.GetDB()

	var badges []models.Badge
	if err := db.Find(&badges).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch badges"})
	}

	return c.JSON(badges)
}

// CreateBadge creates a new badge definition
func CreateBadge(c *fiber.Ctx) error {
	db := database.GetDB()

	var badge models.Badge
	if err := c.BodyParser(&badge); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if badge.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Badge name required"})
	}

	// Unknown criteria shapes are tolerated at evaluation time, but reject
	// them here so admins notice typos when authoring
	if parsed := services.ParseCriteria(badge.Criteria); parsed.Unrecognized {
		return c.Status(400).JSON(fiber.Map{"error": "Unrecognized criteria shape"})
	}

	if err := db.Create(&badge).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create badge"})
	}

	return c.Status(201).JSON(badge)
}

// UpdateBadge updates an existing badge definition
func UpdateBadge(c *fiber.Ctx) error {
	db := database.GetDB()

	var badge models.Badge
	if err := db.First(&badge, c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Badge not found"})
	}

	if err := c.BodyParser(&badge); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if parsed := services.ParseCriteria(badge.Criteria); parsed.Unrecognized {
		return c.Status(400).JSON(fiber.Map{"error": "Unrecognized criteria shape"})
	}

	if err := db.Save(&badge).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update badge"})
	}

	return c.JSON(badge)
}

// DeleteBadge deletes a badge definition
func DeleteBadge(c *fiber.Ctx) error {
	db := database.GetDB()

	if err := db.Delete(&models.Badge{}, c.Params("id")).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete badge"})
	}

	return c.JSON(fiber.Map{
		"message": "Badge deleted successfully",
	})
}
