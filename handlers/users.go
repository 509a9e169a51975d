// handlers/users.go
package handlers

import (
	"strconv"

	"betabreaker/database"
	"betabreaker/middleware"
	"betabreaker/models"
	"betabreaker/services"

	"github.com/gofiber/fiber/v2"
)

// GetCurrentUser returns the authenticated user's profile
func GetCurrentUser(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var user models.User
	if err := db.Preload("HomeGym").First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// UpdateCurrentUser updates the authenticated user's profile
func UpdateCurrentUser(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	var req struct {
		DisplayName *string `json:"display_name"`
		Avatar      *string `json:"avatar"`
		Bio         *string `json:"bio"`
		HomeGymID   *uint   `json:"home_gym_id"`
		EmailPublic *bool   `json:"email_public"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.HomeGymID != nil {
		var gym models.Gym
		if err := db.First(&gym, *req.HomeGymID).Error; err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Home gym not found"})
		}
		user.HomeGymID = req.HomeGymID
	}
	if req.EmailPublic != nil {
		user.EmailPublic = *req.EmailPublic
	}

	if err := db.Save(&user).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// GetUserStats returns the aggregated climbing stats for the current user
func GetUserStats(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	svc := services.GetBadgeService()
	if svc == nil {
		return c.Status(500).JSON(fiber.Map{"error": "Stats service not available"})
	}

	stats, err := svc.UserStats(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to compute stats"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
}

// SearchUsers finds climbers by username or display name
func SearchUsers(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Search query required"})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit < 1 || limit > 50 {
		limit = 20
	}

	db := database.GetDB()
	var users []models.User
	if err := db.Where("(username LIKE ? OR display_name LIKE ?) AND is_guest = ? AND is_banned = ?",
		"%"+query+"%", "%"+query+"%", false, false).
		Limit(limit).
		Find(&users).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to search users"})
	}

	results := make([]fiber.Map, 0, len(users))
	for _, u := range users {
		results = append(results, fiber.Map{
			"id":           u.ID,
			"username":     u.Username,
			"display_name": u.DisplayName,
			"avatar":       u.Avatar,
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"users":   results,
	})
}

// GetUserProfile returns a public user profile
func GetUserProfile(c *fiber.Ctx) error {
	db := database.GetDB()

	var user models.User
	if err := db.Preload("HomeGym").First(&user, c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	var followerCount, followingCount int64
	db.Model(&models.Follow{}).Where("followed_id = ?", user.ID).Count(&followerCount)
	db.Model(&models.Follow{}).Where("follower_id = ?", user.ID).Count(&followingCount)

	profile := fiber.Map{
		"id":           user.ID,
		"username":     user.Username,
		"display_name": user.DisplayName,
		"avatar":       user.Avatar,
		"bio":          user.Bio,
		"home_gym":     user.HomeGym,
		"followers":    followerCount,
		"following":    followingCount,
		"created_at":   user.CreatedAt,
	}
	if user.EmailPublic && user.Email != nil {
		profile["email"] = *user.Email
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    profile,
	})
}

// FollowUser makes the current user follow another climber
func FollowUser(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	targetID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
	}
	if uint(targetID) == userID {
		return c.Status(400).JSON(fiber.Map{"error": "You cannot follow yourself"})
	}

	db := database.GetDB()

	var target models.User
	if err := db.First(&target, targetID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	follow := models.Follow{
		FollowerID: userID,
		FollowedID: uint(targetID),
	}
	var existing models.Follow
	if err := db.Where("follower_id = ? AND followed_id = ?", userID, targetID).First(&existing).Error; err == nil {
		return c.Status(409).JSON(fiber.Map{"error": "Already following this user"})
	}

	if err := db.Create(&follow).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to follow user"})
	}

	return c.Status(201).JSON(fiber.Map{"success": true})
}

// UnfollowUser removes a follow relationship
func UnfollowUser(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	result := db.Where("follower_id = ? AND followed_id = ?", userID, c.Params("id")).Delete(&models.Follow{})
	if result.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to unfollow user"})
	}
	if result.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "Not following this user"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// GetFollowers returns the users following the given user
func GetFollowers(c *fiber.Ctx) error {
	db := database.GetDB()

	var follows []models.Follow
	if err := db.Preload("Follower").Where("followed_id = ?", c.Params("id")).Find(&follows).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch followers"})
	}

	users := make([]fiber.Map, 0, len(follows))
	for _, f := range follows {
		if f.Follower == nil {
			continue
		}
		users = append(users, fiber.Map{
			"id":           f.Follower.ID,
			"username":     f.Follower.Username,
			"display_name": f.Follower.DisplayName,
			"avatar":       f.Follower.Avatar,
		})
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"followers": users,
	})
}

// GetFollowing returns the users the given user follows
func GetFollowing(c *fiber.Ctx) error {
	db := database.GetDB()

	var follows []models.Follow
	if err := db.Preload("Followed").Where("follower_id = ?", c.Params("id")).Find(&follows).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch following"})
	}

	users := make([]fiber.Map, 0, len(follows))
	for _, f := range follows {
		if f.Followed == nil {
			continue
		}
		users = append(users, fiber.Map{
			"id":           f.Followed.ID,
			"username":     f.Followed.Username,
			"display_name": f.Followed.DisplayName,
			"avatar":       f.Followed.Avatar,
		})
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"following": users,
	})
}
