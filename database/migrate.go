// database/migrate.go - Database Migration Runner
package database

import (
	"betabreaker/models"
	"log"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("🔄 Running database migrations...")

	if err := db.AutoMigrate(
		&models.User{},
		&models.Gym{},
		&models.Climb{},
		&models.ClimbLog{},
		&models.Badge{},
		&models.UserBadge{},
		&models.Follow{},
		&models.TrainingSession{},
	); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	createIndexes()

	log.Println("✅ All migrations completed successfully")
}

// createIndexes creates indexes beyond what AutoMigrate derives from tags
func createIndexes() {
	db := GetDB()

	// User indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_guest ON users(is_guest)")

	// Gym / climb catalog indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_gyms_active ON gyms(is_active)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_climbs_gym ON climbs(gym_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_climbs_grade ON climbs(grade)")

	// Climb log indexes; the engine reads per-user history ordered by date
	db.Exec("CREATE INDEX IF NOT EXISTS idx_climb_logs_user_date ON climb_logs(user_id, date DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_climb_logs_attempt ON climb_logs(attempt_type)")

	// At most one award row per (user, badge) pair
	db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_user_badge ON user_badges(user_id, badge_id)")

	// Follow indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_follows_follower ON follows(follower_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_follows_followed ON follows(followed_id)")

	// Training session indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_training_user_date ON training_sessions(user_id, date DESC)")

	log.Println("✅ Indexes created successfully")
}
