// services/cleanup.go - Stale guest account cleanup
package services

import (
	"log"
	"time"

	"betabreaker/database"
	"betabreaker/models"
)

// CleanupService removes stale guest accounts in the background
type CleanupService struct {
	interval time.Duration
	maxAge   time.Duration
	stop     chan struct{}
}

var cleanupService *CleanupService

// InitCleanupService initializes the singleton cleanup service.
func InitCleanupService() {
	cleanupService = &CleanupService{
		interval: 24 * time.Hour,
		maxAge:   30 * 24 * time.Hour,
		stop:     make(chan struct{}),
	}
}

// GetCleanupService returns the initialized cleanup service.
func GetCleanupService() *CleanupService {
	return cleanupService
}

// Start runs the cleanup loop until Stop is called.
func (s *CleanupService) Start() {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := s.CleanupStaleGuests(); err != nil {
					log.Printf("Guest cleanup failed: %v", err)
				}
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop stops the cleanup loop.
func (s *CleanupService) Stop() {
	close(s.stop)
}

// CleanupStaleGuests deletes guest accounts inactive for the max age that
// never logged a climb. Guests with activity are kept so their logs and
// badges survive an eventual account upgrade.
func (s *CleanupService) CleanupStaleGuests() error {
	db := database.GetDB()
	if db == nil {
		return nil
	}

	cutoff := time.Now().Add(-s.maxAge)

	var stale []models.User
	if err := db.Where("is_guest = ? AND created_at < ? AND id NOT IN (SELECT DISTINCT user_id FROM climb_logs)",
		true, cutoff).
		Find(&stale).Error; err != nil {
		log.Printf("Error finding stale guests: %v", err)
		return err
	}

	if len(stale) == 0 {
		log.Println("No stale guest accounts to cleanup")
		return nil
	}

	if err := db.Delete(&stale).Error; err != nil {
		log.Printf("Error deleting stale guests: %v", err)
		return err
	}

	log.Printf("✅ Cleaned up %d stale guest accounts", len(stale))
	return nil
}
