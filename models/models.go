// models/models.go - Core Models (Badge/UserBadge defined in badge.go)
package models

import (
	"time"
)

// Climb attempt types. Only flashed and sent count toward stats and badges.
const (
	AttemptFlashed   = "flashed"
	AttemptSent      = "sent"
	AttemptProjected = "projected"
)

// Climb discipline types.
const (
	ClimbBoulder = "boulder"
	ClimbTopRope = "top_rope"
	ClimbLead    = "lead"
)

// Gym represents a climbing gym
type Gym struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null;size:100"`
	City        string    `json:"city" gorm:"size:100;index"`
	Address     string    `json:"address" gorm:"size:200"`
	Description string    `json:"description" gorm:"type:text"`
	Website     string    `json:"website" gorm:"size:200"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Climbs      []Climb   `json:"climbs,omitempty" gorm:"foreignKey:GymID"`
}

// Climb represents a route or boulder problem in a gym's catalog
type Climb struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	GymID     uint      `json:"gym_id" gorm:"not null;index"`
	Gym       *Gym      `json:"gym,omitempty" gorm:"foreignKey:GymID"`
	Name      string    `json:"name" gorm:"not null;size:100"`
	Grade     int       `json:"grade" gorm:"not null"`
	Type      string    `json:"type" gorm:"not null;size:20;default:'boulder'"` // boulder, top_rope, lead
	Color     string    `json:"color" gorm:"size:30"`
	Setter    string    `json:"setter" gorm:"size:100"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
}

// ClimbLog represents one recorded attempt at a climb.
// Badge-relevant fields (climb, attempt type, date) are immutable once created.
type ClimbLog struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"not null;index"`
	User        *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	ClimbID     uint      `json:"climb_id" gorm:"not null;index"`
	Climb       *Climb    `json:"climb,omitempty" gorm:"foreignKey:ClimbID"`
	AttemptType string    `json:"attempt_type" gorm:"not null;size:20"` // flashed, sent, projected
	Date        time.Time `json:"date" gorm:"not null;index"`
	Attempts    int       `json:"attempts" gorm:"default:1"`
	Note        string    `json:"note" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

// Follow represents one climber following another
type Follow struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FollowerID uint      `json:"follower_id" gorm:"not null;index;uniqueIndex:idx_follower_followed"`
	Follower   *User     `json:"follower,omitempty" gorm:"foreignKey:FollowerID"`
	FollowedID uint      `json:"followed_id" gorm:"not null;index;uniqueIndex:idx_follower_followed"`
	Followed   *User     `json:"followed,omitempty" gorm:"foreignKey:FollowedID"`
	CreatedAt  time.Time `json:"created_at"`
}

// TrainingSession represents an off-the-wall training session
type TrainingSession struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Date      time.Time `json:"date" gorm:"not null"`
	Duration  int       `json:"duration" gorm:"default:0"` // minutes
	Focus     string    `json:"focus" gorm:"size:50"`      // strength, endurance, technique, ...
	Intensity int       `json:"intensity" gorm:"default:0"`
	Notes     string    `json:"notes" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName methods for custom table names (optional)
func (Gym) TableName() string {
	return "gyms"
}

func (Climb) TableName() string {
	return "climbs"
}

func (ClimbLog) TableName() string {
	return "climb_logs"
}

func (Follow) TableName() string {
	return "follows"
}

func (TrainingSession) TableName() string {
	return "training_sessions"
}

// IsQualifyingAttempt reports whether an attempt type counts toward stats and badges.
func IsQualifyingAttempt(attemptType string) bool {
	return attemptType == AttemptFlashed || attemptType == AttemptSent
}
