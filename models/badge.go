// models/badge.go
package models

import (
	"encoding/json"
	"time"
)

type Badge struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null;uniqueIndex" json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`

	// Criteria is the admin-authored award predicate, stored as raw JSON.
	// Recognized shapes: {"type":"first_send"}, {"type":"level","level":N},
	// and legacy flat threshold objects (climb_count, highest_grade, flash_count,
	// unique_gyms, consecutive_days, total_points). Parsed at the evaluation
	// boundary; unknown shapes are tolerated.
	Criteria json.RawMessage `gorm:"type:jsonb" json:"criteria"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserBadge struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"not null;index;uniqueIndex:idx_user_badge" json:"user_id"`
	BadgeID  uint      `gorm:"not null;index;uniqueIndex:idx_user_badge" json:"badge_id"`
	EarnedAt time.Time `json:"earned_at"`

	// Relationships
	User  User  `gorm:"foreignKey:UserID" json:"-"`
	Badge Badge `gorm:"foreignKey:BadgeID" json:"badge,omitempty"`
}

func (Badge) TableName() string {
	return "badges"
}

func (UserBadge) TableName() string {
	return "user_badges"
}
